package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func (c *cli) dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show billing, installation and per-state figures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := c.context(cmd)
			defer cancel()
			if err := c.start(ctx); err != nil {
				return err
			}
			renderMetrics(cmd.OutOrStdout(), c.controller.Metrics())
			return nil
		},
	}
}

func (c *cli) deadlinesCmd() *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "deadlines",
		Short: "List open contracts whose execution deadline is near or past",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if days <= 0 {
				days = defaultWindowDays
			}
			ctx, cancel := c.context(cmd)
			defer cancel()
			if err := c.start(ctx); err != nil {
				return err
			}
			renderDeadlines(cmd.OutOrStdout(), c.controller.Deadlines(days))
			return nil
		},
	}
	cmd.Flags().IntVarP(&days, "days", "d", defaultWindowDays, "Alert window in days")
	return cmd
}

func (c *cli) exportCmd() *cobra.Command {
	var (
		out     string
		archive bool
	)
	cmd := &cobra.Command{
		Use:       "export pdf|xlsx",
		Short:     "Download the contract report",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"pdf", "xlsx"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := c.context(cmd)
			defer cancel()

			rep, err := c.api.Export(ctx, args[0], archive)
			if err != nil {
				return err
			}

			path := out
			if path == "" {
				path = rep.FileName
			} else if info, err := os.Stat(path); err == nil && info.IsDir() {
				path = filepath.Join(path, rep.FileName)
			}
			if err := os.WriteFile(path, rep.Content, 0o644); err != nil {
				return fmt.Errorf("failed to write report: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", path)
			if rep.StoragePath != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Archived as %s\n", rep.StoragePath)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file or directory (default: server file name in the current directory)")
	cmd.Flags().BoolVar(&archive, "archive", false, "Keep a copy in server report storage")
	return cmd
}
