package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/contractgov/contract-api/internal/client"
	"github.com/contractgov/contract-api/internal/domain"
	"github.com/contractgov/contract-api/internal/service"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func (c *cli) listCmd() *cobra.Command {
	var search string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List contracts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := c.context(cmd)
			defer cancel()
			if err := c.start(ctx); err != nil {
				return err
			}
			if err := c.controller.Navigator().ShowList(); err != nil {
				return err
			}
			renderContracts(cmd.OutOrStdout(), c.controller.Contracts(search))
			return nil
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "Filter by organization name or state code")
	return cmd
}

func (c *cli) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one contract with its contacts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := c.context(cmd)
			defer cancel()

			contract, err := c.api.Get(ctx, id)
			if err != nil {
				return err
			}
			renderContract(cmd.OutOrStdout(), *contract)
			return nil
		},
	}
}

func (c *cli) newCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a contract from a JSON file",
		Long: `Create a contract from a JSON file ("-" reads stdin). Fields left out keep
the defaults of a new contract: status Pendente and start date today.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := readPayload(cmd, file)
			if err != nil {
				return err
			}
			ctx, cancel := c.context(cmd)
			defer cancel()
			if err := c.start(ctx); err != nil {
				return err
			}

			nav := c.controller.Navigator()
			if err := nav.ShowList(); err != nil {
				return err
			}
			if err := nav.OpenNew(time.Now()); err != nil {
				return err
			}
			req := domain.RequestFromDTO(*nav.Editing())
			req.Contacts = nil
			if err := applyContractFile(&req, payload); err != nil {
				_ = nav.Cancel()
				return err
			}
			req.ID = nil

			return c.save(cmd, &req)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON contract file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func (c *cli) editCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Update a contract from a JSON file",
		Long: `Update a contract from a JSON file ("-" reads stdin). Fields in the file
replace the stored ones; a "contatos" list replaces all contacts.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			payload, err := readPayload(cmd, file)
			if err != nil {
				return err
			}
			ctx, cancel := c.context(cmd)
			defer cancel()
			if err := c.start(ctx); err != nil {
				return err
			}

			record, ok := c.controller.Contract(id)
			if !ok {
				return fmt.Errorf("contract %s: %w", id, service.ErrNotFound)
			}
			nav := c.controller.Navigator()
			if err := nav.ShowList(); err != nil {
				return err
			}
			if err := nav.OpenEdit(record); err != nil {
				return err
			}
			req := domain.RequestFromDTO(*nav.Editing())
			if err := applyContractFile(&req, payload); err != nil {
				_ = nav.Cancel()
				return err
			}
			req.ID = &id

			return c.save(cmd, &req)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON contract file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func (c *cli) save(cmd *cobra.Command, req *domain.UpsertContractRequest) error {
	ctx, cancel := c.context(cmd)
	defer cancel()

	resp, err := c.controller.Save(ctx, req)
	if err != nil {
		_ = c.controller.Navigator().Cancel()
		return describeSaveError(err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved contract %s (%s)\n", resp.ID, resp.Contract.ClientAgency)
	return nil
}

func (c *cli) deleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a contract and its contacts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := c.context(cmd)
			defer cancel()
			if err := c.start(ctx); err != nil {
				return err
			}

			confirm := func(rec domain.ContractDTO) bool {
				if yes {
					return true
				}
				return askConfirmation(cmd, fmt.Sprintf("Delete contract %s (%s)? [y/N] ", id, rec.ClientAgency))
			}
			deleted, err := c.controller.Delete(ctx, id, confirm)
			if err != nil {
				return err
			}
			if !deleted {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted contract %s\n", id)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

// applyContractFile overlays the fields present in payload onto req. A
// "contatos" list replaces the contacts outright instead of being merged
// element by element into the existing ones.
func applyContractFile(req *domain.UpsertContractRequest, payload []byte) error {
	var patch struct {
		Contacts *[]domain.ContactInput `json:"contatos"`
	}
	if err := json.Unmarshal(payload, &patch); err != nil {
		return fmt.Errorf("invalid contract file: %w", err)
	}

	kept := req.Contacts
	req.Contacts = nil
	if err := json.Unmarshal(payload, req); err != nil {
		return fmt.Errorf("invalid contract file: %w", err)
	}
	req.Contacts = kept
	if patch.Contacts != nil {
		req.Contacts = *patch.Contacts
	}
	return nil
}

func parseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid contract ID %q", raw)
	}
	return id, nil
}

func readPayload(cmd *cobra.Command, file string) ([]byte, error) {
	var (
		raw []byte
		err error
	)
	if file == "-" {
		raw, err = io.ReadAll(cmd.InOrStdin())
	} else {
		raw, err = os.ReadFile(file)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read contract file: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, fmt.Errorf("contract file %s is empty", file)
	}
	return raw, nil
}

func askConfirmation(cmd *cobra.Command, prompt string) bool {
	fmt.Fprint(cmd.ErrOrStderr(), prompt)
	line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes" || answer == "s" || answer == "sim"
}

// describeSaveError adds the server's per-field messages to a rejected save
func describeSaveError(err error) error {
	apiErr, ok := client.APIErrorFrom(err)
	if !ok || len(apiErr.Errors) == 0 {
		return err
	}
	fields := make([]string, 0, len(apiErr.Errors))
	for field := range apiErr.Errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var b strings.Builder
	b.WriteString(apiErr.Title)
	for _, field := range fields {
		fmt.Fprintf(&b, "\n  %s: %s", field, apiErr.Errors[field])
	}
	return fmt.Errorf("%w: %s", service.ErrInvalidInput, b.String())
}
