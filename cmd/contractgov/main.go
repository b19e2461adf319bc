// Command contractgov is the terminal client for the contract API.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/contractgov/contract-api/internal/app"
	"github.com/contractgov/contract-api/internal/client"
	"github.com/contractgov/contract-api/internal/logger"
	"github.com/contractgov/contract-api/internal/service"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const defaultWindowDays = 15

// cli carries the state shared by every command of one invocation
type cli struct {
	v *viper.Viper

	logger     *zap.Logger
	sessions   *sessionFile
	gate       *app.SessionGate
	api        *client.Client
	controller *app.Controller
}

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			fmt.Fprintln(os.Stderr, "not signed in, run: contractgov login")
		} else {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	c := &cli{v: viper.New()}

	root := &cobra.Command{
		Use:           "contractgov",
		Short:         "Manage government elevator and platform installation contracts",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.String("server", "http://localhost:8080", "API base URL (env CONTRACTGOV_SERVER)")
	flags.String("session-file", "", "Session file (default ~/.contractgov/session.json)")
	flags.Duration("timeout", 30*time.Second, "Request timeout")
	flags.BoolP("verbose", "v", false, "Enable debug logging")

	c.v.SetEnvPrefix("CONTRACTGOV")
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()
	_ = c.v.BindPFlags(flags)

	root.AddCommand(
		c.loginCmd(),
		c.signupCmd(),
		c.logoutCmd(),
		c.whoamiCmd(),
		c.dashboardCmd(),
		c.deadlinesCmd(),
		c.listCmd(),
		c.showCmd(),
		c.newCmd(),
		c.editCmd(),
		c.deleteCmd(),
		c.exportCmd(),
	)
	return root
}

func (c *cli) setup(cmd *cobra.Command) error {
	log, err := logger.NewCLILogger(c.v.GetBool("verbose"))
	if err != nil {
		return err
	}
	c.logger = log

	path := c.v.GetString("session-file")
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to locate home directory: %w", err)
		}
		path = filepath.Join(home, ".contractgov", "session.json")
	}
	c.sessions = &sessionFile{path: path}

	c.gate = app.NewSessionGate()
	stored, err := c.sessions.Load()
	if err != nil {
		c.logger.Warn("ignoring unreadable session file", zap.String("path", path), zap.Error(err))
	} else if stored != nil {
		c.gate.Set(stored)
	}

	c.api = client.New(c.v.GetString("server"), c.gate,
		client.WithLogger(c.logger),
		client.WithUserAgent("contractgov-cli"),
	)
	c.controller = app.NewController(c.api, c.api, c.gate, app.NewNavigator(), c.logger)
	return nil
}

func (c *cli) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), c.v.GetDuration("timeout"))
}

// start restores the saved session and loads the contract list. A session
// the server rejects is removed from disk.
func (c *cli) start(ctx context.Context) error {
	had := c.gate.Token() != ""
	if err := c.controller.Start(ctx); err != nil {
		return err
	}
	if c.gate.Token() == "" {
		if had {
			_ = c.sessions.Remove()
		}
		return service.ErrUnauthorized
	}
	return nil
}
