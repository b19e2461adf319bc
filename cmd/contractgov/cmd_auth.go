package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/contractgov/contract-api/internal/domain"
	"github.com/spf13/cobra"
)

func (c *cli) loginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			secret, err := promptSecret(cmd, password)
			if err != nil {
				return err
			}
			ctx, cancel := c.context(cmd)
			defer cancel()

			session, err := c.controller.SignIn(ctx, &domain.SignInRequest{Email: email, Password: secret})
			if err != nil {
				return err
			}
			if err := c.sessions.Save(session); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", session.User.Email)
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password (read from stdin when empty)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func (c *cli) signupCmd() *cobra.Command {
	var email, password, name string
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			secret, err := promptSecret(cmd, password)
			if err != nil {
				return err
			}
			ctx, cancel := c.context(cmd)
			defer cancel()

			session, err := c.controller.SignUp(ctx, &domain.SignUpRequest{Email: email, Password: secret, Name: name})
			if err != nil {
				return err
			}
			if err := c.sessions.Save(session); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Account created, signed in as %s\n", session.User.Email)
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password, at least 6 characters (read from stdin when empty)")
	cmd.Flags().StringVarP(&name, "name", "n", "", "Display name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := c.context(cmd)
			defer cancel()

			// the local session is dropped even if the server call fails
			_ = c.controller.SignOut(ctx)
			if err := c.sessions.Remove(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

func (c *cli) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := c.context(cmd)
			defer cancel()

			me, err := c.api.Me(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s <%s>\n", displayName(me), me.User.Email)
			if me.Profile != nil {
				fmt.Fprintf(out, "Role: %s\n", me.Profile.RoleLabel)
			}
			return nil
		},
	}
}

func displayName(me *domain.MeResponse) string {
	if me.Profile != nil && me.Profile.FullName != "" {
		return me.Profile.FullName
	}
	if me.User.Name != "" {
		return me.User.Name
	}
	return me.User.Email
}

func promptSecret(cmd *cobra.Command, given string) (string, error) {
	if given != "" {
		return given, nil
	}
	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return "", errors.New("password is required")
	}
	return line, nil
}
