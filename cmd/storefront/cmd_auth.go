package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"github.com/xenking/storefront/internal/domain/session"
	"github.com/xenking/storefront/internal/ui"
)

func (c *cli) loginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the session on this device",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if password == "" {
				password = os.Getenv("STOREFRONT_PASSWORD")
			}
			if password == "" {
				_, _ = fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return errors.Wrap(err, "read password")
				}
				password = strings.TrimSpace(line)
			}

			s, err := c.app.Sessions.SignIn(ctx, c.app.Client, session.Credentials{Email: email, Password: password})
			if errors.Is(err, session.ErrUnauthorized) {
				c.app.Reporter.Notify(ctx, ui.LevelError, ui.Message(err, "Invalid email or password"))
				return err
			}
			if err != nil {
				return c.app.Reporter.Fail(ctx, err, "Could not sign in", "")
			}
			c.app.Reporter.Notify(ctx, ui.LevelSuccess, fmt.Sprintf("Signed in as %s", s.Role))

			route, err := c.app.Router.TakeReturnPath(ctx)
			if err != nil {
				return err
			}
			if next := resumeCommand(route); next != "" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Continue with `%s`.\n", next)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (or STOREFRONT_PASSWORD, or prompt)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the session on this device",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if err := c.app.Sessions.Clear(ctx); err != nil {
				return err
			}
			c.app.Reporter.Notify(ctx, ui.LevelInfo, "Signed out")
			return nil
		},
	}
}

func (c *cli) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := c.app.Sessions.Get()
			if !s.Authenticated() {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "guest")
				return nil
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), s.Role)
			return nil
		},
	}
}
