package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/library-borrow-desk/library/features/command/login"
	"github.com/AntonStoeckl/library-borrow-desk/library/features/command/logout"
	"github.com/AntonStoeckl/library-borrow-desk/library/features/command/registeraccount"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/core"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell/session"
)

func (c *cli) registerCommand() *cobra.Command {
	var username, email, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a borrower account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := c.runtime(cmd.Context())
			if err != nil {
				return err
			}

			confirm := password
			if password == "" {
				if password, err = c.readPassword("Password: "); err != nil {
					return err
				}
				if confirm, err = c.readPassword("Confirm password: "); err != nil {
					return err
				}
			}

			command := registeraccount.BuildCommand(username, email, password, confirm, time.Now())

			result, err := rt.Handlers.RegisterAccount.Handle(cmd.Context(), command)
			if err != nil {
				return err
			}

			account := shell.OutputAs[core.Account](result)
			account.Password = ""

			return c.print(account, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Registered %s <%s>, sign in with: borrowdesk login --email %s\n",
					account.Username, account.Email, account.Email)
				return err
			})
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "email address, used to sign in")
	cmd.Flags().StringVar(&password, "password", "", "password (prompted when empty)")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func (c *cli) loginCommand() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and keep the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := c.runtime(cmd.Context())
			if err != nil {
				return err
			}

			if password == "" {
				if password, err = c.readPassword("Password: "); err != nil {
					return err
				}
			}

			result, err := rt.Handlers.Login.Handle(cmd.Context(), login.BuildCommand(email, password))
			if err != nil {
				return err
			}

			out := shell.OutputAs[login.Result](result)

			return c.print(out, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Signed in as %s (%s). Start with: borrowdesk %s\n",
					out.Session.Username, out.Session.Role, landingHint(out.Session))
				return err
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password (prompted when empty)")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func landingHint(s session.Session) string {
	if s.IsAdmin() {
		return "requests list --all"
	}

	return "books list"
}

func (c *cli) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := c.runtime(cmd.Context())
			if err != nil {
				return err
			}

			if _, err := rt.Handlers.Logout.Handle(cmd.Context(), logout.BuildCommand()); err != nil {
				return err
			}

			_, err = fmt.Fprintln(c.out, "Signed out.")
			return err
		},
	}
}

func (c *cli) whoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, s, err := c.currentSession(cmd.Context())
			if err != nil {
				return err
			}

			signedOut := s.IsZero()
			s.Token = ""

			return c.print(s, func(w io.Writer) error {
				if signedOut {
					_, err := fmt.Fprintln(w, "Not signed in.")
					return err
				}

				_, err := fmt.Fprintf(w, "%s <%s> (%s)\n", s.Username, s.Email, s.Role)
				return err
			})
		},
	}
}
