package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tableside/concierge/internal/service/auth"
)

func newSignupCmd() *cobra.Command {
	var form auth.SignupForm
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := appFrom(cmd)
			res, err := a.auth.Signup(cmd.Context(), form)
			if err := a.showAlert(res.Alert, err); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Next: %s\n", res.Next)
			return nil
		},
	}
	cmd.Flags().StringVar(&form.Email, "email", "", "account email")
	cmd.Flags().StringVar(&form.Password, "password", "", "account password")
	cmd.Flags().StringVar(&form.ConfirmPassword, "confirm-password", "", "repeat the password")
	cmd.Flags().BoolVar(&form.AgreeTerms, "agree-terms", false, "accept the terms and conditions")
	return cmd
}

func newLoginCmd() *cobra.Command {
	var form auth.LoginForm
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := appFrom(cmd)
			res, err := a.auth.Login(cmd.Context(), form)
			if err := a.showAlert(res.Alert, err); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Next: %s\n", res.Next)
			return nil
		},
	}
	cmd.Flags().StringVar(&form.Email, "email", "", "account email")
	cmd.Flags().StringVar(&form.Password, "password", "", "account password")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := appFrom(cmd)
			res, err := a.auth.Logout()
			if err := a.showAlert(res.Alert, err); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Logged out.")
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := appFrom(cmd)
			if !a.auth.Authenticated() {
				return fmt.Errorf("not logged in")
			}
			user, err := a.gw.GetUser(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s (%s)\n", user.Email, user.Role)
			return nil
		},
	}
}
