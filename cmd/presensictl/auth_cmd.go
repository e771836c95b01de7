package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newLoginCmd(opts *rootOptions) *cobra.Command {
	var email, nik, password string

	cmd := &cobra.Command{
		Use:   "login (--email <email> | --nik <nik>) --password <password>",
		Short: "Log in as admin (email) or employee (NIK) and store the token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			auth := opts.services().Auth
			switch {
			case email != "":
				res, err := auth.AdminLogin(cmd.Context(), email, password)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Logged in as admin %s (token valid %ds)\n", res.Admin.Email, res.ExpiresIn)
			case nik != "":
				res, err := auth.EmployeeLogin(cmd.Context(), nik, password)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", res.Employee.Name, res.Employee.NIK)
			default:
				return errors.New("--email or --nik is required")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "admin email")
	cmd.Flags().StringVar(&nik, "nik", "", "employee NIK")
	cmd.Flags().StringVar(&password, "password", "", "password")
	return cmd
}

func newLogoutCmd(opts *rootOptions) *cobra.Command {
	var role string

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Revoke the stored token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if role != "admin" && role != "employee" {
				return errors.New("--role must be admin or employee")
			}
			if err := opts.services().Auth.Logout(cmd.Context(), role); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}

	cmd.Flags().StringVar(&role, "role", "admin", "admin or employee")
	return cmd
}
