package main

import (
	"os"

	"github.com/spf13/cobra"

	"presensi/pkg/apiclient"
)

type rootOptions struct {
	BaseURL   string
	TokenFile string
}

func (o *rootOptions) services() *apiclient.Services {
	c := apiclient.New(o.BaseURL, apiclient.WithTokenStore(apiclient.NewFileTokenStore(o.TokenFile)))
	return apiclient.NewServices(c)
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "presensictl",
		Short:         "Command line client for the attendance API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	baseURL := os.Getenv("PRESENSI_API_URL")
	if baseURL == "" {
		baseURL = apiclient.DefaultBaseURL
	}
	cmd.PersistentFlags().StringVar(&opts.BaseURL, "base-url", baseURL, "API base URL (env PRESENSI_API_URL)")
	cmd.PersistentFlags().StringVar(&opts.TokenFile, "token-file", apiclient.DefaultTokenPath(), "file that stores the access token")

	cmd.AddCommand(newLoginCmd(opts))
	cmd.AddCommand(newLogoutCmd(opts))
	cmd.AddCommand(newEmployeesCmd(opts))
	cmd.AddCommand(newSchedulesCmd(opts))
	cmd.AddCommand(newAttendanceCmd(opts))
	cmd.AddCommand(newQRCmd(opts))
	return cmd
}
