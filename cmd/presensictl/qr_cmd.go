package main

import (
	"github.com/spf13/cobra"

	"presensi/pkg/apiclient"
)

func newQRCmd(opts *rootOptions) *cobra.Command {
	var autoRefresh bool

	cmd := &cobra.Command{
		Use:   "qr <schedule-id>",
		Short: "Display the attendance QR code for a work schedule with a countdown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := argID(args, 0)
			if err != nil {
				return err
			}
			d := apiclient.NewQRDisplay(opts.services().WorkSchedule, id, cmd.OutOrStdout(), autoRefresh)
			return d.Run(cmd.Context())
		},
	}

	cmd.Flags().BoolVar(&autoRefresh, "auto-refresh", true, "fetch a new token when the current one expires")
	return cmd
}
