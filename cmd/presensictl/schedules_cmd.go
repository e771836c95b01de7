package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"presensi/internal/dto"
)

func newSchedulesCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedules",
		Short: "Manage work schedules",
	}
	cmd.AddCommand(newSchedulesListCmd(opts))
	cmd.AddCommand(newSchedulesCreateCmd(opts))
	cmd.AddCommand(newSchedulesUpdateCmd(opts))
	cmd.AddCommand(newSchedulesDeleteCmd(opts))
	return cmd
}

func newSchedulesListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List work schedules",
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := opts.services().WorkSchedule.GetAll(cmd.Context())
			if err != nil {
				return err
			}
			return table(cmd.OutOrStdout(), "ID\tNAME\tSTART\tEND\tTOLERANCE\tVERSION", func(tw io.Writer) {
				for _, s := range res.WorkSchedules {
					fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%dm\t%d\n", s.ID, s.Name, s.StartTime, s.EndTime, s.ToleranceMinutes, s.Version)
				}
			})
		},
	}
}

func newSchedulesCreateCmd(opts *rootOptions) *cobra.Command {
	var req dto.CreateWorkScheduleRequest

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a work schedule",
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := opts.services().WorkSchedule.Create(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Work schedule created: id=%d %s %s-%s\n", res.ID, res.Name, res.StartTime, res.EndTime)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "schedule name")
	cmd.Flags().StringVar(&req.StartTime, "start", "", "start time HH:MM")
	cmd.Flags().StringVar(&req.EndTime, "end", "", "end time HH:MM")
	cmd.Flags().IntVar(&req.ToleranceMinutes, "tolerance", 0, "minutes after start still counted as on time")
	return cmd
}

func newSchedulesUpdateCmd(opts *rootOptions) *cobra.Command {
	var req dto.UpdateWorkScheduleRequest

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a work schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := argID(args, 0)
			if err != nil {
				return err
			}
			res, err := opts.services().WorkSchedule.Update(cmd.Context(), id, req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Work schedule updated: id=%d version=%d\n", res.ID, res.Version)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "schedule name")
	cmd.Flags().StringVar(&req.StartTime, "start", "", "start time HH:MM")
	cmd.Flags().StringVar(&req.EndTime, "end", "", "end time HH:MM")
	cmd.Flags().IntVar(&req.ToleranceMinutes, "tolerance", 0, "minutes after start still counted as on time")
	cmd.Flags().IntVar(&req.Version, "version", 0, "expected version; 0 skips the conflict check")
	return cmd
}

func newSchedulesDeleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a work schedule and its assignments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := argID(args, 0)
			if err != nil {
				return err
			}
			if err := opts.services().WorkSchedule.DeleteByID(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Work schedule deleted")
			return nil
		},
	}
}
