package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"presensi/pkg/apiclient"
)

func newAttendanceCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attendance",
		Short: "Attendance records, check-in and check-out",
	}
	cmd.AddCommand(newAttendanceListCmd(opts))
	cmd.AddCommand(newAttendanceExportCmd(opts))
	cmd.AddCommand(newAttendanceScanCmd(opts))
	cmd.AddCommand(newAttendanceCheckOutCmd(opts))
	cmd.AddCommand(newAttendanceTodayCmd(opts))
	cmd.AddCommand(newAttendanceHistoryCmd(opts))
	return cmd
}

func filterFlags(cmd *cobra.Command, f *apiclient.AttendanceFilter) {
	cmd.Flags().StringVar(&f.DateFrom, "from", "", "start date YYYY-MM-DD")
	cmd.Flags().StringVar(&f.DateTo, "to", "", "end date YYYY-MM-DD")
	cmd.Flags().UintVar(&f.EmployeeID, "employee", 0, "employee id")
	cmd.Flags().StringVar(&f.Status, "status", "", "On Time, Late or Absent")
}

func newAttendanceListCmd(opts *rootOptions) *cobra.Command {
	var filter apiclient.AttendanceFilter

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List attendance records (admin)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := opts.services().Attendance.GetAll(cmd.Context(), filter)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			err = table(w, "DATE\tEMPLOYEE\tPOSITION\tSCHEDULE\tIN\tOUT\tSTATUS", func(tw io.Writer) {
				for _, a := range res.Attendances {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n", a.AttendanceDate, a.EmployeeName, a.Position,
						orDash(a.ScheduleName), orDash(a.CheckInTime), orDash(a.CheckOutTime), a.Status)
				}
			})
			fmt.Fprintf(w, "Total: %d\n", res.TotalAttendance)
			return err
		},
	}

	filterFlags(cmd, &filter)
	return cmd
}

func newAttendanceExportCmd(opts *rootOptions) *cobra.Command {
	var (
		filter apiclient.AttendanceFilter
		out    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download attendance records as an Excel file (admin)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, name, err := opts.services().Attendance.Export(cmd.Context(), filter)
			if err != nil {
				return err
			}
			if out == "" {
				out = name
			}
			if out == "" {
				return errors.New("--out is required")
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%d bytes)\n", out, len(data))
			return nil
		},
	}

	filterFlags(cmd, &filter)
	cmd.Flags().StringVar(&out, "out", "", "output file (default: server-provided name)")
	return cmd
}

func newAttendanceScanCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "scan <qr-token>",
		Short: "Check in with a scanned QR token (employee)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := opts.services().Attendance.Scan(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Check-in successful: %s %s at %s (%s)\n",
				res.EmployeeName, res.Date, res.CheckInTime, res.Status)
			return nil
		},
	}
}

func newAttendanceCheckOutCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "checkout",
		Short: "Check out for today (employee)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := opts.services().Attendance.CheckOut(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Check-out successful at %s\n", res.CheckOutTime)
			return nil
		},
	}
}

func newAttendanceTodayCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Show today's attendance (employee)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := opts.services().Attendance.Today(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  in=%s out=%s\n", res.Date, res.Status, orDash(res.CheckInTime), orDash(res.CheckOutTime))
			return nil
		},
	}
}

func newAttendanceHistoryCmd(opts *rootOptions) *cobra.Command {
	var rng string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show attendance history (employee)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := opts.services().Attendance.History(cmd.Context(), rng)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			err = table(w, "DATE\tSCHEDULE\tIN\tOUT\tSTATUS", func(tw io.Writer) {
				for _, r := range res.Records {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.Date, orDash(r.ScheduleName), orDash(r.CheckInTime), orDash(r.CheckOutTime), r.Status)
				}
			})
			fmt.Fprintf(w, "On Time: %d  Late: %d  Absent: %d\n", res.Summary.OnTime, res.Summary.Late, res.Summary.Absent)
			return err
		},
	}

	cmd.Flags().StringVar(&rng, "range", "week", "week or month")
	return cmd
}
