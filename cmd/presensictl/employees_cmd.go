package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"presensi/internal/dto"
	"presensi/pkg/apiclient"
)

func newEmployeesCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "employees",
		Short: "Manage employees",
	}
	cmd.AddCommand(newEmployeesListCmd(opts))
	cmd.AddCommand(newEmployeesSearchCmd(opts))
	cmd.AddCommand(newEmployeesGetCmd(opts))
	cmd.AddCommand(newEmployeesCreateCmd(opts))
	cmd.AddCommand(newEmployeesDeleteCmd(opts))
	cmd.AddCommand(newEmployeesAssignCmd(opts))
	cmd.AddCommand(newEmployeesUnassignCmd(opts))
	return cmd
}

func printEmployees(w io.Writer, res *dto.EmployeesResponse) error {
	err := table(w, "ID\tNIK\tNAME\tEMAIL\tPOSITION\tGENDER", func(tw io.Writer) {
		for _, e := range res.Employees {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", e.ID, e.NIK, e.Name, e.Email, e.Position, e.Gender)
		}
	})
	fmt.Fprintf(w, "Total: %d\n", res.TotalEmployees)
	return err
}

func newEmployeesListCmd(opts *rootOptions) *cobra.Command {
	var params apiclient.ListParams

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List employees",
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := opts.services().Employee.GetAll(cmd.Context(), params)
			if err != nil {
				return err
			}
			return printEmployees(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().IntVar(&params.Page, "page", 1, "page number")
	cmd.Flags().IntVar(&params.Limit, "limit", 20, "page size (max 100)")
	cmd.Flags().StringVar(&params.Sort, "sort", "", "sort field: name, nik, email, position, created_at")
	cmd.Flags().StringVar(&params.Order, "order", "", "asc or desc")
	return cmd
}

func newEmployeesSearchCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search employees by name, NIK, email or position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := opts.services().Employee.Search(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printEmployees(cmd.OutOrStdout(), res)
		},
	}
}

func newEmployeesGetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show an employee with weekly schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := argID(args, 0)
			if err != nil {
				return err
			}
			res, err := opts.services().Employee.GetByID(cmd.Context(), id)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s (%s)\n%s, %s, %s\n\n", res.Name, res.NIK, res.Email, res.Position, res.Gender)
			return table(w, "ID\tDAY\tSCHEDULE\tSTART\tEND\tTOLERANCE", func(tw io.Writer) {
				for _, s := range res.Schedules {
					fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%dm\n", s.ID, s.DayName, s.ScheduleName, s.StartTime, s.EndTime, s.ToleranceMinutes)
				}
			})
		},
	}
}

func newEmployeesCreateCmd(opts *rootOptions) *cobra.Command {
	var req dto.CreateEmployeeRequest

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an employee",
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := opts.services().Employee.Create(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Employee created: id=%d nik=%s\n", res.ID, res.NIK)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.NIK, "nik", "", "employee NIK")
	cmd.Flags().StringVar(&req.Name, "name", "", "full name")
	cmd.Flags().StringVar(&req.Email, "email", "", "email")
	cmd.Flags().StringVar(&req.Position, "position", "", "position")
	cmd.Flags().StringVar(&req.Gender, "gender", "Male", "Male, Female or Other")
	cmd.Flags().StringVar(&req.Password, "password", "", "initial password (min 6 characters)")
	return cmd
}

func newEmployeesDeleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an employee",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := argID(args, 0)
			if err != nil {
				return err
			}
			if err := opts.services().Employee.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Employee deleted")
			return nil
		},
	}
}

func newEmployeesAssignCmd(opts *rootOptions) *cobra.Command {
	var req dto.AssignScheduleRequest

	cmd := &cobra.Command{
		Use:   "assign <employee-id> --schedule <id> --day <1-7>",
		Short: "Assign a work schedule to an employee for a weekday",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := argID(args, 0)
			if err != nil {
				return err
			}
			res, err := opts.services().Employee.AssignSchedule(cmd.Context(), id, req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Assigned %s on %s (id=%d)\n", res.ScheduleName, res.DayName, res.ID)
			return nil
		},
	}

	cmd.Flags().UintVar(&req.WorkScheduleID, "schedule", 0, "work schedule id")
	cmd.Flags().UintVar(&req.DayID, "day", 0, "weekday, 1=Monday to 7=Sunday")
	return cmd
}

func newEmployeesUnassignCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "unassign <employee-id> <employee-schedule-id>",
		Short: "Remove a weekly schedule entry from an employee",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := argID(args, 0)
			if err != nil {
				return err
			}
			scheduleID, err := argID(args, 1)
			if err != nil {
				return err
			}
			if err := opts.services().Employee.RemoveSchedule(cmd.Context(), id, scheduleID); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Schedule removed")
			return nil
		},
	}
}
