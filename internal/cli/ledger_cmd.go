package cli

import (
	"fmt"

	"github.com/alexanderramin/apo/internal/cli/formatter"
	"github.com/alexanderramin/apo/internal/contract"
	"github.com/alexanderramin/apo/internal/server"
	"github.com/spf13/cobra"
)

func newAssignCmd(app *App, opts *globalOptions) *cobra.Command {
	var project, milestone, notes string
	var hours float64
	var week int

	cmd := &cobra.Command{
		Use:   "assign <worker-id>",
		Short: "Record an ad-hoc assignment in the workload ledger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := contract.NewRecordAssignmentRequest(opts.actor, args[0], project, milestone)
			req.Hours = hours
			req.Week = week
			req.Notes = notes

			rec, err := app.Ledger.RecordAssignment(cmd.Context(), req)
			if err != nil {
				return err
			}
			payload := server.ActivityEnvelope{Success: true, Record: server.NewActivityResponse(rec)}
			return opts.emit(cmd, app, payload, func(formatter.Mode) string {
				return fmt.Sprintf("Assigned %q to %s for %s [%s]", rec.TaskTitle, rec.WorkerID, formatter.FormatHours(rec.EstimatedHours), rec.ID)
			})
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project id")
	cmd.Flags().StringVar(&milestone, "milestone", "", "Milestone id or title")
	cmd.Flags().Float64Var(&hours, "hours", 0, "Estimated hours (defaults to the ledger default)")
	cmd.Flags().IntVar(&week, "week", 0, "Week number (defaults to the milestone's week)")
	cmd.Flags().StringVar(&notes, "notes", "", "Free-form notes")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("milestone")

	return cmd
}

func newActivityCmd(app *App, opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Inspect and edit the workload ledger",
	}

	cmd.AddCommand(
		newActivityListCmd(app, opts),
		newActivityRemoveCmd(app, opts),
	)

	return cmd
}

func newActivityListCmd(app *App, opts *globalOptions) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list <worker-id>",
		Short: "List a worker's ledger records and current utilization",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := app.Ledger.ListActivity(cmd.Context(), args[0], all)
			if err != nil {
				return err
			}
			wl, err := app.Ledger.Utilization(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			payload := server.ActivityListResponse{
				Success:  true,
				Workload: server.NewWorkloadResponse(wl),
				Records:  server.NewActivityResponses(records),
			}
			return opts.emit(cmd, app, payload, func(mode formatter.Mode) string {
				return formatter.FormatActivity(mode, records) + "\n" +
					fmt.Sprintf("Utilization %s  %s", formatter.RenderUtilization(mode, wl.RoundedPct, 20), formatter.BandIndicator(mode, wl.Band))
			})
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include removed records")

	return cmd
}

func newActivityRemoveCmd(app *App, opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <activity-id>",
		Short: "Soft-remove a ledger record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := app.Ledger.SoftRemove(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			payload := server.ActivityEnvelope{Success: true, Record: server.NewActivityResponse(rec)}
			return opts.emit(cmd, app, payload, func(formatter.Mode) string {
				return fmt.Sprintf("Removed %s (%s)", rec.ID, rec.Description)
			})
		},
	}
}
