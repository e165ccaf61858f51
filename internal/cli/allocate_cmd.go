package cli

import (
	"fmt"

	"github.com/alexanderramin/apo/internal/cli/formatter"
	"github.com/alexanderramin/apo/internal/contract"
	"github.com/alexanderramin/apo/internal/server"
	"github.com/spf13/cobra"
)

func newAllocateCmd(app *App, opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "allocate",
		Short: "Propose, review and confirm milestone staffing",
	}

	cmd.AddCommand(
		newAllocateProposeCmd(app, opts),
		newAllocateShowCmd(app, opts),
		newAllocateConfirmCmd(app, opts),
		newAllocateRejectCmd(app, opts),
	)

	return cmd
}

func newAllocateProposeCmd(app *App, opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "propose <project-id>",
		Short: "Ask the model for a staffing proposal and stage it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Allocations.Propose(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return opts.emit(cmd, app, server.NewProposalResponse(res), func(mode formatter.Mode) string {
				return formatter.FormatProposal(mode, res)
			})
		},
	}
}

func newAllocateShowCmd(app *App, opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <project-id>",
		Short: "Show the staged proposal for a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			batch, err := app.Allocations.Current(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return opts.emit(cmd, app, server.NewBatchResponse(batch), func(mode formatter.Mode) string {
				return formatter.FormatBatch(mode, batch)
			})
		},
	}
}

func newAllocateConfirmCmd(app *App, opts *globalOptions) *cobra.Command {
	var batch string

	cmd := &cobra.Command{
		Use:   "confirm <project-id>",
		Short: "Commit the staged proposal to the workload ledger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := contract.NewConfirmRequest(args[0], opts.actor)
			req.BatchID = batch

			res, err := app.Allocations.Confirm(cmd.Context(), req)
			if err != nil {
				return err
			}
			payload := server.ConfirmResponse{
				Success:        true,
				BatchID:        res.BatchID,
				ConfirmedCount: res.ConfirmedCount,
				Records:        server.NewActivityResponses(res.Records),
			}
			return opts.emit(cmd, app, payload, func(mode formatter.Mode) string {
				return formatter.FormatConfirm(mode, res)
			})
		},
	}

	cmd.Flags().StringVar(&batch, "batch", "", "Only confirm if the staged batch still has this id")

	return cmd
}

func newAllocateRejectCmd(app *App, opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reject <project-id>",
		Short: "Discard the staged proposal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Allocations.Reject(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			payload := server.RejectResponse{Success: true, Discarded: res.Discarded}
			return opts.emit(cmd, app, payload, func(formatter.Mode) string {
				return fmt.Sprintf("Discarded %d staged assignments.", res.Discarded)
			})
		},
	}
}
