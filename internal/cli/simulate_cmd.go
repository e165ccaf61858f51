package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/apo/internal/cli/formatter"
	"github.com/alexanderramin/apo/internal/contract"
	"github.com/alexanderramin/apo/internal/server"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

// cronParser uses standard 5-field cron expressions (minute, hour, dom, month, dow).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

func newSimulateCmd(app *App, opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Advance a project's simulated timeline",
	}

	cmd.AddCommand(
		newSimulateTickCmd(app, opts),
		newSimulateWatchCmd(app, opts),
	)

	return cmd
}

func newSimulateTickCmd(app *App, opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tick <project-id>",
		Short: "Advance the project by one week",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Simulation.Tick(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return emitTick(cmd, app, opts, res)
		},
	}
}

func newSimulateWatchCmd(app *App, opts *globalOptions) *cobra.Command {
	var schedule string

	cmd := &cobra.Command{
		Use:   "watch <project-id>",
		Short: "Tick on a cron schedule until the timeline completes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sched, err := cronParser.Parse(schedule)
			if err != nil {
				return fmt.Errorf("invalid --cron %q: %w", schedule, err)
			}
			return watchTicks(cmd.Context(), sched, func(ctx context.Context) (bool, error) {
				res, err := app.Simulation.Tick(ctx, args[0])
				if err != nil {
					return true, err
				}
				if err := emitTick(cmd, app, opts, res); err != nil {
					return true, err
				}
				return res.Completed || res.Week >= res.TimelineWeeks, nil
			})
		},
	}

	cmd.Flags().StringVar(&schedule, "cron", "*/1 * * * *", "5-field cron schedule for ticks")

	return cmd
}

// watchTicks runs tick on sched until it reports done or fails. An ended ctx
// stops the loop without error.
func watchTicks(ctx context.Context, sched cron.Schedule, tick func(context.Context) (bool, error)) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan error, 1)
	c := cron.New(cron.WithParser(cronParser), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	c.Schedule(sched, cron.FuncJob(func() {
		done, err := tick(ctx)
		if done || err != nil {
			select {
			case results <- err:
			default:
			}
		}
	}))
	c.Start()
	defer func() { <-c.Stop().Done() }()

	select {
	case <-ctx.Done():
		return nil
	case err := <-results:
		return err
	}
}

func emitTick(cmd *cobra.Command, app *App, opts *globalOptions, res *contract.TickResult) error {
	return opts.emit(cmd, app, server.NewTickResponse(res), func(mode formatter.Mode) string {
		return formatter.FormatTick(mode, res)
	})
}
