package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/alexanderramin/apo/internal/cli/formatter"
	"github.com/alexanderramin/apo/internal/config"
	"github.com/alexanderramin/apo/internal/docstore"
	"github.com/alexanderramin/apo/internal/metrics"
	"github.com/alexanderramin/apo/internal/service"
	"github.com/spf13/cobra"
)

// DefaultActor is used when no --actor is given on the command line.
const DefaultActor = "local-user"

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Projects    service.ProjectService
	Milestones  service.MilestoneService
	Allocations service.AllocationService
	Ledger      service.LedgerService
	Simulation  service.SimulationService
	Team        service.TeamService
	Workspaces  service.WorkspaceService

	Config  *config.Config
	Store   *docstore.FSStore
	Metrics *metrics.Recorder
	Logger  *slog.Logger

	// IsInteractive reports whether stdout is a terminal. Non-interactive
	// runs get uncolored tables.
	IsInteractive func() bool

	closers []func() error
}

// AddCloser registers a cleanup hook run by Close in reverse order.
func (a *App) AddCloser(fn func() error) {
	a.closers = append(a.closers, fn)
}

// Close releases everything registered with AddCloser.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// WireFunc populates app from a resolved configuration. It runs once, before
// the first command that needs services.
type WireFunc func(ctx context.Context, cfg *config.Config, app *App) error

type globalOptions struct {
	actor    string
	json     bool
	markdown bool
}

func (o *globalOptions) mode(app *App) formatter.Mode {
	if o.markdown {
		return formatter.ModeMarkdown
	}
	if app.IsInteractive != nil && app.IsInteractive() {
		return formatter.ModePretty
	}
	return formatter.ModePlain
}

// emit writes payload as JSON when --json is set and the formatted text
// otherwise.
func (o *globalOptions) emit(cmd *cobra.Command, app *App, payload any, text func(formatter.Mode) string) error {
	out := cmd.OutOrStdout()
	if o.json {
		return writeJSON(out, payload)
	}
	_, err := fmt.Fprintln(out, text(o.mode(app)))
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// NewRootCmd creates the top-level "apo" command and registers all
// subcommands against the provided App. When app already carries services
// (tests) wire is never called.
func NewRootCmd(app *App, wire WireFunc) *cobra.Command {
	opts := &globalOptions{}
	v := config.New()

	root := &cobra.Command{
		Use:           "apo",
		Short:         "AI project officer: document extraction, staffing proposals and workload tracking",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.json && opts.markdown {
				return fmt.Errorf("--json and --markdown are mutually exclusive")
			}
			if app.Projects != nil {
				return nil
			}
			if wire == nil {
				return fmt.Errorf("no services configured")
			}
			if err := config.BindFlags(v, cmd.Flags()); err != nil {
				return err
			}
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			app.Config = cfg
			return wire(cmd.Context(), cfg, app)
		},
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "Path to a YAML config file")
	pf.String("db", "", "SQLite database path (default ~/.apo/apo.db)")
	pf.StringVar(&opts.actor, "actor", DefaultActor, "User id recorded as the actor of changes")
	pf.BoolVar(&opts.json, "json", false, "Print JSON instead of tables")
	pf.BoolVar(&opts.markdown, "markdown", false, "Print markdown tables")

	root.AddCommand(
		newServeCmd(app),
		newTokenCmd(app),
		newProjectCmd(app, opts),
		newTeamCmd(app, opts),
		newAssignCmd(app, opts),
		newActivityCmd(app, opts),
		newAllocateCmd(app, opts),
		newSimulateCmd(app, opts),
		newWorkspaceCmd(app, opts),
	)

	return root
}
