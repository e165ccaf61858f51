package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/apo/internal/cli"
	"github.com/alexanderramin/apo/internal/config"
	"github.com/alexanderramin/apo/internal/db"
	"github.com/alexanderramin/apo/internal/docstore"
	"github.com/alexanderramin/apo/internal/intelligence"
	"github.com/alexanderramin/apo/internal/llm"
	"github.com/alexanderramin/apo/internal/metrics"
	"github.com/alexanderramin/apo/internal/repository"
	"github.com/alexanderramin/apo/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	app := &cli.App{
		Logger: logger,
		IsInteractive: func() bool {
			return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
		},
	}
	defer app.Close()

	rootCmd := cli.NewRootCmd(app, wire)
	return rootCmd.ExecuteContext(ctx)
}

// wire opens storage and builds every service from cfg.
func wire(_ context.Context, cfg *config.Config, app *cli.App) error {
	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	app.AddCloser(database.Close)

	store, err := docstore.NewOSStore(cfg.Storage.Root, cfg.Storage.PublicBaseURL)
	if err != nil {
		return err
	}
	app.Store = store

	recorder := metrics.New()
	app.Metrics = recorder

	observers := llm.MultiObserver{recorder}
	if cfg.LLM.LogCalls {
		observers = append(observers, llm.NewLogObserver(app.Logger))
	}
	client, err := llm.NewClient(cfg.LLM, observers)
	if err != nil {
		return err
	}

	// Wire repositories
	projects := repository.NewSQLiteProjectRepo(database)
	tasks := repository.NewSQLiteProjectTaskRepo(database)
	members := repository.NewSQLiteWorkspaceMemberRepo(database)
	workers := repository.NewSQLiteWorkerRepo(database)
	proposals := repository.NewSQLiteProposalRepo(database)
	activity := repository.NewSQLiteActivityRepo(database)

	uow := db.NewSQLiteUnitOfWork(database)
	settings := cfg.Settings()
	useCaseLog := service.NewSlogUseCaseObserver(app.Logger)

	app.Projects = service.NewProjectService(projects, tasks, store,
		intelligence.NewExtractionService(client, cfg.ExtractionMaxChars), uow, settings, useCaseLog, recorder)
	app.Milestones = service.NewMilestoneService(uow, settings, useCaseLog, recorder)
	app.Allocations = service.NewAllocationService(projects, workers, proposals,
		intelligence.NewAllocationProposer(client), uow, settings, useCaseLog, recorder)
	app.Ledger = service.NewLedgerService(workers, activity, uow, settings, useCaseLog, recorder)
	app.Simulation = service.NewSimulationService(uow, settings, useCaseLog, recorder)
	app.Team = service.NewTeamService(members, workers, activity, uow, settings, useCaseLog, recorder)
	app.Workspaces = service.NewWorkspaceService(members, settings, useCaseLog, recorder)
	return nil
}
