package service

import (
	"context"

	"github.com/alexanderramin/apo/internal/contract"
	"github.com/alexanderramin/apo/internal/db"
	"github.com/alexanderramin/apo/internal/domain"
	"github.com/alexanderramin/apo/internal/repository"
)

type simulationService struct {
	uow      db.UnitOfWork
	settings Settings
	events   *picker
	observer UseCaseObserver
}

// NewSimulationService creates the weekly ticker. settings.Rand selects the
// status event; nil uses the global source.
func NewSimulationService(uow db.UnitOfWork, settings Settings, observers ...UseCaseObserver) SimulationService {
	settings = settings.withDefaults()
	return &simulationService{
		uow:      uow,
		settings: settings,
		events:   newPicker(settings.Rand),
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *simulationService) Tick(ctx context.Context, projectID string) (result *contract.TickResult, err error) {
	startedAt := s.settings.Clock()
	fields := map[string]any{"project_id": projectID}
	defer func() { observe(ctx, s.observer, "simulate-week", startedAt, fields, err) }()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		projects := repository.NewSQLiteProjectRepo(tx)
		project, err := projects.GetByID(ctx, projectID)
		if err != nil {
			return err
		}

		timeline := project.TimelineWeeks(s.settings.TimelineWeeks)
		newWeek := project.CurrentWeek + 1
		if newWeek > timeline {
			result = &contract.TickResult{
				ProjectID:     project.ID,
				Week:          project.CurrentWeek,
				TimelineWeeks: timeline,
				Completed:     true,
				Message:       domain.AlreadyCompletedMessage,
				Log:           project.SimulationLog,
			}
			return nil
		}

		completed, err := repository.NewSQLiteProposalRepo(tx).CompleteThroughWeek(ctx, project.ID, newWeek)
		if err != nil {
			return persistenceError("completing staged assignments", err)
		}

		now := s.settings.now()
		event := domain.SimulationEvents[s.events.intN(len(domain.SimulationEvents))]
		entry := domain.SimulationLogEntry{
			Week:      newWeek,
			Timestamp: now,
			Severity:  event.Severity,
			Message:   event.Message,
		}
		project.SimulationLog = domain.PrependLogEntry(project.SimulationLog, entry)
		project.CurrentWeek = newWeek
		project.UpdatedAt = now
		if err := projects.UpdateSimulation(ctx, project); err != nil {
			return persistenceError("advancing simulation", err)
		}

		result = &contract.TickResult{
			ProjectID:            project.ID,
			Week:                 newWeek,
			TimelineWeeks:        timeline,
			Message:              entry.Message,
			Entry:                &entry,
			CompletedAssignments: completed,
			Log:                  project.SimulationLog,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["week"] = result.Week
	fields["completed"] = result.Completed
	return result, nil
}
