package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/alexanderramin/apo/internal/contract"
	"github.com/alexanderramin/apo/internal/db"
	"github.com/alexanderramin/apo/internal/domain"
	"github.com/alexanderramin/apo/internal/repository"
)

type ledgerService struct {
	workers  repository.WorkerRepo
	activity repository.ActivityRepo
	uow      db.UnitOfWork
	settings Settings
	observer UseCaseObserver
}

func NewLedgerService(
	workers repository.WorkerRepo,
	activity repository.ActivityRepo,
	uow db.UnitOfWork,
	settings Settings,
	observers ...UseCaseObserver,
) LedgerService {
	return &ledgerService{
		workers:  workers,
		activity: activity,
		uow:      uow,
		settings: settings.withDefaults(),
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *ledgerService) RecordAssignment(ctx context.Context, req contract.RecordAssignmentRequest) (record *domain.ActivityRecord, err error) {
	startedAt := s.settings.Clock()
	fields := map[string]any{"worker_id": req.WorkerID, "project_id": req.ProjectID}
	defer func() { observe(ctx, s.observer, "record-assignment", startedAt, fields, err) }()

	if strings.TrimSpace(req.ActorID) == "" {
		return nil, domain.ErrUnauthenticated
	}
	if req.MilestoneID == "" && strings.TrimSpace(req.MilestoneTitle) == "" {
		return nil, domain.Preconditionf("milestone is required")
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		activity := repository.NewSQLiteActivityRepo(tx)

		worker, err := repository.NewSQLiteWorkerRepo(tx).GetByID(ctx, req.WorkerID)
		if err != nil {
			return err
		}
		project, err := repository.NewSQLiteProjectRepo(tx).GetByID(ctx, req.ProjectID)
		if err != nil {
			return err
		}
		if project.WorkspaceID != worker.WorkspaceID {
			return domain.Preconditionf("team member %s is not in the project's workspace", worker.ID)
		}
		milestone, err := resolveMilestone(project, req.MilestoneID, req.MilestoneTitle)
		if err != nil {
			return err
		}

		existing, err := activity.ListByWorker(ctx, worker.ID, false)
		if err != nil {
			return err
		}
		wl := domain.ComputeWorkload(worker, existing)
		fields["utilization_pct"] = wl.RoundedPct
		if wl.AtCapacity() {
			return domain.ErrAtCapacity
		}

		hours := req.Hours
		if hours <= 0 {
			hours = s.settings.EstimatedHours
		}
		week := req.Week
		if week <= 0 {
			week = milestone.Week
		}
		rec := domain.NewAssignmentRecord(s.settings.NewID(), domain.AssignmentRecordParams{
			WorkspaceID:    worker.WorkspaceID,
			ActorID:        req.ActorID,
			WorkerID:       worker.ID,
			Project:        project,
			MilestoneID:    milestone.ID,
			TaskTitle:      milestone.Title,
			EstimatedHours: hours,
			Week:           week,
			Notes:          strings.TrimSpace(req.Notes),
			Source:         domain.SourceManual,
		}, s.settings.now())
		if err := activity.Create(ctx, &rec); err != nil {
			return persistenceError("recording assignment", err)
		}
		record = &rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["activity_id"] = record.ID
	return record, nil
}

// resolveMilestone matches id first, then title.
func resolveMilestone(project *domain.Project, id, title string) (*domain.Milestone, error) {
	if id != "" {
		if m, _, err := project.FindMilestone(id); err == nil {
			return m, nil
		}
	}
	if title != "" {
		if m, ok := project.MilestoneByTitle(title); ok {
			return m, nil
		}
	}
	return nil, domain.NotFoundf("milestone %q in project %s", domain.CoalesceStr(id, title), project.ID)
}

func (s *ledgerService) SoftRemove(ctx context.Context, activityID string) (record *domain.ActivityRecord, err error) {
	startedAt := s.settings.Clock()
	fields := map[string]any{"activity_id": activityID}
	defer func() { observe(ctx, s.observer, "remove-assignment", startedAt, fields, err) }()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		activity := repository.NewSQLiteActivityRepo(tx)
		if _, err := activity.GetByID(ctx, activityID); err != nil {
			return err
		}
		changed, err := activity.SoftRemove(ctx, activityID, s.settings.now())
		if err != nil {
			return persistenceError("removing assignment", err)
		}
		fields["changed"] = changed
		record, err = activity.GetByID(ctx, activityID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (s *ledgerService) Utilization(ctx context.Context, workerID string) (domain.Workload, error) {
	worker, err := s.workers.GetByID(ctx, workerID)
	if err != nil {
		return domain.Workload{}, err
	}
	records, err := s.activity.ListByWorker(ctx, workerID, false)
	if err != nil {
		return domain.Workload{}, err
	}
	return domain.ComputeWorkload(worker, records), nil
}

func (s *ledgerService) TeamWorkload(ctx context.Context, workspaceID string) (*contract.TeamWorkload, error) {
	workers, err := s.workers.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	records, err := s.activity.ListActiveByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("loading workspace ledger: %w", err)
	}
	return summarizeTeam(workspaceID, workers, records), nil
}

func summarizeTeam(workspaceID string, workers []*domain.Worker, records []domain.ActivityRecord) *contract.TeamWorkload {
	team := &contract.TeamWorkload{
		WorkspaceID: workspaceID,
		Workers:     make([]contract.WorkerWorkload, 0, len(workers)),
		Members:     len(workers),
	}
	for _, w := range workers {
		wl := domain.ComputeWorkload(w, records)
		team.Workers = append(team.Workers, contract.WorkerWorkload{Worker: w, Workload: wl})
		team.ActiveTasks += wl.ActiveTasks
		team.CapacityHours += wl.CapacityHours
		team.CommittedHours += wl.HoursCommitted
		team.AvailableHours += wl.AvailableHours()
		switch wl.Band {
		case domain.BandOverloaded:
			team.Bands.Overloaded++
		case domain.BandBalanced:
			team.Bands.Balanced++
		default:
			team.Bands.Available++
		}
	}
	if team.CapacityHours > 0 {
		team.UtilizationPct = team.CommittedHours / team.CapacityHours * 100
		team.RoundedPct = int(math.Round(team.UtilizationPct))
	}
	return team
}

func (s *ledgerService) ListActivity(ctx context.Context, workerID string, includeRemoved bool) ([]domain.ActivityRecord, error) {
	if _, err := s.workers.GetByID(ctx, workerID); err != nil {
		return nil, err
	}
	return s.activity.ListByWorker(ctx, workerID, includeRemoved)
}
