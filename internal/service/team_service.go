package service

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/alexanderramin/apo/internal/contract"
	"github.com/alexanderramin/apo/internal/db"
	"github.com/alexanderramin/apo/internal/domain"
	"github.com/alexanderramin/apo/internal/repository"
)

type teamService struct {
	members  repository.WorkspaceMemberRepo
	workers  repository.WorkerRepo
	activity repository.ActivityRepo
	uow      db.UnitOfWork
	settings Settings
	observer UseCaseObserver
}

func NewTeamService(
	members repository.WorkspaceMemberRepo,
	workers repository.WorkerRepo,
	activity repository.ActivityRepo,
	uow db.UnitOfWork,
	settings Settings,
	observers ...UseCaseObserver,
) TeamService {
	return &teamService{
		members:  members,
		workers:  workers,
		activity: activity,
		uow:      uow,
		settings: settings.withDefaults(),
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *teamService) AddMember(ctx context.Context, req contract.AddMemberRequest) (worker *domain.Worker, err error) {
	startedAt := s.settings.Clock()
	fields := map[string]any{"workspace_id": req.WorkspaceID, "user_id": req.UserID}
	defer func() { observe(ctx, s.observer, "add-team-member", startedAt, fields, err) }()

	if strings.TrimSpace(req.WorkspaceID) == "" || strings.TrimSpace(req.UserID) == "" {
		return nil, domain.Preconditionf("workspace id and user id are required")
	}
	if req.HourlyRate < 0 {
		return nil, domain.Preconditionf("hourly rate must not be negative")
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		workers := repository.NewSQLiteWorkerRepo(tx)

		ok, err := repository.NewSQLiteWorkspaceMemberRepo(tx).IsMember(ctx, req.WorkspaceID, req.UserID)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrNotWorkspaceMember
		}
		if _, err := workers.GetByUser(ctx, req.WorkspaceID, req.UserID); err == nil {
			return domain.ErrAlreadyOnTeam
		} else if !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		now := s.settings.now()
		w := &domain.Worker{
			ID:            s.settings.NewID(),
			WorkspaceID:   req.WorkspaceID,
			UserID:        req.UserID,
			JobTitle:      strings.TrimSpace(req.JobTitle),
			Skills:        domain.NormalizeSkills(req.Skills),
			CapacityHours: req.CapacityHours,
			HourlyRate:    req.HourlyRate,
			Presence:      domain.PresenceOffline,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if w.CapacityHours <= 0 {
			w.CapacityHours = domain.DefaultCapacityHours
		}
		if err := workers.Create(ctx, w); err != nil {
			return persistenceError("adding team member", err)
		}

		rec := domain.NewJoinedTeamRecord(s.settings.NewID(), w, req.ActorID, now)
		if err := repository.NewSQLiteActivityRepo(tx).Create(ctx, &rec); err != nil {
			return persistenceError("recording team join", err)
		}
		worker = w
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["worker_id"] = worker.ID
	return worker, nil
}

func (s *teamService) AvailableUsers(ctx context.Context, workspaceID string) ([]*domain.WorkspaceMember, error) {
	return s.members.ListNotOnTeam(ctx, workspaceID)
}

func (s *teamService) ListWorkers(ctx context.Context, workspaceID string) ([]*domain.Worker, error) {
	return s.workers.ListByWorkspace(ctx, workspaceID)
}

func (s *teamService) SetPresence(ctx context.Context, workerID string, presence domain.Presence) error {
	if !domain.ValidPresences[presence] {
		return domain.Preconditionf("invalid presence %q", presence)
	}
	if err := s.workers.UpdatePresence(ctx, workerID, presence, s.settings.now()); err != nil {
		return persistenceError("updating presence", err)
	}
	return nil
}

// SuggestWorkers ranks the roster for a milestone title: best skill match
// first, ties broken by lower utilization.
func (s *teamService) SuggestWorkers(ctx context.Context, workspaceID, milestoneTitle string) ([]contract.WorkerSuggestion, error) {
	workers, err := s.workers.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	records, err := s.activity.ListActiveByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	out := make([]contract.WorkerSuggestion, 0, len(workers))
	for _, w := range workers {
		out = append(out, contract.WorkerSuggestion{
			Worker:     w,
			SkillScore: w.SkillMatchScore(milestoneTitle),
			Workload:   domain.ComputeWorkload(w, records),
		})
	}
	slices.SortStableFunc(out, func(a, b contract.WorkerSuggestion) int {
		if c := cmp.Compare(b.SkillScore, a.SkillScore); c != 0 {
			return c
		}
		return cmp.Compare(a.Workload.UtilizationPct, b.Workload.UtilizationPct)
	})
	return out, nil
}
