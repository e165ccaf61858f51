package service

import (
	"context"

	"github.com/alexanderramin/apo/internal/contract"
	"github.com/alexanderramin/apo/internal/db"
	"github.com/alexanderramin/apo/internal/domain"
	"github.com/alexanderramin/apo/internal/repository"
)

type milestoneService struct {
	uow      db.UnitOfWork
	settings Settings
	observer UseCaseObserver
}

func NewMilestoneService(uow db.UnitOfWork, settings Settings, observers ...UseCaseObserver) MilestoneService {
	return &milestoneService{
		uow:      uow,
		settings: settings.withDefaults(),
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *milestoneService) Update(ctx context.Context, req contract.UpdateMilestoneRequest) (updated *domain.Milestone, err error) {
	startedAt := s.settings.Clock()
	fields := map[string]any{
		"project_id":   req.ProjectID,
		"milestone_id": req.MilestoneID,
		"status":       string(req.Status),
	}
	defer func() { observe(ctx, s.observer, "update-milestone", startedAt, fields, err) }()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		projects := repository.NewSQLiteProjectRepo(tx)
		project, err := projects.GetByID(ctx, req.ProjectID)
		if err != nil {
			return err
		}
		m, _, err := project.FindMilestone(req.MilestoneID)
		if err != nil {
			return err
		}
		now := s.settings.now()
		if err := m.ApplyStatus(req.Status, req.CompletionPct, req.ActorID, now); err != nil {
			return err
		}
		project.UpdatedAt = now
		if err := projects.Update(ctx, project); err != nil {
			return persistenceError("saving milestone", err)
		}
		copied := *m
		updated = &copied
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
