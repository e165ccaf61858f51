package service

import (
	"context"
	"errors"
	"strings"

	"github.com/alexanderramin/apo/internal/contract"
	"github.com/alexanderramin/apo/internal/db"
	"github.com/alexanderramin/apo/internal/domain"
	"github.com/alexanderramin/apo/internal/intelligence"
	"github.com/alexanderramin/apo/internal/repository"
)

type allocationService struct {
	projects  repository.ProjectRepo
	workers   repository.WorkerRepo
	proposals repository.ProposalRepo
	proposer  intelligence.AllocationProposer
	uow       db.UnitOfWork
	settings  Settings
	observer  UseCaseObserver
}

func NewAllocationService(
	projects repository.ProjectRepo,
	workers repository.WorkerRepo,
	proposals repository.ProposalRepo,
	proposer intelligence.AllocationProposer,
	uow db.UnitOfWork,
	settings Settings,
	observers ...UseCaseObserver,
) AllocationService {
	return &allocationService{
		projects:  projects,
		workers:   workers,
		proposals: proposals,
		proposer:  proposer,
		uow:       uow,
		settings:  settings.withDefaults(),
		observer:  useCaseObserverOrNoop(observers),
	}
}

func (s *allocationService) Propose(ctx context.Context, projectID string) (result *contract.ProposalResult, err error) {
	startedAt := s.settings.Clock()
	fields := map[string]any{"project_id": projectID}
	defer func() { observe(ctx, s.observer, "propose-allocation", startedAt, fields, err) }()

	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	milestones := project.Milestones()
	if len(milestones) == 0 {
		return nil, domain.ErrNoMilestones
	}
	workers, err := s.workers.ListByWorkspace(ctx, project.WorkspaceID)
	if err != nil {
		return nil, err
	}
	if len(workers) == 0 {
		return nil, domain.ErrNoWorkers
	}
	roster := make([]domain.Worker, len(workers))
	for i, w := range workers {
		roster[i] = *w
	}
	fields["milestones"] = len(milestones)
	fields["workers"] = len(roster)

	proposal, err := s.proposer.Propose(ctx, intelligence.AllocationInput{
		ProjectName: project.Name,
		Milestones:  milestones,
		Roster:      roster,
	})
	if proposal != nil {
		fields["accepted"] = len(proposal.Accepted)
		fields["discarded"] = len(proposal.Discarded)
		fields["shape"] = proposal.Shape
	}
	if err != nil {
		return nil, classifyOracleError(err)
	}

	now := s.settings.now()
	batch := &domain.ProposalBatch{
		ID:        s.settings.NewID(),
		ProjectID: project.ID,
		Status:    domain.BatchProposed,
		CreatedAt: now,
	}
	for _, c := range proposal.Accepted {
		batch.Assignments = append(batch.Assignments, domain.StagedAssignment{
			ID:          s.settings.NewID(),
			ProjectID:   project.ID,
			BatchID:     batch.ID,
			MilestoneID: c.MilestoneID,
			TaskName:    c.TaskName,
			WeekNumber:  c.WeekNumber,
			WorkerID:    c.WorkerID,
			Reasoning:   c.Reasoning,
			Status:      domain.StagedProposed,
			CreatedAt:   now,
		})
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteProposalRepo(tx).Replace(ctx, batch); err != nil {
			return persistenceError("staging proposal", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["batch_id"] = batch.ID

	result = &contract.ProposalResult{
		ProjectID:       project.ID,
		BatchID:         batch.ID,
		AssignedCount:   len(batch.Assignments),
		TotalMilestones: len(milestones),
		Assignments:     batch.Assignments,
		Model:           proposal.Model,
	}
	for _, d := range proposal.Discarded {
		result.Discarded = append(result.Discarded, contract.DiscardedProposal{
			TaskName: d.Candidate.TaskName,
			WorkerID: d.Candidate.WorkerID,
			Reason:   d.Reason,
		})
	}
	return result, nil
}

func (s *allocationService) Current(ctx context.Context, projectID string) (*domain.ProposalBatch, error) {
	return s.proposals.GetByProject(ctx, projectID)
}

func (s *allocationService) Confirm(ctx context.Context, req contract.ConfirmRequest) (result *contract.ConfirmResult, err error) {
	startedAt := s.settings.Clock()
	fields := map[string]any{"project_id": req.ProjectID, "batch_id": req.BatchID}
	defer func() { observe(ctx, s.observer, "confirm-allocation", startedAt, fields, err) }()

	if strings.TrimSpace(req.ActorID) == "" {
		return nil, domain.ErrUnauthenticated
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		proposals := repository.NewSQLiteProposalRepo(tx)
		activity := repository.NewSQLiteActivityRepo(tx)

		project, err := repository.NewSQLiteProjectRepo(tx).GetByID(ctx, req.ProjectID)
		if err != nil {
			return err
		}
		batch, err := proposals.GetByProject(ctx, req.ProjectID)
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNothingToConfirm
		}
		if err != nil {
			return err
		}
		if err := batch.CheckConfirmable(req.BatchID); err != nil {
			return err
		}

		now := s.settings.now()
		records := make([]domain.ActivityRecord, 0, len(batch.Assignments))
		for _, a := range batch.Assignments {
			rec := domain.NewAssignmentRecord(s.settings.NewID(), domain.AssignmentRecordParams{
				WorkspaceID:    project.WorkspaceID,
				ActorID:        req.ActorID,
				WorkerID:       a.WorkerID,
				Project:        project,
				MilestoneID:    a.MilestoneID,
				TaskTitle:      a.TaskName,
				EstimatedHours: s.settings.EstimatedHours,
				Week:           a.WeekNumber,
				Source:         domain.SourceAllocationPage,
				BatchID:        batch.ID,
			}, now)
			if err := activity.Create(ctx, &rec); err != nil {
				return persistenceError("recording assignment "+a.TaskName, err)
			}
			records = append(records, rec)
		}
		if err := proposals.MarkConfirmed(ctx, batch.ID, req.ActorID, now); err != nil {
			return persistenceError("confirming batch", err)
		}

		result = &contract.ConfirmResult{
			ProjectID:      project.ID,
			BatchID:        batch.ID,
			ConfirmedCount: len(records),
			Records:        records,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["confirmed"] = result.ConfirmedCount
	return result, nil
}

func (s *allocationService) Reject(ctx context.Context, projectID string) (result *contract.RejectResult, err error) {
	startedAt := s.settings.Clock()
	fields := map[string]any{"project_id": projectID}
	defer func() { observe(ctx, s.observer, "reject-allocation", startedAt, fields, err) }()

	var removed int64
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		n, err := repository.NewSQLiteProposalRepo(tx).DeleteByProject(ctx, projectID)
		if err != nil {
			return persistenceError("discarding proposal", err)
		}
		removed = n
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["discarded"] = removed
	return &contract.RejectResult{ProjectID: projectID, Discarded: removed}, nil
}
