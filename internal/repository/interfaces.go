package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/apo/internal/domain"
)

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	ListByWorkspace(ctx context.Context, workspaceID string) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	UpdateStatus(ctx context.Context, p *domain.Project) error
	UpdateSimulation(ctx context.Context, p *domain.Project) error
}

type ProjectTaskRepo interface {
	ReplaceGenerated(ctx context.Context, projectID string, tasks []domain.ProjectTask) error
	ListByProject(ctx context.Context, projectID string) ([]domain.ProjectTask, error)
}

type WorkspaceMemberRepo interface {
	Add(ctx context.Context, m *domain.WorkspaceMember) error
	Get(ctx context.Context, workspaceID, userID string) (*domain.WorkspaceMember, error)
	IsMember(ctx context.Context, workspaceID, userID string) (bool, error)
	List(ctx context.Context, workspaceID string) ([]*domain.WorkspaceMember, error)
	ListNotOnTeam(ctx context.Context, workspaceID string) ([]*domain.WorkspaceMember, error)
}

type WorkerRepo interface {
	Create(ctx context.Context, w *domain.Worker) error
	GetByID(ctx context.Context, id string) (*domain.Worker, error)
	GetByUser(ctx context.Context, workspaceID, userID string) (*domain.Worker, error)
	ListByWorkspace(ctx context.Context, workspaceID string) ([]*domain.Worker, error)
	UpdatePresence(ctx context.Context, id string, p domain.Presence, at time.Time) error
}

type ProposalRepo interface {
	GetByProject(ctx context.Context, projectID string) (*domain.ProposalBatch, error)
	Replace(ctx context.Context, b *domain.ProposalBatch) error
	DeleteByProject(ctx context.Context, projectID string) (int64, error)
	MarkConfirmed(ctx context.Context, batchID, actorID string, at time.Time) error
	CompleteThroughWeek(ctx context.Context, projectID string, week int) (int64, error)
}

type ActivityRepo interface {
	Create(ctx context.Context, a *domain.ActivityRecord) error
	GetByID(ctx context.Context, id string) (*domain.ActivityRecord, error)
	ListByWorker(ctx context.Context, workerID string, includeRemoved bool) ([]domain.ActivityRecord, error)
	ListActiveByWorkspace(ctx context.Context, workspaceID string) ([]domain.ActivityRecord, error)
	SoftRemove(ctx context.Context, id string, at time.Time) (bool, error)
}

var (
	_ ProjectRepo         = (*SQLiteProjectRepo)(nil)
	_ ProjectTaskRepo     = (*SQLiteProjectTaskRepo)(nil)
	_ WorkspaceMemberRepo = (*SQLiteWorkspaceMemberRepo)(nil)
	_ WorkerRepo          = (*SQLiteWorkerRepo)(nil)
	_ ProposalRepo        = (*SQLiteProposalRepo)(nil)
	_ ActivityRepo        = (*SQLiteActivityRepo)(nil)
)
