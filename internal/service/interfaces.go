package service

import (
	"context"

	"github.com/alexanderramin/apo/internal/app"
	"github.com/alexanderramin/apo/internal/contract"
	"github.com/alexanderramin/apo/internal/domain"
)

type ProjectService interface {
	Create(ctx context.Context, req contract.CreateProjectRequest) (*domain.Project, error)
	Process(ctx context.Context, projectID string) (*contract.ProcessResult, error)
	Get(ctx context.Context, projectID string) (*contract.ProjectView, error)
	ListByWorkspace(ctx context.Context, workspaceID string) ([]*domain.Project, error)
}

type MilestoneService interface {
	Update(ctx context.Context, req contract.UpdateMilestoneRequest) (*domain.Milestone, error)
}

type AllocationService interface {
	Propose(ctx context.Context, projectID string) (*contract.ProposalResult, error)
	Current(ctx context.Context, projectID string) (*domain.ProposalBatch, error)
	Confirm(ctx context.Context, req contract.ConfirmRequest) (*contract.ConfirmResult, error)
	Reject(ctx context.Context, projectID string) (*contract.RejectResult, error)
}

type LedgerService interface {
	RecordAssignment(ctx context.Context, req contract.RecordAssignmentRequest) (*domain.ActivityRecord, error)
	SoftRemove(ctx context.Context, activityID string) (*domain.ActivityRecord, error)
	Utilization(ctx context.Context, workerID string) (domain.Workload, error)
	TeamWorkload(ctx context.Context, workspaceID string) (*contract.TeamWorkload, error)
	ListActivity(ctx context.Context, workerID string, includeRemoved bool) ([]domain.ActivityRecord, error)
}

type SimulationService interface {
	Tick(ctx context.Context, projectID string) (*contract.TickResult, error)
}

type TeamService interface {
	AddMember(ctx context.Context, req contract.AddMemberRequest) (*domain.Worker, error)
	AvailableUsers(ctx context.Context, workspaceID string) ([]*domain.WorkspaceMember, error)
	ListWorkers(ctx context.Context, workspaceID string) ([]*domain.Worker, error)
	SetPresence(ctx context.Context, workerID string, presence domain.Presence) error
	SuggestWorkers(ctx context.Context, workspaceID, milestoneTitle string) ([]contract.WorkerSuggestion, error)
}

type WorkspaceService interface {
	AddMember(ctx context.Context, workspaceID, userID, role string) (*domain.WorkspaceMember, error)
	ListMembers(ctx context.Context, workspaceID string) ([]*domain.WorkspaceMember, error)
	IsMember(ctx context.Context, workspaceID, userID string) (bool, error)
}

var (
	_ app.ProcessDocumentUseCase   = ProjectService(nil)
	_ app.ProposeAllocationUseCase = AllocationService(nil)
	_ app.ConfirmAllocationUseCase = AllocationService(nil)
	_ app.RecordAssignmentUseCase  = LedgerService(nil)
	_ app.SimulateWeekUseCase      = SimulationService(nil)
	_ app.AddTeamMemberUseCase     = TeamService(nil)
)
