package app

import (
	"context"

	"github.com/alexanderramin/apo/internal/domain"
)

type ProcessDocumentUseCase interface {
	Process(ctx context.Context, projectID string) (*ProcessResult, error)
}

type ProposeAllocationUseCase interface {
	Propose(ctx context.Context, projectID string) (*ProposalResult, error)
}

type ConfirmAllocationUseCase interface {
	Confirm(ctx context.Context, req ConfirmRequest) (*ConfirmResult, error)
	Reject(ctx context.Context, projectID string) (*RejectResult, error)
}

type RecordAssignmentUseCase interface {
	RecordAssignment(ctx context.Context, req RecordAssignmentRequest) (*domain.ActivityRecord, error)
}

type SimulateWeekUseCase interface {
	Tick(ctx context.Context, projectID string) (*TickResult, error)
}

type AddTeamMemberUseCase interface {
	AddMember(ctx context.Context, req AddMemberRequest) (*domain.Worker, error)
}
