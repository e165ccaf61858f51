package app

import "github.com/alexanderramin/apo/internal/domain"

// DiscardedProposal is an oracle candidate that failed validation.
type DiscardedProposal struct {
	TaskName string
	WorkerID string
	Reason   string
}

// ProposalResult is the outcome of a successful proposal run.
type ProposalResult struct {
	ProjectID       string
	BatchID         string
	AssignedCount   int
	TotalMilestones int
	Discarded       []DiscardedProposal
	Assignments     []domain.StagedAssignment
	Model           string
}

type ConfirmRequest struct {
	ProjectID string
	ActorID   string
	// BatchID, when set, must match the staged batch.
	BatchID string
}

type ConfirmResult struct {
	ProjectID      string
	BatchID        string
	ConfirmedCount int
	Records        []domain.ActivityRecord
}

type RejectResult struct {
	ProjectID string
	Discarded int64
}
