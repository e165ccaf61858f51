package domain

import "time"

// StagedAssignment is a proposed milestone to worker mapping awaiting
// confirmation. It belongs to exactly one ProposalBatch.
type StagedAssignment struct {
	ID          string
	ProjectID   string
	BatchID     string
	MilestoneID string
	TaskName    string
	WeekNumber  int
	WorkerID    string
	Reasoning   string
	Status      StagedStatus
	CreatedAt   time.Time
}

// ProposalBatch is the single staged proposal of a project. Its ID acts as
// the optimistic version token for confirm.
type ProposalBatch struct {
	ID          string
	ProjectID   string
	Status      BatchStatus
	CreatedAt   time.Time
	ConfirmedAt *time.Time
	ConfirmedBy string

	Assignments []StagedAssignment
}

// IsConfirmed reports whether the batch has been committed to the ledger.
func (b *ProposalBatch) IsConfirmed() bool {
	return b.Status == BatchConfirmed
}

// CheckConfirmable validates a confirm attempt against the batch.
// expectedID may be empty to skip the version check.
func (b *ProposalBatch) CheckConfirmable(expectedID string) error {
	if b == nil || len(b.Assignments) == 0 {
		return ErrNothingToConfirm
	}
	if expectedID != "" && expectedID != b.ID {
		return ErrStaleProposal
	}
	if b.IsConfirmed() {
		return ErrAlreadyConfirmed
	}
	return nil
}
