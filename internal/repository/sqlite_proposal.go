package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/apo/internal/db"
	"github.com/alexanderramin/apo/internal/domain"
)

// SQLiteProposalRepo implements ProposalRepo over proposal_batches and
// project_assignments.
type SQLiteProposalRepo struct {
	db db.DBTX
}

// NewSQLiteProposalRepo creates a new SQLiteProposalRepo.
func NewSQLiteProposalRepo(conn db.DBTX) *SQLiteProposalRepo {
	return &SQLiteProposalRepo{db: conn}
}

// GetByProject loads the project's staged batch with its assignments.
func (r *SQLiteProposalRepo) GetByProject(ctx context.Context, projectID string) (*domain.ProposalBatch, error) {
	var b domain.ProposalBatch
	var statusStr, createdAtStr string
	var confirmedAt sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT id, project_id, status, created_at, confirmed_at, confirmed_by
		FROM proposal_batches WHERE project_id = ?`, projectID,
	).Scan(&b.ID, &b.ProjectID, &statusStr, &createdAtStr, &confirmedAt, &b.ConfirmedBy)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("proposal batch for project %s: %w", projectID, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning proposal batch: %w", err)
	}
	b.Status = domain.BatchStatus(statusStr)
	if b.CreatedAt, err = parseTime("created_at", createdAtStr); err != nil {
		return nil, err
	}
	b.ConfirmedAt = parseNullableTime(confirmedAt, time.RFC3339)

	b.Assignments, err = r.listAssignments(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *SQLiteProposalRepo) listAssignments(ctx context.Context, batchID string) ([]domain.StagedAssignment, error) {
	query := `SELECT id, project_id, batch_id, milestone_id, task_name, week_number, resource_id, match_reason, status, created_at
		FROM project_assignments WHERE batch_id = ? ORDER BY week_number, rowid`
	rows, err := r.db.QueryContext(ctx, query, batchID)
	if err != nil {
		return nil, fmt.Errorf("listing staged assignments: %w", err)
	}
	defer rows.Close()

	var out []domain.StagedAssignment
	for rows.Next() {
		var a domain.StagedAssignment
		var statusStr, createdAtStr string
		if err := rows.Scan(
			&a.ID, &a.ProjectID, &a.BatchID, &a.MilestoneID, &a.TaskName, &a.WeekNumber,
			&a.WorkerID, &a.Reasoning, &statusStr, &createdAtStr,
		); err != nil {
			return nil, fmt.Errorf("scanning staged assignment: %w", err)
		}
		a.Status = domain.StagedStatus(statusStr)
		if a.CreatedAt, err = parseTime("created_at", createdAtStr); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating staged assignments: %w", err)
	}
	return out, nil
}

// Replace deletes the project's current batch and inserts b with its
// assignments. Callers run it inside a transaction.
func (r *SQLiteProposalRepo) Replace(ctx context.Context, b *domain.ProposalBatch) error {
	if _, err := r.DeleteByProject(ctx, b.ProjectID); err != nil {
		return err
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO proposal_batches (id, project_id, status, created_at) VALUES (?, ?, ?, ?)`,
		b.ID, b.ProjectID, string(b.Status), formatTime(b.CreatedAt))
	if err != nil {
		return fmt.Errorf("inserting proposal batch: %w", err)
	}

	query := `INSERT INTO project_assignments (id, project_id, batch_id, milestone_id, task_name, week_number,
		resource_id, match_reason, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for i := range b.Assignments {
		a := &b.Assignments[i]
		if _, err := r.db.ExecContext(ctx, query,
			a.ID, b.ProjectID, b.ID, a.MilestoneID, a.TaskName, a.WeekNumber,
			a.WorkerID, a.Reasoning, string(a.Status), formatTime(a.CreatedAt),
		); err != nil {
			return fmt.Errorf("inserting staged assignment %q: %w", a.TaskName, err)
		}
	}
	return nil
}

// DeleteByProject removes the staged batch and its rows, returning how many
// staged assignments were deleted.
func (r *SQLiteProposalRepo) DeleteByProject(ctx context.Context, projectID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM project_assignments WHERE project_id = ?`, projectID)
	if err != nil {
		return 0, fmt.Errorf("deleting staged assignments: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting deleted staged assignments: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM proposal_batches WHERE project_id = ?`, projectID); err != nil {
		return 0, fmt.Errorf("deleting proposal batch: %w", err)
	}
	return n, nil
}

// MarkConfirmed flips a proposed batch to confirmed. It fails with
// ErrAlreadyConfirmed when the batch is no longer in the proposed state.
func (r *SQLiteProposalRepo) MarkConfirmed(ctx context.Context, batchID, actorID string, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE proposal_batches SET status = 'confirmed', confirmed_at = ?, confirmed_by = ?
		WHERE id = ? AND status = 'proposed'`,
		formatTime(at), actorID, batchID)
	if err != nil {
		return fmt.Errorf("confirming proposal batch: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking proposal batch update: %w", err)
	}
	if n == 0 {
		return domain.ErrAlreadyConfirmed
	}
	return nil
}

// CompleteThroughWeek marks every staged assignment of the project with
// week_number <= week as completed.
func (r *SQLiteProposalRepo) CompleteThroughWeek(ctx context.Context, projectID string, week int) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE project_assignments SET status = 'completed'
		WHERE project_id = ? AND week_number <= ? AND status != 'completed'`,
		projectID, week)
	if err != nil {
		return 0, fmt.Errorf("completing staged assignments: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting completed assignments: %w", err)
	}
	return n, nil
}
