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

// SQLiteActivityRepo implements ActivityRepo over the team_activity ledger.
// Rows are only ever inserted or flipped to removed.
type SQLiteActivityRepo struct {
	db db.DBTX
}

// NewSQLiteActivityRepo creates a new SQLiteActivityRepo.
func NewSQLiteActivityRepo(conn db.DBTX) *SQLiteActivityRepo {
	return &SQLiteActivityRepo{db: conn}
}

const activityColumns = `id, workspace_id, user_id, team_member_id, activity_type, entity_type, entity_id, description,
	task_title, project_id, project_name, milestone_id, estimated_hours, week, notes, confirmed_from, batch_id,
	status, removed_at, created_at`

func (r *SQLiteActivityRepo) Create(ctx context.Context, a *domain.ActivityRecord) error {
	query := `INSERT INTO team_activity (` + activityColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.WorkspaceID, a.ActorID, a.WorkerID, string(a.Type), a.EntityType, a.EntityID, a.Description,
		a.TaskTitle, a.ProjectID, a.ProjectName, a.MilestoneID, a.EstimatedHours, a.Week, a.Notes,
		a.ConfirmedFrom, a.BatchID, string(a.Status), nullableTimeToString(a.RemovedAt, time.RFC3339),
		formatTime(a.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting activity record: %w", err)
	}
	return nil
}

func (r *SQLiteActivityRepo) GetByID(ctx context.Context, id string) (*domain.ActivityRecord, error) {
	query := `SELECT ` + activityColumns + ` FROM team_activity WHERE id = ?`
	a, err := scanActivity(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("activity record %s: %w", id, ErrNotFound)
	}
	return a, err
}

// ListByWorker returns the worker's records, newest first.
func (r *SQLiteActivityRepo) ListByWorker(ctx context.Context, workerID string, includeRemoved bool) ([]domain.ActivityRecord, error) {
	query := `SELECT ` + activityColumns + ` FROM team_activity WHERE team_member_id = ?`
	if !includeRemoved {
		query += ` AND status = 'active'`
	}
	query += ` ORDER BY created_at DESC, rowid DESC`
	return r.list(ctx, query, workerID)
}

// ListActiveByWorkspace returns every active record in the workspace.
func (r *SQLiteActivityRepo) ListActiveByWorkspace(ctx context.Context, workspaceID string) ([]domain.ActivityRecord, error) {
	query := `SELECT ` + activityColumns + ` FROM team_activity
		WHERE workspace_id = ? AND status = 'active' ORDER BY created_at DESC, rowid DESC`
	return r.list(ctx, query, workspaceID)
}

// SoftRemove flips an active record to removed. Already-removed records are
// left untouched; the returned bool reports whether a change was made.
func (r *SQLiteActivityRepo) SoftRemove(ctx context.Context, id string, at time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE team_activity SET status = 'removed', removed_at = ? WHERE id = ? AND status = 'active'`,
		formatTime(at), id)
	if err != nil {
		return false, fmt.Errorf("removing activity record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking activity update: %w", err)
	}
	return n > 0, nil
}

func (r *SQLiteActivityRepo) list(ctx context.Context, query string, args ...any) ([]domain.ActivityRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing activity: %w", err)
	}
	defer rows.Close()

	var out []domain.ActivityRecord
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating activity: %w", err)
	}
	return out, nil
}

func scanActivity(row rowScanner) (*domain.ActivityRecord, error) {
	var a domain.ActivityRecord
	var typeStr, statusStr, createdAtStr string
	var removedAt sql.NullString
	err := row.Scan(
		&a.ID, &a.WorkspaceID, &a.ActorID, &a.WorkerID, &typeStr, &a.EntityType, &a.EntityID, &a.Description,
		&a.TaskTitle, &a.ProjectID, &a.ProjectName, &a.MilestoneID, &a.EstimatedHours, &a.Week, &a.Notes,
		&a.ConfirmedFrom, &a.BatchID, &statusStr, &removedAt, &createdAtStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning activity record: %w", err)
	}
	a.Type = domain.ActivityType(typeStr)
	a.Status = domain.ActivityStatus(statusStr)
	a.RemovedAt = parseNullableTime(removedAt, time.RFC3339)
	if a.CreatedAt, err = parseTime("created_at", createdAtStr); err != nil {
		return nil, err
	}
	return &a, nil
}
