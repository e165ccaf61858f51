package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/apo/internal/db"
	"github.com/alexanderramin/apo/internal/domain"
)

// SQLiteWorkerRepo implements WorkerRepo over the team_members table.
type SQLiteWorkerRepo struct {
	db db.DBTX
}

// NewSQLiteWorkerRepo creates a new SQLiteWorkerRepo.
func NewSQLiteWorkerRepo(conn db.DBTX) *SQLiteWorkerRepo {
	return &SQLiteWorkerRepo{db: conn}
}

const workerColumns = `id, workspace_id, user_id, job_title, skills, capacity_hours, hourly_rate, status, created_at, updated_at`

func (r *SQLiteWorkerRepo) Create(ctx context.Context, w *domain.Worker) error {
	skills, err := encodeJSON("skills", w.Skills, "[]")
	if err != nil {
		return err
	}
	query := `INSERT INTO team_members (` + workerColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		w.ID, w.WorkspaceID, w.UserID, w.JobTitle, skills,
		w.CapacityHours, w.HourlyRate, string(w.Presence),
		formatTime(w.CreatedAt), formatTime(w.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return domain.ErrAlreadyOnTeam
		}
		return fmt.Errorf("inserting team member: %w", err)
	}
	return nil
}

func (r *SQLiteWorkerRepo) GetByID(ctx context.Context, id string) (*domain.Worker, error) {
	query := `SELECT ` + workerColumns + ` FROM team_members WHERE id = ?`
	w, err := scanWorker(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("team member %s: %w", id, ErrNotFound)
	}
	return w, err
}

func (r *SQLiteWorkerRepo) GetByUser(ctx context.Context, workspaceID, userID string) (*domain.Worker, error) {
	query := `SELECT ` + workerColumns + ` FROM team_members WHERE workspace_id = ? AND user_id = ?`
	w, err := scanWorker(r.db.QueryRowContext(ctx, query, workspaceID, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("team member for user %s: %w", userID, ErrNotFound)
	}
	return w, err
}

func (r *SQLiteWorkerRepo) ListByWorkspace(ctx context.Context, workspaceID string) ([]*domain.Worker, error) {
	query := `SELECT ` + workerColumns + ` FROM team_members WHERE workspace_id = ? ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("listing team members: %w", err)
	}
	defer rows.Close()

	var workers []*domain.Worker
	for rows.Next() {
		w, err := scanWorker(rows)
		if err != nil {
			return nil, err
		}
		workers = append(workers, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating team members: %w", err)
	}
	return workers, nil
}

func (r *SQLiteWorkerRepo) UpdatePresence(ctx context.Context, id string, p domain.Presence, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE team_members SET status = ?, updated_at = ? WHERE id = ?`, string(p), formatTime(at), id)
	if err != nil {
		return fmt.Errorf("updating team member status: %w", err)
	}
	return requireAffected(res, "team member", id)
}

func scanWorker(row rowScanner) (*domain.Worker, error) {
	var w domain.Worker
	var skills, presence, createdAtStr, updatedAtStr string
	err := row.Scan(
		&w.ID, &w.WorkspaceID, &w.UserID, &w.JobTitle, &skills,
		&w.CapacityHours, &w.HourlyRate, &presence,
		&createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning team member: %w", err)
	}
	w.Presence = domain.Presence(presence)
	if err := decodeJSON("skills", skills, &w.Skills); err != nil {
		return nil, err
	}
	if w.CreatedAt, err = parseTime("created_at", createdAtStr); err != nil {
		return nil, err
	}
	if w.UpdatedAt, err = parseTime("updated_at", updatedAtStr); err != nil {
		return nil, err
	}
	return &w, nil
}
