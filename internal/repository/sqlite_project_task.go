package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/apo/internal/db"
	"github.com/alexanderramin/apo/internal/domain"
)

// SQLiteProjectTaskRepo implements ProjectTaskRepo using a SQLite database.
type SQLiteProjectTaskRepo struct {
	db db.DBTX
}

// NewSQLiteProjectTaskRepo creates a new SQLiteProjectTaskRepo.
func NewSQLiteProjectTaskRepo(conn db.DBTX) *SQLiteProjectTaskRepo {
	return &SQLiteProjectTaskRepo{db: conn}
}

// ReplaceGenerated drops the project's previously generated tasks and inserts
// tasks. Manually created tasks are kept.
func (r *SQLiteProjectTaskRepo) ReplaceGenerated(ctx context.Context, projectID string, tasks []domain.ProjectTask) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM project_tasks WHERE project_id = ? AND created_by_ai = 1`, projectID); err != nil {
		return fmt.Errorf("deleting generated tasks: %w", err)
	}

	query := `INSERT INTO project_tasks (id, project_id, title, description, estimated_hours, required_skills,
		priority, dependencies, acceptance_criteria, created_by_ai, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for i := range tasks {
		t := &tasks[i]
		skills, err := encodeJSON("required_skills", t.RequiredSkills, "[]")
		if err != nil {
			return err
		}
		deps, err := encodeJSON("dependencies", t.Dependencies, "[]")
		if err != nil {
			return err
		}
		criteria, err := encodeJSON("acceptance_criteria", t.AcceptanceCriteria, "[]")
		if err != nil {
			return err
		}
		if _, err := r.db.ExecContext(ctx, query,
			t.ID, projectID, t.Title, t.Description, t.EstimatedHours, skills,
			t.Priority, deps, criteria, boolToInt(t.CreatedByAI), t.Status, formatTime(t.CreatedAt),
		); err != nil {
			return fmt.Errorf("inserting project task %q: %w", t.Title, err)
		}
	}
	return nil
}

func (r *SQLiteProjectTaskRepo) ListByProject(ctx context.Context, projectID string) ([]domain.ProjectTask, error) {
	query := `SELECT id, project_id, title, description, estimated_hours, required_skills,
		priority, dependencies, acceptance_criteria, created_by_ai, status, created_at
		FROM project_tasks WHERE project_id = ? ORDER BY created_at, rowid`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing project tasks: %w", err)
	}
	defer rows.Close()

	var tasks []domain.ProjectTask
	for rows.Next() {
		var t domain.ProjectTask
		var skills, deps, criteria, createdAtStr string
		var byAI int
		if err := rows.Scan(
			&t.ID, &t.ProjectID, &t.Title, &t.Description, &t.EstimatedHours, &skills,
			&t.Priority, &deps, &criteria, &byAI, &t.Status, &createdAtStr,
		); err != nil {
			return nil, fmt.Errorf("scanning project task: %w", err)
		}
		t.CreatedByAI = intToBool(byAI)
		if err := decodeJSON("required_skills", skills, &t.RequiredSkills); err != nil {
			return nil, err
		}
		if err := decodeJSON("dependencies", deps, &t.Dependencies); err != nil {
			return nil, err
		}
		if err := decodeJSON("acceptance_criteria", criteria, &t.AcceptanceCriteria); err != nil {
			return nil, err
		}
		if t.CreatedAt, err = parseTime("created_at", createdAtStr); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating project tasks: %w", err)
	}
	return tasks, nil
}
