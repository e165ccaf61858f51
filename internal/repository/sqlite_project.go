package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/apo/internal/db"
	"github.com/alexanderramin/apo/internal/domain"
)

// SQLiteProjectRepo implements ProjectRepo using a SQLite database.
type SQLiteProjectRepo struct {
	db db.DBTX
}

// NewSQLiteProjectRepo creates a new SQLiteProjectRepo.
func NewSQLiteProjectRepo(conn db.DBTX) *SQLiteProjectRepo {
	return &SQLiteProjectRepo{db: conn}
}

const projectColumns = `id, workspace_id, owner_id, name, file_url, ai_status, status_error, project_type,
	ai_data, client_info, success_criteria, custom_fields, current_week, simulation_logs, created_at, updated_at`

type projectJSON struct {
	data, client, criteria, custom, log string
}

func encodeProject(p *domain.Project) (projectJSON, error) {
	var out projectJSON
	var err error
	if p.Data != nil {
		if out.data, err = encodeJSON("ai_data", p.Data, ""); err != nil {
			return out, err
		}
	}
	if out.client, err = encodeJSON("client_info", p.Client, "{}"); err != nil {
		return out, err
	}
	if out.criteria, err = encodeJSON("success_criteria", p.SuccessCriteria, "{}"); err != nil {
		return out, err
	}
	if out.custom, err = encodeJSON("custom_fields", p.CustomFields, "{}"); err != nil {
		return out, err
	}
	if out.log, err = encodeJSON("simulation_logs", p.SimulationLog, "[]"); err != nil {
		return out, err
	}
	return out, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func (r *SQLiteProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	enc, err := encodeProject(p)
	if err != nil {
		return err
	}
	query := `INSERT INTO projects (` + projectColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		p.ID,
		p.WorkspaceID,
		p.OwnerID,
		p.Name,
		p.FileURL,
		string(p.Status),
		p.StatusError,
		domain.NormalizeProjectType(p.ProjectType),
		nullIfEmpty(enc.data),
		enc.client,
		enc.criteria,
		enc.custom,
		p.CurrentWeek,
		enc.log,
		formatTime(p.CreatedAt),
		formatTime(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting project: %w", err)
	}
	return nil
}

func (r *SQLiteProjectRepo) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = ?`
	p, err := scanProject(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	return p, err
}

func (r *SQLiteProjectRepo) ListByWorkspace(ctx context.Context, workspaceID string) ([]*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE workspace_id = ? ORDER BY created_at DESC, name`
	rows, err := r.db.QueryContext(ctx, query, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	var projects []*domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating projects: %w", err)
	}
	return projects, nil
}

// Update rewrites every mutable column of the project.
func (r *SQLiteProjectRepo) Update(ctx context.Context, p *domain.Project) error {
	enc, err := encodeProject(p)
	if err != nil {
		return err
	}
	query := `UPDATE projects SET name = ?, file_url = ?, ai_status = ?, status_error = ?, project_type = ?,
		ai_data = ?, client_info = ?, success_criteria = ?, custom_fields = ?,
		current_week = ?, simulation_logs = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		p.Name,
		p.FileURL,
		string(p.Status),
		p.StatusError,
		domain.NormalizeProjectType(p.ProjectType),
		nullIfEmpty(enc.data),
		enc.client,
		enc.criteria,
		enc.custom,
		p.CurrentWeek,
		enc.log,
		formatTime(p.UpdatedAt),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating project: %w", err)
	}
	return requireAffected(res, "project", p.ID)
}

// UpdateStatus records an extraction status change without touching the
// extracted data.
func (r *SQLiteProjectRepo) UpdateStatus(ctx context.Context, p *domain.Project) error {
	query := `UPDATE projects SET ai_status = ?, status_error = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, string(p.Status), p.StatusError, formatTime(p.UpdatedAt), p.ID)
	if err != nil {
		return fmt.Errorf("updating project status: %w", err)
	}
	return requireAffected(res, "project", p.ID)
}

// UpdateSimulation persists current_week and the rolling log together.
func (r *SQLiteProjectRepo) UpdateSimulation(ctx context.Context, p *domain.Project) error {
	logJSON, err := encodeJSON("simulation_logs", p.SimulationLog, "[]")
	if err != nil {
		return err
	}
	query := `UPDATE projects SET current_week = ?, simulation_logs = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, p.CurrentWeek, logJSON, formatTime(p.UpdatedAt), p.ID)
	if err != nil {
		return fmt.Errorf("updating project simulation: %w", err)
	}
	return requireAffected(res, "project", p.ID)
}

func requireAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking %s update: %w", entity, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", entity, id, ErrNotFound)
	}
	return nil
}

// scanProject returns sql.ErrNoRows unwrapped so callers can map it.
func scanProject(row rowScanner) (*domain.Project, error) {
	var p domain.Project
	var statusStr, createdAtStr, updatedAtStr string
	var client, criteria, custom, logJSON string
	var data sql.NullString

	err := row.Scan(
		&p.ID, &p.WorkspaceID, &p.OwnerID, &p.Name, &p.FileURL,
		&statusStr, &p.StatusError, &p.ProjectType,
		&data, &client, &criteria, &custom,
		&p.CurrentWeek, &logJSON,
		&createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning project: %w", err)
	}

	p.Status = domain.ExtractionStatus(statusStr)

	if data.Valid && data.String != "" {
		p.Data = &domain.ExtractedData{}
		if err := decodeJSON("ai_data", data.String, p.Data); err != nil {
			return nil, err
		}
	}
	if err := decodeJSON("client_info", client, &p.Client); err != nil {
		return nil, err
	}
	if err := decodeJSON("success_criteria", criteria, &p.SuccessCriteria); err != nil {
		return nil, err
	}
	if err := decodeJSON("custom_fields", custom, &p.CustomFields); err != nil {
		return nil, err
	}
	if err := decodeJSON("simulation_logs", logJSON, &p.SimulationLog); err != nil {
		return nil, err
	}

	if p.CreatedAt, err = parseTime("created_at", createdAtStr); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime("updated_at", updatedAtStr); err != nil {
		return nil, err
	}
	return &p, nil
}
