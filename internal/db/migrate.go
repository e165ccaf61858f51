package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateBackfillMilestoneIDs(db); err != nil {
		return fmt.Errorf("backfilling milestone ids: %w", err)
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS workspace_members (
		workspace_id TEXT NOT NULL,
		user_id      TEXT NOT NULL,
		display_name TEXT NOT NULL DEFAULT '',
		email        TEXT NOT NULL DEFAULT '',
		role         TEXT NOT NULL DEFAULT 'member'
		             CHECK(role IN ('owner','member')),
		joined_at    TEXT NOT NULL,
		PRIMARY KEY (workspace_id, user_id)
	)`,

	`CREATE TABLE IF NOT EXISTS projects (
		id               TEXT PRIMARY KEY,
		workspace_id     TEXT NOT NULL,
		owner_id         TEXT NOT NULL DEFAULT '',
		name             TEXT NOT NULL,
		file_url         TEXT NOT NULL DEFAULT '',
		ai_status        TEXT NOT NULL DEFAULT 'idle'
		                 CHECK(ai_status IN ('idle','parsing','completed','failed')),
		project_type     TEXT NOT NULL DEFAULT 'general',
		ai_data          TEXT,
		client_info      TEXT NOT NULL DEFAULT '{}',
		success_criteria TEXT NOT NULL DEFAULT '{}',
		custom_fields    TEXT NOT NULL DEFAULT '{}',
		current_week     INTEGER NOT NULL DEFAULT 0 CHECK(current_week >= 0),
		simulation_logs  TEXT NOT NULL DEFAULT '[]',
		created_at       TEXT NOT NULL,
		updated_at       TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_projects_workspace ON projects(workspace_id)`,

	`CREATE TABLE IF NOT EXISTS project_tasks (
		id                  TEXT PRIMARY KEY,
		project_id          TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		title               TEXT NOT NULL,
		description         TEXT NOT NULL DEFAULT '',
		estimated_hours     REAL NOT NULL DEFAULT 0 CHECK(estimated_hours >= 0),
		required_skills     TEXT NOT NULL DEFAULT '[]',
		priority            TEXT NOT NULL DEFAULT 'medium'
		                    CHECK(priority IN ('high','medium','low')),
		dependencies        TEXT NOT NULL DEFAULT '[]',
		acceptance_criteria TEXT NOT NULL DEFAULT '[]',
		created_by_ai       INTEGER NOT NULL DEFAULT 0,
		status              TEXT NOT NULL DEFAULT 'pending',
		created_at          TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_project_tasks_project ON project_tasks(project_id)`,

	`CREATE TABLE IF NOT EXISTS team_members (
		id             TEXT PRIMARY KEY,
		workspace_id   TEXT NOT NULL,
		user_id        TEXT NOT NULL,
		job_title      TEXT NOT NULL DEFAULT '',
		skills         TEXT NOT NULL DEFAULT '[]',
		capacity_hours REAL NOT NULL DEFAULT 40 CHECK(capacity_hours >= 0),
		hourly_rate    REAL NOT NULL DEFAULT 0 CHECK(hourly_rate >= 0),
		status         TEXT NOT NULL DEFAULT 'offline'
		               CHECK(status IN ('online','away','busy','offline')),
		created_at     TEXT NOT NULL,
		updated_at     TEXT NOT NULL,
		UNIQUE (workspace_id, user_id)
	)`,

	`CREATE TABLE IF NOT EXISTS proposal_batches (
		id           TEXT PRIMARY KEY,
		project_id   TEXT NOT NULL UNIQUE REFERENCES projects(id) ON DELETE CASCADE,
		status       TEXT NOT NULL DEFAULT 'proposed'
		             CHECK(status IN ('proposed','confirmed')),
		created_at   TEXT NOT NULL,
		confirmed_at TEXT,
		confirmed_by TEXT NOT NULL DEFAULT ''
	)`,

	`CREATE TABLE IF NOT EXISTS project_assignments (
		id           TEXT PRIMARY KEY,
		project_id   TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		batch_id     TEXT NOT NULL REFERENCES proposal_batches(id) ON DELETE CASCADE,
		milestone_id TEXT NOT NULL DEFAULT '',
		task_name    TEXT NOT NULL,
		week_number  INTEGER NOT NULL DEFAULT 0,
		resource_id  TEXT NOT NULL REFERENCES team_members(id),
		match_reason TEXT NOT NULL DEFAULT '',
		status       TEXT NOT NULL DEFAULT 'proposed'
		             CHECK(status IN ('proposed','completed')),
		created_at   TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_assignments_project ON project_assignments(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_assignments_batch ON project_assignments(batch_id)`,

	// Ledger rows outlive proposal batches and projects, so no foreign keys
	// other than the worker.
	`CREATE TABLE IF NOT EXISTS team_activity (
		id              TEXT PRIMARY KEY,
		workspace_id    TEXT NOT NULL,
		user_id         TEXT NOT NULL DEFAULT '',
		team_member_id  TEXT NOT NULL REFERENCES team_members(id),
		activity_type   TEXT NOT NULL
		                CHECK(activity_type IN ('task_assigned','joined_team')),
		entity_type     TEXT NOT NULL DEFAULT '',
		entity_id       TEXT NOT NULL DEFAULT '',
		description     TEXT NOT NULL DEFAULT '',
		task_title      TEXT NOT NULL DEFAULT '',
		project_id      TEXT NOT NULL DEFAULT '',
		project_name    TEXT NOT NULL DEFAULT '',
		milestone_id    TEXT NOT NULL DEFAULT '',
		estimated_hours REAL NOT NULL DEFAULT 0 CHECK(estimated_hours >= 0),
		week            INTEGER NOT NULL DEFAULT 0,
		notes           TEXT NOT NULL DEFAULT '',
		confirmed_from  TEXT NOT NULL DEFAULT '',
		batch_id        TEXT NOT NULL DEFAULT '',
		status          TEXT NOT NULL DEFAULT 'active'
		                CHECK(status IN ('active','removed')),
		removed_at      TEXT,
		created_at      TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_activity_member ON team_activity(team_member_id, status)`,
	`CREATE INDEX IF NOT EXISTS idx_activity_workspace ON team_activity(workspace_id)`,

	`ALTER TABLE projects ADD COLUMN status_error TEXT NOT NULL DEFAULT ''`,
}

// migrateBackfillMilestoneIDs mints ids for milestones stored before
// extraction started assigning them.
func migrateBackfillMilestoneIDs(db *sql.DB) error {
	ctx := context.Background()
	rows, err := db.QueryContext(ctx, `SELECT id, ai_data FROM projects WHERE ai_data IS NOT NULL AND ai_data != ''`)
	if err != nil {
		return fmt.Errorf("listing projects: %w", err)
	}
	type pending struct {
		id   string
		data string
	}
	var updates []pending
	for rows.Next() {
		var id, raw string
		if err := rows.Scan(&id, &raw); err != nil {
			rows.Close()
			return fmt.Errorf("scanning project: %w", err)
		}
		patched, changed, err := backfillMilestoneIDs(raw)
		if err != nil {
			rows.Close()
			return fmt.Errorf("project %s: %w", id, err)
		}
		if changed {
			updates = append(updates, pending{id: id, data: patched})
		}
	}
	if err := rows.Close(); err != nil {
		return err
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, u := range updates {
		if _, err := db.ExecContext(ctx, `UPDATE projects SET ai_data = ? WHERE id = ?`, u.data, u.id); err != nil {
			return fmt.Errorf("updating project %s: %w", u.id, err)
		}
	}
	return nil
}

func backfillMilestoneIDs(raw string) (string, bool, error) {
	var doc map[string]any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return "", false, fmt.Errorf("decoding ai_data: %w", err)
	}
	list, ok := doc["milestones"].([]any)
	if !ok {
		return raw, false, nil
	}
	changed := false
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if id, _ := m["id"].(string); id == "" {
			m["id"] = uuid.New().String()
			changed = true
		}
	}
	if !changed {
		return raw, false, nil
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return "", false, fmt.Errorf("encoding ai_data: %w", err)
	}
	return string(out), true, nil
}
