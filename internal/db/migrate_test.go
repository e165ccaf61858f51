package db

import (
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	// Run migrations a second time; should succeed without error.
	err := Migrate(db)
	require.NoError(t, err)

	err = Migrate(db)
	require.NoError(t, err)
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	expected := []string{
		"workspace_members", "projects", "project_tasks", "team_members",
		"proposal_batches", "project_assignments", "team_activity",
	}
	for _, table := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_CreatesIndexes(t *testing.T) {
	db := openTestDB(t)

	expected := []string{
		"idx_projects_workspace",
		"idx_project_tasks_project",
		"idx_assignments_project",
		"idx_assignments_batch",
		"idx_activity_member",
		"idx_activity_workspace",
	}
	for _, idx := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
	}
}

func TestMigrate_TeamMemberUniquePerWorkspace(t *testing.T) {
	db := openTestDB(t)

	insert := `INSERT INTO team_members (id, workspace_id, user_id, created_at, updated_at)
		VALUES (?, 'ws', 'u1', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`
	_, err := db.Exec(insert, "tm1")
	require.NoError(t, err)
	_, err = db.Exec(insert, "tm2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UNIQUE")
}

func TestMigrate_ActivityStatusConstraint(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO team_members (id, workspace_id, user_id, created_at, updated_at)
		VALUES ('tm1', 'ws', 'u1', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO team_activity (id, workspace_id, team_member_id, activity_type, status, created_at)
		VALUES ('a1', 'ws', 'tm1', 'task_assigned', 'deleted', '2025-01-01T00:00:00Z')`)
	require.Error(t, err, "status outside active/removed must be rejected")
}

func TestMigrate_BackfillsMilestoneIDs(t *testing.T) {
	db := openTestDB(t)

	legacy := `{"summary":"s","milestones":[{"title":"Design","week":1},{"id":"keep","title":"Build","week":3}]}`
	_, err := db.Exec(`INSERT INTO projects (id, workspace_id, name, ai_data, created_at, updated_at)
		VALUES ('p1', 'ws', 'Legacy', ?, '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`, legacy)
	require.NoError(t, err)

	require.NoError(t, Migrate(db))

	var raw string
	require.NoError(t, db.QueryRow(`SELECT ai_data FROM projects WHERE id = 'p1'`).Scan(&raw))

	var doc struct {
		Summary    string `json:"summary"`
		Milestones []struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"milestones"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	require.Len(t, doc.Milestones, 2)
	assert.NotEmpty(t, doc.Milestones[0].ID)
	assert.Equal(t, "keep", doc.Milestones[1].ID)
	assert.Equal(t, "s", doc.Summary)

	// Second run leaves already-minted ids alone.
	first := doc.Milestones[0].ID
	require.NoError(t, Migrate(db))
	require.NoError(t, db.QueryRow(`SELECT ai_data FROM projects WHERE id = 'p1'`).Scan(&raw))
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	assert.Equal(t, first, doc.Milestones[0].ID)
}
