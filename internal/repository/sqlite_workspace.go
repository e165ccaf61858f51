package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/apo/internal/db"
	"github.com/alexanderramin/apo/internal/domain"
)

// SQLiteWorkspaceMemberRepo implements WorkspaceMemberRepo using a SQLite database.
type SQLiteWorkspaceMemberRepo struct {
	db db.DBTX
}

// NewSQLiteWorkspaceMemberRepo creates a new SQLiteWorkspaceMemberRepo.
func NewSQLiteWorkspaceMemberRepo(conn db.DBTX) *SQLiteWorkspaceMemberRepo {
	return &SQLiteWorkspaceMemberRepo{db: conn}
}

func (r *SQLiteWorkspaceMemberRepo) Add(ctx context.Context, m *domain.WorkspaceMember) error {
	query := `INSERT INTO workspace_members (workspace_id, user_id, display_name, email, role, joined_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		m.WorkspaceID, m.UserID, m.DisplayName, m.Email, m.Role, formatTime(m.JoinedAt))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return fmt.Errorf("%w: user %s is already a member of workspace %s", domain.ErrConflict, m.UserID, m.WorkspaceID)
		}
		return fmt.Errorf("inserting workspace member: %w", err)
	}
	return nil
}

func (r *SQLiteWorkspaceMemberRepo) Get(ctx context.Context, workspaceID, userID string) (*domain.WorkspaceMember, error) {
	query := `SELECT workspace_id, user_id, display_name, email, role, joined_at
		FROM workspace_members WHERE workspace_id = ? AND user_id = ?`
	m, err := scanWorkspaceMember(r.db.QueryRowContext(ctx, query, workspaceID, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("workspace member %s: %w", userID, ErrNotFound)
	}
	return m, err
}

func (r *SQLiteWorkspaceMemberRepo) IsMember(ctx context.Context, workspaceID, userID string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM workspace_members WHERE workspace_id = ? AND user_id = ?`,
		workspaceID, userID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking workspace membership: %w", err)
	}
	return n > 0, nil
}

func (r *SQLiteWorkspaceMemberRepo) List(ctx context.Context, workspaceID string) ([]*domain.WorkspaceMember, error) {
	query := `SELECT workspace_id, user_id, display_name, email, role, joined_at
		FROM workspace_members WHERE workspace_id = ? ORDER BY joined_at, user_id`
	return r.list(ctx, query, workspaceID)
}

// ListNotOnTeam returns workspace members without a team_members row.
func (r *SQLiteWorkspaceMemberRepo) ListNotOnTeam(ctx context.Context, workspaceID string) ([]*domain.WorkspaceMember, error) {
	query := `SELECT wm.workspace_id, wm.user_id, wm.display_name, wm.email, wm.role, wm.joined_at
		FROM workspace_members wm
		LEFT JOIN team_members tm ON tm.workspace_id = wm.workspace_id AND tm.user_id = wm.user_id
		WHERE wm.workspace_id = ? AND tm.id IS NULL
		ORDER BY wm.joined_at, wm.user_id`
	return r.list(ctx, query, workspaceID)
}

func (r *SQLiteWorkspaceMemberRepo) list(ctx context.Context, query, workspaceID string) ([]*domain.WorkspaceMember, error) {
	rows, err := r.db.QueryContext(ctx, query, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("listing workspace members: %w", err)
	}
	defer rows.Close()

	var members []*domain.WorkspaceMember
	for rows.Next() {
		m, err := scanWorkspaceMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating workspace members: %w", err)
	}
	return members, nil
}

func scanWorkspaceMember(row rowScanner) (*domain.WorkspaceMember, error) {
	var m domain.WorkspaceMember
	var joinedAtStr string
	if err := row.Scan(&m.WorkspaceID, &m.UserID, &m.DisplayName, &m.Email, &m.Role, &joinedAtStr); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning workspace member: %w", err)
	}
	var err error
	if m.JoinedAt, err = parseTime("joined_at", joinedAtStr); err != nil {
		return nil, err
	}
	return &m, nil
}
