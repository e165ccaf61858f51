package domain

import "time"

// WorkspaceMember links an authenticated user to a workspace. Team members
// (Workers) can only be created for users that already have one.
type WorkspaceMember struct {
	WorkspaceID string
	UserID      string
	DisplayName string
	Email       string
	Role        string
	JoinedAt    time.Time
}

const (
	WorkspaceRoleOwner  = "owner"
	WorkspaceRoleMember = "member"
)
