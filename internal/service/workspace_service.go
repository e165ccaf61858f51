package service

import (
	"context"
	"strings"

	"github.com/alexanderramin/apo/internal/domain"
	"github.com/alexanderramin/apo/internal/repository"
)

type workspaceService struct {
	members  repository.WorkspaceMemberRepo
	settings Settings
	observer UseCaseObserver
}

func NewWorkspaceService(members repository.WorkspaceMemberRepo, settings Settings, observers ...UseCaseObserver) WorkspaceService {
	return &workspaceService{
		members:  members,
		settings: settings.withDefaults(),
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *workspaceService) AddMember(ctx context.Context, workspaceID, userID, role string) (member *domain.WorkspaceMember, err error) {
	startedAt := s.settings.Clock()
	fields := map[string]any{"workspace_id": workspaceID, "user_id": userID, "role": role}
	defer func() { observe(ctx, s.observer, "add-workspace-member", startedAt, fields, err) }()

	workspaceID, userID = strings.TrimSpace(workspaceID), strings.TrimSpace(userID)
	if workspaceID == "" || userID == "" {
		return nil, domain.Preconditionf("workspace id and user id are required")
	}
	switch role {
	case "":
		role = domain.WorkspaceRoleMember
	case domain.WorkspaceRoleOwner, domain.WorkspaceRoleMember:
	default:
		return nil, domain.Preconditionf("unknown workspace role %q", role)
	}

	member = &domain.WorkspaceMember{
		WorkspaceID: workspaceID,
		UserID:      userID,
		DisplayName: userID,
		Role:        role,
		JoinedAt:    s.settings.now(),
	}
	if err = s.members.Add(ctx, member); err != nil {
		return nil, persistenceError("adding workspace member", err)
	}
	return member, nil
}

func (s *workspaceService) ListMembers(ctx context.Context, workspaceID string) ([]*domain.WorkspaceMember, error) {
	return s.members.List(ctx, workspaceID)
}

func (s *workspaceService) IsMember(ctx context.Context, workspaceID, userID string) (bool, error) {
	return s.members.IsMember(ctx, workspaceID, userID)
}
