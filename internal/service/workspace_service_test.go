package service

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/apo/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkspace_AddAndListMembers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := NewWorkspaceService(env.members, env.settings)

	m, err := svc.AddMember(ctx, "ws-1", "alice", "")
	require.NoError(t, err)
	assert.Equal(t, domain.WorkspaceRoleMember, m.Role)

	_, err = svc.AddMember(ctx, "ws-1", "bob", domain.WorkspaceRoleOwner)
	require.NoError(t, err)

	_, err = svc.AddMember(ctx, "ws-1", "alice", "")
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = svc.AddMember(ctx, "ws-1", "carol", "admin")
	assert.ErrorIs(t, err, domain.ErrPrecondition)

	members, err := svc.ListMembers(ctx, "ws-1")
	require.NoError(t, err)
	assert.Len(t, members, 2)

	ok, err := svc.IsMember(ctx, "ws-1", "bob")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestUseCaseObservers(t *testing.T) {
	var buf bytes.Buffer
	rec := &recordingObserver{}
	obs := useCaseObserverOrNoop([]UseCaseObserver{nil, NewLogUseCaseObserver(&buf), rec})

	obs.ObserveUseCase(context.Background(), UseCaseEvent{Name: "confirm-allocation", Success: true, Fields: map[string]any{"confirmed": 2}})
	obs.ObserveUseCase(context.Background(), UseCaseEvent{Name: "confirm-allocation", Err: errors.New("boom")})

	require.Len(t, rec.events, 2)
	out := buf.String()
	assert.Contains(t, out, "service_use_case")
	assert.Contains(t, out, "use_case=confirm-allocation")
	assert.Contains(t, out, "confirmed=2")
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "error=boom")

	assert.IsType(t, NoopUseCaseObserver{}, useCaseObserverOrNoop(nil))
	assert.Same(t, rec, useCaseObserverOrNoop([]UseCaseObserver{nil, rec}))
}
