// Package contract is the request/response surface shared by the CLI and
// the HTTP server.
package contract

import (
	"github.com/alexanderramin/apo/internal/app"
	"github.com/alexanderramin/apo/internal/domain"
)

type WorkerWorkload = app.WorkerWorkload

type BandCounts = app.BandCounts

type TeamWorkload = app.TeamWorkload

type WorkerSuggestion = app.WorkerSuggestion

type CreateProjectRequest = app.CreateProjectRequest

type ProcessResult = app.ProcessResult

type ProjectView = app.ProjectView

type UpdateMilestoneRequest = app.UpdateMilestoneRequest

type TickResult = app.TickResult

type AddMemberRequest = app.AddMemberRequest

// NewAddMemberRequest fills the roster defaults for a new team member.
func NewAddMemberRequest(workspaceID, userID, actorID string) AddMemberRequest {
	return AddMemberRequest{
		WorkspaceID:   workspaceID,
		UserID:        userID,
		ActorID:       actorID,
		CapacityHours: domain.DefaultCapacityHours,
		Skills:        []string{},
	}
}
