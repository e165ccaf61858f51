package app

import "github.com/alexanderramin/apo/internal/domain"

type CreateProjectRequest struct {
	WorkspaceID string
	OwnerID     string
	Name        string
	FileName    string
	Content     []byte
}

// ProcessResult reports a completed structured extraction.
type ProcessResult struct {
	Project   *domain.Project
	TaskCount int
	Warnings  []string
}

// ProjectView is a project with its extracted task list and type catalog entry.
type ProjectView struct {
	Project *domain.Project
	Tasks   []domain.ProjectTask
	Type    domain.ProjectType
}

type UpdateMilestoneRequest struct {
	ProjectID     string
	MilestoneID   string
	ActorID       string
	Status        domain.MilestoneStatus
	CompletionPct *int
}
