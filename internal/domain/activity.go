package domain

import (
	"fmt"
	"time"
)

// ActivityRecord is a durable ledger entry. Records are never deleted; the
// only mutation is flipping Status to removed.
type ActivityRecord struct {
	ID          string
	WorkspaceID string
	ActorID     string
	WorkerID    string
	Type        ActivityType
	EntityType  string
	EntityID    string
	Description string

	TaskTitle      string
	ProjectID      string
	ProjectName    string
	MilestoneID    string
	EstimatedHours float64
	Week           int
	Notes          string
	ConfirmedFrom  string
	BatchID        string

	Status    ActivityStatus
	RemovedAt *time.Time
	CreatedAt time.Time
}

// IsActive reports whether the record counts towards utilization.
func (a *ActivityRecord) IsActive() bool {
	return a.Status != ActivityRemoved
}

// AssignmentRecordParams describes one task assignment entering the ledger.
type AssignmentRecordParams struct {
	WorkspaceID    string
	ActorID        string
	WorkerID       string
	Project        *Project
	MilestoneID    string
	TaskTitle      string
	EstimatedHours float64
	Week           int
	Notes          string
	Source         string
	BatchID        string
}

// NewAssignmentRecord builds a task_assigned record. Confirmation and ad-hoc
// assignment both go through here so aggregation sees one shape.
func NewAssignmentRecord(id string, p AssignmentRecordParams, now time.Time) ActivityRecord {
	rec := ActivityRecord{
		ID:             id,
		WorkspaceID:    p.WorkspaceID,
		ActorID:        p.ActorID,
		WorkerID:       p.WorkerID,
		Type:           ActivityTaskAssigned,
		EntityType:     "milestone",
		EntityID:       p.MilestoneID,
		Description:    fmt.Sprintf("Assigned: %s", p.TaskTitle),
		TaskTitle:      p.TaskTitle,
		MilestoneID:    p.MilestoneID,
		EstimatedHours: p.EstimatedHours,
		Week:           p.Week,
		Notes:          p.Notes,
		ConfirmedFrom:  p.Source,
		BatchID:        p.BatchID,
		Status:         ActivityActive,
		CreatedAt:      now,
	}
	if p.Project != nil {
		rec.ProjectID = p.Project.ID
		rec.ProjectName = p.Project.Name
		if rec.WorkspaceID == "" {
			rec.WorkspaceID = p.Project.WorkspaceID
		}
	}
	return rec
}

// NewJoinedTeamRecord builds the zero-hour record written when a worker joins.
func NewJoinedTeamRecord(id string, w *Worker, actorID string, now time.Time) ActivityRecord {
	title := w.JobTitle
	if title == "" {
		title = "New member"
	}
	return ActivityRecord{
		ID:          id,
		WorkspaceID: w.WorkspaceID,
		ActorID:     actorID,
		WorkerID:    w.ID,
		Type:        ActivityJoinedTeam,
		EntityType:  "team_member",
		EntityID:    w.ID,
		Description: fmt.Sprintf("%s joined the team", title),
		Status:      ActivityActive,
		CreatedAt:   now,
	}
}
