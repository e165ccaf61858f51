package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/apo/internal/domain"
	"github.com/google/uuid"
)

// TestWorkspaceID is the workspace used by fixtures unless overridden.
const TestWorkspaceID = "ws-test"

var testUserCounter atomic.Int64

// Project options
type ProjectOption func(*domain.Project)

func WithWorkspace(id string) ProjectOption {
	return func(p *domain.Project) {
		p.WorkspaceID = id
	}
}

func WithExtractionStatus(s domain.ExtractionStatus) ProjectOption {
	return func(p *domain.Project) {
		p.Status = s
	}
}

func WithFileURL(url string) ProjectOption {
	return func(p *domain.Project) {
		p.FileURL = url
	}
}

func WithTimeline(weeks int) ProjectOption {
	return func(p *domain.Project) {
		ensureData(p).TimelineWeeks = weeks
	}
}

func WithCurrentWeek(w int) ProjectOption {
	return func(p *domain.Project) {
		p.CurrentWeek = w
	}
}

func WithSimulationLog(entries ...domain.SimulationLogEntry) ProjectOption {
	return func(p *domain.Project) {
		p.SimulationLog = entries
	}
}

// WithMilestone appends a pending milestone with a fresh id.
func WithMilestone(title string, week int) ProjectOption {
	return func(p *domain.Project) {
		d := ensureData(p)
		d.Milestones = append(d.Milestones, domain.Milestone{
			ID:     uuid.New().String(),
			Title:  title,
			Week:   week,
			Status: domain.MilestonePending,
		})
	}
}

func ensureData(p *domain.Project) *domain.ExtractedData {
	if p.Data == nil {
		p.Data = &domain.ExtractedData{Currency: "USD"}
	}
	return p.Data
}

func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	now := time.Now().UTC().Truncate(time.Second)
	p := &domain.Project{
		ID:          uuid.New().String(),
		WorkspaceID: TestWorkspaceID,
		OwnerID:     "owner-1",
		Name:        name,
		Status:      domain.ExtractionCompleted,
		ProjectType: domain.GeneralProjectType,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Worker options
type WorkerOption func(*domain.Worker)

func WithWorkerID(id string) WorkerOption {
	return func(w *domain.Worker) {
		w.ID = id
	}
}

func WithSkills(skills ...string) WorkerOption {
	return func(w *domain.Worker) {
		w.Skills = skills
	}
}

func WithCapacity(hours float64) WorkerOption {
	return func(w *domain.Worker) {
		w.CapacityHours = hours
	}
}

func WithHourlyRate(rate float64) WorkerOption {
	return func(w *domain.Worker) {
		w.HourlyRate = rate
	}
}

func WithWorkerWorkspace(id string) WorkerOption {
	return func(w *domain.Worker) {
		w.WorkspaceID = id
	}
}

func WithUserID(id string) WorkerOption {
	return func(w *domain.Worker) {
		w.UserID = id
	}
}

func NewTestWorker(jobTitle string, opts ...WorkerOption) *domain.Worker {
	now := time.Now().UTC().Truncate(time.Second)
	n := testUserCounter.Add(1)
	w := &domain.Worker{
		ID:            uuid.New().String(),
		WorkspaceID:   TestWorkspaceID,
		UserID:        fmt.Sprintf("user-%d", n),
		JobTitle:      jobTitle,
		CapacityHours: domain.DefaultCapacityHours,
		Presence:      domain.PresenceOffline,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func NewTestMember(workspaceID, userID string) *domain.WorkspaceMember {
	return &domain.WorkspaceMember{
		WorkspaceID: workspaceID,
		UserID:      userID,
		DisplayName: userID,
		Role:        domain.WorkspaceRoleMember,
		JoinedAt:    time.Now().UTC().Truncate(time.Second),
	}
}

// NewTestBatch builds a proposed batch for projectID with one staged row per
// StagedRow.
func NewTestBatch(projectID string, rows ...StagedRow) *domain.ProposalBatch {
	now := time.Now().UTC().Truncate(time.Second)
	b := &domain.ProposalBatch{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Status:    domain.BatchProposed,
		CreatedAt: now,
	}
	for _, r := range rows {
		b.Assignments = append(b.Assignments, domain.StagedAssignment{
			ID:          uuid.New().String(),
			ProjectID:   projectID,
			BatchID:     b.ID,
			MilestoneID: r.MilestoneID,
			TaskName:    r.Title,
			WeekNumber:  r.Week,
			WorkerID:    r.WorkerID,
			Reasoning:   "fixture",
			Status:      domain.StagedProposed,
			CreatedAt:   now,
		})
	}
	return b
}

type StagedRow struct {
	MilestoneID string
	Title       string
	Week        int
	WorkerID    string
}

// NewTestActivity builds an active task_assigned record for workerID.
func NewTestActivity(workerID string, hours float64) *domain.ActivityRecord {
	rec := domain.NewAssignmentRecord(uuid.New().String(), domain.AssignmentRecordParams{
		WorkspaceID:    TestWorkspaceID,
		ActorID:        "owner-1",
		WorkerID:       workerID,
		TaskTitle:      "Fixture task",
		EstimatedHours: hours,
		Week:           1,
		Source:         domain.SourceManual,
	}, time.Now().UTC().Truncate(time.Second))
	return &rec
}
