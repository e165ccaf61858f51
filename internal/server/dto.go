package server

import (
	"time"

	"github.com/alexanderramin/apo/internal/contract"
	"github.com/alexanderramin/apo/internal/domain"
)

// Request payloads

type CreateProjectRequest struct {
	WorkspaceID string `json:"workspace_id" minLength:"1"`
	Name        string `json:"name" minLength:"1"`
	FileName    string `json:"file_name,omitempty"`
	Content     []byte `json:"content,omitempty" doc:"Document bytes, base64 encoded"`
}

type UpdateMilestoneRequest struct {
	Status        string `json:"status" enum:"pending,in_progress,completed,blocked"`
	CompletionPct *int   `json:"completion_percentage,omitempty"`
}

type ConfirmAllocationRequest struct {
	BatchID string `json:"batch_id,omitempty" doc:"Staged batch the caller reviewed; rejected when stale"`
}

type AddTeamMemberRequest struct {
	UserID        string   `json:"user_id" minLength:"1"`
	JobTitle      string   `json:"job_title,omitempty"`
	Skills        []string `json:"skills,omitempty"`
	CapacityHours float64  `json:"capacity_hours,omitempty"`
	HourlyRate    float64  `json:"hourly_rate,omitempty"`
}

type RecordAssignmentRequest struct {
	ProjectID string  `json:"project_id" minLength:"1"`
	Milestone string  `json:"milestone" minLength:"1" doc:"Milestone id or title"`
	Hours     float64 `json:"hours,omitempty"`
	Week      int     `json:"week,omitempty"`
	Notes     string  `json:"notes,omitempty"`
}

type AddWorkspaceMemberRequest struct {
	UserID string `json:"user_id" minLength:"1"`
	Role   string `json:"role,omitempty" enum:"owner,member"`
}

// Response payloads

type ProjectResponse struct {
	Success         bool                        `json:"success"`
	ID              string                      `json:"id"`
	WorkspaceID     string                      `json:"workspace_id"`
	OwnerID         string                      `json:"owner_id"`
	Name            string                      `json:"name"`
	FileURL         string                      `json:"file_url,omitempty"`
	Status          string                      `json:"status"`
	StatusError     string                      `json:"status_error,omitempty"`
	ProjectType     string                      `json:"project_type,omitempty"`
	Data            *domain.ExtractedData       `json:"ai_data,omitempty"`
	Client          domain.ClientInfo           `json:"client_info"`
	SuccessCriteria domain.SuccessCriteria      `json:"success_criteria"`
	CustomFields    map[string]any              `json:"custom_fields,omitempty"`
	CurrentWeek     int                         `json:"current_week"`
	SimulationLog   []domain.SimulationLogEntry `json:"simulation_log"`
	CreatedAt       time.Time                   `json:"created_at"`
	UpdatedAt       time.Time                   `json:"updated_at"`
}

type ProjectTaskResponse struct {
	ID                 string   `json:"id"`
	Title              string   `json:"title"`
	Description        string   `json:"description,omitempty"`
	EstimatedHours     float64  `json:"estimated_hours"`
	RequiredSkills     []string `json:"required_skills"`
	Priority           string   `json:"priority"`
	Dependencies       []string `json:"dependencies"`
	AcceptanceCriteria []string `json:"acceptance_criteria"`
	CreatedByAI        bool     `json:"created_by_ai"`
	Status             string   `json:"status"`
}

type ProjectViewResponse struct {
	ProjectResponse
	Tasks []ProjectTaskResponse `json:"tasks"`
	Type  domain.ProjectType    `json:"type"`
}

type ProjectListResponse struct {
	Success  bool              `json:"success"`
	Projects []ProjectResponse `json:"projects"`
}

type ProcessResponse struct {
	Success   bool            `json:"success"`
	Project   ProjectResponse `json:"project"`
	TaskCount int             `json:"tasks_created"`
	Warnings  []string        `json:"warnings,omitempty"`
}

type MilestoneResponse struct {
	Success   bool             `json:"success"`
	Milestone domain.Milestone `json:"milestone"`
}

type StagedAssignmentResponse struct {
	ID          string `json:"id"`
	MilestoneID string `json:"milestone_id"`
	TaskName    string `json:"task_name"`
	WeekNumber  int    `json:"week_number"`
	WorkerID    string `json:"worker_id"`
	Reasoning   string `json:"reasoning,omitempty"`
	Status      string `json:"status"`
}

type DiscardedResponse struct {
	TaskName string `json:"task_name"`
	WorkerID string `json:"worker_id"`
	Reason   string `json:"reason"`
}

type ProposalResponse struct {
	Success         bool                       `json:"success"`
	BatchID         string                     `json:"batch_id"`
	AssignedCount   int                        `json:"assignedCount"`
	TotalMilestones int                        `json:"totalMilestones"`
	Discarded       []DiscardedResponse        `json:"discarded"`
	Assignments     []StagedAssignmentResponse `json:"assignments"`
}

type BatchResponse struct {
	Success     bool                       `json:"success"`
	BatchID     string                     `json:"batch_id"`
	Status      string                     `json:"status"`
	CreatedAt   time.Time                  `json:"created_at"`
	ConfirmedAt *time.Time                 `json:"confirmed_at,omitempty"`
	ConfirmedBy string                     `json:"confirmed_by,omitempty"`
	Assignments []StagedAssignmentResponse `json:"assignments"`
}

type ActivityResponse struct {
	ID             string     `json:"id"`
	WorkerID       string     `json:"worker_id"`
	Type           string     `json:"activity_type"`
	Description    string     `json:"description"`
	TaskTitle      string     `json:"task_title,omitempty"`
	ProjectID      string     `json:"project_id,omitempty"`
	ProjectName    string     `json:"project_name,omitempty"`
	MilestoneID    string     `json:"milestone_id,omitempty"`
	EstimatedHours float64    `json:"estimated_hours"`
	Week           int        `json:"week_number,omitempty"`
	Notes          string     `json:"notes,omitempty"`
	ConfirmedFrom  string     `json:"confirmed_from,omitempty"`
	BatchID        string     `json:"batch_id,omitempty"`
	Status         string     `json:"status"`
	RemovedAt      *time.Time `json:"removed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

type ConfirmResponse struct {
	Success        bool               `json:"success"`
	BatchID        string             `json:"batch_id"`
	ConfirmedCount int                `json:"confirmedCount"`
	Records        []ActivityResponse `json:"records"`
}

type RejectResponse struct {
	Success   bool  `json:"success"`
	Discarded int64 `json:"discarded"`
}

type TickResponse struct {
	Success              bool                        `json:"success"`
	Completed            bool                        `json:"completed"`
	Week                 int                         `json:"newWeek"`
	TimelineWeeks        int                         `json:"timeline_weeks"`
	Message              string                      `json:"message,omitempty"`
	Event                *domain.SimulationLogEntry  `json:"event,omitempty"`
	CompletedAssignments int64                       `json:"completed_assignments"`
	Log                  []domain.SimulationLogEntry `json:"simulation_log"`
}

type WorkerResponse struct {
	ID            string   `json:"id"`
	WorkspaceID   string   `json:"workspace_id"`
	UserID        string   `json:"user_id"`
	JobTitle      string   `json:"job_title"`
	Role          string   `json:"role"`
	Skills        []string `json:"skills"`
	CapacityHours float64  `json:"capacity_hours"`
	HourlyRate    float64  `json:"hourly_rate"`
	Presence      string   `json:"status"`
}

type WorkerEnvelope struct {
	Success bool           `json:"success"`
	Member  WorkerResponse `json:"member"`
}

type WorkloadResponse struct {
	HoursCommitted float64 `json:"hours_committed"`
	CapacityHours  float64 `json:"capacity_hours"`
	ActiveTasks    int     `json:"active_tasks"`
	UtilizationPct float64 `json:"utilization_pct"`
	RoundedPct     int     `json:"utilization"`
	Band           string  `json:"band"`
	AvailableHours float64 `json:"available_hours"`
}

type WorkerWorkloadResponse struct {
	Worker   WorkerResponse   `json:"worker"`
	Workload WorkloadResponse `json:"workload"`
}

type TeamWorkloadResponse struct {
	Success        bool                     `json:"success"`
	Workers        []WorkerWorkloadResponse `json:"workers"`
	Members        int                      `json:"members"`
	ActiveTasks    int                      `json:"active_tasks"`
	CapacityHours  float64                  `json:"capacity_hours"`
	CommittedHours float64                  `json:"committed_hours"`
	AvailableHours float64                  `json:"available_hours"`
	UtilizationPct int                      `json:"utilization"`
	Overloaded     int                      `json:"overloaded"`
	Balanced       int                      `json:"balanced"`
	Available      int                      `json:"available"`
}

type SuggestionResponse struct {
	Worker     WorkerResponse   `json:"worker"`
	SkillScore int              `json:"skill_score"`
	Workload   WorkloadResponse `json:"workload"`
}

type SuggestionsResponse struct {
	Success     bool                 `json:"success"`
	Suggestions []SuggestionResponse `json:"suggestions"`
}

type WorkspaceMemberResponse struct {
	UserID      string    `json:"id"`
	DisplayName string    `json:"full_name,omitempty"`
	Email       string    `json:"email,omitempty"`
	Role        string    `json:"role"`
	JoinedAt    time.Time `json:"joined_at"`
}

type MembersResponse struct {
	Success bool                      `json:"success"`
	Users   []WorkspaceMemberResponse `json:"users"`
}

type ActivityListResponse struct {
	Success  bool               `json:"success"`
	Workload WorkloadResponse   `json:"workload"`
	Records  []ActivityResponse `json:"records"`
}

type ActivityEnvelope struct {
	Success bool             `json:"success"`
	Record  ActivityResponse `json:"record"`
}

func NewProjectResponse(p *domain.Project) ProjectResponse {
	log := p.SimulationLog
	if log == nil {
		log = []domain.SimulationLogEntry{}
	}
	return ProjectResponse{
		Success:         true,
		ID:              p.ID,
		WorkspaceID:     p.WorkspaceID,
		OwnerID:         p.OwnerID,
		Name:            p.Name,
		FileURL:         p.FileURL,
		Status:          string(p.Status),
		StatusError:     p.StatusError,
		ProjectType:     p.ProjectType,
		Data:            p.Data,
		Client:          p.Client,
		SuccessCriteria: p.SuccessCriteria,
		CustomFields:    p.CustomFields,
		CurrentWeek:     p.CurrentWeek,
		SimulationLog:   log,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func NewProjectViewResponse(v *contract.ProjectView) ProjectViewResponse {
	tasks := make([]ProjectTaskResponse, 0, len(v.Tasks))
	for _, t := range v.Tasks {
		tasks = append(tasks, ProjectTaskResponse{
			ID:                 t.ID,
			Title:              t.Title,
			Description:        t.Description,
			EstimatedHours:     t.EstimatedHours,
			RequiredSkills:     nonNil(t.RequiredSkills),
			Priority:           t.Priority,
			Dependencies:       nonNil(t.Dependencies),
			AcceptanceCriteria: nonNil(t.AcceptanceCriteria),
			CreatedByAI:        t.CreatedByAI,
			Status:             t.Status,
		})
	}
	return ProjectViewResponse{
		ProjectResponse: NewProjectResponse(v.Project),
		Tasks:           tasks,
		Type:            v.Type,
	}
}

func stagedResponses(rows []domain.StagedAssignment) []StagedAssignmentResponse {
	out := make([]StagedAssignmentResponse, 0, len(rows))
	for _, a := range rows {
		out = append(out, StagedAssignmentResponse{
			ID:          a.ID,
			MilestoneID: a.MilestoneID,
			TaskName:    a.TaskName,
			WeekNumber:  a.WeekNumber,
			WorkerID:    a.WorkerID,
			Reasoning:   a.Reasoning,
			Status:      string(a.Status),
		})
	}
	return out
}

func NewProposalResponse(r *contract.ProposalResult) ProposalResponse {
	discarded := make([]DiscardedResponse, 0, len(r.Discarded))
	for _, d := range r.Discarded {
		discarded = append(discarded, DiscardedResponse{TaskName: d.TaskName, WorkerID: d.WorkerID, Reason: d.Reason})
	}
	return ProposalResponse{
		Success:         true,
		BatchID:         r.BatchID,
		AssignedCount:   r.AssignedCount,
		TotalMilestones: r.TotalMilestones,
		Discarded:       discarded,
		Assignments:     stagedResponses(r.Assignments),
	}
}

func NewBatchResponse(b *domain.ProposalBatch) BatchResponse {
	return BatchResponse{
		Success:     true,
		BatchID:     b.ID,
		Status:      string(b.Status),
		CreatedAt:   b.CreatedAt,
		ConfirmedAt: b.ConfirmedAt,
		ConfirmedBy: b.ConfirmedBy,
		Assignments: stagedResponses(b.Assignments),
	}
}

func NewActivityResponse(r *domain.ActivityRecord) ActivityResponse {
	return ActivityResponse{
		ID:             r.ID,
		WorkerID:       r.WorkerID,
		Type:           string(r.Type),
		Description:    r.Description,
		TaskTitle:      r.TaskTitle,
		ProjectID:      r.ProjectID,
		ProjectName:    r.ProjectName,
		MilestoneID:    r.MilestoneID,
		EstimatedHours: r.EstimatedHours,
		Week:           r.Week,
		Notes:          r.Notes,
		ConfirmedFrom:  r.ConfirmedFrom,
		BatchID:        r.BatchID,
		Status:         string(r.Status),
		RemovedAt:      r.RemovedAt,
		CreatedAt:      r.CreatedAt,
	}
}

func NewActivityResponses(records []domain.ActivityRecord) []ActivityResponse {
	out := make([]ActivityResponse, 0, len(records))
	for i := range records {
		out = append(out, NewActivityResponse(&records[i]))
	}
	return out
}

func NewTickResponse(r *contract.TickResult) TickResponse {
	log := r.Log
	if log == nil {
		log = []domain.SimulationLogEntry{}
	}
	return TickResponse{
		Success:              true,
		Completed:            r.Completed,
		Week:                 r.Week,
		TimelineWeeks:        r.TimelineWeeks,
		Message:              r.Message,
		Event:                r.Entry,
		CompletedAssignments: r.CompletedAssignments,
		Log:                  log,
	}
}

func NewWorkerResponse(w *domain.Worker) WorkerResponse {
	return WorkerResponse{
		ID:            w.ID,
		WorkspaceID:   w.WorkspaceID,
		UserID:        w.UserID,
		JobTitle:      w.JobTitle,
		Role:          w.Role(),
		Skills:        nonNil(w.Skills),
		CapacityHours: w.Capacity(),
		HourlyRate:    w.HourlyRate,
		Presence:      string(w.Presence),
	}
}

func NewWorkloadResponse(wl domain.Workload) WorkloadResponse {
	return WorkloadResponse{
		HoursCommitted: wl.HoursCommitted,
		CapacityHours:  wl.CapacityHours,
		ActiveTasks:    wl.ActiveTasks,
		UtilizationPct: wl.UtilizationPct,
		RoundedPct:     wl.RoundedPct,
		Band:           string(wl.Band),
		AvailableHours: wl.AvailableHours(),
	}
}

func NewTeamWorkloadResponse(t *contract.TeamWorkload) TeamWorkloadResponse {
	workers := make([]WorkerWorkloadResponse, 0, len(t.Workers))
	for _, ww := range t.Workers {
		workers = append(workers, WorkerWorkloadResponse{
			Worker:   NewWorkerResponse(ww.Worker),
			Workload: NewWorkloadResponse(ww.Workload),
		})
	}
	return TeamWorkloadResponse{
		Success:        true,
		Workers:        workers,
		Members:        t.Members,
		ActiveTasks:    t.ActiveTasks,
		CapacityHours:  t.CapacityHours,
		CommittedHours: t.CommittedHours,
		AvailableHours: t.AvailableHours,
		UtilizationPct: t.RoundedPct,
		Overloaded:     t.Bands.Overloaded,
		Balanced:       t.Bands.Balanced,
		Available:      t.Bands.Available,
	}
}

func NewMemberResponses(members []*domain.WorkspaceMember) []WorkspaceMemberResponse {
	out := make([]WorkspaceMemberResponse, 0, len(members))
	for _, m := range members {
		out = append(out, WorkspaceMemberResponse{
			UserID:      m.UserID,
			DisplayName: m.DisplayName,
			Email:       m.Email,
			Role:        m.Role,
			JoinedAt:    m.JoinedAt,
		})
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
