package domain

import "time"

// ExtractedData is the core partition of a project's structured extraction.
type ExtractedData struct {
	Summary        string      `json:"summary"`
	BudgetEstimate float64     `json:"budget_estimate"`
	Currency       string      `json:"currency"`
	TimelineWeeks  int         `json:"timeline_weeks"`
	StartDate      string      `json:"start_date,omitempty"`
	EndDate        string      `json:"end_date,omitempty"`
	Milestones     []Milestone `json:"milestones"`
	Risks          []Risk      `json:"risks"`
	RequiredSkills []string    `json:"required_skills"`
}

// Milestone is embedded in ExtractedData. ID is minted at extraction time and
// propagated to staged assignments and ledger records.
type Milestone struct {
	ID              string          `json:"id"`
	Title           string          `json:"title"`
	Week            int             `json:"week"`
	Deliverable     string          `json:"deliverable"`
	SuccessCriteria string          `json:"success_criteria,omitempty"`
	Status          MilestoneStatus `json:"status,omitempty"`
	CompletionPct   int             `json:"completion_percentage"`
	CompletedAt     *time.Time      `json:"completed_at,omitempty"`
	CompletedBy     string          `json:"completed_by,omitempty"`
}

type Risk struct {
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
	Mitigation  string   `json:"mitigation"`
}

type ClientInfo struct {
	Name          string   `json:"name,omitempty"`
	ContactPerson string   `json:"contact_person,omitempty"`
	Email         string   `json:"email,omitempty"`
	Phone         string   `json:"phone,omitempty"`
	Stakeholders  []string `json:"stakeholders,omitempty"`
}

type SuccessCriteria struct {
	KPIs               []string `json:"kpis,omitempty"`
	AcceptanceCriteria []string `json:"acceptance_criteria,omitempty"`
	QualityMetrics     []string `json:"quality_metrics,omitempty"`
}

type Constraints struct {
	Technical  []string `json:"technical,omitempty"`
	Business   []string `json:"business,omitempty"`
	Regulatory []string `json:"regulatory,omitempty"`
}

// ProjectTask is a row of the flat task list produced by extraction.
type ProjectTask struct {
	ID                 string
	ProjectID          string
	Title              string
	Description        string
	EstimatedHours     float64
	RequiredSkills     []string
	Priority           string
	Dependencies       []string
	AcceptanceCriteria []string
	CreatedByAI        bool
	Status             string
	CreatedAt          time.Time
}
