package intelligence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/apo/internal/document"
	"github.com/alexanderramin/apo/internal/domain"
	"github.com/alexanderramin/apo/internal/llm"
	"github.com/google/uuid"
)

// DefaultMaxChars is the document budget sent to the oracle.
const DefaultMaxChars = 25000

// ExtractionResult is a validated extraction split into the partitions the
// project stores separately.
type ExtractionResult struct {
	Data            *domain.ExtractedData
	ProjectType     string
	Client          domain.ClientInfo
	SuccessCriteria domain.SuccessCriteria
	CustomFields    map[string]any
	Tasks           []domain.ProjectTask
	Warnings        []string
	Model           string
}

// ExtractionService turns document text into structured project data.
type ExtractionService interface {
	Extract(ctx context.Context, projectName, text string) (*ExtractionResult, error)
}

type extractionService struct {
	client   llm.LLMClient
	maxChars int
	newID    func() string
}

// NewExtractionService creates an ExtractionService. maxChars <= 0 uses
// DefaultMaxChars.
func NewExtractionService(client llm.LLMClient, maxChars int) ExtractionService {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	return &extractionService{client: client, maxChars: maxChars, newID: uuid.NewString}
}

// extractionResponse mirrors the schema in extractionSystemPrompt.
type extractionResponse struct {
	Summary         string                 `json:"summary"`
	ProjectType     string                 `json:"project_type"`
	BudgetEstimate  float64                `json:"budget_estimate"`
	Currency        string                 `json:"currency"`
	TimelineWeeks   int                    `json:"timeline_weeks"`
	StartDate       string                 `json:"start_date"`
	EndDate         string                 `json:"end_date"`
	ClientInfo      domain.ClientInfo      `json:"client_info"`
	Requirements    []string               `json:"requirements"`
	Tasks           []extractedTask        `json:"tasks"`
	Milestones      []extractedMilestone   `json:"milestones"`
	Risks           []domain.Risk          `json:"risks"`
	RequiredSkills  []string               `json:"required_skills"`
	SuccessCriteria domain.SuccessCriteria `json:"success_criteria"`
	Constraints     domain.Constraints     `json:"constraints"`
	Assumptions     []string               `json:"assumptions"`
	CustomFields    map[string]any         `json:"custom_fields"`
}

type extractedTask struct {
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	EstimatedHours     float64  `json:"estimated_hours"`
	RequiredSkills     []string `json:"required_skills"`
	Priority           string   `json:"priority"`
	Dependencies       []string `json:"dependencies"`
	AcceptanceCriteria []string `json:"acceptance_criteria"`
}

type extractedMilestone struct {
	Title           string `json:"title"`
	Week            int    `json:"week"`
	Deliverable     string `json:"deliverable"`
	SuccessCriteria string `json:"success_criteria"`
}

func (s *extractionService) Extract(ctx context.Context, projectName, text string) (*ExtractionResult, error) {
	text = document.Truncate(text, s.maxChars)

	resp, err := s.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskExtract,
		SystemPrompt: extractionSystemPrompt,
		UserPrompt:   fmt.Sprintf(extractionUserPrompt, projectName, text),
		JSONMode:     true,
	})
	if err != nil {
		return nil, fmt.Errorf("llm extraction failed: %w", err)
	}

	parsed, err := llm.ExtractJSON[extractionResponse](resp.Text, validateExtraction)
	if err != nil {
		return nil, fmt.Errorf("failed to extract project data: %w", err)
	}

	result := s.partition(parsed, text)
	result.Model = resp.Model
	return result, nil
}

func validateExtraction(r extractionResponse) error {
	var errs []error
	if r.BudgetEstimate < 0 {
		errs = append(errs, fmt.Errorf("budget_estimate %v is negative", r.BudgetEstimate))
	}
	if r.TimelineWeeks < 0 {
		errs = append(errs, fmt.Errorf("timeline_weeks %d is negative", r.TimelineWeeks))
	}
	for i, m := range r.Milestones {
		if strings.TrimSpace(m.Title) == "" {
			errs = append(errs, fmt.Errorf("milestones[%d]: title is required", i))
		}
		if m.Week < 0 || (r.TimelineWeeks > 0 && m.Week > r.TimelineWeeks) {
			errs = append(errs, fmt.Errorf("milestones[%d]: week %d outside timeline of %d weeks", i, m.Week, r.TimelineWeeks))
		}
	}
	for i, risk := range r.Risks {
		sev := normalizeSeverity(risk.Severity)
		if sev != "" && !domain.ValidSeverities[sev] {
			errs = append(errs, fmt.Errorf("risks[%d]: unknown severity %q", i, risk.Severity))
		}
	}
	return errors.Join(errs...)
}

func (s *extractionService) partition(r extractionResponse, text string) *ExtractionResult {
	data := &domain.ExtractedData{
		Summary:        strings.TrimSpace(r.Summary),
		BudgetEstimate: r.BudgetEstimate,
		Currency:       strings.ToUpper(strings.TrimSpace(r.Currency)),
		TimelineWeeks:  r.TimelineWeeks,
		StartDate:      r.StartDate,
		EndDate:        r.EndDate,
		RequiredSkills: domain.NormalizeSkills(r.RequiredSkills),
		Milestones:     make([]domain.Milestone, 0, len(r.Milestones)),
		Risks:          make([]domain.Risk, 0, len(r.Risks)),
	}
	if data.Currency == "" {
		data.Currency = "USD"
	}

	var warnings []string
	seen := make(map[string]bool, len(r.Milestones))
	for _, m := range r.Milestones {
		title := strings.TrimSpace(m.Title)
		key := strings.ToLower(title)
		if seen[key] {
			warnings = append(warnings, fmt.Sprintf("duplicate milestone title %q: allocation matches the first occurrence", title))
		}
		seen[key] = true
		data.Milestones = append(data.Milestones, domain.Milestone{
			ID:              s.newID(),
			Title:           title,
			Week:            m.Week,
			Deliverable:     m.Deliverable,
			SuccessCriteria: m.SuccessCriteria,
			Status:          domain.MilestonePending,
		})
	}
	for _, risk := range r.Risks {
		risk.Severity = normalizeSeverity(risk.Severity)
		if risk.Severity == "" {
			risk.Severity = domain.SeverityMedium
		}
		data.Risks = append(data.Risks, risk)
	}

	projectType := domain.NormalizeProjectType(r.ProjectType)
	if strings.TrimSpace(r.ProjectType) == "" {
		projectType = domain.DetectProjectType(text)
	}

	custom := make(map[string]any, len(r.CustomFields)+3)
	for k, v := range r.CustomFields {
		custom[k] = v
	}
	custom["constraints"] = r.Constraints
	custom["assumptions"] = nonNil(r.Assumptions)
	custom["requirements"] = nonNil(r.Requirements)

	var tasks []domain.ProjectTask
	for _, t := range r.Tasks {
		title := strings.TrimSpace(t.Title)
		if title == "" {
			warnings = append(warnings, "dropped extracted task without a title")
			continue
		}
		tasks = append(tasks, domain.ProjectTask{
			ID:                 s.newID(),
			Title:              title,
			Description:        t.Description,
			EstimatedHours:     max(t.EstimatedHours, 0),
			RequiredSkills:     domain.NormalizeSkills(t.RequiredSkills),
			Priority:           normalizePriority(t.Priority),
			Dependencies:       nonNil(t.Dependencies),
			AcceptanceCriteria: nonNil(t.AcceptanceCriteria),
			CreatedByAI:        true,
			Status:             "pending",
		})
	}

	return &ExtractionResult{
		Data:            data,
		ProjectType:     projectType,
		Client:          r.ClientInfo,
		SuccessCriteria: r.SuccessCriteria,
		CustomFields:    custom,
		Tasks:           tasks,
		Warnings:        warnings,
	}
}

func normalizeSeverity(s domain.Severity) domain.Severity {
	return domain.Severity(strings.ToLower(strings.TrimSpace(string(s))))
}

func normalizePriority(p string) string {
	switch p = strings.ToLower(strings.TrimSpace(p)); p {
	case "high", "medium", "low":
		return p
	default:
		return "medium"
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
