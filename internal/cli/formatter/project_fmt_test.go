package formatter

import (
	"testing"
	"time"

	"github.com/alexanderramin/apo/internal/contract"
	"github.com/alexanderramin/apo/internal/domain"
	"github.com/stretchr/testify/assert"
)

func sampleProject() *domain.Project {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	return &domain.Project{
		ID:          "abcdef12-3456-7890-abcd-ef1234567890",
		WorkspaceID: "ws-1",
		Name:        "Clinic Portal",
		Status:      domain.ExtractionCompleted,
		ProjectType: "web_app",
		CurrentWeek: 2,
		Data: &domain.ExtractedData{
			Summary:        "Patient booking portal.",
			BudgetEstimate: 40000,
			Currency:       "EUR",
			TimelineWeeks:  8,
			Milestones: []domain.Milestone{
				{ID: "m-1", Title: "Discovery", Week: 1, Status: domain.MilestoneCompleted, CompletionPct: 100},
				{ID: "m-2", Title: "API build", Week: 4},
			},
			Risks: []domain.Risk{{Description: "Vendor delay", Severity: domain.SeverityHigh}},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestFormatProjectList_ShowsPrefixAndWeek(t *testing.T) {
	p := sampleProject()
	out := FormatProjectList(ModePlain, []*domain.Project{p}, p.UpdatedAt.Add(2*time.Hour))

	assert.Contains(t, out, "abcdef12")
	assert.NotContains(t, out, "abcdef12-3456")
	assert.Contains(t, out, "Clinic Portal")
	assert.Contains(t, out, "2/8")
	assert.Contains(t, out, "2h ago")
}

func TestFormatProjectList_PlaceholderForMissingFields(t *testing.T) {
	p := &domain.Project{Name: "Untitled", Status: domain.ExtractionIdle}
	out := FormatProjectList(ModeMarkdown, []*domain.Project{p}, time.Now())

	assert.Contains(t, out, "--")
	assert.Contains(t, out, "○ Idle")
}

func TestFormatProjectView_FlatListsMilestones(t *testing.T) {
	view := &contract.ProjectView{Project: sampleProject()}
	out := FormatProjectView(ModeMarkdown, view)

	assert.Contains(t, out, "## Clinic Portal")
	assert.Contains(t, out, "Week: 2 of 8")
	assert.Contains(t, out, "Discovery")
	assert.Contains(t, out, "pending", "unset statuses report as pending")
	assert.Contains(t, out, "m-2")
}

func TestFormatProjectView_PrettyShowsRisksAndBudget(t *testing.T) {
	view := &contract.ProjectView{
		Project: sampleProject(),
		Type:    domain.ProjectType{Name: "Web Application"},
	}
	out := FormatProjectView(ModePretty, view)

	assert.Contains(t, out, "Clinic Portal")
	assert.Contains(t, out, "Web Application")
	assert.Contains(t, out, "EUR 40000")
	assert.Contains(t, out, "Vendor delay")
	assert.Contains(t, out, "MILESTONES")
}

func TestFormatProjectView_PrettyWithoutData(t *testing.T) {
	p := &domain.Project{ID: "p-1", Name: "Draft", Status: domain.ExtractionFailed, StatusError: "no document"}
	out := FormatProjectView(ModePretty, &contract.ProjectView{Project: p})

	assert.Contains(t, out, "No milestones extracted yet.")
	assert.Contains(t, out, "no document")
}
