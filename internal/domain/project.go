package domain

import (
	"fmt"
	"strings"
	"time"
)

// DefaultTimelineWeeks applies when extraction did not produce a timeline.
const DefaultTimelineWeeks = 12

type Project struct {
	ID          string
	WorkspaceID string
	OwnerID     string
	Name        string
	FileURL     string
	Status      ExtractionStatus
	StatusError string
	ProjectType string

	// Extraction partitions. Data holds the core timeline/budget/milestone
	// fields; the rest are rendered independently.
	Data            *ExtractedData
	Client          ClientInfo
	SuccessCriteria SuccessCriteria
	CustomFields    map[string]any

	CurrentWeek   int
	SimulationLog []SimulationLogEntry

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the fields required to create a project.
func (p *Project) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return Preconditionf("project name is required")
	}
	if p.WorkspaceID == "" {
		return Preconditionf("workspace id is required")
	}
	return nil
}

// Milestones returns the extracted milestones, or nil before extraction.
func (p *Project) Milestones() []Milestone {
	if p.Data == nil {
		return nil
	}
	return p.Data.Milestones
}

// TimelineWeeks returns the extracted timeline, falling back to fallback
// (or DefaultTimelineWeeks) when extraction produced none.
func (p *Project) TimelineWeeks(fallback int) int {
	if p.Data != nil && p.Data.TimelineWeeks > 0 {
		return p.Data.TimelineWeeks
	}
	if fallback > 0 {
		return fallback
	}
	return DefaultTimelineWeeks
}

// FindMilestone looks up a milestone by id.
func (p *Project) FindMilestone(id string) (*Milestone, int, error) {
	if p.Data != nil {
		for i := range p.Data.Milestones {
			if p.Data.Milestones[i].ID == id {
				return &p.Data.Milestones[i], i, nil
			}
		}
	}
	return nil, -1, NotFoundf("milestone %q in project %s", id, p.ID)
}

// MilestoneByTitle returns the first milestone whose title matches exactly,
// falling back to a case-insensitive match.
func (p *Project) MilestoneByTitle(title string) (*Milestone, bool) {
	if p.Data == nil {
		return nil, false
	}
	for i := range p.Data.Milestones {
		if p.Data.Milestones[i].Title == title {
			return &p.Data.Milestones[i], true
		}
	}
	trimmed := strings.TrimSpace(title)
	for i := range p.Data.Milestones {
		if strings.EqualFold(strings.TrimSpace(p.Data.Milestones[i].Title), trimmed) {
			return &p.Data.Milestones[i], true
		}
	}
	return nil, false
}

// ApplyExtraction installs a completed extraction result on the project.
func (p *Project) ApplyExtraction(data *ExtractedData, client ClientInfo, criteria SuccessCriteria, custom map[string]any, projectType string, now time.Time) {
	p.Data = data
	p.Client = client
	p.SuccessCriteria = criteria
	p.CustomFields = custom
	p.ProjectType = projectType
	p.Status = ExtractionCompleted
	p.StatusError = ""
	p.UpdatedAt = now
}

// MarkFailed records a failed extraction.
func (p *Project) MarkFailed(err error, now time.Time) {
	p.Status = ExtractionFailed
	if err != nil {
		p.StatusError = err.Error()
	}
	p.UpdatedAt = now
}

// DisplayID returns a short identifier for terminal output.
func (p *Project) DisplayID() string {
	if len(p.ID) >= 8 {
		return p.ID[:8]
	}
	return p.ID
}

func (p *Project) String() string {
	return fmt.Sprintf("%s (%s)", p.Name, p.DisplayID())
}
