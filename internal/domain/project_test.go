package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func TestProjectValidate(t *testing.T) {
	p := &Project{Name: "  ", WorkspaceID: "ws"}
	err := p.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPrecondition))

	p = &Project{Name: "Website", WorkspaceID: ""}
	require.Error(t, p.Validate())

	p = &Project{Name: "Website", WorkspaceID: "ws"}
	assert.NoError(t, p.Validate())
}

func TestTimelineWeeks_Fallbacks(t *testing.T) {
	p := &Project{}
	assert.Equal(t, DefaultTimelineWeeks, p.TimelineWeeks(0))
	assert.Equal(t, 8, p.TimelineWeeks(8))

	p.Data = &ExtractedData{TimelineWeeks: 20}
	assert.Equal(t, 20, p.TimelineWeeks(8))
}

func TestFindMilestone(t *testing.T) {
	p := &Project{ID: "p1", Data: &ExtractedData{Milestones: []Milestone{
		{ID: "m1", Title: "Design"},
		{ID: "m2", Title: "Build"},
	}}}

	m, idx, err := p.FindMilestone("m2")
	require.NoError(t, err)
	assert.Equal(t, "Build", m.Title)
	assert.Equal(t, 1, idx)

	_, _, err = p.FindMilestone("missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestMilestoneByTitle_FirstMatchWins(t *testing.T) {
	p := &Project{Data: &ExtractedData{Milestones: []Milestone{
		{ID: "m1", Title: "Launch"},
		{ID: "m2", Title: "Launch"},
		{ID: "m3", Title: "Review"},
	}}}

	m, ok := p.MilestoneByTitle("Launch")
	require.True(t, ok)
	assert.Equal(t, "m1", m.ID)

	m, ok = p.MilestoneByTitle(" review ")
	require.True(t, ok)
	assert.Equal(t, "m3", m.ID)

	_, ok = p.MilestoneByTitle("Nope")
	assert.False(t, ok)
}

func TestApplyExtractionAndMarkFailed(t *testing.T) {
	p := &Project{Status: ExtractionParsing}
	p.MarkFailed(errors.New("boom"), testNow)
	assert.Equal(t, ExtractionFailed, p.Status)
	assert.Equal(t, "boom", p.StatusError)

	p.ApplyExtraction(&ExtractedData{Summary: "s"}, ClientInfo{Name: "Acme"}, SuccessCriteria{}, nil, "software", testNow)
	assert.Equal(t, ExtractionCompleted, p.Status)
	assert.Empty(t, p.StatusError)
	assert.Equal(t, "Acme", p.Client.Name)
	assert.Equal(t, "software", p.ProjectType)
}

func TestDisplayID(t *testing.T) {
	assert.Equal(t, "550e8400", (&Project{ID: "550e8400-e29b-41d4-a716-446655440000"}).DisplayID())
	assert.Equal(t, "abc", (&Project{ID: "abc"}).DisplayID())
}

func TestProjectTypeCatalog(t *testing.T) {
	types := ProjectTypes()
	require.Len(t, types, 6)
	assert.Equal(t, "software", types[0].Type)

	assert.Equal(t, "marketing", NormalizeProjectType(" Marketing "))
	assert.Equal(t, GeneralProjectType, NormalizeProjectType("space-program"))
	assert.Equal(t, GeneralProjectType, NormalizeProjectType(""))

	pt := LookupProjectType("research")
	assert.Contains(t, pt.SuggestedSkills, "Data Analysis")
}

func TestDetectProjectType(t *testing.T) {
	assert.Equal(t, "software", DetectProjectType("We need a new API and a mobile app"))
	assert.Equal(t, "construction", DetectProjectType("Renovation of the east wing"))
	assert.Equal(t, GeneralProjectType, DetectProjectType("Plan the office party"))
}
