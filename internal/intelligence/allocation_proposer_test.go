package intelligence

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/alexanderramin/apo/internal/domain"
	"github.com/alexanderramin/apo/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allocationInput() AllocationInput {
	return AllocationInput{
		ProjectName: "Portal",
		Milestones: []domain.Milestone{
			{ID: "m-design", Title: "Design", Week: 1, Deliverable: "Mockups"},
			{ID: "m-build", Title: "Build", Week: 3},
		},
		Roster: []domain.Worker{
			{ID: "A", JobTitle: "Designer", Skills: []string{"design"}, Presence: domain.PresenceOnline, HourlyRate: 50},
			{ID: "B", Skills: nil, CapacityHours: 0, Presence: domain.PresenceOffline},
		},
	}
}

func TestBuildAllocationPrompt_RosterSummary(t *testing.T) {
	prompt, err := BuildAllocationPrompt(allocationInput())
	require.NoError(t, err)

	assert.Contains(t, prompt, `PROJECT: "Portal"`)
	assert.Contains(t, prompt, `"id":"m-design"`)

	start := strings.Index(prompt, "TEAM: ") + len("TEAM: ")
	var team []map[string]any
	require.NoError(t, json.Unmarshal([]byte(prompt[start:]), &team))
	require.Len(t, team, 2)
	assert.Equal(t, "Designer", team[0]["role"])
	assert.Equal(t, domain.DefaultRole, team[1]["role"])
	assert.Equal(t, float64(domain.DefaultCapacityHours), team[1]["capacity_hours_per_week"])
	assert.Equal(t, []any{}, team[1]["skills"])
	assert.Equal(t, "offline", team[1]["status"])
}

func TestPropose_FiltersUnknownWorkers(t *testing.T) {
	oracle := &stubOracle{response: `{"assignments":[
		{"task_name":"Design","week_number":1,"worker_id":"A","reasoning":"match"},
		{"task_name":"Build","week_number":3,"worker_id":"Z","reasoning":"bad id"}]}`}

	p, err := NewAllocationProposer(oracle).Propose(context.Background(), allocationInput())
	require.NoError(t, err)

	assert.Equal(t, llm.TaskAllocate, oracle.last.Task)
	assert.True(t, oracle.last.JSONMode)
	require.Len(t, p.Accepted, 1)
	assert.Equal(t, "Design", p.Accepted[0].TaskName)
	assert.Equal(t, "m-design", p.Accepted[0].MilestoneID)
	assert.Equal(t, "A", p.Accepted[0].WorkerID)
	require.Len(t, p.Discarded, 1)
	assert.Equal(t, DiscardUnknownWorker, p.Discarded[0].Reason)
	assert.Equal(t, "object:assignments", p.Shape)
	assert.Equal(t, "stub-model", p.Model)
}

func TestPropose_ArrayShapeFillsWeekAndCanonicalTitle(t *testing.T) {
	oracle := &stubOracle{response: `[{"task_title":" build ","assigned_to":"B","reasoning":"free"}]`}

	p, err := NewAllocationProposer(oracle).Propose(context.Background(), allocationInput())
	require.NoError(t, err)
	require.Len(t, p.Accepted, 1)
	assert.Equal(t, "Build", p.Accepted[0].TaskName)
	assert.Equal(t, 3, p.Accepted[0].WeekNumber)
	assert.Equal(t, "array", p.Shape)
}

func TestPropose_DuplicateAndUnmatchedMilestones(t *testing.T) {
	oracle := &stubOracle{response: `{"assignments":[
		{"task_name":"Design","worker_id":"A"},
		{"task_name":"Design","worker_id":"B"},
		{"task_name":"Design Phase","week_number":2,"worker_id":"B"}]}`}

	p, err := NewAllocationProposer(oracle).Propose(context.Background(), allocationInput())
	require.NoError(t, err)
	require.Len(t, p.Accepted, 2)
	assert.Equal(t, "A", p.Accepted[0].WorkerID)
	assert.Equal(t, "m-design", p.Accepted[0].MilestoneID)

	unmatched := p.Accepted[1]
	assert.Equal(t, "Design Phase", unmatched.TaskName)
	assert.Empty(t, unmatched.MilestoneID)
	assert.Equal(t, 2, unmatched.WeekNumber)

	require.Len(t, p.Discarded, 1)
	assert.Equal(t, DiscardDuplicateMilestone, p.Discarded[0].Reason)
}

func TestPropose_KeepsValidEntriesBesideMalformedOnes(t *testing.T) {
	oracle := &stubOracle{response: `{"assignments":[
		{"task_name":"Design","week_number":1,"worker_id":"A","reasoning":"match"},
		{"task_name":"Build","week_number":3,"worker_id":7,"reasoning":"numeric id"},
		{"task_name":"Build","worker_id":"B","reasoning":["not","text"]}]}`}

	p, err := NewAllocationProposer(oracle).Propose(context.Background(), allocationInput())
	require.NoError(t, err)
	require.Len(t, p.Accepted, 1)
	assert.Equal(t, "A", p.Accepted[0].WorkerID)
	assert.Equal(t, "m-design", p.Accepted[0].MilestoneID)

	require.Len(t, p.Discarded, 2)
	for _, d := range p.Discarded {
		assert.Equal(t, DiscardMalformedCandidate, d.Reason)
		assert.Equal(t, "Build", d.Candidate.TaskName)
	}
	assert.Equal(t, "7", p.Discarded[0].Candidate.WorkerID)
	assert.Equal(t, "B", p.Discarded[1].Candidate.WorkerID)
}

func TestPropose_OnlyMalformedEntries(t *testing.T) {
	oracle := &stubOracle{response: `[{"task_name":"Design","worker_id":7}]`}

	p, err := NewAllocationProposer(oracle).Propose(context.Background(), allocationInput())
	assert.ErrorIs(t, err, domain.ErrInvalidProposal)
	require.NotNil(t, p)
	require.Len(t, p.Discarded, 1)
	assert.Equal(t, DiscardMalformedCandidate, p.Discarded[0].Reason)
}

func TestPropose_NoSurvivors(t *testing.T) {
	oracle := &stubOracle{response: `{"assignments":[{"task_name":"Design","worker_id":"Z"}]}`}

	p, err := NewAllocationProposer(oracle).Propose(context.Background(), allocationInput())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidProposal)
	assert.ErrorIs(t, err, domain.ErrValidation)
	require.NotNil(t, p)
	assert.Len(t, p.Discarded, 1)
}

func TestPropose_UnparseableOutput(t *testing.T) {
	oracle := &stubOracle{response: "Here is my plan: Ana does everything."}

	_, err := NewAllocationProposer(oracle).Propose(context.Background(), allocationInput())
	assert.ErrorIs(t, err, domain.ErrInvalidProposal)
}

func TestPropose_Preconditions(t *testing.T) {
	oracle := &stubOracle{response: `[]`}
	proposer := NewAllocationProposer(oracle)

	in := allocationInput()
	in.Milestones = nil
	_, err := proposer.Propose(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrNoMilestones)

	in = allocationInput()
	in.Roster = nil
	_, err = proposer.Propose(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrNoWorkers)

	assert.Zero(t, oracle.calls)
}

func TestPropose_OracleFailure(t *testing.T) {
	oracle := &stubOracle{err: llm.ErrTimeout}
	_, err := NewAllocationProposer(oracle).Propose(context.Background(), allocationInput())
	assert.ErrorIs(t, err, llm.ErrTimeout)
	assert.NotErrorIs(t, err, domain.ErrInvalidProposal)
}
