package intelligence

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/alexanderramin/apo/internal/domain"
	"github.com/alexanderramin/apo/internal/llm"
)

// Discard reasons reported with rejected candidates.
const (
	DiscardUnknownWorker      = "unknown_worker"
	DiscardDuplicateMilestone = "duplicate_milestone"
	DiscardMalformedCandidate = "malformed_candidate"
)

// AllocationInput is everything the oracle sees for one proposal run.
type AllocationInput struct {
	ProjectName string
	Milestones  []domain.Milestone
	Roster      []domain.Worker
}

// DiscardedCandidate is a candidate removed during validation.
type DiscardedCandidate struct {
	Candidate ProposalCandidate
	Reason    string
}

// Proposal is the validated oracle answer. Every accepted candidate has a
// roster worker id. MilestoneID is empty when the task name matched no
// milestone title.
type Proposal struct {
	Accepted  []ProposalCandidate
	Discarded []DiscardedCandidate
	Shape     string
	Model     string
}

// AllocationProposer asks the oracle for one worker per milestone and keeps
// only answers that reference the real roster and milestones.
type AllocationProposer interface {
	Propose(ctx context.Context, in AllocationInput) (*Proposal, error)
}

type allocationProposer struct {
	client llm.LLMClient
}

// NewAllocationProposer creates an AllocationProposer backed by an LLM client.
func NewAllocationProposer(client llm.LLMClient) AllocationProposer {
	return &allocationProposer{client: client}
}

// milestoneSummary is the milestone view sent to the oracle.
type milestoneSummary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Week        int    `json:"week"`
	Deliverable string `json:"deliverable,omitempty"`
}

// rosterSummary is the worker view sent to the oracle.
type rosterSummary struct {
	ID                   string   `json:"id"`
	Role                 string   `json:"role"`
	Skills               []string `json:"skills"`
	CapacityHoursPerWeek float64  `json:"capacity_hours_per_week"`
	Status               string   `json:"status"`
	HourlyRate           float64  `json:"hourly_rate"`
}

// BuildAllocationPrompt renders the user prompt for in.
func BuildAllocationPrompt(in AllocationInput) (string, error) {
	ms := make([]milestoneSummary, len(in.Milestones))
	for i, m := range in.Milestones {
		ms[i] = milestoneSummary{ID: m.ID, Title: m.Title, Week: m.Week, Deliverable: m.Deliverable}
	}
	team := make([]rosterSummary, len(in.Roster))
	for i := range in.Roster {
		w := &in.Roster[i]
		skills := w.Skills
		if skills == nil {
			skills = []string{}
		}
		team[i] = rosterSummary{
			ID:                   w.ID,
			Role:                 w.Role(),
			Skills:               skills,
			CapacityHoursPerWeek: w.Capacity(),
			Status:               string(w.Presence),
			HourlyRate:           w.HourlyRate,
		}
	}

	msJSON, err := json.Marshal(ms)
	if err != nil {
		return "", fmt.Errorf("encoding milestones: %w", err)
	}
	teamJSON, err := json.Marshal(team)
	if err != nil {
		return "", fmt.Errorf("encoding roster: %w", err)
	}
	return fmt.Sprintf(allocationUserPrompt, in.ProjectName, msJSON, teamJSON), nil
}

func (p *allocationProposer) Propose(ctx context.Context, in AllocationInput) (*Proposal, error) {
	if len(in.Milestones) == 0 {
		return nil, domain.ErrNoMilestones
	}
	if len(in.Roster) == 0 {
		return nil, domain.ErrNoWorkers
	}

	prompt, err := BuildAllocationPrompt(in)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskAllocate,
		SystemPrompt: allocationSystemPrompt,
		UserPrompt:   prompt,
		JSONMode:     true,
	})
	if err != nil {
		return nil, fmt.Errorf("llm allocation failed: %w", err)
	}

	parsed := ParseProposal(resp.Text)
	candidates, err := Candidates(parsed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidProposal, err)
	}

	proposal := ValidateCandidates(candidates, in.Milestones, in.Roster)
	proposal.Model = resp.Model
	proposal.Shape = shapeOf(parsed)
	malformed := MalformedCandidates(parsed)
	for _, c := range malformed {
		proposal.Discarded = append(proposal.Discarded, DiscardedCandidate{Candidate: c, Reason: DiscardMalformedCandidate})
	}

	if len(proposal.Accepted) == 0 {
		return proposal, fmt.Errorf("%w: %d candidates, none valid", domain.ErrInvalidProposal, len(candidates)+len(malformed))
	}
	return proposal, nil
}

// ValidateCandidates applies the roster allow-list, then resolves each
// surviving candidate to a milestone by title. A milestone keeps its first
// assignee. Candidates whose title matches no milestone are kept with the
// oracle's title and no milestone id.
func ValidateCandidates(candidates []ProposalCandidate, milestones []domain.Milestone, roster []domain.Worker) *Proposal {
	validIDs := make(map[string]bool, len(roster))
	for _, w := range roster {
		validIDs[w.ID] = true
	}

	out := &Proposal{}
	kept, unknown := FilterByRoster(candidates, validIDs)
	for _, c := range unknown {
		out.Discarded = append(out.Discarded, DiscardedCandidate{Candidate: c, Reason: DiscardUnknownWorker})
	}

	lookup := &domain.Project{Data: &domain.ExtractedData{Milestones: milestones}}
	taken := make(map[string]bool, len(milestones))
	for _, c := range kept {
		m, ok := lookup.MilestoneByTitle(c.TaskName)
		if !ok {
			out.Accepted = append(out.Accepted, c)
			continue
		}
		if taken[m.ID] {
			out.Discarded = append(out.Discarded, DiscardedCandidate{Candidate: c, Reason: DiscardDuplicateMilestone})
			continue
		}
		taken[m.ID] = true

		c.MilestoneID = m.ID
		c.TaskName = m.Title
		if !c.HasWeek {
			c.WeekNumber, c.HasWeek = m.Week, true
		}
		out.Accepted = append(out.Accepted, c)
	}
	return out
}

func shapeOf(p ProposalParse) string {
	switch v := p.(type) {
	case ParsedArray:
		return "array"
	case ParsedObject:
		return "object:" + v.Key
	default:
		return strings.ToLower(fmt.Sprintf("%T", p))
	}
}
