package domain

import (
	"strings"
	"time"
)

// DefaultCapacityHours is the weekly capacity assumed when none is recorded.
const DefaultCapacityHours = 40

// DefaultRole labels workers without a job title.
const DefaultRole = "Team Member"

// Worker is a team member of a workspace.
type Worker struct {
	ID            string
	WorkspaceID   string
	UserID        string
	JobTitle      string
	Skills        []string
	CapacityHours float64
	HourlyRate    float64
	Presence      Presence
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Role returns the job title, or DefaultRole when it is empty.
func (w *Worker) Role() string {
	if strings.TrimSpace(w.JobTitle) == "" {
		return DefaultRole
	}
	return w.JobTitle
}

// Capacity returns the weekly capacity, defaulting non-positive values.
func (w *Worker) Capacity() float64 {
	if w.CapacityHours <= 0 {
		return DefaultCapacityHours
	}
	return w.CapacityHours
}

// SkillMatchScore counts skills relevant to a task title. A skill matches when
// the lowercased title contains it, or when it contains the title's first word.
func (w *Worker) SkillMatchScore(title string) int {
	t := strings.ToLower(strings.TrimSpace(title))
	if t == "" {
		return 0
	}
	first := strings.Fields(t)[0]

	score := 0
	for _, s := range w.Skills {
		skill := strings.ToLower(strings.TrimSpace(s))
		if skill == "" {
			continue
		}
		if strings.Contains(t, skill) || strings.Contains(skill, first) {
			score++
		}
	}
	return score
}

// NormalizeSkills trims, drops empties and de-duplicates case-insensitively,
// preserving first-seen order.
func NormalizeSkills(skills []string) []string {
	seen := make(map[string]bool, len(skills))
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		s = strings.TrimSpace(s)
		key := strings.ToLower(s)
		if s == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}
