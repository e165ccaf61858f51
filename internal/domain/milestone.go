package domain

import "time"

// DefaultInProgressPct is applied when a milestone moves to in_progress
// without an explicit completion percentage.
const DefaultInProgressPct = 50

// ApplyStatus moves the milestone to status. pct is only consulted for
// in_progress and blocked; nil means "not provided".
func (m *Milestone) ApplyStatus(status MilestoneStatus, pct *int, actorID string, now time.Time) error {
	if !ValidMilestoneStatuses[status] {
		return Preconditionf("invalid milestone status %q", status)
	}
	if pct != nil && (*pct < 0 || *pct > 100) {
		return Preconditionf("completion percentage must be between 0 and 100, got %d", *pct)
	}

	m.Status = status
	switch status {
	case MilestoneCompleted:
		m.CompletionPct = 100
		t := now
		m.CompletedAt = &t
		m.CompletedBy = actorID
	case MilestoneInProgress:
		m.CompletionPct = DefaultInProgressPct
		if pct != nil && *pct > 0 {
			m.CompletionPct = *pct
		}
		m.CompletedAt = nil
		m.CompletedBy = ""
	case MilestonePending:
		m.CompletionPct = 0
		m.CompletedAt = nil
		m.CompletedBy = ""
	case MilestoneBlocked:
		if pct != nil {
			m.CompletionPct = *pct
		}
	}
	return nil
}

// EffectiveStatus treats an unset status as pending.
func (m *Milestone) EffectiveStatus() MilestoneStatus {
	if m.Status == "" {
		return MilestonePending
	}
	return m.Status
}
