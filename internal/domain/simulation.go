package domain

import "time"

// MaxSimulationLog bounds the rolling simulation log.
const MaxSimulationLog = 5

// AlreadyCompletedMessage is returned by a tick past the project timeline.
const AlreadyCompletedMessage = "Project is already completed!"

type SimulationLogEntry struct {
	Week      int           `json:"week"`
	Timestamp time.Time     `json:"timestamp"`
	Severity  EventSeverity `json:"type"`
	Message   string        `json:"message"`
}

type SimulationEvent struct {
	Severity EventSeverity
	Message  string
}

// SimulationEvents is the fixed catalog of cosmetic status events.
var SimulationEvents = []SimulationEvent{
	{EventSuccess, "Milestone achieved ahead of schedule."},
	{EventInfo, "Resources operating at optimal capacity."},
	{EventWarning, "Minor latency detected in API integration task."},
	{EventSuccess, "Client approved the initial wireframes."},
	{EventWarning, "Database migration taking longer than expected."},
}

// PrependLogEntry returns a new log with entry first, truncated to
// MaxSimulationLog entries. The input slice is not modified.
func PrependLogEntry(log []SimulationLogEntry, entry SimulationLogEntry) []SimulationLogEntry {
	n := len(log) + 1
	if n > MaxSimulationLog {
		n = MaxSimulationLog
	}
	out := make([]SimulationLogEntry, 0, n)
	out = append(out, entry)
	for _, e := range log {
		if len(out) == n {
			break
		}
		out = append(out, e)
	}
	return out
}
