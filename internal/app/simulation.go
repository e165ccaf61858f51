package app

import "github.com/alexanderramin/apo/internal/domain"

// TickResult reports one simulated week. Completed is set when the project
// had already reached its timeline and nothing was written.
type TickResult struct {
	ProjectID            string
	Week                 int
	TimelineWeeks        int
	Completed            bool
	Message              string
	Entry                *domain.SimulationLogEntry
	CompletedAssignments int64
	Log                  []domain.SimulationLogEntry
}
