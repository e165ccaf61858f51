package app

import "github.com/alexanderramin/apo/internal/domain"

// WorkerWorkload pairs a worker with its current utilization.
type WorkerWorkload struct {
	Worker   *domain.Worker
	Workload domain.Workload
}

// BandCounts counts workers per workload band.
type BandCounts struct {
	Overloaded int
	Balanced   int
	Available  int
}

// TeamWorkload is the capacity dashboard for one workspace.
type TeamWorkload struct {
	WorkspaceID    string
	Workers        []WorkerWorkload
	Members        int
	ActiveTasks    int
	CapacityHours  float64
	CommittedHours float64
	AvailableHours float64
	UtilizationPct float64
	RoundedPct     int
	Bands          BandCounts
}

// WorkerSuggestion ranks a worker for a milestone title.
type WorkerSuggestion struct {
	Worker     *domain.Worker
	SkillScore int
	Workload   domain.Workload
}
