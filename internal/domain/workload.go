package domain

import "math"

const (
	OverloadedThreshold = 90
	BalancedThreshold   = 50
)

// Workload is the utilization of one worker computed from active ledger records.
type Workload struct {
	WorkerID       string
	CapacityHours  float64
	HoursCommitted float64
	ActiveTasks    int
	UtilizationPct float64
	RoundedPct     int
	Band           WorkloadBand
}

// ComputeWorkload sums active records belonging to the worker. Removed
// records and records of other workers are ignored.
func ComputeWorkload(w *Worker, records []ActivityRecord) Workload {
	wl := Workload{WorkerID: w.ID, CapacityHours: w.Capacity()}
	for i := range records {
		r := &records[i]
		if r.WorkerID != w.ID || !r.IsActive() {
			continue
		}
		wl.HoursCommitted += r.EstimatedHours
		if r.Type == ActivityTaskAssigned {
			wl.ActiveTasks++
		}
	}
	wl.UtilizationPct = wl.HoursCommitted / wl.CapacityHours * 100
	wl.RoundedPct = int(math.Round(wl.UtilizationPct))
	wl.Band = BandFor(wl.RoundedPct)
	return wl
}

// AvailableHours is the unused weekly capacity, never negative.
func (wl Workload) AvailableHours() float64 {
	return math.Max(0, wl.CapacityHours-wl.HoursCommitted)
}

// AtCapacity reports whether the worker should refuse further assignments.
func (wl Workload) AtCapacity() bool {
	return wl.UtilizationPct >= 100
}

// BandFor classifies a rounded utilization percentage.
func BandFor(pct int) WorkloadBand {
	switch {
	case pct >= OverloadedThreshold:
		return BandOverloaded
	case pct >= BalancedThreshold:
		return BandBalanced
	default:
		return BandAvailable
	}
}
