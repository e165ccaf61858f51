package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBandFor(t *testing.T) {
	cases := []struct {
		pct  int
		band WorkloadBand
	}{
		{0, BandAvailable},
		{49, BandAvailable},
		{50, BandBalanced},
		{89, BandBalanced},
		{90, BandOverloaded},
		{150, BandOverloaded},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.band, BandFor(tc.pct), "pct=%d", tc.pct)
	}
}

func TestComputeWorkload_IgnoresRemovedAndOtherWorkers(t *testing.T) {
	w := &Worker{ID: "w1", CapacityHours: 40}
	records := []ActivityRecord{
		{WorkerID: "w1", Type: ActivityTaskAssigned, EstimatedHours: 8, Status: ActivityActive},
		{WorkerID: "w1", Type: ActivityTaskAssigned, EstimatedHours: 12, Status: ActivityActive},
		{WorkerID: "w1", Type: ActivityTaskAssigned, EstimatedHours: 20, Status: ActivityRemoved},
		{WorkerID: "w2", Type: ActivityTaskAssigned, EstimatedHours: 30, Status: ActivityActive},
		{WorkerID: "w1", Type: ActivityJoinedTeam, Status: ActivityActive},
	}

	wl := ComputeWorkload(w, records)
	assert.InDelta(t, 20, wl.HoursCommitted, 1e-9)
	assert.Equal(t, 2, wl.ActiveTasks)
	assert.InDelta(t, 50, wl.UtilizationPct, 1e-9)
	assert.Equal(t, 50, wl.RoundedPct)
	assert.Equal(t, BandBalanced, wl.Band)
	assert.InDelta(t, 20, wl.AvailableHours(), 1e-9)
	assert.False(t, wl.AtCapacity())
}

func TestComputeWorkload_DefaultCapacity(t *testing.T) {
	w := &Worker{ID: "w1"}
	wl := ComputeWorkload(w, []ActivityRecord{
		{WorkerID: "w1", Type: ActivityTaskAssigned, EstimatedHours: 40, Status: ActivityActive},
		{WorkerID: "w1", Type: ActivityTaskAssigned, EstimatedHours: 8, Status: ActivityActive},
	})
	assert.Equal(t, float64(DefaultCapacityHours), wl.CapacityHours)
	assert.Equal(t, 120, wl.RoundedPct)
	assert.True(t, wl.AtCapacity())
	assert.Equal(t, 0.0, wl.AvailableHours())
}

func TestSoftRemoveReducesUtilizationByHoursOverCapacity(t *testing.T) {
	w := &Worker{ID: "w1", CapacityHours: 30}
	records := []ActivityRecord{
		{WorkerID: "w1", Type: ActivityTaskAssigned, EstimatedHours: 10, Status: ActivityActive},
		{WorkerID: "w1", Type: ActivityTaskAssigned, EstimatedHours: 7, Status: ActivityActive},
	}
	before := ComputeWorkload(w, records)

	records[1].Status = ActivityRemoved
	after := ComputeWorkload(w, records)

	assert.InDelta(t, 7.0/30.0*100, before.UtilizationPct-after.UtilizationPct, 1e-9)
	assert.Equal(t, before.ActiveTasks-1, after.ActiveTasks)
}
