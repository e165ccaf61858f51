package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/apo/internal/contract"
	"github.com/alexanderramin/apo/internal/domain"
	"github.com/alexanderramin/apo/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedger_RecordAssignmentDefaults(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.seedProject(t, testutil.NewTestProject("Portal", testutil.WithMilestone("Design", 2)))
	w := env.seedWorker(t, testutil.NewTestWorker("Designer"))

	req := contract.NewRecordAssignmentRequest("owner-1", w.ID, p.ID, "design")
	req.Hours = 0
	req.Notes = "  pairing with client  "
	rec, err := env.ledgerService().RecordAssignment(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, 8.0, rec.EstimatedHours)
	assert.Equal(t, 2, rec.Week)
	assert.Equal(t, p.Data.Milestones[0].ID, rec.MilestoneID)
	assert.Equal(t, "Design", rec.TaskTitle)
	assert.Equal(t, "pairing with client", rec.Notes)
	assert.Equal(t, domain.SourceManual, rec.ConfirmedFrom)
	assert.Equal(t, p.Name, rec.ProjectName)
	assert.True(t, testNow.Equal(rec.CreatedAt))

	stored, err := env.activity.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.Description, stored.Description)
}

func TestLedger_RecordAssignmentByMilestoneID(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProject(t, testutil.NewTestProject("Portal", testutil.WithMilestone("Design", 2)))
	w := env.seedWorker(t, testutil.NewTestWorker("Designer"))

	rec, err := env.ledgerService().RecordAssignment(context.Background(), contract.RecordAssignmentRequest{
		ActorID: "owner-1", WorkerID: w.ID, ProjectID: p.ID,
		MilestoneID: p.Data.Milestones[0].ID, Hours: 12, Week: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, 12.0, rec.EstimatedHours)
	assert.Equal(t, 5, rec.Week)
}

func TestLedger_RecordAssignmentRefusedAtCapacity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.seedProject(t, testutil.NewTestProject("Portal", testutil.WithMilestone("Design", 1)))
	w := env.seedWorker(t, testutil.NewTestWorker("Designer", testutil.WithCapacity(16)))
	svc := env.ledgerService()

	for range 2 {
		_, err := svc.RecordAssignment(ctx, contract.NewRecordAssignmentRequest("owner-1", w.ID, p.ID, "Design"))
		require.NoError(t, err)
	}

	_, err := svc.RecordAssignment(ctx, contract.NewRecordAssignmentRequest("owner-1", w.ID, p.ID, "Design"))
	assert.ErrorIs(t, err, domain.ErrAtCapacity)
	assert.Equal(t, 2, testutil.CountRows(t, env.db, "team_activity", "team_member_id = ?", w.ID))
}

func TestLedger_RecordAssignmentErrors(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProject(t, testutil.NewTestProject("Portal", testutil.WithMilestone("Design", 1)))
	w := env.seedWorker(t, testutil.NewTestWorker("Designer"))
	other := env.seedWorker(t, testutil.NewTestWorker("Outsider", testutil.WithWorkerWorkspace("ws-other")))
	svc := env.ledgerService()

	tests := []struct {
		name string
		req  contract.RecordAssignmentRequest
		want error
	}{
		{"no actor", contract.NewRecordAssignmentRequest("", w.ID, p.ID, "Design"), domain.ErrUnauthenticated},
		{"no milestone", contract.NewRecordAssignmentRequest("a", w.ID, p.ID, ""), domain.ErrPrecondition},
		{"unknown worker", contract.NewRecordAssignmentRequest("a", "ghost", p.ID, "Design"), domain.ErrNotFound},
		{"unknown project", contract.NewRecordAssignmentRequest("a", w.ID, "ghost", "Design"), domain.ErrNotFound},
		{"unknown milestone", contract.NewRecordAssignmentRequest("a", w.ID, p.ID, "Launch"), domain.ErrNotFound},
		{"foreign workspace", contract.NewRecordAssignmentRequest("a", other.ID, p.ID, "Design"), domain.ErrPrecondition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.RecordAssignment(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Equal(t, 0, testutil.CountRows(t, env.db, "team_activity", ""))
}

func TestLedger_SoftRemoveIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	w := env.seedWorker(t, testutil.NewTestWorker("Designer"))
	rec := testutil.NewTestActivity(w.ID, 20)
	require.NoError(t, env.activity.Create(ctx, rec))
	svc := env.ledgerService()

	removed, err := svc.SoftRemove(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ActivityRemoved, removed.Status)
	require.NotNil(t, removed.RemovedAt)
	assert.True(t, testNow.Equal(*removed.RemovedAt))

	again, err := svc.SoftRemove(ctx, rec.ID)
	require.NoError(t, err)
	assert.True(t, removed.RemovedAt.Equal(*again.RemovedAt))

	_, err = svc.SoftRemove(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	wl, err := svc.Utilization(ctx, w.ID)
	require.NoError(t, err)
	assert.Zero(t, wl.HoursCommitted)

	active, err := svc.ListActivity(ctx, w.ID, false)
	require.NoError(t, err)
	assert.Empty(t, active)
	all, err := svc.ListActivity(ctx, w.ID, true)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestLedger_UtilizationBands(t *testing.T) {
	tests := []struct {
		name     string
		capacity float64
		hours    []float64
		wantPct  int
		wantBand domain.WorkloadBand
	}{
		{"idle", 40, nil, 0, domain.BandAvailable},
		{"balanced at boundary", 40, []float64{20}, 50, domain.BandBalanced},
		{"rounds up into overloaded", 40, []float64{35.9}, 90, domain.BandOverloaded},
		{"zero capacity defaults to 40", 0, []float64{8}, 20, domain.BandAvailable},
		{"over capacity", 20, []float64{8, 8, 8}, 120, domain.BandOverloaded},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			w := env.seedWorker(t, testutil.NewTestWorker("Dev", testutil.WithCapacity(tt.capacity)))
			for _, h := range tt.hours {
				require.NoError(t, env.activity.Create(context.Background(), testutil.NewTestActivity(w.ID, h)))
			}

			wl, err := env.ledgerService().Utilization(context.Background(), w.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPct, wl.RoundedPct)
			assert.Equal(t, tt.wantBand, wl.Band)
			assert.Equal(t, len(tt.hours), wl.ActiveTasks)
		})
	}
}

func TestLedger_TeamWorkload(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	busy := env.seedWorker(t, testutil.NewTestWorker("Busy"))
	half := env.seedWorker(t, testutil.NewTestWorker("Half"))
	env.seedWorker(t, testutil.NewTestWorker("Idle"))
	for _, h := range []float64{24, 16} {
		require.NoError(t, env.activity.Create(ctx, testutil.NewTestActivity(busy.ID, h)))
	}
	require.NoError(t, env.activity.Create(ctx, testutil.NewTestActivity(half.ID, 20)))

	team, err := env.ledgerService().TeamWorkload(ctx, testutil.TestWorkspaceID)
	require.NoError(t, err)

	assert.Equal(t, 3, team.Members)
	assert.Equal(t, 3, team.ActiveTasks)
	assert.Equal(t, 120.0, team.CapacityHours)
	assert.Equal(t, 60.0, team.CommittedHours)
	assert.Equal(t, 60.0, team.AvailableHours)
	assert.Equal(t, 50, team.RoundedPct)
	assert.Equal(t, contract.BandCounts{Overloaded: 1, Balanced: 1, Available: 1}, team.Bands)
	require.Len(t, team.Workers, 3)
	for _, ww := range team.Workers {
		if ww.Worker.ID == busy.ID {
			assert.Equal(t, 100, ww.Workload.RoundedPct)
			assert.Zero(t, ww.Workload.AvailableHours())
		}
	}
}
