package service

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/apo/internal/domain"
	"github.com/alexanderramin/apo/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSimulation(env *testEnv, seed uint64) SimulationService {
	settings := env.settings
	settings.Rand = NewSeededRand(seed)
	return NewSimulationService(env.uow, settings, env.observer)
}

func TestSimulation_TickAdvancesAndCompletesAssignments(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.seedProject(t, testutil.NewTestProject("Portal",
		testutil.WithTimeline(4), testutil.WithMilestone("Design", 1), testutil.WithMilestone("Build", 3)))
	w := env.seedWorker(t, testutil.NewTestWorker("Dev"))
	batch := testutil.NewTestBatch(p.ID,
		testutil.StagedRow{MilestoneID: p.Data.Milestones[0].ID, Title: "Design", Week: 1, WorkerID: w.ID},
		testutil.StagedRow{MilestoneID: p.Data.Milestones[1].ID, Title: "Build", Week: 3, WorkerID: w.ID},
	)
	require.NoError(t, env.proposals.Replace(ctx, batch))

	sim := newTestSimulation(env, 7)
	res, err := sim.Tick(ctx, p.ID)
	require.NoError(t, err)

	assert.False(t, res.Completed)
	assert.Equal(t, 1, res.Week)
	assert.Equal(t, 4, res.TimelineWeeks)
	assert.Equal(t, int64(1), res.CompletedAssignments)
	require.NotNil(t, res.Entry)
	assert.Equal(t, 1, res.Entry.Week)
	assert.True(t, testNow.Equal(res.Entry.Timestamp))
	assert.Contains(t, domain.SimulationEvents, domain.SimulationEvent{Severity: res.Entry.Severity, Message: res.Entry.Message})

	stored, err := env.projects.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.CurrentWeek)
	require.Len(t, stored.SimulationLog, 1)
	assert.Equal(t, res.Entry.Message, stored.SimulationLog[0].Message)

	staged, err := env.proposals.GetByProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StagedCompleted, staged.Assignments[0].Status)
	assert.Equal(t, domain.StagedProposed, staged.Assignments[1].Status)
}

func TestSimulation_LogKeepsFiveNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.seedProject(t, testutil.NewTestProject("Long", testutil.WithTimeline(10)))
	sim := newTestSimulation(env, 42)

	for range 7 {
		_, err := sim.Tick(ctx, p.ID)
		require.NoError(t, err)
	}

	stored, err := env.projects.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, stored.CurrentWeek)
	require.Len(t, stored.SimulationLog, domain.MaxSimulationLog)
	for i, e := range stored.SimulationLog {
		assert.Equal(t, 7-i, e.Week)
	}
}

func TestSimulation_SeededRandIsDeterministic(t *testing.T) {
	run := func() []string {
		env := newTestEnv(t)
		p := env.seedProject(t, testutil.NewTestProject("Seeded", testutil.WithTimeline(5)))
		sim := newTestSimulation(env, 99)
		var msgs []string
		for range 5 {
			res, err := sim.Tick(context.Background(), p.ID)
			require.NoError(t, err)
			msgs = append(msgs, res.Message)
		}
		return msgs
	}
	assert.Equal(t, run(), run())
}

func TestSimulation_TickPastTimelineWritesNothing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	entry := domain.SimulationLogEntry{Week: 3, Timestamp: testNow, Severity: domain.EventInfo, Message: "done"}
	p := env.seedProject(t, testutil.NewTestProject("Done",
		testutil.WithTimeline(3), testutil.WithCurrentWeek(3), testutil.WithSimulationLog(entry)))

	res, err := newTestSimulation(env, 1).Tick(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, res.Completed)
	assert.Equal(t, domain.AlreadyCompletedMessage, res.Message)
	assert.Equal(t, 3, res.Week)
	assert.Nil(t, res.Entry)

	stored, err := env.projects.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stored.CurrentWeek)
	assert.Len(t, stored.SimulationLog, 1)
}

func TestSimulation_DefaultTimeline(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProject(t, testutil.NewTestProject("No timeline", testutil.WithCurrentWeek(11)))
	sim := newTestSimulation(env, 3)

	res, err := sim.Tick(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 12, res.Week)
	assert.Equal(t, domain.DefaultTimelineWeeks, res.TimelineWeeks)

	res, err = sim.Tick(context.Background(), p.ID)
	require.NoError(t, err)
	assert.True(t, res.Completed)
}

func TestSimulation_TickRollsBackOnWriteFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.seedProject(t, testutil.NewTestProject("Portal", testutil.WithTimeline(4), testutil.WithMilestone("Design", 1)))
	w := env.seedWorker(t, testutil.NewTestWorker("Dev"))
	require.NoError(t, env.proposals.Replace(ctx, testutil.NewTestBatch(p.ID,
		testutil.StagedRow{MilestoneID: p.Data.Milestones[0].ID, Title: "Design", Week: 1, WorkerID: w.ID})))

	failing := &testutil.FailOnNthExecUoW{DB: env.db, FailOn: 1, Match: "UPDATE projects", Err: errors.New("locked")}
	_, err := NewSimulationService(failing, env.settings).Tick(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrPersistence)

	stored, err := env.projects.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Zero(t, stored.CurrentWeek)
	staged, err := env.proposals.GetByProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StagedProposed, staged.Assignments[0].Status)
}

func TestSimulation_UnknownProject(t *testing.T) {
	env := newTestEnv(t)
	_, err := newTestSimulation(env, 1).Tick(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
