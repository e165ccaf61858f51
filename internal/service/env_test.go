package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/alexanderramin/apo/internal/db"
	"github.com/alexanderramin/apo/internal/docstore"
	"github.com/alexanderramin/apo/internal/domain"
	"github.com/alexanderramin/apo/internal/intelligence"
	"github.com/alexanderramin/apo/internal/llm"
	"github.com/alexanderramin/apo/internal/repository"
	"github.com/alexanderramin/apo/internal/testutil"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

// stubOracle returns a canned response and records the last request.
type stubOracle struct {
	response string
	err      error
	calls    int
	last     llm.GenerateRequest
}

func (s *stubOracle) Generate(_ context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	s.calls++
	s.last = req
	if s.err != nil {
		return nil, s.err
	}
	return &llm.GenerateResponse{Text: s.response, Model: "stub-model"}, nil
}

func (s *stubOracle) Available(context.Context) bool { return s.err == nil }

// recordingObserver keeps every use-case event.
type recordingObserver struct {
	events []UseCaseEvent
}

func (r *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	r.events = append(r.events, e)
}

func (r *recordingObserver) last() UseCaseEvent {
	return r.events[len(r.events)-1]
}

// testEnv wires every repository over one in-memory database.
type testEnv struct {
	db        *sql.DB
	uow       db.UnitOfWork
	projects  *repository.SQLiteProjectRepo
	tasks     *repository.SQLiteProjectTaskRepo
	members   *repository.SQLiteWorkspaceMemberRepo
	workers   *repository.SQLiteWorkerRepo
	proposals *repository.SQLiteProposalRepo
	activity  *repository.SQLiteActivityRepo
	store     *docstore.FSStore
	oracle    *stubOracle
	observer  *recordingObserver
	settings  Settings
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	return &testEnv{
		db:        database,
		uow:       testutil.NewTestUoW(database),
		projects:  repository.NewSQLiteProjectRepo(database),
		tasks:     repository.NewSQLiteProjectTaskRepo(database),
		members:   repository.NewSQLiteWorkspaceMemberRepo(database),
		workers:   repository.NewSQLiteWorkerRepo(database),
		proposals: repository.NewSQLiteProposalRepo(database),
		activity:  repository.NewSQLiteActivityRepo(database),
		store:     docstore.NewFSStore(afero.NewMemMapFs(), "http://files.test"),
		oracle:    &stubOracle{},
		observer:  &recordingObserver{},
		settings:  Settings{Clock: testutil.FixedClock(testNow)},
	}
}

func (e *testEnv) projectServiceExtractor() intelligence.ExtractionService {
	return intelligence.NewExtractionService(e.oracle, 0)
}

func (e *testEnv) projectService() ProjectService {
	return NewProjectService(e.projects, e.tasks, e.store,
		e.projectServiceExtractor(), e.uow, e.settings, e.observer)
}

func (e *testEnv) allocationService(uow db.UnitOfWork) AllocationService {
	if uow == nil {
		uow = e.uow
	}
	return NewAllocationService(e.projects, e.workers, e.proposals,
		intelligence.NewAllocationProposer(e.oracle), uow, e.settings, e.observer)
}

func (e *testEnv) ledgerService() LedgerService {
	return NewLedgerService(e.workers, e.activity, e.uow, e.settings, e.observer)
}

func (e *testEnv) teamService() TeamService {
	return NewTeamService(e.members, e.workers, e.activity, e.uow, e.settings, e.observer)
}

func (e *testEnv) seedProject(t *testing.T, p *domain.Project) *domain.Project {
	t.Helper()
	require.NoError(t, e.projects.Create(context.Background(), p))
	return p
}

func (e *testEnv) seedWorker(t *testing.T, w *domain.Worker) *domain.Worker {
	t.Helper()
	require.NoError(t, e.workers.Create(context.Background(), w))
	return w
}
