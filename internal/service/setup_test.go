package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/alexanderramin/backplan/internal/db"
	"github.com/alexanderramin/backplan/internal/repository"
	"github.com/alexanderramin/backplan/internal/testutil"
)

type testEnv struct {
	db       *sql.DB
	projects *repository.SQLiteProjectRepo
	stages   *repository.SQLiteStageRepo
	holidays *repository.SQLiteHolidayRepo
	uow      db.UnitOfWork
}

func setupRepos(t *testing.T) testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	return testEnv{
		db:       database,
		projects: repository.NewSQLiteProjectRepo(database),
		stages:   repository.NewSQLiteStageRepo(database),
		holidays: repository.NewSQLiteHolidayRepo(database),
		uow:      testutil.NewTestUoW(database),
	}
}

// recordingObserver keeps every event for assertions.
type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (r *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingObserver) last() UseCaseEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[len(r.events)-1]
}
