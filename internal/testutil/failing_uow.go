package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/alexanderramin/apo/internal/db"
)

// FailOnNthExecUoW is a UnitOfWork that injects Err into a transaction so
// tests can verify that multi-write use cases roll back completely.
//
// With FailOn > 0 the FailOn-th ExecContext call (counted from 1) fails.
// With Match set, only statements containing Match are counted, so a test can
// target e.g. the third ledger insert regardless of other writes.
// Reads pass through untouched.
type FailOnNthExecUoW struct {
	DB     *sql.DB
	FailOn int32
	Match  string
	Err    error

	// Execs records how many counted statements ran in the last transaction.
	Execs atomic.Int32
}

func (u *FailOnNthExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	u.Execs.Store(0)
	wrapped := &failOnNthExec{DBTX: tx, owner: u}
	if fnErr := fn(ctx, wrapped); fnErr != nil {
		_ = tx.Rollback()
		return fnErr
	}
	return tx.Commit()
}

type failOnNthExec struct {
	db.DBTX
	owner *FailOnNthExecUoW
}

func (f *failOnNthExec) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if f.owner.Match == "" || strings.Contains(query, f.owner.Match) {
		n := f.owner.Execs.Add(1)
		if n == f.owner.FailOn {
			return nil, f.owner.Err
		}
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
