package testutil

import (
	"context"
	"database/sql"

	"github.com/alexanderramin/backplan/internal/db"
)

// FailOnNthExecUoW behaves like the SQLite unit of work except that the
// FailOn-th write inside a transaction returns Err. Reads are not counted.
// Import tests use it to stop a batch halfway and check nothing was kept.
type FailOnNthExecUoW struct {
	DB     *sql.DB
	FailOn int
	Err    error
}

func (u *FailOnNthExecUoW) WithinTx(ctx context.Context, fn db.TxFunc) error {
	inner := db.NewSQLiteUnitOfWork(u.DB)
	return inner.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, &countingTx{DBTX: tx, failOn: u.FailOn, err: u.Err})
	})
}

// countingTx is used by one goroutine at a time, like the *sql.Tx it wraps.
type countingTx struct {
	db.DBTX
	writes int
	failOn int
	err    error
}

func (c *countingTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	c.writes++
	if c.writes == c.failOn {
		return nil, c.err
	}
	return c.DBTX.ExecContext(ctx, query, args...)
}
