package testutil

import (
	"context"
	"database/sql"

	"github.com/alexanderramin/plateplan/internal/db"
)

// FailOnNthExecUoW is a real SQLite unit of work whose Nth write (counting
// from 1 within one transaction) returns Err instead of executing. Reads pass
// through, so services get far enough to prove a half-written plan or
// adjustment pass rolls back.
type FailOnNthExecUoW struct {
	DB     *sql.DB
	FailOn int
	Err    error
}

func (u *FailOnNthExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	return db.NewSQLiteUnitOfWork(u.DB).WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, &execFault{DBTX: tx, failOn: u.FailOn, err: u.Err})
	})
}

type execFault struct {
	db.DBTX
	writes int
	failOn int
	err    error
}

func (f *execFault) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	f.writes++
	if f.writes == f.failOn {
		return nil, f.err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
