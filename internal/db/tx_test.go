package db_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/plateplan/internal/db"
)

const insertDeviation = `INSERT INTO deviation_events (id, user_id, type, occurred_at) VALUES (?, 'u1', 'dining_out', '2024-01-01T12:00:00Z')`

func deviationCount(t *testing.T, conn db.DBTX) int {
	t.Helper()
	var n int
	require.NoError(t, conn.QueryRowContext(context.Background(), `SELECT COUNT(*) FROM deviation_events`).Scan(&n))
	return n
}

func newStore(t *testing.T) (db.DBTX, *db.SQLiteUnitOfWork) {
	t.Helper()
	conn, err := db.OpenDB(db.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn, db.NewSQLiteUnitOfWork(conn)
}

func TestWithinTx_CommitsEveryWrite(t *testing.T) {
	conn, uow := newStore(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		for _, id := range []string{"d1", "d2"} {
			if _, err := tx.ExecContext(ctx, insertDeviation, id); err != nil {
				return err
			}
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, deviationCount(t, conn))
}

func TestWithinTx_ErrorDiscardsEarlierWrites(t *testing.T) {
	conn, uow := newStore(t)
	stop := errors.New("rule evaluation failed")

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if _, err := tx.ExecContext(ctx, insertDeviation, "d1"); err != nil {
			return err
		}
		assert.Equal(t, 1, deviationCount(t, tx))
		return stop
	})

	assert.ErrorIs(t, err, stop)
	assert.Zero(t, deviationCount(t, conn))
}

func TestWithinTx_PanicRollsBackAndRepanics(t *testing.T) {
	conn, uow := newStore(t)

	assert.PanicsWithValue(t, "half-written plan", func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_, _ = tx.ExecContext(ctx, insertDeviation, "d1")
			panic("half-written plan")
		})
	})

	assert.Zero(t, deviationCount(t, conn))
}

func TestWithinTx_CancelledContext(t *testing.T) {
	_, uow := newStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := uow.WithinTx(ctx, func(context.Context, db.DBTX) error {
		called = true
		return nil
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "beginning transaction")
	assert.False(t, called)
}
