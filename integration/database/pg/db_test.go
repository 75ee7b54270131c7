package pg_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/issuetracker/integration/database/pg"
)

type execCall struct {
	sql  string
	args []any
	inTx bool
}

type fakeConn struct {
	calls    []execCall
	execErr  error
	beginErr error
	tx       *fakeTx
}

func (c *fakeConn) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	c.calls = append(c.calls, execCall{sql: sql, args: args})
	if c.execErr != nil {
		return pgconn.CommandTag{}, c.execErr
	}
	return pgconn.NewCommandTag("UPDATE 2"), nil
}

func (c *fakeConn) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

func (c *fakeConn) QueryRow(context.Context, string, ...any) pgx.Row {
	return nil
}

func (c *fakeConn) Begin(context.Context) (pgx.Tx, error) {
	if c.beginErr != nil {
		return nil, c.beginErr
	}
	c.tx = &fakeTx{conn: c}
	return c.tx, nil
}

type fakeTx struct {
	pgx.Tx
	conn       *fakeConn
	failOn     string
	committed  bool
	rolledBack bool
}

func (tx *fakeTx) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	tx.conn.calls = append(tx.conn.calls, execCall{sql: sql, args: args, inTx: true})
	if tx.failOn != "" && sql == tx.failOn {
		return pgconn.CommandTag{}, errors.New("statement failed")
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (tx *fakeTx) Commit(context.Context) error {
	if tx.rolledBack {
		return pgx.ErrTxClosed
	}
	tx.committed = true
	return nil
}

func (tx *fakeTx) Rollback(context.Context) error {
	if tx.committed {
		return pgx.ErrTxClosed
	}
	tx.rolledBack = true
	return nil
}

func TestExec(t *testing.T) {
	t.Parallel()

	conn := &fakeConn{}
	db := pg.New(conn)

	n, err := db.Exec(context.Background(), "UPDATE issues SET status = @status", pgx.NamedArgs{"status": "OPEN"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	require.Len(t, conn.calls, 1)
	assert.Equal(t, []any{pgx.NamedArgs{"status": "OPEN"}}, conn.calls[0].args)
	assert.False(t, conn.calls[0].inTx)

	_, err = db.Exec(context.Background(), "DELETE FROM sessions", nil)
	require.NoError(t, err)
	assert.Nil(t, conn.calls[1].args)
}

func TestTransaction(t *testing.T) {
	t.Parallel()

	t.Run("commits on success", func(t *testing.T) {
		t.Parallel()
		conn := &fakeConn{}
		db := pg.New(conn)

		err := db.Transaction(context.Background(), func(ctx context.Context, tx *pg.DB) error {
			assert.True(t, tx.InTx())
			_, ok := pg.TxFromContext(ctx)
			assert.True(t, ok)
			_, err := tx.Exec(ctx, "INSERT 1", nil)
			return err
		})

		require.NoError(t, err)
		assert.True(t, conn.tx.committed)
		assert.False(t, conn.tx.rolledBack)
		require.Len(t, conn.calls, 1)
		assert.True(t, conn.calls[0].inTx)
	})

	t.Run("rolls back on error", func(t *testing.T) {
		t.Parallel()
		conn := &fakeConn{}
		db := pg.New(conn)
		errFail := errors.New("fail")

		err := db.Transaction(context.Background(), func(ctx context.Context, tx *pg.DB) error {
			return errFail
		})

		require.ErrorIs(t, err, errFail)
		assert.True(t, conn.tx.rolledBack)
		assert.False(t, conn.tx.committed)
	})

	t.Run("on error callback", func(t *testing.T) {
		t.Parallel()
		conn := &fakeConn{}
		db := pg.New(conn)
		errWrapped := errors.New("could not delete issue")

		err := db.Transaction(context.Background(), func(ctx context.Context, tx *pg.DB) error {
			return errors.New("fail")
		}, func(error) error { return errWrapped })

		assert.ErrorIs(t, err, errWrapped)
	})

	t.Run("rolls back and repanics", func(t *testing.T) {
		t.Parallel()
		conn := &fakeConn{}
		db := pg.New(conn)

		assert.PanicsWithValue(t, "boom", func() {
			_ = db.Transaction(context.Background(), func(ctx context.Context, tx *pg.DB) error {
				panic("boom")
			})
		})
		assert.True(t, conn.tx.rolledBack)
	})

	t.Run("begin failure", func(t *testing.T) {
		t.Parallel()
		conn := &fakeConn{beginErr: errors.New("conn closed")}
		db := pg.New(conn)
		called := false

		err := db.Transaction(context.Background(), func(ctx context.Context, tx *pg.DB) error {
			called = true
			return nil
		})

		assert.ErrorIs(t, err, pg.ErrTransactionFailed)
		assert.False(t, called)
	})

	t.Run("nested call reuses transaction", func(t *testing.T) {
		t.Parallel()
		conn := &fakeConn{}
		db := pg.New(conn)

		err := db.Transaction(context.Background(), func(ctx context.Context, tx *pg.DB) error {
			first := conn.tx
			return tx.Transaction(ctx, func(ctx context.Context, inner *pg.DB) error {
				assert.Same(t, first, conn.tx)
				_, err := inner.Exec(ctx, "INSERT 2", nil)
				return err
			})
		})

		require.NoError(t, err)
		assert.True(t, conn.tx.committed)
	})
}

func TestErrorClassifiers(t *testing.T) {
	t.Parallel()

	assert.True(t, pg.IsNotFoundError(pgx.ErrNoRows))
	assert.True(t, pg.IsNotFoundError(errors.Join(errors.New("get issue"), pgx.ErrNoRows)))
	assert.False(t, pg.IsNotFoundError(errors.New("other")))

	assert.True(t, pg.IsDuplicateKeyError(&pgconn.PgError{Code: "23505"}))
	assert.False(t, pg.IsDuplicateKeyError(&pgconn.PgError{Code: "23503"}))
	assert.True(t, pg.IsForeignKeyViolationError(&pgconn.PgError{Code: "23503"}))
	assert.True(t, pg.IsTxClosedError(pgx.ErrTxClosed))
}

func TestHealthcheck(t *testing.T) {
	t.Parallel()

	ok := pg.Healthcheck(pingFunc(func(context.Context) error { return nil }))
	assert.NoError(t, ok(context.Background()))

	down := pg.Healthcheck(pingFunc(func(context.Context) error { return errors.New("refused") }))
	assert.ErrorIs(t, down(context.Background()), pg.ErrHealthcheckFailed)
}

type pingFunc func(context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestConnectRequiresConnectionString(t *testing.T) {
	t.Parallel()

	_, err := pg.Connect(context.Background(), pg.Config{})
	assert.ErrorIs(t, err, pg.ErrEmptyConnectionString)
}
