package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Conn is the query surface shared by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type Conn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// DB runs named-parameter statements ("@name") against a connection or an
// open transaction.
type DB struct {
	conn Conn
	tx   pgx.Tx
}

// New wraps conn.
func New(conn Conn) *DB {
	return &DB{conn: conn}
}

// querier prefers the bound transaction, then one carried by ctx.
func (db *DB) querier(ctx context.Context) Conn {
	if db.tx != nil {
		return db.tx
	}
	if tx, ok := TxFromContext(ctx); ok {
		return tx
	}
	return db.conn
}

func namedArgs(args pgx.NamedArgs) []any {
	if len(args) == 0 {
		return nil
	}
	return []any{args}
}

// Query runs sql and returns the result cursor.
func (db *DB) Query(ctx context.Context, sql string, args pgx.NamedArgs) (pgx.Rows, error) {
	return db.querier(ctx).Query(ctx, sql, namedArgs(args)...)
}

// QueryRow runs sql expecting at most one row. Errors are deferred to Scan.
func (db *DB) QueryRow(ctx context.Context, sql string, args pgx.NamedArgs) pgx.Row {
	return db.querier(ctx).QueryRow(ctx, sql, namedArgs(args)...)
}

// Exec runs sql and returns the number of affected rows.
func (db *DB) Exec(ctx context.Context, sql string, args pgx.NamedArgs) (int64, error) {
	tag, err := db.querier(ctx).Exec(ctx, sql, namedArgs(args)...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// InTx reports whether db is bound to a transaction.
func (db *DB) InTx() bool {
	return db.tx != nil
}

// Transaction runs fn inside a transaction and commits when it returns nil.
// Any error, or a panic, rolls the transaction back. The error is passed
// through onError when one is given. Nested calls reuse the outer transaction.
func (db *DB) Transaction(ctx context.Context, fn func(ctx context.Context, tx *DB) error, onError ...func(error) error) (err error) {
	handle := func(err error) error {
		if len(onError) > 0 && onError[0] != nil {
			return onError[0](err)
		}
		return err
	}

	if db.tx != nil {
		if err := fn(ctx, db); err != nil {
			return handle(err)
		}
		return nil
	}

	tx, err := db.querier(ctx).Begin(ctx)
	if err != nil {
		return handle(errors.Join(ErrTransactionFailed, err))
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(context.WithoutCancel(ctx))
			panic(p)
		}
	}()

	txdb := &DB{conn: db.conn, tx: tx}
	if err := fn(WithTx(ctx, tx), txdb); err != nil {
		if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil && !IsTxClosedError(rbErr) {
			err = errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return handle(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return handle(errors.Join(ErrTransactionFailed, err))
	}

	return nil
}

// CollectRows scans every row of a Query result into T using fn.
func CollectRows[T any](rows pgx.Rows, err error, fn pgx.RowToFunc[T]) ([]T, error) {
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, fn)
}

// CollectOne scans the single row of a Query result into T.
// It returns pgx.ErrNoRows when the result is empty.
func CollectOne[T any](rows pgx.Rows, err error, fn pgx.RowToFunc[T]) (T, error) {
	if err != nil {
		var zero T
		return zero, err
	}
	return pgx.CollectOneRow(rows, fn)
}
