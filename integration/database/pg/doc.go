// Package pg wires PostgreSQL into the application through pgx.
//
// Connect opens a pgxpool with retries, Migrate applies embedded goose
// migrations and Healthcheck backs the readiness probe.
//
// DB is a thin wrapper used by repositories. Statements take named
// parameters and results are plain pgx cursors:
//
//	db := pg.New(pool)
//	rows, err := db.Query(ctx, `SELECT id, title FROM issues WHERE reporter_id = @id`, pgx.NamedArgs{"id": userID})
//	issues, err := pg.CollectRows(rows, err, pgx.RowToStructByName[Issue])
//
// Transaction scopes several statements:
//
//	err := db.Transaction(ctx, func(ctx context.Context, tx *pg.DB) error {
//		if _, err := tx.Exec(ctx, `UPDATE issues SET is_deleted = TRUE WHERE id = @id`, args); err != nil {
//			return err
//		}
//		_, err := tx.Exec(ctx, `INSERT INTO issue_deletion_logs (issue_id, deleted_by) VALUES (@id, @by)`, args)
//		return err
//	})
//
// The transaction is committed when fn returns nil and rolled back on an
// error or a panic. The context passed to fn carries the transaction, see
// WithTx and TxFromContext.
package pg
