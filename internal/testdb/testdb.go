// Package testdb opens the PostgreSQL database used by integration tests.
// Tests are skipped unless TEST_DATABASE_URL is set.
package testdb

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/issuetracker/integration/database/pg"
	"github.com/dmitrymomot/issuetracker/internal/db/migrations"
)

// EnvKey names the environment variable holding the test connection string.
const EnvKey = "TEST_DATABASE_URL"

// Open connects to the test database, applies migrations and closes the
// pool when the test ends.
func Open(t testing.TB) (*pg.DB, *pgxpool.Pool) {
	t.Helper()

	url := os.Getenv(EnvKey)
	if url == "" {
		t.Skipf("%s is not set", EnvKey)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg := pg.Config{
		ConnectionString: url,
		MaxOpenConns:     4,
		MaxIdleConns:     1,
		RetryAttempts:    1,
		MigrationsTable:  "schema_migrations",
	}
	pool, err := pg.Connect(ctx, cfg)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := pg.Migrate(ctx, pool, migrations.FS, cfg, nil); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return pg.New(pool), pool
}
