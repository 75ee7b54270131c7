package sessionstore_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/issuetracker/core/session"
	"github.com/dmitrymomot/issuetracker/integration/database/redis"
	"github.com/dmitrymomot/issuetracker/internal/sessionstore"
	"github.com/dmitrymomot/issuetracker/internal/testdb"
)

type data struct {
	Flash string `json:"flash"`
	Count int    `json:"count"`
}

func testStore(t *testing.T, store session.Store[data]) {
	t.Helper()
	ctx := context.Background()

	sess, err := session.New[data](session.NewSessionParams{IP: "10.0.0.1", UserAgent: "test"}, time.Hour)
	require.NoError(t, err)
	sess.SetData(data{Flash: "hello", Count: 2})
	require.NoError(t, store.Save(ctx, &sess))

	got, err := store.GetByToken(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)
	assert.Equal(t, data{Flash: "hello", Count: 2}, got.Data)
	assert.Equal(t, "10.0.0.1", got.IP)
	assert.False(t, got.IsModified())
	assert.Equal(t, uuid.Nil, got.UserID)

	oldToken := sess.Token
	require.NoError(t, sess.Authenticate(uuid.Nil))
	require.NoError(t, store.Save(ctx, &sess))

	_, err = store.GetByToken(ctx, oldToken)
	assert.ErrorIs(t, err, session.ErrNotFound)
	got, err = store.GetByToken(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)

	require.NoError(t, store.Delete(ctx, sess.ID))
	_, err = store.GetByID(ctx, sess.ID)
	assert.ErrorIs(t, err, session.ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, sess.ID), session.ErrNotFound)

	_, err = store.DeleteExpired(ctx)
	assert.NoError(t, err)
}

func TestPostgres(t *testing.T) {
	db, _ := testdb.Open(t)
	testStore(t, sessionstore.NewPostgres[data](db))
}

func TestPostgresDeleteExpired(t *testing.T) {
	db, _ := testdb.Open(t)
	store := sessionstore.NewPostgres[data](db)
	ctx := context.Background()

	sess, err := session.New[data](session.NewSessionParams{}, time.Hour)
	require.NoError(t, err)
	sess.ExpiresAt = time.Now().Add(-time.Minute)
	require.NoError(t, store.Save(ctx, &sess))

	n, err := store.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, int64(1))

	_, err = store.GetByID(ctx, sess.ID)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestRedis(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL is not set")
	}
	client, err := redis.Connect(context.Background(), redis.Config{ConnectionURL: url, RetryAttempts: 1})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	testStore(t, sessionstore.NewRedis[data](client, "test:"+uuid.NewString()+":"))
}
