package issue_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/issuetracker/internal/issue"
	"github.com/dmitrymomot/issuetracker/internal/testdb"
	"github.com/dmitrymomot/issuetracker/internal/user"
)

func newUser(t *testing.T, users *user.Service, role user.Role) user.User {
	t.Helper()
	u, err := users.Create(context.Background(), user.CreateParams{
		Name:     "Test User",
		Email:    uuid.NewString() + "@example.com",
		Password: "hash",
		Role:     role,
	})
	require.NoError(t, err)
	return u
}

func TestServiceLifecycle(t *testing.T) {
	db, _ := testdb.Open(t)
	users := user.NewService(db)
	svc := issue.NewService(db, users)
	ctx := context.Background()

	reporter := newUser(t, users, user.RoleUser)
	stranger := newUser(t, users, user.RoleUser)
	actor := issue.Actor{ID: reporter.ID, Role: reporter.Role}

	id, err := svc.Create(ctx, actor, issue.CreateInput{
		Title:       "Checkout fails",
		Description: "500 on submit",
		Status:      issue.StatusOpen,
		Priority:    issue.PriorityHigh,
	})
	require.NoError(t, err)

	iss, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Checkout fails", iss.Title)
	assert.Nil(t, iss.Assignee)
	assert.Equal(t, reporter.ID, iss.Reporter.ID)
	assert.True(t, issue.Deletable(iss))

	title := "Checkout fails on Safari"
	require.NoError(t, svc.Update(ctx, id, issue.UpdateInput{Title: &title}))
	iss, err = svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, title, iss.Title)

	n, err := svc.Count(ctx, actor, issue.ListOptions{Search: "safari"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = svc.Count(ctx, issue.Actor{ID: stranger.ID, Role: user.RoleUser}, issue.ListOptions{})
	require.NoError(t, err)
	assert.Zero(t, n)

	list, err := svc.List(ctx, actor, issue.ListOptions{}.Paginate(issue.PerPage, 0))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0].ID)

	stats, err := svc.Stats(ctx, actor)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Total)
	assert.Equal(t, int64(1), stats.Open)
	assert.Equal(t, int64(1), stats.High)

	require.NoError(t, svc.Delete(ctx, id, actor))
	_, err = svc.Get(ctx, id)
	assert.ErrorIs(t, err, issue.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, id, actor), issue.ErrNotFound)

	logs, err := svc.DeletionLogs(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, logs)
}

func TestDeleteIsAtomic(t *testing.T) {
	db, _ := testdb.Open(t)
	users := user.NewService(db)
	svc := issue.NewService(db, users)
	ctx := context.Background()

	reporter := newUser(t, users, user.RoleUser)
	actor := issue.Actor{ID: reporter.ID, Role: reporter.Role}
	id, err := svc.Create(ctx, actor, issue.CreateInput{
		Title:       "Atomic",
		Description: "delete must roll back",
		Status:      issue.StatusOpen,
		Priority:    issue.PriorityLow,
	})
	require.NoError(t, err)

	// deleted_by references a user that does not exist, so the audit insert fails.
	err = svc.Delete(ctx, id, issue.Actor{ID: uuid.New(), Role: user.RoleAdmin})
	require.Error(t, err)

	iss, err := svc.Get(ctx, id)
	require.NoError(t, err, "issue must not stay deleted")
	assert.Equal(t, id, iss.ID)
}
