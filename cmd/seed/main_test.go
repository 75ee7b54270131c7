package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/issuetracker/internal/user"
)

func TestDemoUsers(t *testing.T) {
	t.Parallel()

	emails := map[string]bool{}
	admins := 0
	for _, u := range demoUsers {
		assert.False(t, emails[u.email], "duplicate email %s", u.email)
		emails[u.email] = true
		assert.NotEmpty(t, u.password, u.email)
		if u.role == user.RoleAdmin {
			admins++
		}
	}
	assert.Equal(t, 1, admins)
}

func TestDemoIssues(t *testing.T) {
	t.Parallel()

	require.GreaterOrEqual(t, len(demoIssues), 2)
	for _, d := range demoIssues {
		assert.NotEmpty(t, d.title)
		assert.LessOrEqual(t, len(d.title), 255, d.title)
		assert.NotEmpty(t, d.description, d.title)
		assert.LessOrEqual(t, len(d.description), 1000, d.title)
	}
}
