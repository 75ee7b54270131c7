package pagination_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/issuetracker/pkg/pagination"
)

func render(pages []pagination.Page) []string {
	out := make([]string, 0, len(pages))
	for _, p := range pages {
		out = append(out, p.String())
	}
	return out
}

func TestGenerate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		total, current int
		want           []string
	}{
		{0, 1, []string{}},
		{5, 1, []string{"1", "2", "3", "4", "5"}},
		{7, 4, []string{"1", "2", "3", "4", "5", "6", "7"}},
		{10, 5, []string{"1", "...", "4", "5", "6", "...", "10"}},
		{10, 1, []string{"1", "2", "3", "4", "...", "9", "10"}},
		{10, 3, []string{"1", "2", "3", "4", "...", "9", "10"}},
		{10, 8, []string{"1", "2", "...", "7", "8", "9", "10"}},
		{10, 10, []string{"1", "2", "...", "7", "8", "9", "10"}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, render(pagination.Generate(tt.total, tt.current)), "total=%d current=%d", tt.total, tt.current)
	}
}

func TestEllipsis(t *testing.T) {
	t.Parallel()

	pages := pagination.Generate(10, 5)
	assert.True(t, pages[1].IsEllipsis())
	assert.False(t, pages[0].IsEllipsis())
	assert.Equal(t, pagination.Page(5), pages[3])
}

func TestHelpers(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 3, pagination.TotalPages(11, 5))
	assert.Equal(t, 2, pagination.TotalPages(10, 5))
	assert.Equal(t, 0, pagination.TotalPages(0, 5))

	assert.Equal(t, 1, pagination.Clamp(0, 4))
	assert.Equal(t, 4, pagination.Clamp(9, 4))
	assert.Equal(t, 1, pagination.Clamp(3, 0))
	assert.Equal(t, 2, pagination.Clamp(2, 4))

	assert.Equal(t, 0, pagination.Offset(1, 5))
	assert.Equal(t, 10, pagination.Offset(3, 5))
	assert.Equal(t, 0, pagination.Offset(-1, 5))
}
