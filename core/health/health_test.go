package health_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/issuetracker/core/health"
	"github.com/dmitrymomot/issuetracker/core/router"
)

func TestProbes(t *testing.T) {
	t.Parallel()

	healthy := func(context.Context) error { return nil }
	broken := func(context.Context) error { return errors.New("db down") }

	r := router.New[*router.Context]()
	r.Get("/live", health.Liveness[*router.Context])
	r.Get("/ready", health.Readiness[*router.Context](nil, healthy))
	r.Get("/broken", health.Readiness[*router.Context](nil, healthy, broken))

	tests := []struct {
		path   string
		status int
		body   string
	}{
		{"/live", http.StatusOK, "ALIVE"},
		{"/ready", http.StatusOK, "READY"},
		{"/broken", http.StatusServiceUnavailable, ""},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
		assert.Equal(t, tt.status, rec.Code, tt.path)
		if tt.body != "" {
			assert.Equal(t, tt.body, rec.Body.String(), tt.path)
		}
	}
}
