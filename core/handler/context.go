package handler

import (
	"context"
	"net/http"
)

// Context is the request context passed through middlewares to handlers.
// It is a context.Context backed by the request's own context.
type Context interface {
	context.Context

	// Request returns the current request. SetValue replaces it with
	// a copy carrying the new value.
	Request() *http.Request
	ResponseWriter() http.ResponseWriter

	// Param returns the value captured by a :name placeholder of the matched route.
	Param(key string) string

	// SetValue stores a request-scoped value readable via Value.
	SetValue(key, val any)
}
