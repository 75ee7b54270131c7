package router

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrymomot/issuetracker/core/handler"
)

var (
	ErrNoContextFactory  = errors.New("no context factory provided")
	ErrNilResponse       = errors.New("nil response")
	ErrInvalidMethod     = errors.New("invalid http method")
	ErrInvalidHandler    = errors.New("invalid route handler")
	ErrInvalidMiddleware = errors.New("invalid middleware")
	ErrInvalidPattern    = errors.New("invalid route path pattern")
	ErrInvalidRegexp     = errors.New("invalid route path pattern regexp")
	ErrDuplicateParam    = errors.New("duplicate parameter name")
)

// statusCode is implemented by errors that carry an HTTP status code.
type statusCode interface {
	StatusCode() int
}

func defaultErrorHandler[C handler.Context](ctx C, err error) {
	w := ctx.ResponseWriter()

	if ww, ok := w.(*responseWriter); ok && ww.Written() {
		return
	}

	status := http.StatusInternalServerError
	var sc statusCode
	if errors.As(err, &sc) {
		status = sc.StatusCode()
	}

	http.Error(w, err.Error(), status)
}

// PanicError is passed to the error handler when a handler panics.
type PanicError interface {
	error
	// Value returns the original panic value.
	Value() any
	// Stack returns the stack trace captured at the panic point.
	Stack() []byte
}

type panicError struct {
	value any
	stack []byte
}

func (e *panicError) Error() string {
	return fmt.Sprintf("panic: %v", e.value)
}

func (e *panicError) Value() any {
	return e.value
}

func (e *panicError) Stack() []byte {
	return e.stack
}

// Unwrap allows errors.Is/As to see a panicked error value.
func (e *panicError) Unwrap() error {
	if err, ok := e.value.(error); ok {
		return err
	}
	return nil
}
