package handler

import "net/http"

// Response writes the reply for a request: headers, status and body.
// Handlers do their work eagerly and return a Response that only renders,
// so middlewares see the outcome of a request before anything is written.
// A returned error is passed to the router's error handler.
type Response func(w http.ResponseWriter, r *http.Request) error

// HandlerFunc handles a request with a custom context type.
type HandlerFunc[C Context] func(ctx C) Response

// ErrorHandler renders errors returned from a Response or recovered from a panic.
type ErrorHandler[C Context] func(ctx C, err error)

// Middleware is the single processing step of a middleware chain.
// It either calls next to continue or returns its own Response to short-circuit.
type Middleware[C Context] func(next HandlerFunc[C]) HandlerFunc[C]
