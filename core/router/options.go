package router

import (
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/issuetracker/core/handler"
)

// Option configures a Router during creation.
type Option[C handler.Context] func(*Router[C])

// WithErrorHandler sets a custom error handler for the router.
func WithErrorHandler[C handler.Context](h handler.ErrorHandler[C]) Option[C] {
	return func(rt *Router[C]) {
		if h != nil {
			rt.errorHandler = h
		}
	}
}

// WithNotFoundHandler sets the handler used when no route matches.
// Middleware bindings still apply to it.
func WithNotFoundHandler[C handler.Context](h handler.HandlerFunc[C]) Option[C] {
	return func(rt *Router[C]) {
		if h != nil {
			rt.notFound = h
		}
	}
}

// WithMiddleware adds router-wide middlewares. They wrap every request outermost
// and run in the order given.
func WithMiddleware[C handler.Context](middlewares ...handler.Middleware[C]) Option[C] {
	return func(rt *Router[C]) {
		for _, mw := range middlewares {
			if mw != nil {
				rt.middlewares = append(rt.middlewares, mw)
			}
		}
	}
}

// WithContextFactory sets a custom context factory for the router.
func WithContextFactory[C handler.Context](f func(http.ResponseWriter, *http.Request, map[string]string) C) Option[C] {
	return func(rt *Router[C]) {
		rt.newContext = f
	}
}

// WithLogger sets a custom logger for the router.
func WithLogger[C handler.Context](logger *slog.Logger) Option[C] {
	return func(rt *Router[C]) {
		if logger != nil {
			rt.logger = logger
		}
	}
}

// WithProduction disables registration-time panics.
func WithProduction[C handler.Context](production bool) Option[C] {
	return func(rt *Router[C]) {
		rt.production = production
	}
}

// WithMaxFormSize caps the POST body the router reads to find the method
// override field. Non-positive values keep DefaultMaxFormSize.
func WithMaxFormSize[C handler.Context](n int64) Option[C] {
	return func(rt *Router[C]) {
		if n > 0 {
			rt.maxFormSize = n
		}
	}
}
