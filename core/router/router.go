package router

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/dmitrymomot/issuetracker/core/handler"
)

// Router dispatches requests to handlers registered per HTTP method and wraps
// them with middlewares bound to path patterns.
//
// Routes are kept in insertion order and the first matching route wins.
// Middleware bindings are composed so that execution order is the reverse of
// registration: a binding added later runs before one added earlier, and
// within a binding the last middleware listed runs first.
//
// Registration is not safe for concurrent use; build the router once at
// startup and then serve it.
type Router[C handler.Context] struct {
	routes       map[string][]route[C]
	bindings     []binding[C]
	middlewares  []handler.Middleware[C]
	notFound     handler.HandlerFunc[C]
	errorHandler handler.ErrorHandler[C]
	newContext   func(http.ResponseWriter, *http.Request, map[string]string) C
	logger       *slog.Logger
	production   bool
	maxFormSize  int64
}

// Route describes a registered route.
type Route struct {
	Method  string
	Pattern string
}

type route[C handler.Context] struct {
	pattern *Pattern
	handler handler.HandlerFunc[C]
}

type binding[C handler.Context] struct {
	pattern     *Pattern
	middlewares []handler.Middleware[C]
}

var supportedMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodHead:    true,
	http.MethodPost:    true,
	http.MethodPut:     true,
	http.MethodPatch:   true,
	http.MethodDelete:  true,
	http.MethodOptions: true,
}

// New creates a router. Without WithContextFactory only *Context is supported.
func New[C handler.Context](opts ...Option[C]) *Router[C] {
	rt := &Router[C]{
		routes:       make(map[string][]route[C]),
		errorHandler: defaultErrorHandler[C],
		notFound:     defaultNotFound[C],
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		maxFormSize:  DefaultMaxFormSize,
	}

	for _, opt := range opts {
		opt(rt)
	}

	if rt.newContext == nil {
		rt.newContext = func(w http.ResponseWriter, r *http.Request, params map[string]string) C {
			var zero C
			if _, ok := any(zero).(*Context); ok {
				return any(NewContext(w, r, params)).(C)
			}
			panic(ErrNoContextFactory)
		}
	}

	return rt
}

// AddRoute registers h for method and pattern.
// Outside production mode a nil handler or an unknown method panics.
func (rt *Router[C]) AddRoute(method, pattern string, h handler.HandlerFunc[C]) {
	method = strings.ToUpper(method)
	if !rt.production {
		if !supportedMethods[method] {
			panic(fmt.Errorf("%w: %s %s", ErrInvalidMethod, method, pattern))
		}
		if h == nil {
			panic(fmt.Errorf("%w: %s %s", ErrInvalidHandler, method, pattern))
		}
	}

	p, err := Compile(pattern)
	if err != nil {
		panic(err)
	}

	rt.routes[method] = append(rt.routes[method], route[C]{pattern: p, handler: h})
}

// Get registers a handler for GET requests.
func (rt *Router[C]) Get(pattern string, h handler.HandlerFunc[C]) {
	rt.AddRoute(http.MethodGet, pattern, h)
}

// Post registers a handler for POST requests.
func (rt *Router[C]) Post(pattern string, h handler.HandlerFunc[C]) {
	rt.AddRoute(http.MethodPost, pattern, h)
}

// Put registers a handler for PUT requests.
func (rt *Router[C]) Put(pattern string, h handler.HandlerFunc[C]) {
	rt.AddRoute(http.MethodPut, pattern, h)
}

// Delete registers a handler for DELETE requests.
func (rt *Router[C]) Delete(pattern string, h handler.HandlerFunc[C]) {
	rt.AddRoute(http.MethodDelete, pattern, h)
}

// AddMiddleware binds middlewares to every request whose path matches pattern.
// Outside production mode a nil middleware panics.
func (rt *Router[C]) AddMiddleware(pattern string, middlewares ...handler.Middleware[C]) {
	if !rt.production {
		for i, mw := range middlewares {
			if mw == nil {
				panic(fmt.Errorf("%w: %s at position %d", ErrInvalidMiddleware, pattern, i))
			}
		}
	}

	p, err := Compile(pattern)
	if err != nil {
		panic(err)
	}

	rt.bindings = append(rt.bindings, binding[C]{pattern: p, middlewares: middlewares})
}

// Routes returns the registered routes grouped by method in insertion order.
func (rt *Router[C]) Routes() []Route {
	var out []Route
	for _, method := range []string{
		http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
		http.MethodPatch, http.MethodDelete, http.MethodOptions,
	} {
		for _, rr := range rt.routes[method] {
			out = append(out, Route{Method: method, Pattern: rr.pattern.String()})
		}
	}
	return out
}

// ServeHTTP implements http.Handler.
func (rt *Router[C]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ww := newResponseWriter(w)
	r, overrideErr := overrideMethod(w, r, rt.maxFormSize)

	path := r.URL.Path
	if path == "" {
		path = "/"
	}

	h, params := rt.match(r.Method, path)
	ctx := rt.newContext(ww, r, params)

	defer func() {
		if p := recover(); p != nil {
			panicErr := &panicError{value: p, stack: debug.Stack()}
			if ww.Written() {
				rt.logger.Error("panic after response written",
					"value", panicErr.value,
					"stack", string(panicErr.stack),
					"path", path,
					"method", r.Method,
					"status", ww.Status(),
				)
				return
			}
			rt.errorHandler(ctx, panicErr)
		}
	}()

	if overrideErr != nil {
		rt.errorHandler(ctx, overrideErr)
		return
	}

	resp := rt.compose(path, h)(ctx)
	if resp == nil {
		rt.errorHandler(ctx, ErrNilResponse)
		return
	}

	if err := resp(ww, ctx.Request()); err != nil {
		rt.errorHandler(ctx, err)
	}
}

// match returns the first route of method matching path, or the not-found handler.
func (rt *Router[C]) match(method, path string) (handler.HandlerFunc[C], map[string]string) {
	for _, rr := range rt.routes[method] {
		params, ok := rr.pattern.Match(path)
		if !ok {
			continue
		}
		if rr.handler == nil {
			return invalidHandler[C], params
		}
		return rr.handler, params
	}
	return rt.notFound, nil
}

// compose wraps h with every binding matching path, then with the global middlewares.
func (rt *Router[C]) compose(path string, h handler.HandlerFunc[C]) handler.HandlerFunc[C] {
	next := h
	for _, b := range rt.bindings {
		if !b.pattern.MatchString(path) {
			continue
		}
		for _, mw := range b.middlewares {
			if mw == nil {
				rt.logger.Warn("skipping nil middleware", "pattern", b.pattern.String())
				continue
			}
			next = mw(next)
		}
	}

	// Global middlewares run first, in the order they were given.
	for i := len(rt.middlewares) - 1; i >= 0; i-- {
		next = rt.middlewares[i](next)
	}

	return next
}

func invalidHandler[C handler.Context](C) handler.Response {
	return func(http.ResponseWriter, *http.Request) error {
		return ErrInvalidHandler
	}
}

func defaultNotFound[C handler.Context](C) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		_, err := w.Write([]byte("404 Not Found"))
		return err
	}
}
