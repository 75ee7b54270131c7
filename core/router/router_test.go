package router_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/issuetracker/core/handler"
	"github.com/dmitrymomot/issuetracker/core/router"
)

func text(s string) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		_, err := w.Write([]byte(s))
		return err
	}
}

func TestRouterDispatch(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.Get("/issues/view/:issueId", func(ctx *router.Context) handler.Response {
		return text("view " + ctx.Param("issueId"))
	})
	r.Get("/issues/*", func(ctx *router.Context) handler.Response {
		return text("catch-all")
	})
	r.Post("/issues/create", func(ctx *router.Context) handler.Response {
		return text("create")
	})

	tests := []struct {
		name   string
		method string
		path   string
		status int
		body   string
	}{
		{"param", http.MethodGet, "/issues/view/42", http.StatusOK, "view 42"},
		{"trailing slash", http.MethodGet, "/issues/view/42/", http.StatusOK, "view 42"},
		{"first match wins", http.MethodGet, "/issues/view/abc", http.StatusOK, "view abc"},
		{"fallback route", http.MethodGet, "/issues/viewX/42", http.StatusOK, "catch-all"},
		{"per method table", http.MethodPost, "/issues/create", http.StatusOK, "create"},
		{"not found", http.MethodPost, "/issues/view/42", http.StatusNotFound, "404 Not Found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(tt.method, tt.path, nil)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.body, rec.Body.String())
		})
	}
}

func TestMiddlewareOrder(t *testing.T) {
	t.Parallel()

	var calls []string
	mw := func(name string) handler.Middleware[*router.Context] {
		return func(next handler.HandlerFunc[*router.Context]) handler.HandlerFunc[*router.Context] {
			return func(ctx *router.Context) handler.Response {
				calls = append(calls, name)
				return next(ctx)
			}
		}
	}

	r := router.New[*router.Context](router.WithMiddleware[*router.Context](mw("global1"), mw("global2")))
	r.AddMiddleware("*", mw("A"))
	r.AddMiddleware("/issues*", mw("B1"), mw("B2"))
	r.AddMiddleware("/auth*", mw("C"))
	r.Get("/issues", func(ctx *router.Context) handler.Response {
		calls = append(calls, "handler")
		return text("ok")
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/issues", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"global1", "global2", "B2", "B1", "A", "handler"}, calls)
}

func TestMiddlewareShortCircuit(t *testing.T) {
	t.Parallel()

	handlerCalled := false
	r := router.New[*router.Context]()
	r.AddMiddleware("/admin*", func(next handler.HandlerFunc[*router.Context]) handler.HandlerFunc[*router.Context] {
		return func(ctx *router.Context) handler.Response {
			return func(w http.ResponseWriter, r *http.Request) error {
				http.Redirect(w, r, "/", http.StatusFound)
				return nil
			}
		}
	})
	r.Get("/admin", func(ctx *router.Context) handler.Response {
		handlerCalled = true
		return text("secret")
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.False(t, handlerCalled)
}

func TestMiddlewareAppliesToNotFound(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.AddMiddleware("*", func(next handler.HandlerFunc[*router.Context]) handler.HandlerFunc[*router.Context] {
		return func(ctx *router.Context) handler.Response {
			ctx.ResponseWriter().Header().Set("X-Seen", "yes")
			return next(ctx)
		}
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "yes", rec.Header().Get("X-Seen"))
}

func TestMethodOverride(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.Put("/auth/change-password", func(ctx *router.Context) handler.Response {
		return text("put " + ctx.Request().Method)
	})
	r.Delete("/issues/delete/:issueId", func(ctx *router.Context) handler.Response {
		return text("delete " + ctx.Param("issueId"))
	})
	r.Post("/issues/create", func(ctx *router.Context) handler.Response {
		return text("post")
	})

	post := func(path string, form url.Values) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	rec := post("/auth/change-password", url.Values{"__ACTION": {"put"}})
	assert.Equal(t, "put PUT", rec.Body.String())

	rec = post("/issues/delete/7", url.Values{"__ACTION": {"DELETE"}})
	assert.Equal(t, "delete 7", rec.Body.String())

	rec = post("/issues/create", url.Values{"__ACTION": {"GET"}})
	assert.Equal(t, "post", rec.Body.String())
}

func TestMethodOverrideBodyLimit(t *testing.T) {
	t.Parallel()

	calls := 0
	r := router.New[*router.Context](router.WithMaxFormSize[*router.Context](64))
	r.Put("/issues/edit/:issueId", func(ctx *router.Context) handler.Response {
		calls++
		return text("put " + ctx.Param("issueId"))
	})
	r.Post("/issues/edit/:issueId", func(ctx *router.Context) handler.Response {
		calls++
		return text("post")
	})

	post := func(body string, chunked bool) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/issues/edit/3", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		if chunked {
			req.ContentLength = -1
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	small := url.Values{"__ACTION": {"PUT"}, "title": {"ok"}}.Encode()
	big := url.Values{"__ACTION": {"PUT"}, "title": {strings.Repeat("x", 200)}}.Encode()

	rec := post(small, true)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "put 3", rec.Body.String())

	rec = post(big, false)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	rec = post(big, true)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Contains(t, rec.Body.String(), router.ErrBodyTooLarge.Error())

	assert.Equal(t, 1, calls)
}

func TestErrorHandling(t *testing.T) {
	t.Parallel()

	errBoom := errors.New("boom")

	t.Run("response error", func(t *testing.T) {
		t.Parallel()
		var got error
		r := router.New[*router.Context](router.WithErrorHandler[*router.Context](func(ctx *router.Context, err error) {
			got = err
			ctx.ResponseWriter().WriteHeader(http.StatusTeapot)
		}))
		r.Get("/", func(ctx *router.Context) handler.Response {
			return func(http.ResponseWriter, *http.Request) error { return errBoom }
		})

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.ErrorIs(t, got, errBoom)
		assert.Equal(t, http.StatusTeapot, rec.Code)
	})

	t.Run("nil response", func(t *testing.T) {
		t.Parallel()
		r := router.New[*router.Context]()
		r.Get("/", func(ctx *router.Context) handler.Response { return nil })

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), router.ErrNilResponse.Error())
	})

	t.Run("panic", func(t *testing.T) {
		t.Parallel()
		var got error
		r := router.New[*router.Context](router.WithErrorHandler[*router.Context](func(ctx *router.Context, err error) {
			got = err
		}))
		r.Get("/", func(ctx *router.Context) handler.Response {
			panic(errBoom)
		})

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		var pe router.PanicError
		require.ErrorAs(t, got, &pe)
		assert.ErrorIs(t, got, errBoom)
		assert.NotEmpty(t, pe.Stack())
	})
}

func TestFailFastRegistration(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()

	assert.PanicsWithError(t, router.ErrInvalidHandler.Error()+": GET /x", func() {
		r.Get("/x", nil)
	})
	assert.Panics(t, func() {
		r.AddRoute("FETCH", "/x", func(ctx *router.Context) handler.Response { return text("") })
	})
	assert.Panics(t, func() {
		r.AddMiddleware("*", nil)
	})
}

func TestProductionNilHandler(t *testing.T) {
	t.Parallel()

	var got error
	r := router.New[*router.Context](
		router.WithProduction[*router.Context](true),
		router.WithErrorHandler[*router.Context](func(ctx *router.Context, err error) { got = err }),
	)

	assert.NotPanics(t, func() {
		r.Get("/x", nil)
		r.AddMiddleware("*", nil)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.ErrorIs(t, got, router.ErrInvalidHandler)
}

func TestRoutes(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	noop := func(ctx *router.Context) handler.Response { return text("") }
	r.Get("/issues", noop)
	r.Post("/issues/create", noop)
	r.Get("/issues/view/:issueId", noop)

	assert.Equal(t, []router.Route{
		{Method: http.MethodGet, Pattern: "/issues"},
		{Method: http.MethodGet, Pattern: "/issues/view/:issueId"},
		{Method: http.MethodPost, Pattern: "/issues/create"},
	}, r.Routes())
}
