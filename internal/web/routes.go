package web

import (
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/issuetracker/core/handler"
	"github.com/dmitrymomot/issuetracker/core/health"
	"github.com/dmitrymomot/issuetracker/core/router"
	"github.com/dmitrymomot/issuetracker/middleware"
)

const signInPath = "/auth/signin"

// opsPath reports whether path is a probe or metrics endpoint. Those are
// served without a session.
func opsPath(path string) bool {
	switch strings.TrimSuffix(path, "/") {
	case "/live", "/ready", "/metrics":
		return true
	}
	return false
}

func skipOps(ctx handler.Context) bool {
	return opsPath(ctx.Request().URL.Path)
}

func (a *App) metrics(*Context) handler.Response {
	h := promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{})
	return func(w http.ResponseWriter, r *http.Request) error {
		h.ServeHTTP(w, r)
		return nil
	}
}

// Router builds the application router. The router runs middleware bindings
// in reverse registration order, so the bindings are registered innermost
// first: route gates, then CSRF, validation errors, remember me, the error
// page, flash and finally the session. Call it once per App: the metrics
// collectors register on the App registry.
func (a *App) Router() *router.Router[*Context] {
	headers := middleware.DefaultSecurityHeaders
	headers.IsDevelopment = !a.production

	r := router.New[*Context](
		router.WithContextFactory[*Context](newContext),
		router.WithErrorHandler[*Context](a.handleError),
		router.WithNotFoundHandler[*Context](notFound),
		router.WithLogger[*Context](a.logger),
		router.WithProduction[*Context](a.production),
		router.WithMaxFormSize[*Context](middleware.MB),
		router.WithMiddleware[*Context](
			middleware.RequestID[*Context](),
			middleware.ClientIP[*Context](),
			middleware.LoggingWithConfig[*Context](middleware.LoggingConfig{Logger: a.logger, Skip: skipOps}),
			middleware.MetricsWithConfig[*Context](middleware.MetricsConfig{
				Namespace:  a.namespace,
				Registerer: a.registry,
				Skip:       skipOps,
			}),
			middleware.SecurityHeadersWithConfig[*Context](headers),
			middleware.BodyLimit[*Context](middleware.MB),
		),
	)

	r.Get("/live", health.Liveness[*Context])
	r.Get("/ready", health.Readiness[*Context](a.logger, a.readiness...))
	r.Get("/metrics", a.metrics)

	r.Get("/", a.home)

	r.Get("/auth/signin", a.signInForm)
	r.Post("/auth/signin", a.signIn)
	r.Get("/auth/signup", a.signUpForm)
	r.Post("/auth/signup", a.signUp)
	r.Post("/auth/signout", a.signOut)
	r.Get("/auth/change-password", a.changePasswordForm)
	r.Put("/auth/change-password", a.changePassword)

	r.Get("/issues", a.issues)
	r.Get("/partial/issues", a.issuesPartial)
	r.Get("/issues/create", a.createIssueForm)
	r.Post("/issues/create", a.createIssue)
	r.Get("/issues/view/:issueId", a.viewIssue)
	r.Get("/issues/edit/:issueId", a.editIssueForm)
	r.Put("/issues/edit/:issueId", a.editIssue)
	r.Delete("/issues/delete/:issueId", a.deleteIssue)
	r.Get("/issues/delete-logs/download", a.downloadDeletionLogs)
	r.Get("/issues/export-to-csv", a.exportCSV)
	r.Get("/issues/export-to-xlsx", a.exportXLSX)

	requireAuth := middleware.RequireAuth[*Context, SessionData](signInPath)
	requireGuest := middleware.RequireGuest[*Context, SessionData]("/")

	r.AddMiddleware("/partial/issues", requireAuth)
	r.AddMiddleware("/issues*", requireAuth)
	r.AddMiddleware("/auth/change-password", requireAuth)
	r.AddMiddleware("/auth/signup", requireGuest)
	r.AddMiddleware("/auth/signin", requireGuest)

	r.AddMiddleware("*", csrf())
	r.AddMiddleware("*", validationErrors)
	r.AddMiddleware("*", a.persistentLogin)
	r.AddMiddleware("*", a.errorPage)
	r.AddMiddleware("*", popFlash)
	r.AddMiddleware("*", middleware.SessionWithConfig[*Context, SessionData](middleware.SessionConfig[*Context, SessionData]{
		Transport: a.sessions,
		Logger:    a.logger,
		Skip:      func(ctx *Context) bool { return skipOps(ctx) },
	}))

	return r
}

// Handler returns the application as an http.Handler.
func (a *App) Handler() http.Handler {
	return a.Router()
}
