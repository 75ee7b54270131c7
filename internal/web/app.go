package web

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/dmitrymomot/issuetracker/core/cookie"
	"github.com/dmitrymomot/issuetracker/core/logger"
	"github.com/dmitrymomot/issuetracker/internal/auth"
	"github.com/dmitrymomot/issuetracker/internal/issue"
	"github.com/dmitrymomot/issuetracker/internal/user"
	"github.com/dmitrymomot/issuetracker/middleware"
)

// UserService lists users for the assignee picker and checks emails on sign up.
type UserService interface {
	auth.EmailChecker
	All(ctx context.Context) ([]user.User, error)
}

type AuthService interface {
	SignUp(ctx context.Context, in auth.SignUpInput) (user.User, error)
	SignIn(ctx context.Context, in auth.SignInInput) (user.User, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, in auth.ChangePasswordInput, currentSelector string) error
	Remember(ctx context.Context, userID uuid.UUID) (auth.RememberToken, error)
	Restore(ctx context.Context, tok auth.RememberToken) (user.User, error)
	Forget(ctx context.Context, selector string) error
}

type IssueService interface {
	ValidateCreate(ctx context.Context, actor issue.Actor, form map[string][]string) (issue.CreateInput, error)
	ValidateEdit(ctx context.Context, actor issue.Actor, iss issue.Issue, form map[string][]string) (issue.UpdateInput, error)
	Create(ctx context.Context, actor issue.Actor, in issue.CreateInput) (int64, error)
	Update(ctx context.Context, id int64, in issue.UpdateInput) error
	Get(ctx context.Context, id int64) (issue.Issue, error)
	Count(ctx context.Context, actor issue.Actor, o issue.ListOptions) (int, error)
	List(ctx context.Context, actor issue.Actor, o issue.ListOptions) ([]issue.Issue, error)
	Stats(ctx context.Context, actor issue.Actor) (issue.Stats, error)
	Delete(ctx context.Context, id int64, actor issue.Actor) error
	DeletionLogs(ctx context.Context) ([]issue.DeletionLog, error)
}

// Services are the domain services the handlers call.
type Services struct {
	Users  UserService
	Auth   AuthService
	Issues IssueService
}

// App holds everything the HTTP layer needs to serve requests.
type App struct {
	services  Services
	sessions  middleware.SessionTransport[SessionData]
	cookies   *cookie.Manager
	views     *views
	logger    *slog.Logger
	registry  *prometheus.Registry
	readiness []func(context.Context) error

	appName    string
	namespace  string
	production bool
}

type Option func(*App) error

// New builds the HTTP application. Sessions and cookies are required.
func New(services Services, sessions middleware.SessionTransport[SessionData], cookies *cookie.Manager, opts ...Option) (*App, error) {
	if services.Users == nil || services.Auth == nil || services.Issues == nil {
		return nil, errors.New("web: all services are required")
	}
	if sessions == nil {
		return nil, errors.New("web: session transport is required")
	}
	if cookies == nil {
		return nil, errors.New("web: cookie manager is required")
	}

	views, err := loadViews()
	if err != nil {
		return nil, err
	}

	app := &App{
		services:  services,
		sessions:  sessions,
		cookies:   cookies,
		views:     views,
		logger:    logger.Discard(),
		appName:   "ims",
		namespace: "ims",
	}

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	if app.registry == nil {
		app.registry = prometheus.NewRegistry()
		app.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	return app, nil
}

func WithLogger(log *slog.Logger) Option {
	return func(app *App) error {
		if log == nil {
			return errors.New("logger cannot be nil")
		}
		app.logger = log
		return nil
	}
}

// WithProduction hides internal error details from rendered pages.
func WithProduction(production bool) Option {
	return func(app *App) error {
		app.production = production
		return nil
	}
}

// WithAppName sets the name shown in page titles.
func WithAppName(name string) Option {
	return func(app *App) error {
		if name != "" {
			app.appName = name
		}
		return nil
	}
}

// WithMetrics sets the metrics namespace and the registry served on /metrics.
func WithMetrics(namespace string, registry *prometheus.Registry) Option {
	return func(app *App) error {
		if namespace != "" {
			app.namespace = namespace
		}
		app.registry = registry
		return nil
	}
}

// WithReadinessChecks adds dependency checks to /ready.
func WithReadinessChecks(checks ...func(context.Context) error) Option {
	return func(app *App) error {
		app.readiness = append(app.readiness, checks...)
		return nil
	}
}
