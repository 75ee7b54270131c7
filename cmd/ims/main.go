// Command ims serves the issue tracker.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/issuetracker/core/container"
	"github.com/dmitrymomot/issuetracker/core/cookie"
	"github.com/dmitrymomot/issuetracker/core/handler"
	"github.com/dmitrymomot/issuetracker/core/logger"
	"github.com/dmitrymomot/issuetracker/core/server"
	"github.com/dmitrymomot/issuetracker/core/session"
	"github.com/dmitrymomot/issuetracker/core/sessiontransport"
	"github.com/dmitrymomot/issuetracker/integration/database/pg"
	"github.com/dmitrymomot/issuetracker/integration/database/redis"
	"github.com/dmitrymomot/issuetracker/internal/auth"
	"github.com/dmitrymomot/issuetracker/internal/config"
	"github.com/dmitrymomot/issuetracker/internal/db/migrations"
	"github.com/dmitrymomot/issuetracker/internal/issue"
	"github.com/dmitrymomot/issuetracker/internal/sessionstore"
	"github.com/dmitrymomot/issuetracker/internal/user"
	"github.com/dmitrymomot/issuetracker/internal/web"
	"github.com/dmitrymomot/issuetracker/middleware"
)

// tokenCleanupInterval is how often expired remember me tokens are purged.
const tokenCleanupInterval = time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", logger.Error(err))
		os.Exit(1)
	}

	log := newLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("ims stopped with error", logger.Error(err))
		os.Exit(1)
	}
}

func newLogger(cfg config.Config) *slog.Logger {
	mode := logger.WithDevelopment(cfg.AppName)
	if cfg.Production() {
		mode = logger.WithProduction(cfg.AppName)
	}
	return logger.New(mode, logger.WithContextExtractors(requestIDAttr))
}

func requestIDAttr(ctx context.Context) (slog.Attr, bool) {
	hctx, ok := ctx.(handler.Context)
	if !ok {
		return slog.Attr{}, false
	}
	id, ok := middleware.GetRequestID(hctx)
	if !ok {
		return slog.Attr{}, false
	}
	return logger.RequestID(id), true
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	pool, err := pg.Connect(ctx, cfg.Postgres)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, migrations.FS, cfg.Postgres, log); err != nil {
		return err
	}

	readiness := []func(context.Context) error{pg.Healthcheck(pool)}

	var rdb *goredis.Client
	if cfg.UseRedis() {
		rdb, err = redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer rdb.Close()
		readiness = append(readiness, redis.Healthcheck(rdb))
	}

	c := bindServices(pool)
	authSvc := container.MustGet[*auth.Service](c, "auth")

	var store session.Store[web.SessionData]
	if rdb != nil {
		store = sessionstore.NewRedis[web.SessionData](rdb, cfg.AppName+":session:")
	} else {
		store = sessionstore.NewPostgres[web.SessionData](container.MustGet[*pg.DB](c, "db"))
	}

	cookies, err := cookie.NewFromConfig(cfg.Cookie)
	if err != nil {
		return err
	}
	sessions := session.NewManager(store, cfg.Session)
	transport := sessiontransport.NewCookieFromConfig(cfg.SessionCookie, sessions, cookies)

	app, err := web.New(web.Services{
		Users:  container.MustGet[*user.Service](c, "users"),
		Auth:   authSvc,
		Issues: container.MustGet[*issue.Service](c, "issues"),
	}, transport, cookies,
		web.WithLogger(log),
		web.WithProduction(cfg.Production()),
		web.WithAppName(cfg.AppName),
		web.WithMetrics(cfg.MetricsNamespace, nil),
		web.WithReadinessChecks(readiness...),
	)
	if err != nil {
		return err
	}

	srv, err := server.NewFromConfig(cfg.Server, server.WithLogger(log))
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(srv.Run(ctx, app.Handler()))
	g.Go(func() error {
		return sessions.Run(ctx, cfg.Session.CleanupInterval, func(err error) {
			log.ErrorContext(ctx, "clean up expired sessions", logger.Error(err))
		})
	})
	g.Go(func() error {
		return purgeRememberTokens(ctx, authSvc, log)
	})
	return g.Wait()
}

// bindServices registers the database handle and the domain services.
func bindServices(pool *pgxpool.Pool) *container.Container {
	c := container.New()
	c.Bind("db", func() (any, error) {
		return pg.New(pool), nil
	})
	c.Bind("users", func() (any, error) {
		db, err := container.Get[*pg.DB](c, "db")
		if err != nil {
			return nil, err
		}
		return user.NewService(db), nil
	})
	c.Bind("auth", func() (any, error) {
		db, err := container.Get[*pg.DB](c, "db")
		if err != nil {
			return nil, err
		}
		users, err := container.Get[*user.Service](c, "users")
		if err != nil {
			return nil, err
		}
		return auth.NewService(db, users), nil
	})
	c.Bind("issues", func() (any, error) {
		db, err := container.Get[*pg.DB](c, "db")
		if err != nil {
			return nil, err
		}
		users, err := container.Get[*user.Service](c, "users")
		if err != nil {
			return nil, err
		}
		return issue.NewService(db, users), nil
	})
	return c
}

func purgeRememberTokens(ctx context.Context, svc *auth.Service, log *slog.Logger) error {
	ticker := time.NewTicker(tokenCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			n, err := svc.DeleteExpiredTokens(ctx)
			if err != nil {
				log.ErrorContext(ctx, "purge remember me tokens", logger.Error(err))
				continue
			}
			if n > 0 {
				log.InfoContext(ctx, "purged remember me tokens", logger.Count("tokens", int(n)))
			}
		}
	}
}
