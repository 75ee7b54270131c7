// Package config assembles the application configuration from the
// environment.
package config

import (
	"errors"
	"fmt"

	"github.com/dmitrymomot/issuetracker/core/config"
	"github.com/dmitrymomot/issuetracker/core/cookie"
	"github.com/dmitrymomot/issuetracker/core/server"
	"github.com/dmitrymomot/issuetracker/core/session"
	"github.com/dmitrymomot/issuetracker/core/sessiontransport"
	"github.com/dmitrymomot/issuetracker/integration/database/pg"
	"github.com/dmitrymomot/issuetracker/integration/database/redis"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	SessionStorePostgres = "postgres"
	SessionStoreRedis    = "redis"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the whole application configuration.
type Config struct {
	Env     string `env:"APP_ENV" envDefault:"development"`
	AppName string `env:"APP_NAME" envDefault:"ims"`

	// SessionStore selects where sessions live.
	SessionStore string `env:"SESSION_STORE" envDefault:"postgres"`

	// MetricsNamespace prefixes the Prometheus metric names.
	MetricsNamespace string `env:"METRICS_NAMESPACE" envDefault:"ims"`

	Postgres      pg.Config
	Redis         redis.Config
	Cookie        cookie.Config
	Server        server.Config
	Session       session.Config
	SessionCookie sessiontransport.CookieConfig
}

// Production reports whether APP_ENV is production.
func (c Config) Production() bool {
	return c.Env == EnvProduction
}

// UseRedis reports whether sessions are kept in Redis.
func (c Config) UseRedis() bool {
	return c.SessionStore == SessionStoreRedis
}

// Validate checks the values env tags cannot express.
func (c Config) Validate() error {
	switch c.Env {
	case EnvDevelopment, EnvProduction:
	default:
		return fmt.Errorf("%w: APP_ENV must be %q or %q, got %q", ErrInvalidConfig, EnvDevelopment, EnvProduction, c.Env)
	}
	switch c.SessionStore {
	case SessionStorePostgres, SessionStoreRedis:
	default:
		return fmt.Errorf("%w: SESSION_STORE must be %q or %q, got %q", ErrInvalidConfig, SessionStorePostgres, SessionStoreRedis, c.SessionStore)
	}
	return nil
}

// Load reads and validates the configuration.
func Load() (Config, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
