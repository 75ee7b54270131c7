package sessiontransport

import (
	"github.com/dmitrymomot/issuetracker/core/cookie"
	"github.com/dmitrymomot/issuetracker/core/session"
)

// CookieConfig is the environment configuration of the cookie transport.
type CookieConfig struct {
	CookieName string `env:"SESSION_COOKIE_NAME" envDefault:"__session"`
}

// NewCookieFromConfig creates a cookie transport from cfg.
func NewCookieFromConfig[Data any](cfg CookieConfig, mgr *session.Manager[Data], cookieMgr *cookie.Manager) *Cookie[Data] {
	name := cfg.CookieName
	if name == "" {
		name = "__session"
	}
	return NewCookie(mgr, cookieMgr, name)
}
