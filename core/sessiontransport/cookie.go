package sessiontransport

import (
	"errors"

	"github.com/dmitrymomot/issuetracker/core/cookie"
	"github.com/dmitrymomot/issuetracker/core/handler"
	"github.com/dmitrymomot/issuetracker/core/session"
	"github.com/dmitrymomot/issuetracker/pkg/clientip"
)

// Cookie carries the session token in a signed cookie.
type Cookie[Data any] struct {
	manager   *session.Manager[Data]
	cookieMgr *cookie.Manager
	name      string
}

// NewCookie creates a cookie transport writing the token to the cookie called name.
func NewCookie[Data any](mgr *session.Manager[Data], cookieMgr *cookie.Manager, name string) *Cookie[Data] {
	return &Cookie[Data]{manager: mgr, cookieMgr: cookieMgr, name: name}
}

// Load returns the session named by the request cookie. A missing, invalid
// or expired cookie yields a new anonymous session, so Load only fails when
// a session cannot be created at all.
func (c *Cookie[Data]) Load(ctx handler.Context) (session.Session[Data], error) {
	r := ctx.Request()

	token, err := c.cookieMgr.GetSigned(r, c.name)
	if err == nil {
		sess, err := c.manager.GetByToken(ctx, token)
		if err == nil {
			return sess, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return session.Session[Data]{}, ctxErr
		}
	}

	return c.manager.New(ctx, session.NewSessionParams{
		IP:        clientip.GetIP(r),
		UserAgent: r.UserAgent(),
	})
}

// Store persists sess and keeps the cookie in sync with it. A logged out
// session removes the cookie.
func (c *Cookie[Data]) Store(ctx handler.Context, sess session.Session[Data]) error {
	saved, err := c.manager.Store(ctx, sess)
	if errors.Is(err, session.ErrNotAuthenticated) {
		c.cookieMgr.Delete(ctx.ResponseWriter(), c.name)
		return nil
	}
	if err != nil {
		return err
	}
	if !saved {
		return nil
	}

	return c.cookieMgr.SetSigned(ctx.ResponseWriter(), c.name, sess.Token,
		cookie.WithMaxAge(int(c.manager.TTL().Seconds())),
	)
}

// Delete removes the current session from the store and the client.
func (c *Cookie[Data]) Delete(ctx handler.Context, sess session.Session[Data]) error {
	if err := c.manager.Delete(ctx, sess.ID); err != nil {
		return err
	}
	c.cookieMgr.Delete(ctx.ResponseWriter(), c.name)
	return nil
}
