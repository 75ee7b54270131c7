package web

import (
	"errors"

	"github.com/dmitrymomot/issuetracker/core/cookie"
	"github.com/dmitrymomot/issuetracker/core/handler"
	"github.com/dmitrymomot/issuetracker/core/logger"
	"github.com/dmitrymomot/issuetracker/core/response"
	"github.com/dmitrymomot/issuetracker/internal/auth"
)

// RememberCookie holds the remember me token.
const RememberCookie = "__remember_me"

func (a *App) setRememberCookie(ctx *Context, tok auth.RememberToken) error {
	return a.cookies.SetSigned(ctx.ResponseWriter(), RememberCookie, tok.String(),
		cookie.WithMaxAge(int(auth.RememberTTL.Seconds())),
	)
}

// rememberToken returns the token in the remember me cookie, if any.
func (a *App) rememberToken(ctx *Context) (auth.RememberToken, bool) {
	value, err := a.cookies.GetSigned(ctx.Request(), RememberCookie)
	if err != nil {
		return auth.RememberToken{}, false
	}
	return auth.ParseRememberToken(value)
}

// remember issues a remember me token for the signed in user.
func (a *App) remember(ctx *Context) error {
	u := ctx.User()
	if u == nil {
		return errNoSession
	}
	tok, err := a.services.Auth.Remember(ctx, u.ID)
	if err != nil {
		return err
	}
	return a.setRememberCookie(ctx, tok)
}

// persistentLogin signs a guest back in from a valid remember me cookie.
// A cookie that no longer restores a user is dropped.
func (a *App) persistentLogin(next handler.HandlerFunc[*Context]) handler.HandlerFunc[*Context] {
	return func(ctx *Context) handler.Response {
		if ctx.User() != nil {
			return next(ctx)
		}
		if _, err := ctx.Request().Cookie(RememberCookie); err != nil {
			return next(ctx)
		}

		tok, ok := a.rememberToken(ctx)
		if !ok {
			a.cookies.Delete(ctx.ResponseWriter(), RememberCookie)
			return next(ctx)
		}

		u, err := a.services.Auth.Restore(ctx, tok)
		switch {
		case errors.Is(err, auth.ErrInvalidRememberToken):
			a.cookies.Delete(ctx.ResponseWriter(), RememberCookie)
			return next(ctx)
		case err != nil:
			return response.Error(err)
		}

		if err := ctx.SignIn(u); err != nil {
			return response.Error(err)
		}
		a.logger.InfoContext(ctx, "session restored from remember me cookie", logger.UserID(u.ID.String()))
		return next(ctx)
	}
}
