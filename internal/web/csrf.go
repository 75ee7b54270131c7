package web

import (
	"github.com/dmitrymomot/issuetracker/core/handler"
	"github.com/dmitrymomot/issuetracker/core/response"
	"github.com/dmitrymomot/issuetracker/middleware"
	"github.com/dmitrymomot/issuetracker/pkg/token"
)

// csrf gives every session a token and rejects unsafe requests that do
// not echo it back.
func csrf() handler.Middleware[*Context] {
	check := middleware.CSRFWithConfig(middleware.CSRFConfig[*Context]{
		Token: func(ctx *Context) string { return ctx.Session().Data.CSRF },
	})

	return func(next handler.HandlerFunc[*Context]) handler.HandlerFunc[*Context] {
		guarded := check(next)
		return func(ctx *Context) handler.Response {
			if ctx.Session().Data.CSRF == "" {
				tok, err := token.Hex(32)
				if err != nil {
					return response.Error(err)
				}
				ctx.UpdateSession(func(d *SessionData) { d.CSRF = tok })
			}
			return guarded(ctx)
		}
	}
}
