package middleware

import (
	"net/url"

	"github.com/dmitrymomot/issuetracker/core/handler"
	"github.com/dmitrymomot/issuetracker/core/response"
)

// RequireAuth lets only authenticated sessions through. Other requests are
// redirected to signInPath with the original URL in the redirectTo query
// parameter.
func RequireAuth[C handler.Context, Data any](signInPath string) handler.Middleware[C] {
	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			sess, ok := GetSession[Data](ctx)
			if ok && sess.IsAuthenticated() {
				return next(ctx)
			}
			return response.Redirect(signInPath + "?redirectTo=" + url.QueryEscape(ctx.Request().URL.RequestURI()))
		}
	}
}

// RequireGuest redirects authenticated sessions to the local path in the
// redirectTo query parameter, or to home.
func RequireGuest[C handler.Context, Data any](home string) handler.Middleware[C] {
	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if sess, ok := GetSession[Data](ctx); ok && sess.IsAuthenticated() {
				target := ctx.Request().URL.Query().Get("redirectTo")
				return response.Redirect(response.SafeRedirectPath(target, home))
			}
			return next(ctx)
		}
	}
}
