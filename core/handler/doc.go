// Package handler defines the request processing contract shared by the
// router, middlewares and application handlers.
//
// A handler receives a typed Context and returns a Response. A middleware
// wraps a handler and decides whether to call the next step:
//
//	func requireAdmin(next handler.HandlerFunc[*web.Context]) handler.HandlerFunc[*web.Context] {
//		return func(ctx *web.Context) handler.Response {
//			if !ctx.IsAdmin() {
//				return response.Redirect("/")
//			}
//			return next(ctx)
//		}
//	}
package handler
