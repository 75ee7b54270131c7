// Package router provides a small generic HTTP router with ordered route
// tables and path-bound middleware.
//
// Routes are matched per HTTP method in the order they were added. Patterns
// support named segments (":issueId") and wildcards ("*"):
//
//	r := router.New[*router.Context]()
//	r.Get("/issues/view/:issueId", func(ctx *router.Context) handler.Response {
//		id := ctx.Param("issueId")
//		return response.Text("issue " + id)
//	})
//
// Middleware is bound to patterns with AddMiddleware. Bindings registered later
// run earlier, so the outermost concern is registered last:
//
//	r.AddMiddleware("/issues*", requireAuth)
//	r.AddMiddleware("*", loadSession)
//
// Here loadSession runs before requireAuth for every /issues request.
//
// HTML forms can only send GET and POST. A POST carrying an "__ACTION" form
// field with PUT, PATCH or DELETE is dispatched as that method.
package router
