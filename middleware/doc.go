// Package middleware contains reusable handler.Middleware implementations.
//
// Each middleware has a zero-config constructor and a WithConfig variant.
// All of them accept a Skip function to bypass processing per request.
//
// Request scoped values are stored with ctx.SetValue and read back through
// the Get helpers (GetRequestID, GetClientIP, GetSession).
//
// Several middlewares act in the response phase: they wrap the lazy
// handler.Response returned by next instead of writing directly, so that
// headers and cookies can be set before the body is written.
package middleware
