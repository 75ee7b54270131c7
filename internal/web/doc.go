// Package web is the HTML front end of the issue tracker: the request
// context, the application middlewares, the handlers and their templates.
//
// A request passes the global middlewares (request id, client ip, logging,
// metrics, security headers, body limit) and then these bindings, outermost
// first:
//
//	session -> flash -> error page -> remember me -> validation errors -> csrf -> auth gate -> handler
//
// Handlers validate eagerly and return a *validator.ValidationError as the
// response error. The validation middleware flashes it together with the
// submitted input and redirects back to the form.
package web
