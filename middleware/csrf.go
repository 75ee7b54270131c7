package middleware

import (
	"net/http"

	"github.com/dmitrymomot/issuetracker/core/handler"
	"github.com/dmitrymomot/issuetracker/core/response"
	"github.com/dmitrymomot/issuetracker/pkg/token"
)

// CSRFFieldName is the form field carrying the token.
const CSRFFieldName = "CSRF"

// CSRFConfig configures the CSRF middleware.
type CSRFConfig[C handler.Context] struct {
	Skip func(ctx C) bool
	// Token returns the token expected for this request, typically read
	// from the session. Required.
	Token func(ctx C) string
	// FieldName defaults to CSRFFieldName.
	FieldName string
	// HeaderName is checked when the form field is empty. Default: X-CSRF-Token.
	HeaderName string
	// ErrorHandler answers rejected requests. Default: 419 Page Expired.
	ErrorHandler func(ctx C) handler.Response
}

// CSRF rejects state-changing requests whose submitted token does not match
// the expected one. GET, HEAD, OPTIONS and TRACE pass unchecked.
func CSRF[C handler.Context](tokenFn func(ctx C) string) handler.Middleware[C] {
	return CSRFWithConfig(CSRFConfig[C]{Token: tokenFn})
}

func CSRFWithConfig[C handler.Context](cfg CSRFConfig[C]) handler.Middleware[C] {
	if cfg.Token == nil {
		panic("csrf middleware: token function is required")
	}
	if cfg.FieldName == "" {
		cfg.FieldName = CSRFFieldName
	}
	if cfg.HeaderName == "" {
		cfg.HeaderName = "X-CSRF-Token"
	}
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(C) handler.Response {
			return response.Error(response.ErrCSRFTokenMismatch)
		}
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			r := ctx.Request()
			if isSafeMethod(r.Method) {
				return next(ctx)
			}

			submitted := r.PostFormValue(cfg.FieldName)
			if submitted == "" {
				submitted = r.Header.Get(cfg.HeaderName)
			}
			expected := cfg.Token(ctx)
			if expected == "" || submitted == "" || !token.Equal(submitted, expected) {
				return cfg.ErrorHandler(ctx)
			}
			return next(ctx)
		}
	}
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	}
	return false
}
