package web

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/issuetracker/core/handler"
	"github.com/dmitrymomot/issuetracker/core/logger"
	"github.com/dmitrymomot/issuetracker/core/response"
	"github.com/dmitrymomot/issuetracker/core/router"
)

var errNoSession = errors.New("web: no session in request")

// errorView is the data of the error page.
type errorView struct {
	Status  int
	Heading string
	Message string
}

func errorText(status int) (string, string) {
	switch status {
	case http.StatusNotFound:
		return "Page Not Found", "The page you are looking for does not exist."
	case http.StatusForbidden:
		return "Forbidden", "You do not have permission to access this page."
	case response.ErrCSRFTokenMismatch.Status:
		return "Page Expired", "The form has expired. Go back, reload the page and try again."
	case http.StatusRequestEntityTooLarge:
		return "Request Too Large", "The submitted form is too large."
	case http.StatusBadRequest:
		return "Bad Request", "The request could not be understood."
	case http.StatusServiceUnavailable:
		return "Service Unavailable", "The service is temporarily unavailable. Please try again later."
	}
	return "Internal Server Error", "Something went wrong on our end. Please try again later."
}

// renderError writes the error page for err.
func (a *App) renderError(ctx *Context, w http.ResponseWriter, r *http.Request, err error) error {
	httpErr := response.ToHTTPError(err)
	status := httpErr.Status
	heading, message := errorText(status)

	if status >= http.StatusInternalServerError {
		attrs := []any{logger.Error(err), logger.Method(r.Method), logger.Path(r.URL.Path)}
		var perr router.PanicError
		if errors.As(err, &perr) {
			attrs = append(attrs, "stack", string(perr.Stack()))
		}
		a.logger.ErrorContext(r.Context(), "request failed", attrs...)
		if !a.production {
			message = err.Error()
		}
	}

	page := a.page(ctx, heading, errorView{Status: status, Heading: heading, Message: message})
	return response.TemplWithStatus(a.views.page("error", page), status)(w, r)
}

// errorPage renders unhandled errors as an HTML page. Responses that
// already started are left alone.
func (a *App) errorPage(next handler.HandlerFunc[*Context]) handler.HandlerFunc[*Context] {
	return func(ctx *Context) handler.Response {
		resp := next(ctx)
		if resp == nil {
			return nil
		}

		return func(w http.ResponseWriter, r *http.Request) error {
			tw := &trackingWriter{ResponseWriter: w}
			err := resp(tw, r)
			if err == nil || tw.wrote {
				return err
			}
			return a.renderError(ctx, w, r, err)
		}
	}
}

// handleError is the router error handler. It catches what escapes the
// middleware chain, panics included.
func (a *App) handleError(ctx *Context, err error) {
	w := ctx.ResponseWriter()
	if ww, ok := w.(interface{ Written() bool }); ok && ww.Written() {
		a.logger.ErrorContext(ctx, "error after response started", logger.Error(err))
		return
	}
	if rerr := a.renderError(ctx, w, ctx.Request(), err); rerr != nil {
		a.logger.ErrorContext(ctx, "render error page", logger.Error(rerr))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func notFound(*Context) handler.Response {
	return response.Error(response.ErrNotFound)
}
