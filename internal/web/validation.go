package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrymomot/issuetracker/core/handler"
	"github.com/dmitrymomot/issuetracker/core/response"
	"github.com/dmitrymomot/issuetracker/core/router"
	"github.com/dmitrymomot/issuetracker/core/validator"
	"github.com/dmitrymomot/issuetracker/middleware"
)

// keepOld reports whether a submitted field is echoed back into the form
// after a failed validation. Secrets and control fields are not.
func keepOld(field string) bool {
	if field == middleware.CSRFFieldName || field == router.MethodOverrideField {
		return false
	}
	return !strings.Contains(strings.ToLower(field), "password")
}

// validationErrors turns a validation failure into flashed field errors
// and old input, and sends the browser back to the form it came from.
func validationErrors(next handler.HandlerFunc[*Context]) handler.HandlerFunc[*Context] {
	return func(ctx *Context) handler.Response {
		resp := next(ctx)
		if resp == nil {
			return nil
		}

		return func(w http.ResponseWriter, r *http.Request) error {
			tw := &trackingWriter{ResponseWriter: w}
			err := resp(tw, r)

			var verr *validator.ValidationError
			if err == nil || tw.wrote || !errors.As(err, &verr) {
				return err
			}

			old := make(map[string]string)
			for k, v := range r.PostForm {
				if len(v) > 0 && keepOld(k) {
					old[k] = v[0]
				}
			}
			ctx.UpdateSession(func(d *SessionData) {
				d.Flash.Errors = verr.Fields
				d.Flash.Old = old
			})
			return response.RedirectBack("/")(w, r)
		}
	}
}
