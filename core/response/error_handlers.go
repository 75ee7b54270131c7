package response

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/issuetracker/core/handler"
)

type statusCode interface {
	StatusCode() int
}

// ToHTTPError converts any error to an HTTPError. Errors that report a status
// code map to the matching predefined error, everything else is a 500.
func ToHTTPError(err error) HTTPError {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	status := http.StatusInternalServerError
	var sc statusCode
	if errors.As(err, &sc) {
		status = sc.StatusCode()
	}

	base, ok := httpErrorsByStatus[status]
	if !ok {
		base = ErrInternalServerError
	}
	return base.WithError(err)
}

// ErrorHandler writes errors as plain text.
func ErrorHandler[C handler.Context](ctx C, err error) {
	httpErr := ToHTTPError(err)
	Render(ctx, StringWithStatus(httpErr.Message, httpErr.Status))
}
