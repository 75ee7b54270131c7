package response

import (
	"net/http"

	"github.com/dmitrymomot/issuetracker/core/handler"
)

// Error returns a Response that hands err to the router's error handler.
func Error(err error) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		return err
	}
}
