package router

import (
	"errors"
	"net/http"
	"strings"
)

// MethodOverrideField is the form field a POST form uses to tunnel PUT, PATCH or DELETE.
const MethodOverrideField = "__ACTION"

// DefaultMaxFormSize caps the POST body read while looking for MethodOverrideField.
const DefaultMaxFormSize int64 = 1 << 20

var overridableMethods = map[string]bool{
	http.MethodPut:    true,
	http.MethodPatch:  true,
	http.MethodDelete: true,
}

// ErrBodyTooLarge is passed to the error handler when a POST body exceeds the
// router's form size limit.
var ErrBodyTooLarge error = bodyTooLargeError{}

type bodyTooLargeError struct{}

func (bodyTooLargeError) Error() string { return "request body too large" }
func (bodyTooLargeError) StatusCode() int { return http.StatusRequestEntityTooLarge }

// overrideMethod returns r with its method replaced by the __ACTION form value.
// Only POST requests are upgraded, and only to PUT, PATCH or DELETE. The body
// is capped at limit bytes before it is parsed.
func overrideMethod(w http.ResponseWriter, r *http.Request, limit int64) (*http.Request, error) {
	if r.Method != http.MethodPost {
		return r, nil
	}
	if r.ContentLength > limit {
		return r, ErrBodyTooLarge
	}
	if r.Body != nil && r.Body != http.NoBody {
		r.Body = http.MaxBytesReader(w, r.Body, limit)
	}

	if err := r.ParseForm(); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return r, ErrBodyTooLarge
		}
	}

	action := strings.ToUpper(strings.TrimSpace(r.PostFormValue(MethodOverrideField)))
	if !overridableMethods[action] {
		return r, nil
	}

	r2 := r.Clone(r.Context())
	r2.Method = action
	return r2, nil
}
