package response

import (
	"net/http"
	"net/url"

	"github.com/dmitrymomot/issuetracker/core/handler"
)

// Redirect sends a 302 Found to target.
func Redirect(target string) handler.Response {
	return RedirectWithStatus(target, http.StatusFound)
}

// RedirectSeeOther sends a 303, the usual reply to a form submission.
func RedirectSeeOther(target string) handler.Response {
	return RedirectWithStatus(target, http.StatusSeeOther)
}

// RedirectWithStatus redirects with a 3xx status; anything else becomes 302.
func RedirectWithStatus(target string, status int) handler.Response {
	if status < 300 || status >= 400 {
		status = http.StatusFound
	}
	return func(w http.ResponseWriter, r *http.Request) error {
		http.Redirect(w, r, target, status)
		return nil
	}
}

// RedirectBack redirects to the Referer when it points at the same host,
// otherwise to fallback.
func RedirectBack(fallback string) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		http.Redirect(w, r, Referer(r, fallback), http.StatusFound)
		return nil
	}
}

// Referer returns the path and query of the request's Referer if it is a
// same-host URL, otherwise fallback.
func Referer(r *http.Request, fallback string) string {
	ref := r.Referer()
	if ref == "" {
		return fallback
	}
	u, err := url.Parse(ref)
	if err != nil {
		return fallback
	}
	if u.Host != "" && u.Host != r.Host {
		return fallback
	}
	target := u.EscapedPath()
	if target == "" {
		target = "/"
	}
	if u.RawQuery != "" {
		target += "?" + u.RawQuery
	}
	return target
}

// SafeRedirectPath returns target if it is a local absolute path,
// otherwise fallback. It guards redirectTo style parameters.
func SafeRedirectPath(target, fallback string) string {
	if target == "" || target[0] != '/' || (len(target) > 1 && (target[1] == '/' || target[1] == '\\')) {
		return fallback
	}
	return target
}
