package response

import (
	"net/http"

	"github.com/dmitrymomot/issuetracker/core/handler"
)

// Render runs resp against the context's writer and request. Errors fall
// back to a plain 500.
func Render(ctx handler.Context, resp handler.Response) {
	if resp == nil {
		return
	}
	if err := resp(ctx.ResponseWriter(), ctx.Request()); err != nil {
		http.Error(ctx.ResponseWriter(), err.Error(), http.StatusInternalServerError)
	}
}

// String writes content as text/plain with status 200.
func String(content string) handler.Response {
	return StringWithStatus(content, http.StatusOK)
}

// StringWithStatus writes content as text/plain. A zero status means 200.
func StringWithStatus(content string, status int) handler.Response {
	return write([]byte(content), "text/plain; charset=utf-8", status)
}

// HTML writes raw markup with status 200.
func HTML(content string) handler.Response {
	return write([]byte(content), "text/html; charset=utf-8", http.StatusOK)
}

// Status writes an empty response.
func Status(code int) handler.Response {
	return write(nil, "", code)
}

func write(content []byte, contentType string, status int) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		if status == 0 {
			status = http.StatusOK
		}
		w.WriteHeader(status)
		if len(content) == 0 {
			return nil
		}
		_, err := w.Write(content)
		return err
	}
}
