package middleware

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/issuetracker/core/handler"
	"github.com/dmitrymomot/issuetracker/core/logger"
	"github.com/dmitrymomot/issuetracker/core/response"
	"github.com/dmitrymomot/issuetracker/core/session"
)

type sessionKey struct{}

// SessionTransport loads a session for a request and writes it back.
type SessionTransport[Data any] interface {
	Load(handler.Context) (session.Session[Data], error)
	Store(handler.Context, session.Session[Data]) error
}

// SessionConfig configures the session middleware.
type SessionConfig[C handler.Context, Data any] struct {
	Skip      func(ctx C) bool
	Transport SessionTransport[Data]
	Logger    *slog.Logger
}

// Session loads the session before the handler runs and stores it right
// before the first byte of the response is written. Inner middlewares may
// therefore change the session while their response is being rendered
// (a flash before a redirect, for example) and the change is still saved
// and its cookie still sent.
func Session[C handler.Context, Data any](transport SessionTransport[Data]) handler.Middleware[C] {
	return SessionWithConfig(SessionConfig[C, Data]{Transport: transport})
}

func SessionWithConfig[C handler.Context, Data any](cfg SessionConfig[C, Data]) handler.Middleware[C] {
	if cfg.Transport == nil {
		panic("session middleware: transport is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			sess, err := cfg.Transport.Load(ctx)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return response.Error(ctxErr)
				}
				return response.Error(err)
			}
			ctx.SetValue(sessionKey{}, sess)

			resp := next(ctx)
			if resp == nil {
				return nil
			}

			return func(w http.ResponseWriter, r *http.Request) error {
				sw := &sessionWriter{ResponseWriter: w, store: func() error {
					current, ok := GetSession[Data](ctx)
					if !ok {
						return nil
					}
					return cfg.Transport.Store(ctx, current)
				}}

				err := resp(sw, r)
				storeErr := sw.flush()
				if storeErr != nil {
					cfg.Logger.ErrorContext(ctx, "failed to store session", logger.Component("session"), logger.Error(storeErr))
					if err == nil && !sw.wrote {
						return storeErr
					}
				}
				return err
			}
		}
	}
}

// sessionWriter stores the session once, before headers go out.
type sessionWriter struct {
	http.ResponseWriter
	store    func() error
	stored   bool
	wrote    bool
	storeErr error
}

func (w *sessionWriter) flush() error {
	if !w.stored {
		w.stored = true
		w.storeErr = w.store()
	}
	return w.storeErr
}

func (w *sessionWriter) WriteHeader(code int) {
	_ = w.flush()
	w.wrote = true
	w.ResponseWriter.WriteHeader(code)
}

func (w *sessionWriter) Write(b []byte) (int, error) {
	if !w.wrote {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

func (w *sessionWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// GetSession returns the session loaded by the Session middleware.
func GetSession[Data any](ctx handler.Context) (session.Session[Data], bool) {
	if ctx == nil {
		return session.Session[Data]{}, false
	}
	sess, ok := ctx.Value(sessionKey{}).(session.Session[Data])
	return sess, ok
}

// MustGetSession is GetSession for code that only runs behind the Session middleware.
func MustGetSession[Data any](ctx handler.Context) session.Session[Data] {
	sess, ok := GetSession[Data](ctx)
	if !ok {
		panic("session not found in context")
	}
	return sess
}

// SetSession replaces the session in the context. The Session middleware
// stores whatever is in the context when the response starts.
func SetSession[Data any](ctx handler.Context, sess session.Session[Data]) {
	ctx.SetValue(sessionKey{}, sess)
}
