package web

import (
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/dmitrymomot/issuetracker/core/router"
	"github.com/dmitrymomot/issuetracker/core/session"
	"github.com/dmitrymomot/issuetracker/internal/issue"
	"github.com/dmitrymomot/issuetracker/internal/user"
	"github.com/dmitrymomot/issuetracker/middleware"
)

// SessionUser is the signed in user as kept in the session.
type SessionUser struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Role  user.Role `json:"role"`
}

// IsAdmin reports whether the user has the admin role.
func (u SessionUser) IsAdmin() bool {
	return u.Role == user.RoleAdmin
}

// Flash holds data that survives exactly one redirect.
type Flash struct {
	Errors  map[string][]string `json:"errors,omitempty"`
	Old     map[string]string   `json:"old,omitempty"`
	Message string              `json:"message,omitempty"`
}

// Empty reports whether there is nothing to show.
func (f Flash) Empty() bool {
	return len(f.Errors) == 0 && len(f.Old) == 0 && f.Message == ""
}

// SessionData is the application part of a session.
type SessionData struct {
	User  *SessionUser `json:"user,omitempty"`
	CSRF  string       `json:"csrf,omitempty"`
	Flash Flash        `json:"flash"`
}

func newSessionUser(u user.User) *SessionUser {
	return &SessionUser{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

// Context is the request context handlers of this package receive.
type Context struct {
	*router.Context
}

func newContext(w http.ResponseWriter, r *http.Request, params map[string]string) *Context {
	return &Context{Context: router.NewContext(w, r, params)}
}

// Session returns the current session. The zero session is returned for
// routes served without the session middleware.
func (c *Context) Session() session.Session[SessionData] {
	sess, _ := middleware.GetSession[SessionData](c)
	return sess
}

// UpdateSession applies fn to the session data and puts the result back.
func (c *Context) UpdateSession(fn func(*SessionData)) {
	sess, ok := middleware.GetSession[SessionData](c)
	if !ok {
		return
	}
	data := sess.Data
	fn(&data)
	sess.SetData(data)
	middleware.SetSession(c, sess)
}

// SignIn binds the session to u. The session token is rotated.
func (c *Context) SignIn(u user.User) error {
	sess, ok := middleware.GetSession[SessionData](c)
	if !ok {
		return errNoSession
	}
	data := sess.Data
	data.User = newSessionUser(u)
	if err := sess.Authenticate(u.ID, data); err != nil {
		return err
	}
	middleware.SetSession(c, sess)
	return nil
}

// SignOut marks the session for deletion.
func (c *Context) SignOut() {
	sess, ok := middleware.GetSession[SessionData](c)
	if !ok {
		return
	}
	sess.Logout()
	middleware.SetSession(c, sess)
}

// User returns the signed in user or nil.
func (c *Context) User() *SessionUser {
	sess := c.Session()
	if !sess.IsAuthenticated() {
		return nil
	}
	return sess.Data.User
}

// Actor returns the signed in user as an issue actor. Only call it behind
// the auth gate.
func (c *Context) Actor() issue.Actor {
	u := c.User()
	if u == nil {
		return issue.Actor{}
	}
	return issue.Actor{ID: u.ID, Role: u.Role}
}

// Flash returns what the previous request flashed.
func (c *Context) Flash() Flash {
	f, _ := c.Value(flashKey{}).(Flash)
	return f
}

// Form parses the request body and returns the submitted fields.
func (c *Context) Form() (url.Values, error) {
	r := c.Request()
	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	return r.PostForm, nil
}

// Query returns the URL query of the request.
func (c *Context) Query() url.Values {
	return c.Request().URL.Query()
}
