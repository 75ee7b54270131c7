package web_test

import (
	"context"
	"fmt"
	"maps"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/issuetracker/core/cookie"
	"github.com/dmitrymomot/issuetracker/core/session"
	"github.com/dmitrymomot/issuetracker/core/sessiontransport"
	"github.com/dmitrymomot/issuetracker/core/validator"
	"github.com/dmitrymomot/issuetracker/internal/auth"
	"github.com/dmitrymomot/issuetracker/internal/issue"
	"github.com/dmitrymomot/issuetracker/internal/user"
	"github.com/dmitrymomot/issuetracker/internal/web"
)

const testSecret = "0123456789abcdef0123456789abcdef"

var (
	alice = user.User{ID: uuid.New(), Name: "Alice", Email: "alice@example.com", Role: user.RoleUser}
	bob   = user.User{ID: uuid.New(), Name: "Bob", Email: "bob@example.com", Role: user.RoleUser}
	admin = user.User{ID: uuid.New(), Name: "Admin", Email: "admin@example.com", Role: user.RoleAdmin}

	validRemember = auth.RememberToken{Selector: strings.Repeat("a", 32), Validator: strings.Repeat("b", 64)}
)

type fakeUsers struct{}

func (fakeUsers) All(context.Context) ([]user.User, error) {
	return []user.User{admin, alice, bob}, nil
}

func (fakeUsers) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, u := range []user.User{admin, alice, bob} {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (fakeUsers) ExistsByID(_ context.Context, id uuid.UUID) (bool, error) {
	for _, u := range []user.User{admin, alice, bob} {
		if u.ID == id {
			return true, nil
		}
	}
	return false, nil
}

// fakeAuth accepts "secret123" as everyone's password.
type fakeAuth struct {
	mu        sync.Mutex
	forgotten []string
	changed   []uuid.UUID
}

func (f *fakeAuth) SignUp(_ context.Context, in auth.SignUpInput) (user.User, error) {
	return user.User{ID: uuid.New(), Name: in.Name, Email: in.Email, Role: user.RoleUser}, nil
}

func (f *fakeAuth) SignIn(_ context.Context, in auth.SignInInput) (user.User, error) {
	for _, u := range []user.User{admin, alice, bob} {
		if u.Email == in.Email && in.Password == "secret123" {
			return u, nil
		}
	}
	return user.User{}, validator.NewError(auth.FormField, auth.MsgInvalidCredentials)
}

func (f *fakeAuth) ChangePassword(_ context.Context, userID uuid.UUID, in auth.ChangePasswordInput, _ string) error {
	if in.CurrentPassword != "secret123" {
		return validator.NewError(auth.FormField, auth.MsgWrongPassword)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.changed = append(f.changed, userID)
	return nil
}

func (f *fakeAuth) Remember(context.Context, uuid.UUID) (auth.RememberToken, error) {
	return validRemember, nil
}

func (f *fakeAuth) Restore(_ context.Context, tok auth.RememberToken) (user.User, error) {
	if tok == validRemember {
		return alice, nil
	}
	return user.User{}, auth.ErrInvalidRememberToken
}

func (f *fakeAuth) Forget(_ context.Context, selector string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.forgotten = append(f.forgotten, selector)
	return nil
}

type fakeIssues struct {
	mu      sync.Mutex
	issues  map[int64]issue.Issue
	deleted []int64
	created []issue.CreateInput
	updated map[int64]issue.UpdateInput
}

func newFakeIssues() *fakeIssues {
	now := time.Now()
	alicePerson := &issue.Person{ID: alice.ID, Name: alice.Name, Email: alice.Email}
	return &fakeIssues{issues: map[int64]issue.Issue{
		1: {ID: 1, Title: "Login button misaligned", Status: issue.StatusOpen, Priority: issue.PriorityLow,
			Reporter: issue.Person{ID: alice.ID, Name: alice.Name, Email: alice.Email}, CreatedAt: now, UpdatedAt: now},
		2: {ID: 2, Title: "Payment gateway timeout", Status: issue.StatusOpen, Priority: issue.PriorityHigh,
			Reporter: issue.Person{ID: bob.ID, Name: bob.Name, Email: bob.Email}, CreatedAt: now, UpdatedAt: now},
		3: {ID: 3, Title: "Search is slow", Status: issue.StatusInProgress, Priority: issue.PriorityMedium,
			Assignee: alicePerson, Reporter: issue.Person{ID: alice.ID, Name: alice.Name, Email: alice.Email}, CreatedAt: now, UpdatedAt: now},
	}}
}

func (f *fakeIssues) ValidateCreate(ctx context.Context, actor issue.Actor, form map[string][]string) (issue.CreateInput, error) {
	return issue.ValidateCreate(ctx, fakeUsers{}, actor, form)
}

func (f *fakeIssues) ValidateEdit(ctx context.Context, actor issue.Actor, iss issue.Issue, form map[string][]string) (issue.UpdateInput, error) {
	return issue.ValidateEdit(ctx, fakeUsers{}, actor, iss, form)
}

func (f *fakeIssues) Create(_ context.Context, _ issue.Actor, in issue.CreateInput) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, in)
	return int64(100 + len(f.created)), nil
}

func (f *fakeIssues) Update(_ context.Context, id int64, upd issue.UpdateInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	iss, ok := f.issues[id]
	if !ok {
		return issue.ErrNotFound
	}
	if upd.Title != nil {
		iss.Title = *upd.Title
	}
	if upd.Description != nil {
		iss.Description = *upd.Description
	}
	if upd.Status != nil {
		iss.Status = *upd.Status
	}
	if upd.Priority != nil {
		iss.Priority = *upd.Priority
	}
	f.issues[id] = iss
	if f.updated == nil {
		f.updated = map[int64]issue.UpdateInput{}
	}
	f.updated[id] = upd
	return nil
}

// add stores n more open issues reported by u, titled "Extra issue <id>".
func (f *fakeIssues) add(n int, u user.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	for i := range n {
		id := int64(11 + i)
		f.issues[id] = issue.Issue{ID: id, Title: fmt.Sprintf("Extra issue %d", id), Status: issue.StatusOpen, Priority: issue.PriorityLow,
			Reporter: issue.Person{ID: u.ID, Name: u.Name, Email: u.Email}, CreatedAt: now, UpdatedAt: now}
	}
}

func (f *fakeIssues) Get(_ context.Context, id int64) (issue.Issue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	iss, ok := f.issues[id]
	if !ok {
		return issue.Issue{}, issue.ErrNotFound
	}
	return iss, nil
}

func (f *fakeIssues) visible(actor issue.Actor) []issue.Issue {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []issue.Issue
	for _, id := range slices.Sorted(maps.Keys(f.issues)) {
		if iss := f.issues[id]; issue.CanAccess(actor, iss) {
			out = append(out, iss)
		}
	}
	return out
}

func (f *fakeIssues) Count(_ context.Context, actor issue.Actor, _ issue.ListOptions) (int, error) {
	return len(f.visible(actor)), nil
}

func (f *fakeIssues) List(_ context.Context, actor issue.Actor, opts issue.ListOptions) ([]issue.Issue, error) {
	out := f.visible(actor)
	if opts.Limit == 0 {
		return out, nil
	}
	start := min(opts.Offset, len(out))
	end := min(start+opts.Limit, len(out))
	return out[start:end], nil
}

func (f *fakeIssues) Stats(_ context.Context, actor issue.Actor) (issue.Stats, error) {
	return issue.Stats{Total: int64(len(f.visible(actor)))}, nil
}

func (f *fakeIssues) Delete(_ context.Context, id int64, _ issue.Actor) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.issues[id]; !ok {
		return issue.ErrNotFound
	}
	delete(f.issues, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeIssues) DeletionLogs(context.Context) ([]issue.DeletionLog, error) {
	return []issue.DeletionLog{{ReporterName: "Bob", DeletedBy: "Admin", IssueTitle: "Old", IssueStatus: issue.StatusOpen, IssuePriority: issue.PriorityLow, DeletedAt: time.Now()}}, nil
}

type harness struct {
	handler http.Handler
	cookies *cookie.Manager
	auth    *fakeAuth
	issues  *fakeIssues
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	cookies, err := cookie.New([]string{testSecret})
	require.NoError(t, err)
	mgr := session.NewManager[web.SessionData](session.NewMemoryStore[web.SessionData](), session.DefaultConfig())
	transport := sessiontransport.NewCookie(mgr, cookies, "__session")

	h := &harness{cookies: cookies, auth: &fakeAuth{}, issues: newFakeIssues()}
	app, err := web.New(web.Services{Users: fakeUsers{}, Auth: h.auth, Issues: h.issues}, transport, cookies,
		web.WithMetrics("ims_test", prometheus.NewRegistry()),
	)
	require.NoError(t, err)
	h.handler = app.Handler()
	return h
}

// client is a browser with a cookie jar.
type client struct {
	t   *testing.T
	h   *harness
	jar map[string]*http.Cookie
}

func (h *harness) client(t *testing.T) *client {
	return &client{t: t, h: h, jar: map[string]*http.Cookie{}}
}

func (c *client) do(req *http.Request) *httptest.ResponseRecorder {
	for _, ck := range c.jar {
		req.AddCookie(&http.Cookie{Name: ck.Name, Value: ck.Value})
	}
	rec := httptest.NewRecorder()
	c.h.handler.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		if ck.MaxAge < 0 {
			delete(c.jar, ck.Name)
			continue
		}
		c.jar[ck.Name] = ck
	}
	return rec
}

func (c *client) get(target string) *httptest.ResponseRecorder {
	return c.do(httptest.NewRequest(http.MethodGet, target, nil))
}

func (c *client) post(target string, form url.Values, referer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if referer != "" {
		req.Header.Set("Referer", referer)
	}
	return c.do(req)
}

var csrfPattern = regexp.MustCompile(`name="CSRF" value="([0-9a-f]{64})"`)

// csrf loads page and returns the CSRF token rendered into it.
func (c *client) csrf(page string) string {
	c.t.Helper()
	rec := c.get(page)
	require.Equal(c.t, http.StatusOK, rec.Code, rec.Body.String())
	m := csrfPattern.FindStringSubmatch(rec.Body.String())
	require.Len(c.t, m, 2, "no csrf token on %s", page)
	return m[1]
}

func (c *client) signIn(email string) {
	c.t.Helper()
	tok := c.csrf("/auth/signin")
	rec := c.post("/auth/signin", url.Values{"CSRF": {tok}, "email": {email}, "password": {"secret123"}}, "")
	require.Equal(c.t, http.StatusSeeOther, rec.Code, rec.Body.String())
}
