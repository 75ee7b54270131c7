package web_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/issuetracker/internal/auth"
	"github.com/dmitrymomot/issuetracker/internal/issue"
	"github.com/dmitrymomot/issuetracker/internal/web"
)

func TestOpsEndpoints(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	c := h.client(t)

	rec := c.get("/live")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = c.get("/ready")
	assert.Equal(t, http.StatusOK, rec.Code)

	c.get("/")
	rec = c.get("/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ims_test_http_requests_total")
}

func TestNotFoundPage(t *testing.T) {
	t.Parallel()

	rec := newHarness(t).client(t).get("/does-not-exist")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Page Not Found")
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
}

func TestHomeForGuest(t *testing.T) {
	t.Parallel()

	rec := newHarness(t).client(t).get("/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `href="/auth/signin"`)
	assert.NotContains(t, rec.Body.String(), "Sign Out")
}

func TestProtectedPagesRedirectGuests(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	for _, path := range []string{"/issues", "/issues/create", "/issues/view/1", "/auth/change-password"} {
		rec := h.client(t).get(path)
		assert.Equal(t, http.StatusFound, rec.Code, path)
		assert.Equal(t, "/auth/signin?redirectTo="+url.QueryEscape(path), rec.Header().Get("Location"), path)
	}
}

func TestGuestPagesRedirectSignedInUsers(t *testing.T) {
	t.Parallel()

	c := newHarness(t).client(t)
	c.signIn(alice.Email)

	rec := c.get("/auth/signin")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestCSRFRejectsMissingToken(t *testing.T) {
	t.Parallel()

	c := newHarness(t).client(t)
	c.get("/auth/signin")

	rec := c.post("/auth/signin", url.Values{"email": {alice.Email}, "password": {"secret123"}}, "")
	assert.Equal(t, 419, rec.Code)
	assert.Contains(t, rec.Body.String(), "Page Expired")
}

func TestSignInValidationRedirectsBackWithErrors(t *testing.T) {
	t.Parallel()

	c := newHarness(t).client(t)
	tok := c.csrf("/auth/signin")

	rec := c.post("/auth/signin",
		url.Values{"CSRF": {tok}, "email": {"not-an-email"}, "password": {"whatever"}},
		"http://example.com/auth/signin",
	)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/auth/signin", rec.Header().Get("Location"))

	rec = c.get("/auth/signin")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `value="not-an-email"`)
	assert.NotContains(t, body, "whatever")

	// Flashed errors are shown once.
	rec = c.get("/auth/signin")
	assert.NotContains(t, rec.Body.String(), `value="not-an-email"`)
}

func TestSignInWrongPassword(t *testing.T) {
	t.Parallel()

	c := newHarness(t).client(t)
	tok := c.csrf("/auth/signin")

	rec := c.post("/auth/signin",
		url.Values{"CSRF": {tok}, "email": {alice.Email}, "password": {"wrong-one"}},
		"http://example.com/auth/signin",
	)
	require.Equal(t, http.StatusFound, rec.Code)

	rec = c.get("/auth/signin")
	assert.Contains(t, rec.Body.String(), auth.MsgInvalidCredentials)
}

func TestSignInRedirectsToTarget(t *testing.T) {
	t.Parallel()

	c := newHarness(t).client(t)
	tok := c.csrf("/auth/signin?redirectTo=%2Fissues")

	rec := c.post("/auth/signin?redirectTo=%2Fissues",
		url.Values{"CSRF": {tok}, "email": {alice.Email}, "password": {"secret123"}}, "")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/issues", rec.Header().Get("Location"))
	assert.NotContains(t, c.jar, web.RememberCookie)

	rec = c.get("/issues")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Sign Out")
}

func TestSignInIgnoresExternalRedirect(t *testing.T) {
	t.Parallel()

	c := newHarness(t).client(t)
	tok := c.csrf("/auth/signin")

	rec := c.post("/auth/signin?redirectTo=https%3A%2F%2Fevil.example",
		url.Values{"CSRF": {tok}, "email": {alice.Email}, "password": {"secret123"}}, "")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestRememberMe(t *testing.T) {
	t.Parallel()

	t.Run("sets cookie on sign in", func(t *testing.T) {
		t.Parallel()

		c := newHarness(t).client(t)
		tok := c.csrf("/auth/signin")
		rec := c.post("/auth/signin",
			url.Values{"CSRF": {tok}, "email": {alice.Email}, "password": {"secret123"}, "rememberMe": {"on"}}, "")
		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Contains(t, c.jar, web.RememberCookie)
	})

	t.Run("restores session from cookie", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		c := h.client(t)
		rec := httptest.NewRecorder()
		require.NoError(t, h.cookies.SetSigned(rec, web.RememberCookie, validRemember.String()))
		c.jar[web.RememberCookie] = rec.Result().Cookies()[0]

		got := c.get("/issues")
		assert.Equal(t, http.StatusOK, got.Code)
		assert.Contains(t, got.Body.String(), "Login button misaligned")
	})

	t.Run("drops invalid cookie", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		c := h.client(t)
		rec := httptest.NewRecorder()
		bad := auth.RememberToken{Selector: validRemember.Selector, Validator: validRemember.Selector + validRemember.Selector}
		require.NoError(t, h.cookies.SetSigned(rec, web.RememberCookie, bad.String()))
		c.jar[web.RememberCookie] = rec.Result().Cookies()[0]

		got := c.get("/issues")
		assert.Equal(t, http.StatusFound, got.Code)
		assert.NotContains(t, c.jar, web.RememberCookie)
	})
}

func TestSignOut(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	c := h.client(t)
	c.signIn(alice.Email)
	tok := c.csrf("/issues")

	rec := c.post("/auth/signout?redirectTo=%2Fissues", url.Values{"CSRF": {tok}}, "")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/issues", rec.Header().Get("Location"))

	rec = c.get("/issues")
	assert.Equal(t, http.StatusFound, rec.Code)
}

func TestChangePassword(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	c := h.client(t)
	c.signIn(alice.Email)
	tok := c.csrf("/auth/change-password")

	rec := c.post("/auth/change-password", url.Values{
		"CSRF":               {tok},
		"__ACTION":           {http.MethodPut},
		"currentPassword":    {"secret123"},
		"newPassword":        {"NewSecret1!"},
		"confirmNewPassword": {"NewSecret1!"},
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), web.MsgPasswordChanged)
	assert.Equal(t, []uuid.UUID{alice.ID}, h.auth.changed)
}

func TestIssuesListShowsOnlyAccessibleIssues(t *testing.T) {
	t.Parallel()

	c := newHarness(t).client(t)
	c.signIn(alice.Email)

	rec := c.get("/issues")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Login button misaligned")
	assert.Contains(t, body, "Search is slow")
	assert.NotContains(t, body, "Payment gateway timeout")
	assert.NotContains(t, body, "/issues/delete-logs")

	rec = c.get("/partial/issues")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Search is slow")
	assert.NotContains(t, rec.Body.String(), "<html")
}

func TestViewIssue(t *testing.T) {
	t.Parallel()

	c := newHarness(t).client(t)
	c.signIn(alice.Email)

	rec := c.get("/issues/view/1")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Login button misaligned")

	rec = c.get("/issues/view/2")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = c.get("/issues/view/999")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Issue Not Found")
}

func TestCreateIssue(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	c := h.client(t)
	c.signIn(alice.Email)
	tok := c.csrf("/issues/create")

	rec := c.post("/issues/create", url.Values{
		"CSRF":        {tok},
		"title":       {"Broken footer"},
		"description": {"The footer overlaps the content on small screens."},
		"status":      {"OPEN"},
		"priority":    {"LOW"},
	}, "http://example.com/issues/create")
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	assert.Equal(t, "/issues", rec.Header().Get("Location"))
	require.Len(t, h.issues.created, 1)
	assert.Equal(t, "Broken footer", h.issues.created[0].Title)

	rec = c.get("/issues")
	assert.Contains(t, rec.Body.String(), web.MsgIssueCreated)
}

func TestCreateIssueValidation(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	c := h.client(t)
	c.signIn(alice.Email)
	tok := c.csrf("/issues/create")

	rec := c.post("/issues/create", url.Values{
		"CSRF":     {tok},
		"title":    {"Kept title"},
		"priority": {"URGENT"},
	}, "http://example.com/issues/create")
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/issues/create", rec.Header().Get("Location"))
	assert.Empty(t, h.issues.created)

	rec = c.get("/issues/create")
	assert.Contains(t, rec.Body.String(), `value="Kept title"`)
}

func TestEditIssue(t *testing.T) {
	t.Parallel()

	t.Run("reporter updates the fields they own", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)
		c := h.client(t)
		c.signIn(alice.Email)
		tok := c.csrf("/issues/edit/1")

		rec := c.post("/issues/edit/1", url.Values{
			"CSRF":        {tok},
			"__ACTION":    {http.MethodPut},
			"title":       {"Login button fixed"},
			"description": {"Aligned with the form grid."},
			"status":      {"RESOLVED"},
			"priority":    {"high"},
		}, "http://example.com/issues/edit/1")
		require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
		assert.Equal(t, "/issues", rec.Header().Get("Location"))

		upd, ok := h.issues.updated[1]
		require.True(t, ok)
		require.NotNil(t, upd.Title)
		assert.Equal(t, "Login button fixed", *upd.Title)
		require.NotNil(t, upd.Priority)
		assert.Equal(t, issue.PriorityHigh, *upd.Priority)
		assert.Nil(t, upd.Status, "only the assignee sets the status")
		assert.False(t, upd.SetAssignee)

		rec = c.get("/issues")
		body := rec.Body.String()
		assert.Contains(t, body, web.MsgIssueUpdated)
		assert.Contains(t, body, "Login button fixed")
	})

	t.Run("inaccessible issue", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)
		c := h.client(t)
		c.signIn(alice.Email)
		tok := c.csrf("/issues/edit/1")

		rec := c.post("/issues/edit/2", url.Values{
			"CSRF":     {tok},
			"__ACTION": {http.MethodPut},
			"priority": {"LOW"},
		}, "")
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Empty(t, h.issues.updated)
	})

	t.Run("missing issue", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)
		c := h.client(t)
		c.signIn(alice.Email)
		tok := c.csrf("/issues/edit/1")

		rec := c.post("/issues/edit/999", url.Values{
			"CSRF":     {tok},
			"__ACTION": {http.MethodPut},
			"priority": {"LOW"},
		}, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "Issue Not Found")

		rec = c.get("/issues/edit/999")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "Issue Not Found")
	})

	t.Run("admin cannot resolve for the assignee", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)
		c := h.client(t)
		c.signIn(admin.Email)
		tok := c.csrf("/issues/edit/2")

		rec := c.post("/issues/edit/2", url.Values{
			"CSRF":        {tok},
			"__ACTION":    {http.MethodPut},
			"title":       {"Gateway timeout after retry"},
			"description": {"Still failing."},
			"status":      {"RESOLVED"},
			"priority":    {"HIGH"},
			"assignee":    {alice.ID.String()},
		}, "http://example.com/issues/edit/2")
		require.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/issues/edit/2", rec.Header().Get("Location"))
		assert.Empty(t, h.issues.updated)

		rec = c.get("/issues/edit/2")
		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "Only the assignee can set the status to")
		assert.Contains(t, body, `value="Gateway timeout after retry"`)
	})
}

func TestIssuesPartial(t *testing.T) {
	t.Parallel()

	c := newHarness(t).client(t)
	c.signIn(alice.Email)

	rec := c.get("/issues?partial=true")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Search is slow")
	assert.Contains(t, body, "<table>")
	assert.NotContains(t, body, "<html")
	assert.NotContains(t, body, "Issues Stats")
	assert.NotContains(t, body, `id="filter-form"`)
}

func TestIssuesPageIsClamped(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.issues.add(4, alice)
	c := h.client(t)
	c.signIn(alice.Email)

	// Alice sees issues 1, 3 and 11 to 14: two pages of five.
	rec := c.get("/issues?p=99")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Page 2 of 2")
	assert.Contains(t, body, "Extra issue 14")
	assert.NotContains(t, body, "Login button misaligned")

	for _, p := range []string{"0", "-3", "abc"} {
		rec = c.get("/issues?partial=true&p=" + p)
		require.Equal(t, http.StatusOK, rec.Code)
		body = rec.Body.String()
		assert.Contains(t, body, "Page 1 of 2", "p=%s", p)
		assert.Contains(t, body, "Login button misaligned", "p=%s", p)
		assert.NotContains(t, body, "Extra issue 14", "p=%s", p)
	}
}

func TestOversizedFormIsRejected(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	c := h.client(t)
	c.signIn(alice.Email)
	tok := c.csrf("/issues/create")

	form := url.Values{"CSRF": {tok}, "title": {"Big"}, "description": {strings.Repeat("d", 2<<20)}}
	req := httptest.NewRequest(http.MethodPost, "/issues/create", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.ContentLength = -1

	rec := c.do(req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Contains(t, rec.Body.String(), "Request Too Large")
	assert.Empty(t, h.issues.created)
}

func TestDeleteIssue(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	c := h.client(t)
	c.signIn(alice.Email)

	tok := c.csrf("/issues/edit/3")
	rec := c.post("/issues/delete/3", url.Values{"CSRF": {tok}, "__ACTION": {http.MethodDelete}}, "")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Empty(t, h.issues.deleted, "assigned issues are kept")

	rec = c.post("/issues/delete/1", url.Values{"CSRF": {tok}, "__ACTION": {http.MethodDelete}}, "")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, []int64{1}, h.issues.deleted)

	rec = c.get("/issues")
	assert.Contains(t, rec.Body.String(), web.MsgIssueDeleted)
}

func TestDeletionLogsAreAdminOnly(t *testing.T) {
	t.Parallel()

	h := newHarness(t)

	user := h.client(t)
	user.signIn(alice.Email)
	rec := user.get("/issues/delete-logs/download")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	adm := h.client(t)
	adm.signIn(admin.Email)
	rec = adm.get("/issues/delete-logs/download")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "delete_logs_")
	assert.Contains(t, rec.Body.String(), "Old")
}

func TestExports(t *testing.T) {
	t.Parallel()

	c := newHarness(t).client(t)
	c.signIn(alice.Email)

	rec := c.get("/issues/export-to-csv")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "issues_")
	assert.Contains(t, rec.Body.String(), "Search is slow")
	assert.NotContains(t, rec.Body.String(), "Payment gateway timeout")

	rec = c.get("/issues/export-to-xlsx")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".xlsx")
	assert.NotZero(t, rec.Body.Len())
}
