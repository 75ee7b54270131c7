package web

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrymomot/issuetracker/core/handler"
	"github.com/dmitrymomot/issuetracker/core/logger"
	"github.com/dmitrymomot/issuetracker/core/response"
	"github.com/dmitrymomot/issuetracker/internal/issue"
	"github.com/dmitrymomot/issuetracker/pkg/pagination"
)

const issuesPath = "/issues"

// Banner messages.
const (
	MsgIssueCreated = "Issue created successfully."
	MsgIssueUpdated = "Issue updated successfully."
	MsgIssueDeleted = "Issue deleted successfully."
)

type issueList struct {
	Issues     []issue.Issue
	Pages      []pagination.Page
	Current    int
	TotalPages int
	Stats      issue.Stats
	Statuses   []issue.Status
	Priorities []issue.Priority
}

// HasPrev and HasNext drive the pager arrows.
func (l issueList) HasPrev() bool { return l.Current > 1 }
func (l issueList) HasNext() bool { return l.Current < l.TotalPages }

// option is an entry of the assignee picker.
type option struct {
	Value string
	Label string
}

type issueForm struct {
	Issue      issue.Issue
	Assignee   string
	Users      []option
	Statuses   []issue.Status
	Priorities []issue.Priority

	CanEditText  bool
	CanAssign    bool
	CanSetStatus bool
	Deletable    bool
}

// listIssues loads one page of the actor's issues, filtered and sorted by
// the query string.
func (a *App) listIssues(ctx *Context) (issueList, error) {
	actor := ctx.Actor()
	q := ctx.Query()
	opts := issue.ListOptionsFromQuery(q)

	total, err := a.services.Issues.Count(ctx, actor, opts)
	if err != nil {
		return issueList{}, err
	}
	totalPages := pagination.TotalPages(total, issue.PerPage)
	current := pagination.Clamp(issue.ParsePage(q.Get("p")), totalPages)

	issues, err := a.services.Issues.List(ctx, actor, opts.Paginate(issue.PerPage, pagination.Offset(current, issue.PerPage)))
	if err != nil {
		return issueList{}, err
	}

	return issueList{
		Issues:     issues,
		Pages:      pagination.Generate(totalPages, current),
		Current:    current,
		TotalPages: totalPages,
		Statuses:   issue.AllStatuses(),
		Priorities: issue.AllPriorities(),
	}, nil
}

func (a *App) issues(ctx *Context) handler.Response {
	if ctx.Query().Get("partial") == "true" {
		return a.issuesPartial(ctx)
	}

	list, err := a.listIssues(ctx)
	if err != nil {
		return response.Error(err)
	}
	list.Stats, err = a.services.Issues.Stats(ctx, ctx.Actor())
	if err != nil {
		return response.Error(err)
	}

	page := a.page(ctx, "Issues", list)
	page.Path = issuesPath
	return response.Templ(a.views.page("issues", page))
}

// issuesPartial renders only the table and pager.
func (a *App) issuesPartial(ctx *Context) handler.Response {
	list, err := a.listIssues(ctx)
	if err != nil {
		return response.Error(err)
	}
	page := a.page(ctx, "Issues", list)
	page.Path = issuesPath
	return response.Templ(a.views.partial("issues-table", page))
}

// assigneeOptions lists every user, with the actor shown as "Me".
func (a *App) assigneeOptions(ctx *Context) ([]option, error) {
	users, err := a.services.Users.All(ctx)
	if err != nil {
		return nil, err
	}
	me := ctx.Actor().ID
	opts := make([]option, 0, len(users))
	for _, u := range users {
		label := u.Name
		if u.ID == me {
			label = "Me"
		}
		opts = append(opts, option{Value: u.ID.String(), Label: label})
	}
	return opts, nil
}

func (a *App) createIssueForm(ctx *Context) handler.Response {
	users, err := a.assigneeOptions(ctx)
	if err != nil {
		return response.Error(err)
	}
	return a.render(ctx, "issue-create", "Create Issue", issueForm{
		Issue:      issue.Issue{Status: issue.StatusOpen},
		Users:      users,
		Statuses:   issue.StatusesExcept(issue.StatusResolved),
		Priorities: issue.AllPriorities(),
	})
}

func (a *App) createIssue(ctx *Context) handler.Response {
	form, err := ctx.Form()
	if err != nil {
		return response.Error(response.ErrBadRequest.WithError(err))
	}
	actor := ctx.Actor()
	in, err := a.services.Issues.ValidateCreate(ctx, actor, form)
	if err != nil {
		return response.Error(err)
	}

	id, err := a.services.Issues.Create(ctx, actor, in)
	if err != nil {
		return response.Error(err)
	}

	a.logger.InfoContext(ctx, "issue created", logger.IssueID(id), logger.UserID(actor.ID.String()))
	flashMessage(ctx, MsgIssueCreated)
	return response.RedirectSeeOther(issuesPath)
}

func (a *App) issueNotFound(ctx *Context) handler.Response {
	return a.renderWithStatus(ctx, "issue-not-found", "Issue Not Found", nil, http.StatusNotFound)
}

// loadIssue resolves the issueId route parameter to an issue the actor may
// access. When it cannot, the returned response answers the request.
func (a *App) loadIssue(ctx *Context) (issue.Issue, handler.Response) {
	id, err := strconv.ParseInt(ctx.Param("issueId"), 10, 64)
	if err != nil {
		return issue.Issue{}, a.issueNotFound(ctx)
	}

	iss, err := a.services.Issues.Get(ctx, id)
	if errors.Is(err, issue.ErrNotFound) {
		return issue.Issue{}, a.issueNotFound(ctx)
	}
	if err != nil {
		return issue.Issue{}, response.Error(err)
	}

	if !issue.CanAccess(ctx.Actor(), iss) {
		return issue.Issue{}, response.Error(response.ErrForbidden)
	}
	return iss, nil
}

func (a *App) viewIssue(ctx *Context) handler.Response {
	iss, resp := a.loadIssue(ctx)
	if resp != nil {
		return resp
	}

	me := ctx.Actor().ID
	if iss.IsAssignee(me) {
		iss.Assignee = &issue.Person{ID: me, Name: "Me"}
	}
	if iss.IsReporter(me) {
		iss.Reporter = issue.Person{ID: me, Name: "Me"}
	}

	return a.render(ctx, "issue-view", "Issue - "+iss.Title, iss)
}

func (a *App) editIssueForm(ctx *Context) handler.Response {
	iss, resp := a.loadIssue(ctx)
	if resp != nil {
		return resp
	}

	users, err := a.assigneeOptions(ctx)
	if err != nil {
		return response.Error(err)
	}

	actor := ctx.Actor()
	data := issueForm{
		Issue:        iss,
		Users:        users,
		Statuses:     issue.EditableStatuses(actor, iss),
		Priorities:   issue.AllPriorities(),
		CanEditText:  actor.IsAdmin() || iss.IsReporter(actor.ID),
		CanAssign:    actor.IsAdmin(),
		CanSetStatus: actor.IsAdmin() || (iss.IsAssignee(actor.ID) && iss.Status != issue.StatusResolved),
		Deletable:    issue.Deletable(iss),
	}
	if iss.Assignee != nil {
		data.Assignee = iss.Assignee.ID.String()
	}
	return a.render(ctx, "issue-edit", "Edit Issue - "+iss.Title, data)
}

func (a *App) editIssue(ctx *Context) handler.Response {
	iss, resp := a.loadIssue(ctx)
	if resp != nil {
		return resp
	}

	form, err := ctx.Form()
	if err != nil {
		return response.Error(response.ErrBadRequest.WithError(err))
	}
	actor := ctx.Actor()
	upd, err := a.services.Issues.ValidateEdit(ctx, actor, iss, form)
	if err != nil {
		return response.Error(err)
	}

	if !upd.Empty() {
		if err := a.services.Issues.Update(ctx, iss.ID, upd); err != nil {
			if errors.Is(err, issue.ErrNotFound) {
				return a.issueNotFound(ctx)
			}
			return response.Error(err)
		}
		a.logger.InfoContext(ctx, "issue updated", logger.IssueID(iss.ID), logger.UserID(actor.ID.String()))
	}

	flashMessage(ctx, MsgIssueUpdated)
	return response.RedirectSeeOther(issuesPath)
}

// deleteIssue soft deletes an issue. Requests for missing, inaccessible or
// undeletable issues end on the list without a message.
func (a *App) deleteIssue(ctx *Context) handler.Response {
	id, err := strconv.ParseInt(ctx.Param("issueId"), 10, 64)
	if err != nil {
		return response.RedirectSeeOther(issuesPath)
	}

	iss, err := a.services.Issues.Get(ctx, id)
	if errors.Is(err, issue.ErrNotFound) {
		return response.RedirectSeeOther(issuesPath)
	}
	if err != nil {
		return response.Error(err)
	}

	actor := ctx.Actor()
	if !issue.CanAccess(actor, iss) || !issue.Deletable(iss) {
		return response.RedirectSeeOther(issuesPath)
	}

	if err := a.services.Issues.Delete(ctx, id, actor); err != nil {
		if errors.Is(err, issue.ErrNotFound) {
			return response.RedirectSeeOther(issuesPath)
		}
		return response.Error(err)
	}

	a.logger.InfoContext(ctx, "issue deleted", logger.IssueID(id), logger.UserID(actor.ID.String()))
	flashMessage(ctx, MsgIssueDeleted)
	return response.RedirectSeeOther(issuesPath)
}

func dated(prefix, ext string) string {
	return prefix + time.Now().Format("2006_01_02") + ext
}

// downloadDeletionLogs is for admins only; everyone else goes home.
func (a *App) downloadDeletionLogs(ctx *Context) handler.Response {
	if !ctx.Actor().IsAdmin() {
		return response.Redirect("/")
	}
	logs, err := a.services.Issues.DeletionLogs(ctx)
	if err != nil {
		return response.Error(err)
	}
	return response.CSV(issue.DeletionLogRecords(logs), dated("delete_logs_", ".csv"))
}

// exportedIssues lists every issue matching the current filters.
func (a *App) exportedIssues(ctx *Context) ([][]string, error) {
	issues, err := a.services.Issues.List(ctx, ctx.Actor(), issue.ListOptionsFromQuery(ctx.Query()))
	if err != nil {
		return nil, err
	}
	return issue.ExportRecords(issues), nil
}

func (a *App) exportCSV(ctx *Context) handler.Response {
	records, err := a.exportedIssues(ctx)
	if err != nil {
		return response.Error(err)
	}
	return response.CSV(records, dated("issues_", ".csv"))
}

func (a *App) exportXLSX(ctx *Context) handler.Response {
	records, err := a.exportedIssues(ctx)
	if err != nil {
		return response.Error(err)
	}
	return response.XLSX("Issues", records, dated("issues_", ".xlsx"))
}
