package web

import (
	"github.com/dmitrymomot/issuetracker/core/handler"
	"github.com/dmitrymomot/issuetracker/core/response"
)

func (a *App) page(ctx *Context, title string, data any) Page {
	r := ctx.Request()
	return Page{
		AppName: a.appName,
		Title:   title,
		Path:    r.URL.Path,
		Query:   r.URL.Query(),
		URI:     r.URL.RequestURI(),
		User:    ctx.User(),
		CSRF:    ctx.Session().Data.CSRF,
		Flash:   ctx.Flash(),
		Data:    data,
	}
}

// render answers with a full page.
func (a *App) render(ctx *Context, name, title string, data any) handler.Response {
	return response.Templ(a.views.page(name, a.page(ctx, title, data)))
}

func (a *App) renderWithStatus(ctx *Context, name, title string, data any, status int) handler.Response {
	return response.TemplWithStatus(a.views.page(name, a.page(ctx, title, data)), status)
}
