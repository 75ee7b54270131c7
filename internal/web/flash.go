package web

import (
	"github.com/dmitrymomot/issuetracker/core/handler"
)

type flashKey struct{}

// popFlash moves the flashed data out of the session into the request
// context, so it is shown once.
func popFlash(next handler.HandlerFunc[*Context]) handler.HandlerFunc[*Context] {
	return func(ctx *Context) handler.Response {
		flash := ctx.Session().Data.Flash
		if !flash.Empty() {
			ctx.SetValue(flashKey{}, flash)
			ctx.UpdateSession(func(d *SessionData) { d.Flash = Flash{} })
		}
		return next(ctx)
	}
}

// flashMessage queues a banner message for the next page.
func flashMessage(ctx *Context, msg string) {
	ctx.UpdateSession(func(d *SessionData) { d.Flash.Message = msg })
}
