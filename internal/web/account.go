package web

import (
	"github.com/dmitrymomot/issuetracker/core/handler"
	"github.com/dmitrymomot/issuetracker/core/logger"
	"github.com/dmitrymomot/issuetracker/core/response"
	"github.com/dmitrymomot/issuetracker/internal/auth"
)

// MsgPasswordChanged is shown after a successful password change.
const MsgPasswordChanged = "Your password has been successfully changed."

func (a *App) home(ctx *Context) handler.Response {
	return a.render(ctx, "home", "Home", nil)
}

// redirectTarget is where a finished sign in, sign up or sign out goes.
func redirectTarget(ctx *Context) string {
	return response.SafeRedirectPath(ctx.Query().Get("redirectTo"), "/")
}

func (a *App) signInForm(ctx *Context) handler.Response {
	return a.render(ctx, "signin", "Sign In", nil)
}

func (a *App) signIn(ctx *Context) handler.Response {
	form, err := ctx.Form()
	if err != nil {
		return response.Error(response.ErrBadRequest.WithError(err))
	}
	in, err := auth.ValidateSignIn(form)
	if err != nil {
		return response.Error(err)
	}

	u, err := a.services.Auth.SignIn(ctx, in)
	if err != nil {
		return response.Error(err)
	}
	if err := ctx.SignIn(u); err != nil {
		return response.Error(err)
	}
	if in.RememberMe {
		if err := a.remember(ctx); err != nil {
			return response.Error(err)
		}
	}

	a.logger.InfoContext(ctx, "user signed in", logger.UserID(u.ID.String()))
	return response.RedirectSeeOther(redirectTarget(ctx))
}

func (a *App) signUpForm(ctx *Context) handler.Response {
	return a.render(ctx, "signup", "Sign Up", nil)
}

func (a *App) signUp(ctx *Context) handler.Response {
	form, err := ctx.Form()
	if err != nil {
		return response.Error(response.ErrBadRequest.WithError(err))
	}
	in, err := auth.ValidateSignUp(ctx, a.services.Users, form)
	if err != nil {
		return response.Error(err)
	}

	u, err := a.services.Auth.SignUp(ctx, in)
	if err != nil {
		return response.Error(err)
	}
	if err := ctx.SignIn(u); err != nil {
		return response.Error(err)
	}
	if in.RememberMe {
		if err := a.remember(ctx); err != nil {
			return response.Error(err)
		}
	}

	a.logger.InfoContext(ctx, "user signed up", logger.UserID(u.ID.String()))
	return response.RedirectSeeOther(redirectTarget(ctx))
}

// signOut ends the session and revokes the remember me token of this
// browser.
func (a *App) signOut(ctx *Context) handler.Response {
	if tok, ok := a.rememberToken(ctx); ok {
		if err := a.services.Auth.Forget(ctx, tok.Selector); err != nil {
			a.logger.ErrorContext(ctx, "forget remember me token", logger.Error(err))
		}
	}
	a.cookies.Delete(ctx.ResponseWriter(), RememberCookie)
	ctx.SignOut()
	return response.RedirectSeeOther(redirectTarget(ctx))
}

type changePasswordView struct {
	Success string
}

func (a *App) changePasswordForm(ctx *Context) handler.Response {
	return a.render(ctx, "change-password", "Change Password", changePasswordView{})
}

// changePassword keeps the current browser signed in and revokes the
// remember me tokens of every other one.
func (a *App) changePassword(ctx *Context) handler.Response {
	form, err := ctx.Form()
	if err != nil {
		return response.Error(response.ErrBadRequest.WithError(err))
	}
	in, err := auth.ValidateChangePassword(form)
	if err != nil {
		return response.Error(err)
	}

	var selector string
	if tok, ok := a.rememberToken(ctx); ok {
		selector = tok.Selector
	}
	u := ctx.User()
	if u == nil {
		return response.Error(errNoSession)
	}
	if err := a.services.Auth.ChangePassword(ctx, u.ID, in, selector); err != nil {
		return response.Error(err)
	}

	a.logger.InfoContext(ctx, "password changed", logger.UserID(u.ID.String()))
	return a.render(ctx, "change-password", "Change Password", changePasswordView{Success: MsgPasswordChanged})
}
