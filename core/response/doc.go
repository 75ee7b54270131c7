// Package response builds handler.Response values.
//
// A handler does its work up front and returns a Response that writes the
// reply later:
//
//	func view(ctx *web.Context) handler.Response {
//		issue, err := svc.Get(ctx, id)
//		if err != nil {
//			return response.Error(err)
//		}
//		return response.Templ(views.IssueView(issue))
//	}
//
// Besides rendering there are redirects (Redirect, RedirectSeeOther,
// RedirectBack), downloads (Attachment, CSV, XLSX) and HTTPError values that
// carry a status code to the error handler.
package response
