package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/a-h/templ"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dmitrymomot/issuetracker/core/router"
	"github.com/dmitrymomot/issuetracker/middleware"
)

//go:embed templates
var templateFS embed.FS

// Page is the data every template receives.
type Page struct {
	AppName string
	Title   string
	// Path is the current path, Query its query string. Both feed the
	// sort and page links.
	Path  string
	Query url.Values
	// URI is the full request URI, used as the sign out redirect target.
	URI   string
	User  *SessionUser
	CSRF  string
	Flash Flash
	Data  any
}

// IsAdmin reports whether the viewer is an admin.
func (p Page) IsAdmin() bool {
	return p.User != nil && p.User.IsAdmin()
}

// views holds one template set per page. Every set shares the layout and
// the partials.
type views struct {
	base  *template.Template
	pages map[string]*template.Template
}

func loadViews() (*views, error) {
	base, err := template.New("").Funcs(viewFuncs()).ParseFS(templateFS, "templates/layout.html", "templates/partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	files, err := fs.Glob(templateFS, "templates/pages/*.html")
	if err != nil {
		return nil, err
	}

	v := &views{base: base, pages: make(map[string]*template.Template, len(files))}
	for _, file := range files {
		set, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := set.ParseFS(templateFS, file); err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
		v.pages[strings.TrimSuffix(path.Base(file), ".html")] = set
	}
	return v, nil
}

// page renders a full page inside the layout.
func (v *views) page(name string, data Page) templ.Component {
	set, ok := v.pages[name]
	if !ok {
		panic("web: unknown page " + name)
	}
	return templ.FromGoHTML(set.Lookup("layout"), data)
}

// partial renders a named fragment without the layout.
func (v *views) partial(name string, data Page) templ.Component {
	t := v.base.Lookup(name)
	if t == nil {
		panic("web: unknown partial " + name)
	}
	return templ.FromGoHTML(t, data)
}

func viewFuncs() template.FuncMap {
	return template.FuncMap{
		"formatDate": formatDate,
		"capitalize": capitalize,
		"cssClass":   cssClass,
		"sortLink":   sortLink,
		"pageLink":   pageLink,
		"exportLink": exportLink,
		"csrfField":  csrfField,
		"methodField": func(method string) template.HTML {
			return template.HTML(`<input type="hidden" name="` + router.MethodOverrideField + `" value="` + template.HTMLEscapeString(method) + `">`)
		},
		"fieldError": fieldError,
		"old":        old,
		"query": func(p Page, key, fallback string) string {
			if v := p.Query.Get(key); v != "" {
				return v
			}
			return fallback
		},
		"add": func(a, b int) int { return a + b },
	}
}

func formatDate(t time.Time) string {
	return t.Format("Jan 02, 2006")
}

// capitalize turns an enum value like IN_PROGRESS into "In Progress".
// A Caser keeps state, so each call gets its own.
func capitalize(v any) string {
	s := strings.ReplaceAll(fmt.Sprint(v), "_", " ")
	return cases.Title(language.English).String(strings.ToLower(s))
}

func cssClass(v any) string {
	return strings.ReplaceAll(strings.ToLower(fmt.Sprint(v)), "_", "-")
}

// mergeQuery returns the page query with set applied and the partial flag
// dropped.
func mergeQuery(q url.Values, set map[string]string) string {
	merged := url.Values{}
	for k, v := range q {
		merged[k] = append([]string(nil), v...)
	}
	for k, v := range set {
		merged.Set(k, v)
	}
	merged.Del("partial")
	return merged.Encode()
}

// sortLink links to the list ordered by orderBy, flipping the current
// direction. def is the direction assumed when none is set.
func sortLink(p Page, orderBy, def string) string {
	order := strings.ToUpper(p.Query.Get("order"))
	if order == "" {
		order = strings.ToUpper(def)
	}
	if order == "ASC" {
		order = "DESC"
	} else {
		order = "ASC"
	}
	return p.Path + "?" + mergeQuery(p.Query, map[string]string{"orderBy": orderBy, "order": order})
}

// pageLink links to page n, an int or a pagination.Page.
func pageLink(p Page, n any) string {
	return p.Path + "?" + mergeQuery(p.Query, map[string]string{"p": fmt.Sprint(n)})
}

// exportLink points an export endpoint at the current filters.
func exportLink(p Page, path string) string {
	q := mergeQuery(p.Query, nil)
	if q == "" {
		return path
	}
	return path + "?" + q
}

func csrfField(p Page) template.HTML {
	return template.HTML(`<input type="hidden" name="` + middleware.CSRFFieldName + `" value="` + template.HTMLEscapeString(p.CSRF) + `">`)
}

// fieldError returns the first flashed error of field.
func fieldError(p Page, field string) string {
	if errs := p.Flash.Errors[field]; len(errs) > 0 {
		return errs[0]
	}
	return ""
}

// old returns the flashed input of field, or fallback when nothing was
// flashed.
func old(p Page, field string, fallback any) string {
	if v, ok := p.Flash.Old[field]; ok {
		return v
	}
	if fallback == nil {
		return ""
	}
	return fmt.Sprint(fallback)
}
