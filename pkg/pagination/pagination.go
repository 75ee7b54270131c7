// Package pagination computes page windows for list views.
package pagination

import "strconv"

// Page is a page number. The zero value is an ellipsis marker.
type Page int

// Ellipsis stands for a run of hidden pages.
const Ellipsis Page = 0

// IsEllipsis reports whether p is a gap marker rather than a page number.
func (p Page) IsEllipsis() bool {
	return p == Ellipsis
}

func (p Page) String() string {
	if p.IsEllipsis() {
		return "..."
	}
	return strconv.Itoa(int(p))
}

// Generate returns the page links for a pager with totalPages pages where
// current is the active page. Up to seven pages are listed in full; beyond
// that the window collapses around the first, last and current pages.
func Generate(totalPages, current int) []Page {
	if totalPages <= 0 {
		return nil
	}
	if totalPages <= 7 {
		return span(1, totalPages)
	}

	n := totalPages
	switch {
	case current <= 3:
		return append(span(1, 4), Ellipsis, Page(n-1), Page(n))
	case current >= n-2:
		return append([]Page{1, 2, Ellipsis}, span(n-3, n)...)
	default:
		return []Page{1, Ellipsis, Page(current - 1), Page(current), Page(current + 1), Ellipsis, Page(n)}
	}
}

// TotalPages returns how many pages of perPage items are needed for total items.
func TotalPages(total, perPage int) int {
	if perPage <= 0 || total <= 0 {
		return 0
	}
	return (total + perPage - 1) / perPage
}

// Clamp limits page to [1, totalPages]. With no pages it returns 1.
func Clamp(page, totalPages int) int {
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	return page
}

// Offset returns the number of rows to skip for page.
func Offset(page, perPage int) int {
	if page < 1 {
		return 0
	}
	return (page - 1) * perPage
}

func span(from, to int) []Page {
	pages := make([]Page, 0, to-from+1)
	for i := from; i <= to; i++ {
		pages = append(pages, Page(i))
	}
	return pages
}
