// Package pagination parses page/per_page query parameters into LIMIT/OFFSET values.
package pagination

import (
	"net/http"
	"strconv"
)

const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// Params holds normalized pagination parameters.
type Params struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
	Offset  int `json:"-"`
}

// New normalizes page and perPage. Out-of-range values fall back to the
// first page and DefaultPerPage.
func New(page, perPage int) Params {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > MaxPerPage {
		perPage = DefaultPerPage
	}
	return Params{Page: page, PerPage: perPage, Offset: (page - 1) * perPage}
}

// FromRequest reads ?page= and ?per_page= from r. Unparseable values are ignored.
func FromRequest(r *http.Request) Params {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	return New(page, perPage)
}

// TotalPages returns how many pages totalCount items span.
func (p Params) TotalPages(totalCount int) int {
	if p.PerPage <= 0 {
		return 0
	}
	pages := totalCount / p.PerPage
	if totalCount%p.PerPage > 0 {
		pages++
	}
	return pages
}
