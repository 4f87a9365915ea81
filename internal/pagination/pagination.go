package pagination

import (
	"net/http"
	"strconv"
)

const (
	DefaultSize = 10
	MaxSize     = 100
)

// Params is a parsed page request.
type Params struct {
	Page int
	Size int
}

// Parse reads page/size from the query string. Out-of-range values are
// clamped rather than rejected.
func Parse(r *http.Request) Params {
	p := Params{Page: 1, Size: DefaultSize}
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		p.Page = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("size")); err == nil && v > 0 {
		p.Size = v
	}
	if p.Size > MaxSize {
		p.Size = MaxSize
	}
	return p
}

// Offset returns the SQL offset for the page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Size
}

// Page is the list response envelope. An empty result set reports page 0 and
// pages 0 so clients can distinguish "nothing at all" from "past the end".
type Page struct {
	Total int         `json:"total"`
	Page  int         `json:"page"`
	Size  int         `json:"size"`
	Pages int         `json:"pages"`
	Items interface{} `json:"items"`
}

// NewPage wraps items with paging metadata. Items must be a non-nil slice so
// the JSON field is [] rather than null.
func NewPage(total int, p Params, items interface{}) Page {
	page := Page{
		Total: total,
		Page:  p.Page,
		Size:  p.Size,
		Items: items,
	}
	if total == 0 {
		page.Page = 0
		page.Pages = 0
		return page
	}
	page.Pages = (total + p.Size - 1) / p.Size
	return page
}
