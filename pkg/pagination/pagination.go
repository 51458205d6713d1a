package pagination

import (
	"net/http"
	"strconv"
)

// PageFromRequest reads the page query parameter. ok is false when the
// parameter is absent or not a number; pages below 1 are clamped.
func PageFromRequest(r *http.Request) (page int, ok bool) {
	raw := r.URL.Query().Get("page")
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return ClampPage(v), true
}

// ClampPage returns page, or 1 when page is below 1.
func ClampPage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// TotalPages returns the number of pages needed for totalItems.
func TotalPages(totalItems, limit int) int {
	if limit <= 0 || totalItems <= 0 {
		return 0
	}
	pages := totalItems / limit
	if totalItems%limit > 0 {
		pages++
	}
	return pages
}

// Pager describes the page controls rendered under a listing.
type Pager struct {
	Page       int  `json:"page"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// NewPager builds the page controls for page out of totalPages.
func NewPager(page, totalPages int) Pager {
	page = ClampPage(page)
	return Pager{
		Page:       page,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}
