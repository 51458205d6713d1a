// Package catalog holds the catalog browsing state: the query model, the
// fetch coordinator, client-side refinement, the featured carousel and the
// product gallery.
package catalog

import (
	"sync"

	"github.com/Reagan-marera/imoflames-sub000/internal/domain"
	"github.com/Reagan-marera/imoflames-sub000/pkg/pagination"
)

// PageSizes maps viewport classes to catalog page sizes.
type PageSizes struct {
	Narrow int
	Wide   int
}

// DefaultPageSizes returns the page sizes used when none are configured.
func DefaultPageSizes() PageSizes {
	return PageSizes{Narrow: 6, Wide: 12}
}

func (s PageSizes) limit(v domain.ViewportClass) int {
	if v == domain.ViewportNarrow {
		return s.Narrow
	}
	return s.Wide
}

// QueryModel holds the catalog query. Every setter reports whether the
// descriptor changed, so callers fetch only on real transitions.
type QueryModel struct {
	mu       sync.RWMutex
	sizes    PageSizes
	viewport domain.ViewportClass
	q        domain.QueryDescriptor
}

// NewQueryModel creates a query model on page 1 of all categories.
func NewQueryModel(sizes PageSizes, viewport domain.ViewportClass) *QueryModel {
	if !viewport.Valid() {
		viewport = domain.ViewportWide
	}
	return &QueryModel{
		sizes:    sizes,
		viewport: viewport,
		q: domain.QueryDescriptor{
			Page:     1,
			Limit:    sizes.limit(viewport),
			Category: domain.CategoryAll,
		},
	}
}

// Descriptor returns the current query descriptor.
func (m *QueryModel) Descriptor() domain.QueryDescriptor {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.q
}

// Viewport returns the current viewport class.
func (m *QueryModel) Viewport() domain.ViewportClass {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.viewport
}

// SetPage moves to page, clamped to 1. Category and search are untouched.
func (m *QueryModel) SetPage(page int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setPage(page)
}

func (m *QueryModel) setPage(page int) bool {
	page = pagination.ClampPage(page)
	if page == m.q.Page {
		return false
	}
	m.q.Page = page
	return true
}

// SetCategory filters by category and returns to page 1. The empty category
// selects all.
func (m *QueryModel) SetCategory(c domain.Category) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setCategory(c)
}

func (m *QueryModel) setCategory(c domain.Category) bool {
	if c == "" {
		c = domain.CategoryAll
	}
	if c == m.q.Category {
		return false
	}
	m.q.Category = c
	m.q.Page = 1
	return true
}

// SetSearch changes the search text and returns to page 1.
func (m *QueryModel) SetSearch(s string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setSearch(s)
}

func (m *QueryModel) setSearch(s string) bool {
	if s == m.q.Search {
		return false
	}
	m.q.Search = s
	m.q.Page = 1
	return true
}

// SetViewport switches the viewport class. A class change resizes the page
// and returns to page 1, since the old page number addresses different items.
func (m *QueryModel) SetViewport(v domain.ViewportClass) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !v.Valid() || v == m.viewport {
		return false
	}
	m.viewport = v
	limit := m.sizes.limit(v)
	if limit == m.q.Limit {
		return false
	}
	m.q.Limit = limit
	m.q.Page = 1
	return true
}

// QueryUpdate carries the fields of a combined query change. Nil fields are
// left alone.
type QueryUpdate struct {
	Page     *int
	Category *domain.Category
	Search   *string
}

// Apply applies u atomically. A category or search change wins over a
// requested page, which then stays at 1.
func (m *QueryModel) Apply(u QueryUpdate) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	changed := false
	if u.Category != nil && m.setCategory(*u.Category) {
		changed = true
	}
	if u.Search != nil && m.setSearch(*u.Search) {
		changed = true
	}
	if u.Page != nil && !changed {
		changed = m.setPage(*u.Page)
	}
	return changed
}
