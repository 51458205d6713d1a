package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageFromRequest(t *testing.T) {
	tests := []struct {
		query    string
		wantPage int
		wantOK   bool
	}{
		{"", 0, false},
		{"page=3", 3, true},
		{"page=0", 1, true},
		{"page=-2", 1, true},
		{"page=abc", 0, false},
		{"search=x", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog?"+tt.query, nil)
			page, ok := PageFromRequest(req)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantPage, page)
		})
	}
}

func TestClampPage(t *testing.T) {
	assert.Equal(t, 1, ClampPage(-5))
	assert.Equal(t, 1, ClampPage(0))
	assert.Equal(t, 4, ClampPage(4))
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 6))
	assert.Equal(t, 1, TotalPages(6, 6))
	assert.Equal(t, 2, TotalPages(7, 6))
	assert.Equal(t, 0, TotalPages(10, 0))
}

func TestNewPager(t *testing.T) {
	first := NewPager(1, 3)
	assert.False(t, first.HasPrev)
	assert.True(t, first.HasNext)

	last := NewPager(3, 3)
	assert.True(t, last.HasPrev)
	assert.False(t, last.HasNext)

	empty := NewPager(1, 0)
	assert.False(t, empty.HasPrev)
	assert.False(t, empty.HasNext)
}
