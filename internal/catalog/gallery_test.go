package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Reagan-marera/imoflames-sub000/internal/domain"
)

const uploads = "https://api.example.com/api/uploads/"

func galleryProduct() domain.Product {
	return domain.Product{ID: 4, ImagePath: "main.jpg", ExtraImages: []string{"a.jpg", "b.jpg"}}
}

func TestGallery_NothingSelected(t *testing.T) {
	g := NewGallery(uploads)

	assert.Empty(t, g.CurrentImage())
	assert.Zero(t, g.Next())
	assert.Zero(t, g.Previous())
	_, ok := g.Selected()
	assert.False(t, ok)
	assert.Nil(t, g.View().Product)
}

func TestGallery_CyclesThroughImages(t *testing.T) {
	g := NewGallery(uploads)
	g.Select(galleryProduct())

	assert.Equal(t, "https://api.example.com/api/uploads/main.jpg", g.CurrentImage())
	assert.Equal(t, 1, g.Next())
	assert.Equal(t, "https://api.example.com/api/uploads/a.jpg", g.CurrentImage())
	assert.Equal(t, 2, g.Next())
	assert.Equal(t, 0, g.Next())
	assert.Equal(t, 2, g.Previous())
	assert.Equal(t, "https://api.example.com/api/uploads/b.jpg", g.CurrentImage())
}

func TestGallery_RoundTrip(t *testing.T) {
	for extra := 0; extra < 5; extra++ {
		p := domain.Product{ID: 1, ImagePath: "m.jpg", ExtraImages: make([]string, extra)}
		n := p.ImageCount()

		for start := 0; start < n; start++ {
			g := NewGallery(uploads)
			g.Select(p)
			for i := 0; i < start; i++ {
				g.Next()
			}
			require.Equal(t, start, g.Index())

			g.Next()
			g.Previous()
			assert.Equal(t, start, g.Index())

			g.Previous()
			g.Next()
			assert.Equal(t, start, g.Index())

			for i := 0; i < 3*n; i++ {
				idx := g.Next()
				assert.True(t, idx >= 0 && idx < n)
			}
		}
	}
}

func TestGallery_SelectResetsIndex(t *testing.T) {
	g := NewGallery(uploads)
	g.Select(galleryProduct())
	g.Next()

	g.Select(domain.Product{ID: 9, ImagePath: "x.jpg"})
	assert.Zero(t, g.Index())

	g.Close()
	assert.Empty(t, g.CurrentImage())
}

func TestGallery_OutOfSyncIndexYieldsEmpty(t *testing.T) {
	g := NewGallery(uploads)
	g.Select(galleryProduct())
	g.Next()
	g.Next()

	g.mu.Lock()
	g.selected.ExtraImages = g.selected.ExtraImages[:1]
	g.mu.Unlock()

	assert.Empty(t, g.CurrentImage())
}

func TestGallery_Refresh(t *testing.T) {
	g := NewGallery(uploads)
	g.Select(galleryProduct())
	g.Next()
	g.Next()

	updated := domain.Product{ID: 4, Name: "new", ImagePath: "main.jpg", ExtraImages: []string{"a.jpg"}}
	g.Refresh(domain.CatalogPage{Items: []domain.Product{updated}})

	p, ok := g.Selected()
	require.True(t, ok)
	assert.Equal(t, "new", p.Name)
	assert.Zero(t, g.Index(), "index no longer fits and is reset")

	g.Next()
	g.Refresh(domain.CatalogPage{Items: []domain.Product{updated}})
	assert.Equal(t, 1, g.Index())

	g.Refresh(domain.CatalogPage{Items: products(1, 2)})
	_, ok = g.Selected()
	assert.False(t, ok, "deleted product closes the gallery")
}

func TestGallery_View(t *testing.T) {
	g := NewGallery(uploads)
	g.Select(galleryProduct())
	g.Previous()

	v := g.View()
	require.NotNil(t, v.Product)
	assert.Equal(t, 2, v.Index)
	assert.Equal(t, 3, v.ImageCount)
	assert.Equal(t, "https://api.example.com/api/uploads/b.jpg", v.Image)
}
