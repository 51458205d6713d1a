package catalog

import (
	"strings"
	"sync"

	"github.com/Reagan-marera/imoflames-sub000/internal/domain"
)

// Gallery navigates the images of the selected product. Index 0 is the
// primary image; 1..N are the extra images in order.
type Gallery struct {
	uploadsURL string

	mu       sync.Mutex
	selected *domain.Product
	index    int
}

// GalleryView is a snapshot of the gallery for rendering.
type GalleryView struct {
	Product    *domain.Product `json:"product,omitempty"`
	Index      int             `json:"index"`
	ImageCount int             `json:"image_count"`
	Image      string          `json:"image,omitempty"`
}

// NewGallery creates a gallery resolving image references against
// uploadsURL, e.g. https://api.example.com/api/uploads.
func NewGallery(uploadsURL string) *Gallery {
	return &Gallery{uploadsURL: strings.TrimRight(uploadsURL, "/")}
}

// Select shows p starting at its primary image.
func (g *Gallery) Select(p domain.Product) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.selected = &p
	g.index = 0
}

// Close clears the selection.
func (g *Gallery) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.selected = nil
	g.index = 0
}

// Next moves to the following image, wrapping to the primary image.
func (g *Gallery) Next() int {
	return g.move(1)
}

// Previous moves to the preceding image, wrapping to the last one.
func (g *Gallery) Previous() int {
	return g.move(-1)
}

func (g *Gallery) move(delta int) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.selected == nil {
		return 0
	}
	n := g.selected.ImageCount()
	g.index = ((g.index+delta)%n + n) % n
	return g.index
}

// Index returns the current image index.
func (g *Gallery) Index() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.index
}

// Selected returns the selected product.
func (g *Gallery) Selected() (domain.Product, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.selected == nil {
		return domain.Product{}, false
	}
	return *g.selected, true
}

// CurrentImage returns the URL of the current image, or "" when nothing is
// selected or the index no longer fits the product's images.
func (g *Gallery) CurrentImage() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.currentImageLocked()
}

func (g *Gallery) currentImageLocked() string {
	if g.selected == nil {
		return ""
	}
	var ref string
	switch {
	case g.index == 0:
		ref = g.selected.ImagePath
	case g.index > 0 && g.index <= len(g.selected.ExtraImages):
		ref = g.selected.ExtraImages[g.index-1]
	}
	if ref == "" {
		return ""
	}
	return g.uploadsURL + "/" + strings.TrimLeft(ref, "/")
}

// Refresh follows changes to the base set: the selection is replaced by the
// product's new version, and the gallery closes when the product is gone. An
// index that no longer fits is reset to the primary image.
func (g *Gallery) Refresh(page domain.CatalogPage) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.selected == nil {
		return
	}
	p, ok := page.Find(g.selected.ID)
	if !ok {
		g.selected = nil
		g.index = 0
		return
	}
	g.selected = &p
	if g.index >= p.ImageCount() {
		g.index = 0
	}
}

// View returns a snapshot for rendering.
func (g *Gallery) View() GalleryView {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.selected == nil {
		return GalleryView{}
	}
	p := *g.selected
	return GalleryView{
		Product:    &p,
		Index:      g.index,
		ImageCount: p.ImageCount(),
		Image:      g.currentImageLocked(),
	}
}
