package domain

// ViewportClass is the discrete viewport classification that fixes the
// catalog page size.
type ViewportClass string

const (
	ViewportNarrow ViewportClass = "narrow"
	ViewportWide   ViewportClass = "wide"
)

// Valid reports whether v is a known viewport class.
func (v ViewportClass) Valid() bool {
	return v == ViewportNarrow || v == ViewportWide
}

// QueryDescriptor determines one server page request.
type QueryDescriptor struct {
	Page     int      `json:"page"`
	Limit    int      `json:"limit"`
	Category Category `json:"category"`
	Search   string   `json:"search"`
}

// CatalogPage is one page of products plus the server's paging totals.
type CatalogPage struct {
	Items      []Product `json:"items"`
	TotalPages int       `json:"total_pages"`
	TotalItems int       `json:"total_items"`
}

// Index returns the position of the product with the given id, or -1.
func (p CatalogPage) Index(id int64) int {
	for i := range p.Items {
		if p.Items[i].ID == id {
			return i
		}
	}
	return -1
}

// Find returns the product with the given id.
func (p CatalogPage) Find(id int64) (Product, bool) {
	if i := p.Index(id); i >= 0 {
		return p.Items[i], true
	}
	return Product{}, false
}

// Replace swaps the product with the same id in place. It reports false when
// no such product is on the page.
func (p *CatalogPage) Replace(product Product) bool {
	i := p.Index(product.ID)
	if i < 0 {
		return false
	}
	items := make([]Product, len(p.Items))
	copy(items, p.Items)
	items[i] = product
	p.Items = items
	return true
}

// Insert adds a newly created product to the front of the page and counts it
// in the totals.
func (p *CatalogPage) Insert(product Product) {
	items := make([]Product, 0, len(p.Items)+1)
	items = append(items, product)
	items = append(items, p.Items...)
	p.Items = items
	p.TotalItems++
}

// Remove drops the product with the given id and decrements the total item
// count. It reports false when no such product is on the page.
func (p *CatalogPage) Remove(id int64) bool {
	i := p.Index(id)
	if i < 0 {
		return false
	}
	items := make([]Product, 0, len(p.Items)-1)
	items = append(items, p.Items[:i]...)
	items = append(items, p.Items[i+1:]...)
	p.Items = items
	if p.TotalItems > 0 {
		p.TotalItems--
	}
	return true
}

// Clone returns a copy whose item slice can be mutated independently.
func (p CatalogPage) Clone() CatalogPage {
	p.Items = append([]Product(nil), p.Items...)
	return p
}
