package domain

// MaxDraftImages caps the number of images attached to one draft.
const MaxDraftImages = 10

// Image is an image file pending upload.
type Image struct {
	Filename    string
	ContentType string
	Data        []byte
}

// EditDraft is the working copy of a product being created or edited. A zero
// ProductID means the draft creates a new product. Price is kept as entered.
type EditDraft struct {
	ProductID   int64    `json:"product_id,omitempty"`
	Name        string   `json:"name" validate:"notblank,max=255"`
	Description string   `json:"description" validate:"max=5000"`
	Price       string   `json:"price" validate:"notblank"`
	Category    Category `json:"category"`
	Images      []Image  `json:"-"`
}

// IsNew reports whether the draft creates a product.
func (d *EditDraft) IsNew() bool {
	return d.ProductID == 0
}

// DraftFrom opens a draft over an existing product.
func DraftFrom(p Product) *EditDraft {
	return &EditDraft{
		ProductID:   p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       FormatPrice(p.Price),
		Category:    p.Category,
	}
}
