package domain

import (
	"slices"
	"strconv"
)

// Category is one of the fixed storefront product categories.
type Category string

// Product categories. CategoryAll is only meaningful as a filter.
const (
	CategoryAll         Category = "All"
	CategoryPhones      Category = "Phones"
	CategoryTVs         Category = "TVs"
	CategoryLaptops     Category = "Laptops"
	CategoryHeaters     Category = "Heaters"
	CategoryConsoles    Category = "Gaming Consoles"
	CategoryAccessories Category = "Accessories"
)

// Categories lists the assignable categories in display order.
var Categories = []Category{
	CategoryPhones,
	CategoryTVs,
	CategoryLaptops,
	CategoryHeaters,
	CategoryConsoles,
	CategoryAccessories,
}

// Valid reports whether c can be assigned to a product. The empty category
// means unset and is valid.
func (c Category) Valid() bool {
	return c == "" || slices.Contains(Categories, c)
}

// ValidFilter reports whether c can be used as a catalog filter.
func (c Category) ValidFilter() bool {
	return c == CategoryAll || slices.Contains(Categories, c)
}

// Product is a catalog entry as returned by the storefront API.
type Product struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Category    Category `json:"category"`
	ImagePath   string   `json:"image_path"`
	ExtraImages []string `json:"extra_images"`
	UserID      int64    `json:"user_id"`
	IsApproved  bool     `json:"is_approved"`
}

// ImageCount returns the number of images of the product, the primary image
// included.
func (p *Product) ImageCount() int {
	return 1 + len(p.ExtraImages)
}

// FormatPrice renders a price the way it is entered and matched: the shortest
// decimal representation, no trailing zeros.
func FormatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', -1, 64)
}
