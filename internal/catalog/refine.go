package catalog

import (
	"strconv"
	"strings"

	"github.com/Reagan-marera/imoflames-sub000/internal/domain"
)

// Refine derives the displayed products from a server page. A product is kept
// when the category filter is All or equal to its category, and the search
// text is empty or a case-insensitive substring of its name, description,
// category, price, owner id or any extra image reference.
//
// The server already filtered by the same search text; this pass is broader
// and both are kept.
func Refine(page domain.CatalogPage, category domain.Category, search string) []domain.Product {
	needle := strings.ToLower(search)

	out := make([]domain.Product, 0, len(page.Items))
	for _, p := range page.Items {
		if category != "" && category != domain.CategoryAll && p.Category != category {
			continue
		}
		if needle != "" && !matches(p, needle) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func matches(p domain.Product, needle string) bool {
	fields := []string{
		strings.ToLower(p.Name),
		strings.ToLower(p.Description),
		strings.ToLower(string(p.Category)),
		domain.FormatPrice(p.Price),
		strconv.FormatInt(p.UserID, 10),
	}
	for _, f := range fields {
		if strings.Contains(f, needle) {
			return true
		}
	}
	for _, img := range p.ExtraImages {
		if strings.Contains(strings.ToLower(img), needle) {
			return true
		}
	}
	return false
}
