// Package datasource declares the storefront API operations the controller
// consumes. Every call takes the session's bearer token; an empty token sends
// an anonymous request.
package datasource

import (
	"context"

	"github.com/Reagan-marera/imoflames-sub000/internal/domain"
)

// ProductFields are the scalar fields of a create or update request.
type ProductFields struct {
	Name        string
	Description string
	Price       string
	Category    domain.Category
	UserID      int64
}

// Catalog lists product pages.
type Catalog interface {
	ListProducts(ctx context.Context, q domain.QueryDescriptor, token string) (domain.CatalogPage, error)
}

// Products mutates the product collection.
type Products interface {
	CreateProduct(ctx context.Context, fields ProductFields, images []domain.Image, token string) (domain.Product, error)
	UpdateProduct(ctx context.Context, id int64, fields ProductFields, images []domain.Image, token string) (domain.Product, error)
	DeleteProduct(ctx context.Context, id int64, token string) error
}

// Cart manages the server-side cart of the token's user.
type Cart interface {
	ListCart(ctx context.Context, token string) ([]domain.CartItem, error)
	AddCartItem(ctx context.Context, productID int64, token string) error
	RemoveCartItem(ctx context.Context, productID int64, token string) error
	Checkout(ctx context.Context, details domain.CheckoutDetails, token string) error
	BuyNow(ctx context.Context, productID int64, details domain.CheckoutDetails, token string) error
}

// Users resolves the identity behind a token.
type Users interface {
	CurrentUser(ctx context.Context, token string) (domain.CurrentUser, error)
}

// DataSource is the complete storefront API.
type DataSource interface {
	Catalog
	Products
	Cart
	Users
}
