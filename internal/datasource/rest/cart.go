package rest

import (
	"context"
	"net/http"

	"github.com/Reagan-marera/imoflames-sub000/internal/domain"
)

// ListCart returns the items in the user's cart.
func (c *Client) ListCart(ctx context.Context, token string) ([]domain.CartItem, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/cart", http.NoBody, token)
	if err != nil {
		return nil, err
	}

	items := []domain.CartItem{}
	if err := c.do(ctx, "list cart", req, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.CartItem{}
	}
	return items, nil
}

// AddCartItem adds one product to the cart.
func (c *Client) AddCartItem(ctx context.Context, productID int64, token string) error {
	req, err := c.newRequest(ctx, http.MethodPost, idPath("/api/cart/add/", productID), http.NoBody, token)
	if err != nil {
		return err
	}
	return c.do(ctx, "add cart item", req, nil)
}

// RemoveCartItem removes a product from the cart.
func (c *Client) RemoveCartItem(ctx context.Context, productID int64, token string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, idPath("/api/cart/remove/", productID), http.NoBody, token)
	if err != nil {
		return err
	}
	return c.do(ctx, "remove cart item", req, nil)
}

// Checkout places an order for the whole cart.
func (c *Client) Checkout(ctx context.Context, details domain.CheckoutDetails, token string) error {
	return c.doJSON(ctx, "checkout", http.MethodPost, "/api/cart/checkout", details, token)
}

// BuyNow places an order for a single product.
func (c *Client) BuyNow(ctx context.Context, productID int64, details domain.CheckoutDetails, token string) error {
	return c.doJSON(ctx, "buy product", http.MethodPost, idPath("/api/buy/", productID), details, token)
}
