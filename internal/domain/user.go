package domain

// CurrentUser is the identity behind a session token.
type CurrentUser struct {
	ID      int64 `json:"id"`
	IsAdmin bool  `json:"is_admin"`
}

// CartItem is a product snapshot as listed by the cart endpoint.
type CartItem struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	ImagePath string  `json:"image_path"`
}

// CheckoutDetails are the delivery details collected before an order.
type CheckoutDetails struct {
	PhoneNumber string `json:"phone_number" validate:"notblank"`
	Email       string `json:"email" validate:"notblank"`
	Location    string `json:"location" validate:"notblank"`
}
