package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Reagan-marera/imoflames-sub000/internal/cart"
	"github.com/Reagan-marera/imoflames-sub000/internal/ui"
	apperrors "github.com/Reagan-marera/imoflames-sub000/pkg/errors"
	"github.com/Reagan-marera/imoflames-sub000/pkg/httputil"
)

// --- Request DTOs ---

// DeliveryRequest carries the delivery details of an order. Missing values
// count as a cancelled prompt.
type DeliveryRequest struct {
	PhoneNumber string `json:"phone_number"`
	Email       string `json:"email"`
	Location    string `json:"location"`
}

func (d DeliveryRequest) answers() ui.Answers {
	return ui.Answers{
		Confirmed: true,
		Values: map[string]string{
			cart.PromptPhone:    d.PhoneNumber,
			cart.PromptEmail:    d.Email,
			cart.PromptLocation: d.Location,
		},
	}
}

// decodeDelivery reads an optional delivery body.
func decodeDelivery(r *http.Request) (DeliveryRequest, error) {
	var req DeliveryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return DeliveryRequest{}, apperrors.InvalidInput("invalid request body: " + err.Error())
	}
	return req, nil
}

// --- Handlers ---

// GetCart handles GET /api/v1/cart
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	c := h.controller(r)
	if err := c.Cart().LoadCart(r.Context()); err != nil {
		h.fail(w, r, c, err)
		return
	}
	h.respond(w, c, http.StatusOK, c.CartView())
}

// AddItem handles POST /api/v1/cart/items/{id}
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	c := h.controller(r)
	if err := c.AddToCart(r.Context(), id); err != nil {
		h.fail(w, r, c, err)
		return
	}
	h.respond(w, c, http.StatusOK, c.CartView())
}

// RemoveItem handles DELETE /api/v1/cart/items/{id}
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	c := h.controller(r)
	if err := c.Cart().RemoveFromCart(r.Context(), id); err != nil {
		h.fail(w, r, c, err)
		return
	}
	h.respond(w, c, http.StatusOK, c.CartView())
}

// Checkout handles POST /api/v1/cart/checkout
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	c := h.controller(r)

	req, err := decodeDelivery(r)
	if err != nil {
		h.fail(w, r, c, err)
		return
	}
	if err := c.Cart().Checkout(r.Context(), req.answers()); err != nil {
		h.fail(w, r, c, err)
		return
	}
	h.respond(w, c, http.StatusOK, c.CartView())
}

// BuyNow handles POST /api/v1/buy/{id}
func (h *Handler) BuyNow(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	c := h.controller(r)

	req, err := decodeDelivery(r)
	if err != nil {
		h.fail(w, r, c, err)
		return
	}
	if err := c.BuyNow(r.Context(), id, req.answers()); err != nil {
		h.fail(w, r, c, err)
		return
	}
	h.respond(w, c, http.StatusOK, nil)
}
