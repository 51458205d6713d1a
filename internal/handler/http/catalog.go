package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Reagan-marera/imoflames-sub000/internal/catalog"
	"github.com/Reagan-marera/imoflames-sub000/internal/domain"
	apperrors "github.com/Reagan-marera/imoflames-sub000/pkg/errors"
	"github.com/Reagan-marera/imoflames-sub000/pkg/httputil"
	"github.com/Reagan-marera/imoflames-sub000/pkg/pagination"
	"github.com/Reagan-marera/imoflames-sub000/pkg/validator"
)

// --- Request DTOs ---

// QueryRequest is the JSON body of a catalog query change. Absent fields are
// left alone.
type QueryRequest struct {
	Page     *int             `json:"page" validate:"omitempty,gte=1"`
	Category *domain.Category `json:"category"`
	Search   *string          `json:"search" validate:"omitempty,max=200"`
}

// ViewportRequest is the JSON body of a viewport change.
type ViewportRequest struct {
	Viewport domain.ViewportClass `json:"viewport" validate:"required,oneof=narrow wide"`
}

// --- Handlers ---

// GetCatalog handles GET /api/v1/catalog. An optional ?page= jumps to that
// page.
func (h *Handler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	c := h.controller(r)

	var (
		fetched bool
		err     error
	)
	if page, ok := pagination.PageFromRequest(r); ok {
		fetched, err = c.ApplyQuery(r.Context(), catalog.QueryUpdate{Page: &page})
	}
	if !fetched {
		err = c.Load(r.Context())
	}
	if h.aborted(r, err) {
		return
	}
	h.respond(w, c, http.StatusOK, c.View())
}

// RefreshCatalog handles POST /api/v1/catalog/refresh
func (h *Handler) RefreshCatalog(w http.ResponseWriter, r *http.Request) {
	c := h.controller(r)
	if err := c.Refresh(r.Context()); h.aborted(r, err) {
		return
	}
	h.respond(w, c, http.StatusOK, c.View())
}

// UpdateQuery handles PUT /api/v1/catalog/query
func (h *Handler) UpdateQuery(w http.ResponseWriter, r *http.Request) {
	c := h.controller(r)

	var req QueryRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		h.fail(w, r, c, err)
		return
	}
	if req.Category != nil && *req.Category != "" && !req.Category.ValidFilter() {
		h.fail(w, r, c, invalidCategory(*req.Category))
		return
	}

	_, err := c.ApplyQuery(r.Context(), catalog.QueryUpdate{
		Page:     req.Page,
		Category: req.Category,
		Search:   req.Search,
	})
	if h.aborted(r, err) {
		return
	}
	h.respond(w, c, http.StatusOK, c.View())
}

// SetViewport handles PUT /api/v1/catalog/viewport
func (h *Handler) SetViewport(w http.ResponseWriter, r *http.Request) {
	c := h.controller(r)

	var req ViewportRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		h.fail(w, r, c, err)
		return
	}

	if _, err := c.SetViewport(r.Context(), req.Viewport); h.aborted(r, err) {
		return
	}
	h.respond(w, c, http.StatusOK, c.View())
}

// aborted reports whether the client went away during the fetch. A failed or
// superseded fetch is not an abort: the view carries the error and notice.
func (h *Handler) aborted(r *http.Request, err error) bool {
	return err != nil && r.Context().Err() != nil
}

func invalidCategory(c domain.Category) error {
	return apperrors.InvalidInput("unknown category " + strconv.Quote(string(c)))
}

// --- Gallery ---

// GetGallery handles GET /api/v1/gallery
func (h *Handler) GetGallery(w http.ResponseWriter, r *http.Request) {
	c := h.controller(r)
	h.respond(w, c, http.StatusOK, c.Gallery())
}

// SelectProduct handles POST /api/v1/gallery/{id}
func (h *Handler) SelectProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	c := h.controller(r)
	view, err := c.SelectProduct(id)
	if err != nil {
		h.fail(w, r, c, err)
		return
	}
	h.respond(w, c, http.StatusOK, view)
}

// NextImage handles POST /api/v1/gallery/next
func (h *Handler) NextImage(w http.ResponseWriter, r *http.Request) {
	c := h.controller(r)
	h.respond(w, c, http.StatusOK, c.NextImage())
}

// PreviousImage handles POST /api/v1/gallery/previous
func (h *Handler) PreviousImage(w http.ResponseWriter, r *http.Request) {
	c := h.controller(r)
	h.respond(w, c, http.StatusOK, c.PreviousImage())
}

// CloseGallery handles DELETE /api/v1/gallery
func (h *Handler) CloseGallery(w http.ResponseWriter, r *http.Request) {
	c := h.controller(r)
	c.CloseGallery()
	h.respond(w, c, http.StatusOK, c.Gallery())
}
