package http

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Reagan-marera/imoflames-sub000/internal/domain"
	"github.com/Reagan-marera/imoflames-sub000/internal/product"
	"github.com/Reagan-marera/imoflames-sub000/internal/storefront"
	"github.com/Reagan-marera/imoflames-sub000/internal/ui"
	apperrors "github.com/Reagan-marera/imoflames-sub000/pkg/errors"
	"github.com/Reagan-marera/imoflames-sub000/pkg/httputil"
)

// Multipart form field names of a product form.
const (
	formName        = "name"
	formDescription = "description"
	formPrice       = "price"
	formCategory    = "category"
	formImages      = "images"
)

// productForm is a parsed product form.
type productForm struct {
	fields product.DraftFields
	images []domain.Image
}

// parseProductForm reads the multipart product form. Only fields present in
// the form are set.
func (h *Handler) parseProductForm(w http.ResponseWriter, r *http.Request) (productForm, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		return productForm{}, apperrors.InvalidInput("invalid product form: " + err.Error())
	}

	var form productForm
	values := r.MultipartForm.Value
	field := func(name string) *string {
		if v, ok := values[name]; ok && len(v) > 0 {
			return &v[0]
		}
		return nil
	}
	form.fields.Name = field(formName)
	form.fields.Description = field(formDescription)
	form.fields.Price = field(formPrice)
	if v := field(formCategory); v != nil {
		c := domain.Category(*v)
		form.fields.Category = &c
	}

	for _, fh := range r.MultipartForm.File[formImages] {
		f, err := fh.Open()
		if err != nil {
			return productForm{}, fmt.Errorf("open %s: %w", fh.Filename, err)
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			return productForm{}, fmt.Errorf("read %s: %w", fh.Filename, err)
		}
		form.images = append(form.images, domain.Image{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}
	return form, nil
}

// CreateProduct handles POST /api/v1/products
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	c := h.controller(r)

	form, err := h.parseProductForm(w, r)
	if err != nil {
		h.fail(w, r, c, err)
		return
	}

	ctx := r.Context()
	products := c.Products()
	if d, ok := products.Draft(); !ok || !d.IsNew() {
		if _, err := products.BeginCreate(ctx); err != nil {
			h.fail(w, r, c, err)
			return
		}
	}

	p, err := h.save(r, c, form)
	if err != nil {
		h.fail(w, r, c, err)
		return
	}
	h.respond(w, c, http.StatusCreated, p)
}

// UpdateProduct handles PUT /api/v1/products/{id}. The product must be in
// edit mode.
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	c := h.controller(r)

	form, err := h.parseProductForm(w, r)
	if err != nil {
		h.fail(w, r, c, err)
		return
	}

	if d, ok := c.Products().Draft(); !ok || d.ProductID != id {
		h.fail(w, r, c, apperrors.Conflict(product.MsgNoDraft))
		return
	}

	p, err := h.save(r, c, form)
	if err != nil {
		h.fail(w, r, c, err)
		return
	}
	h.respond(w, c, http.StatusOK, p)
}

func (h *Handler) save(r *http.Request, c *storefront.Controller, form productForm) (domain.Product, error) {
	ctx := r.Context()
	products := c.Products()
	if _, err := products.UpdateDraft(ctx, form.fields); err != nil {
		return domain.Product{}, err
	}
	if len(form.images) > 0 {
		if _, err := products.AttachImages(ctx, form.images); err != nil {
			return domain.Product{}, err
		}
	}
	return c.SaveProduct(ctx)
}

// BeginEdit handles POST /api/v1/products/{id}/edit
func (h *Handler) BeginEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	c := h.controller(r)
	d, err := c.Products().BeginEdit(r.Context(), id)
	if err != nil {
		h.fail(w, r, c, err)
		return
	}
	h.respond(w, c, http.StatusOK, d)
}

// CancelEdit handles DELETE /api/v1/products/{id}/edit
func (h *Handler) CancelEdit(w http.ResponseWriter, r *http.Request) {
	if _, ok := httputil.ParseID(w, chi.URLParam(r, "id")); !ok {
		return
	}
	c := h.controller(r)
	c.Products().CancelEdit()
	h.respond(w, c, http.StatusOK, nil)
}

// DeleteProduct handles DELETE /api/v1/products/{id}?confirm=true. Without
// confirmation nothing is deleted.
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	c := h.controller(r)

	confirmed := false
	if v := r.URL.Query().Get("confirm"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			h.fail(w, r, c, apperrors.InvalidInput("invalid confirm flag: "+v))
			return
		}
		confirmed = b
	}

	deleted, err := c.DeleteProduct(r.Context(), id, ui.Answers{Confirmed: confirmed})
	if err != nil {
		h.fail(w, r, c, err)
		return
	}
	h.respond(w, c, http.StatusOK, map[string]bool{"deleted": deleted})
}
