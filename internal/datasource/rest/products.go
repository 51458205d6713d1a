package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"

	"github.com/Reagan-marera/imoflames-sub000/internal/datasource"
	"github.com/Reagan-marera/imoflames-sub000/internal/domain"
	"github.com/Reagan-marera/imoflames-sub000/pkg/pagination"
)

// listResponse accepts the paged shape as well as the older {products: [...]}
// and bare-array shapes of the products endpoint.
type listResponse struct {
	Items      []domain.Product `json:"items"`
	Products   []domain.Product `json:"products"`
	TotalPages int              `json:"totalPages"`
	TotalItems int              `json:"totalItems"`
}

func (r *listResponse) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		return json.Unmarshal(data, &r.Items)
	}
	type plain listResponse
	return json.Unmarshal(data, (*plain)(r))
}

func (r *listResponse) page(limit int) domain.CatalogPage {
	items := r.Items
	if items == nil {
		items = r.Products
	}
	if items == nil {
		items = []domain.Product{}
	}

	page := domain.CatalogPage{Items: items, TotalPages: r.TotalPages, TotalItems: r.TotalItems}
	if page.TotalItems == 0 {
		page.TotalItems = len(items)
	}
	if page.TotalPages == 0 {
		page.TotalPages = max(pagination.TotalPages(page.TotalItems, limit), 1)
	}
	return page
}

// ListProducts fetches one catalog page.
func (c *Client) ListProducts(ctx context.Context, q domain.QueryDescriptor, token string) (domain.CatalogPage, error) {
	values := url.Values{}
	values.Set("page", strconv.Itoa(q.Page))
	values.Set("limit", strconv.Itoa(q.Limit))
	if q.Category != "" && q.Category != domain.CategoryAll {
		values.Set("category", string(q.Category))
	}
	if q.Search != "" {
		values.Set("search", q.Search)
	}

	req, err := c.newRequest(ctx, http.MethodGet, "/api/products"+query(values), http.NoBody, token)
	if err != nil {
		return domain.CatalogPage{}, err
	}

	var resp listResponse
	if err := c.do(ctx, "list products", req, &resp); err != nil {
		return domain.CatalogPage{}, err
	}
	return resp.page(q.Limit), nil
}

// CreateProduct uploads a new product.
func (c *Client) CreateProduct(ctx context.Context, fields datasource.ProductFields, images []domain.Image, token string) (domain.Product, error) {
	return c.sendProduct(ctx, "create product", http.MethodPost, "/api/products", fields, images, token)
}

// UpdateProduct replaces the fields of an existing product. New images are
// appended by the server.
func (c *Client) UpdateProduct(ctx context.Context, id int64, fields datasource.ProductFields, images []domain.Image, token string) (domain.Product, error) {
	return c.sendProduct(ctx, "update product", http.MethodPut, idPath("/api/products/", id), fields, images, token)
}

// DeleteProduct removes a product.
func (c *Client) DeleteProduct(ctx context.Context, id int64, token string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, idPath("/api/products/", id), http.NoBody, token)
	if err != nil {
		return err
	}
	return c.do(ctx, "delete product", req, nil)
}

func (c *Client) sendProduct(ctx context.Context, op, method, path string, fields datasource.ProductFields, images []domain.Image, token string) (domain.Product, error) {
	body, contentType, err := encodeProduct(fields, images)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	req, err := c.newRequest(ctx, method, path, bytes.NewReader(body), token)
	if err != nil {
		return domain.Product{}, err
	}
	req.Header.Set("Content-Type", contentType)

	var product domain.Product
	if err := c.do(ctx, op, req, &product); err != nil {
		return domain.Product{}, err
	}
	return product, nil
}

// encodeProduct builds the multipart form of a product upload.
func encodeProduct(fields datasource.ProductFields, images []domain.Image) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	scalars := [][2]string{
		{"name", fields.Name},
		{"description", fields.Description},
		{"price", fields.Price},
		{"category", string(fields.Category)},
		{"user_id", strconv.FormatInt(fields.UserID, 10)},
	}
	for _, kv := range scalars {
		if err := w.WriteField(kv[0], kv[1]); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", kv[0], err)
		}
	}

	for _, img := range images {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="images"; filename=%q`, img.Filename))
		h.Set("Content-Type", img.ContentType)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("create image part: %w", err)
		}
		if _, err := part.Write(img.Data); err != nil {
			return nil, "", fmt.Errorf("write image %s: %w", img.Filename, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart body: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
