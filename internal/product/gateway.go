// Package product runs create, update and delete of catalog products. The
// local page is reconciled only with what the API returned.
package product

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/Reagan-marera/imoflames-sub000/internal/catalog"
	"github.com/Reagan-marera/imoflames-sub000/internal/datasource"
	"github.com/Reagan-marera/imoflames-sub000/internal/domain"
	"github.com/Reagan-marera/imoflames-sub000/internal/session"
	"github.com/Reagan-marera/imoflames-sub000/internal/ui"
	apperrors "github.com/Reagan-marera/imoflames-sub000/pkg/errors"
)

// RowState is the state of one product row.
type RowState string

const (
	StateViewing       RowState = "viewing"
	StateEditing       RowState = "editing"
	StatePendingDelete RowState = "pending_delete"
)

// Page is the catalog page the gateway reconciles.
type Page interface {
	Page() domain.CatalogPage
	Reconcile(fn func(*domain.CatalogPage) bool) bool
}

// DraftFields are the editable scalar fields of a draft. Nil fields are left
// alone.
type DraftFields struct {
	Name        *string
	Description *string
	Price       *string
	Category    *domain.Category
}

// Gateway owns the single active draft and the row states of one session.
type Gateway struct {
	source   datasource.Products
	sessions session.Provider
	page     Page
	images   *ImageProcessor
	notifier ui.Notifier
	logger   *slog.Logger

	mu            sync.Mutex
	draft         *domain.EditDraft
	pendingDelete int64
}

// NewGateway creates a product gateway.
func NewGateway(
	source datasource.Products,
	sessions session.Provider,
	page Page,
	images *ImageProcessor,
	notifier ui.Notifier,
	logger *slog.Logger,
) *Gateway {
	return &Gateway{
		source:   source,
		sessions: sessions,
		page:     page,
		images:   images,
		notifier: notifier,
		logger:   logger,
	}
}

// State returns the row state of the product with the given id.
func (g *Gateway) State(id int64) RowState {
	g.mu.Lock()
	defer g.mu.Unlock()
	switch {
	case g.draft != nil && !g.draft.IsNew() && g.draft.ProductID == id:
		return StateEditing
	case g.pendingDelete == id && id != 0:
		return StatePendingDelete
	default:
		return StateViewing
	}
}

// Draft returns a copy of the active draft.
func (g *Gateway) Draft() (domain.EditDraft, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.draft == nil {
		return domain.EditDraft{}, false
	}
	d := *g.draft
	d.Images = append([]domain.Image(nil), g.draft.Images...)
	return d, true
}

// BeginCreate opens an empty draft for a new product.
func (g *Gateway) BeginCreate(ctx context.Context) (domain.EditDraft, error) {
	if !g.sessions.Current().Authenticated() {
		return domain.EditDraft{}, g.reject(ctx, apperrors.AuthRequired(MsgLoginRequired))
	}

	g.mu.Lock()
	if g.draft != nil {
		g.mu.Unlock()
		return domain.EditDraft{}, g.reject(ctx, apperrors.Conflict(MsgDraftActive))
	}
	g.draft = &domain.EditDraft{}
	d := *g.draft
	g.mu.Unlock()
	return d, nil
}

// BeginEdit opens a draft over the product with the given id. The user must
// be allowed to modify it and the row must be Viewing.
func (g *Gateway) BeginEdit(ctx context.Context, id int64) (domain.EditDraft, error) {
	p, err := g.modifiable(ctx, id)
	if err != nil {
		return domain.EditDraft{}, err
	}

	g.mu.Lock()
	switch {
	case g.draft != nil:
		g.mu.Unlock()
		return domain.EditDraft{}, g.reject(ctx, apperrors.Conflict(MsgDraftActive))
	case g.pendingDelete == id:
		g.mu.Unlock()
		return domain.EditDraft{}, g.reject(ctx, apperrors.Conflict(MsgDeletePending))
	}
	g.draft = domain.DraftFrom(p)
	d := *g.draft
	g.mu.Unlock()
	return d, nil
}

// UpdateDraft changes the scalar fields of the active draft.
func (g *Gateway) UpdateDraft(ctx context.Context, f DraftFields) (domain.EditDraft, error) {
	if f.Category != nil && !f.Category.Valid() {
		return domain.EditDraft{}, g.reject(ctx, apperrors.InvalidInput(MsgBadCategory))
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.draft == nil {
		return domain.EditDraft{}, apperrors.Conflict(MsgNoDraft)
	}
	if f.Name != nil {
		g.draft.Name = *f.Name
	}
	if f.Description != nil {
		g.draft.Description = *f.Description
	}
	if f.Price != nil {
		g.draft.Price = *f.Price
	}
	if f.Category != nil {
		g.draft.Category = *f.Category
	}
	return *g.draft, nil
}

// AttachImages checks, downscales and adds images to the active draft. No
// image is added when any of them is rejected.
func (g *Gateway) AttachImages(ctx context.Context, images []domain.Image) (int, error) {
	g.mu.Lock()
	if g.draft == nil {
		g.mu.Unlock()
		return 0, apperrors.Conflict(MsgNoDraft)
	}
	have := len(g.draft.Images)
	g.mu.Unlock()

	if have+len(images) > domain.MaxDraftImages {
		return have, g.reject(ctx, apperrors.InvalidInput(MsgTooManyImages))
	}

	prepared := make([]domain.Image, 0, len(images))
	for _, img := range images {
		out, err := g.images.Prepare(img)
		if err != nil {
			return have, g.reject(ctx, err)
		}
		prepared = append(prepared, out)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.draft == nil {
		return 0, apperrors.Conflict(MsgNoDraft)
	}
	if len(g.draft.Images)+len(prepared) > domain.MaxDraftImages {
		return len(g.draft.Images), apperrors.InvalidInput(MsgTooManyImages)
	}
	g.draft.Images = append(g.draft.Images, prepared...)
	return len(g.draft.Images), nil
}

// CancelEdit discards the active draft.
func (g *Gateway) CancelEdit() {
	g.mu.Lock()
	g.draft = nil
	g.mu.Unlock()
}

// Save submits the active draft. Name and price are checked locally first.
// On success the returned product is inserted or replaced by id, and the
// draft is discarded; on failure the draft and the page stay as they were.
func (g *Gateway) Save(ctx context.Context) (domain.Product, error) {
	d, ok := g.Draft()
	if !ok {
		return domain.Product{}, apperrors.Conflict(MsgNoDraft)
	}

	fields, err := g.fields(d)
	if err != nil {
		return domain.Product{}, g.reject(ctx, err)
	}

	s := g.sessions.Current()
	if d.IsNew() {
		return g.create(ctx, s, fields, d.Images)
	}
	return g.update(ctx, s, d.ProductID, fields, d.Images)
}

func (g *Gateway) create(ctx context.Context, s session.Session, fields datasource.ProductFields, images []domain.Image) (domain.Product, error) {
	p, err := g.source.CreateProduct(ctx, fields, images, s.Token())
	if err != nil {
		return domain.Product{}, g.fail(ctx, "create product", err, MsgCreateFailed, MsgCreateNetwork)
	}

	g.page.Reconcile(func(page *domain.CatalogPage) bool {
		page.Insert(p)
		return true
	})
	g.finishDraft()

	g.logger.InfoContext(ctx, "product created", slog.Int64("product_id", p.ID))
	g.notifier.Notify(ctx, MsgCreated, ui.LevelSuccess)
	return p, nil
}

func (g *Gateway) update(ctx context.Context, s session.Session, id int64, fields datasource.ProductFields, images []domain.Image) (domain.Product, error) {
	p, err := g.source.UpdateProduct(ctx, id, fields, images, s.Token())
	if err != nil {
		return domain.Product{}, g.fail(ctx, "update product", err, MsgUpdateFailed, MsgUpdateNetwork)
	}
	if p.ID == 0 {
		p.ID = id
	}

	g.page.Reconcile(func(page *domain.CatalogPage) bool {
		return page.Replace(p)
	})
	g.finishDraft()

	g.logger.InfoContext(ctx, "product updated", slog.Int64("product_id", p.ID))
	g.notifier.Notify(ctx, MsgUpdated, ui.LevelSuccess)
	return p, nil
}

// Delete asks for confirmation and deletes the product. A declined
// confirmation returns the row to Viewing without a request and without an
// error.
func (g *Gateway) Delete(ctx context.Context, id int64, prompter ui.Prompter) (bool, error) {
	if _, err := g.modifiable(ctx, id); err != nil {
		return false, err
	}

	g.mu.Lock()
	switch {
	case g.draft != nil && g.draft.ProductID == id:
		g.mu.Unlock()
		return false, g.reject(ctx, apperrors.Conflict(MsgDraftActive))
	case g.pendingDelete != 0:
		g.mu.Unlock()
		return false, g.reject(ctx, apperrors.Conflict(MsgDeletePending))
	}
	g.pendingDelete = id
	g.mu.Unlock()

	defer func() {
		g.mu.Lock()
		g.pendingDelete = 0
		g.mu.Unlock()
	}()

	confirmed, err := prompter.Confirm(ctx, MsgConfirmDelete)
	if err != nil {
		return false, fmt.Errorf("confirm delete: %w", err)
	}
	if !confirmed {
		return false, nil
	}

	if err := g.source.DeleteProduct(ctx, id, g.sessions.Current().Token()); err != nil {
		return false, g.fail(ctx, "delete product", err, MsgDeleteFailed, MsgDeleteNetwork)
	}

	g.page.Reconcile(func(page *domain.CatalogPage) bool {
		return page.Remove(id)
	})

	g.logger.InfoContext(ctx, "product deleted", slog.Int64("product_id", id))
	g.notifier.Notify(ctx, MsgDeleted, ui.LevelSuccess)
	return true, nil
}

// modifiable returns the product when the session may edit or delete it.
func (g *Gateway) modifiable(ctx context.Context, id int64) (domain.Product, error) {
	p, ok := g.page.Page().Find(id)
	if !ok {
		return domain.Product{}, g.reject(ctx, apperrors.NotFound("product", strconv.FormatInt(id, 10)))
	}

	s := g.sessions.Current()
	if !s.Authenticated() {
		return domain.Product{}, g.reject(ctx, apperrors.AuthRequired(MsgLoginRequired))
	}
	if !catalog.PermissionsFor(s, p).Edit {
		return domain.Product{}, g.reject(ctx, apperrors.Forbidden(MsgForbidden))
	}
	return p, nil
}

func (g *Gateway) fields(d domain.EditDraft) (datasource.ProductFields, error) {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return datasource.ProductFields{}, apperrors.InvalidInput(MsgNameRequired)
	}

	raw := strings.TrimSpace(d.Price)
	price, err := strconv.ParseFloat(raw, 64)
	if err != nil || price < 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return datasource.ProductFields{}, apperrors.InvalidInput(MsgPriceRequired)
	}

	return datasource.ProductFields{
		Name:        name,
		Description: d.Description,
		Price:       raw,
		Category:    d.Category,
		UserID:      g.sessions.Current().UserID(),
	}, nil
}

func (g *Gateway) finishDraft() {
	g.mu.Lock()
	g.draft = nil
	g.mu.Unlock()
}

// reject reports a locally detected problem.
func (g *Gateway) reject(ctx context.Context, err error) error {
	var appErr *apperrors.AppError
	msg := err.Error()
	if errors.As(err, &appErr) {
		msg = appErr.Message
	}
	g.notifier.Notify(ctx, msg, ui.LevelError)
	return err
}

// fail reports an API failure. The admin-approval reason gets its own
// message.
func (g *Gateway) fail(ctx context.Context, op string, err error, fallback, network string) error {
	msg := apperrors.UserMessage(err, fallback)

	var appErr *apperrors.AppError
	switch {
	case errors.As(err, &appErr) && appErr.Reason == ReasonAdminApproval:
		msg = MsgNoApproval
	case apperrors.KindOf(err) == apperrors.KindTransport:
		msg = network
	}

	g.logger.WarnContext(ctx, op+" failed",
		slog.String("error", err.Error()),
		slog.String("kind", apperrors.KindOf(err).String()),
	)
	g.notifier.Notify(ctx, msg, ui.LevelError)
	return err
}
