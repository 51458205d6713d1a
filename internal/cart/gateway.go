// Package cart applies cart mutations after the storefront API confirmed
// them and announces every confirmed change on the session bus.
package cart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Reagan-marera/imoflames-sub000/internal/bus"
	"github.com/Reagan-marera/imoflames-sub000/internal/datasource"
	"github.com/Reagan-marera/imoflames-sub000/internal/domain"
	"github.com/Reagan-marera/imoflames-sub000/internal/session"
	"github.com/Reagan-marera/imoflames-sub000/internal/ui"
	apperrors "github.com/Reagan-marera/imoflames-sub000/pkg/errors"
	"github.com/Reagan-marera/imoflames-sub000/pkg/validator"
)

// Gateway is the cart state of one session.
type Gateway struct {
	source    datasource.Cart
	sessions  session.Provider
	publisher bus.Publisher
	notifier  ui.Notifier
	navigator ui.Navigator
	logger    *slog.Logger

	mu    sync.RWMutex
	items []domain.CartItem
}

// NewGateway creates a cart gateway with an empty local cart.
func NewGateway(
	source datasource.Cart,
	sessions session.Provider,
	publisher bus.Publisher,
	notifier ui.Notifier,
	navigator ui.Navigator,
	logger *slog.Logger,
) *Gateway {
	return &Gateway{
		source:    source,
		sessions:  sessions,
		publisher: publisher,
		notifier:  notifier,
		navigator: navigator,
		logger:    logger,
		items:     []domain.CartItem{},
	}
}

// AddToCart adds p to the server cart. A logged-out session is sent to the
// login page without issuing a request.
func (g *Gateway) AddToCart(ctx context.Context, p domain.Product) error {
	s := g.sessions.Current()
	if !s.Authenticated() {
		g.notifier.Notify(ctx, MsgNotLoggedIn, ui.LevelInfo)
		g.navigator.GoTo(ctx, ui.PathLogin)
		return apperrors.AuthRequired(MsgNotLoggedIn)
	}

	if err := g.source.AddCartItem(ctx, p.ID, s.Token()); err != nil {
		return g.fail(ctx, "add to cart", err, MsgAddFailed, MsgAddNetwork)
	}

	g.logger.InfoContext(ctx, "product added to cart", slog.Int64("product_id", p.ID))
	g.publisher.Publish(ctx, bus.CartChanged)
	g.notifier.Notify(ctx, MsgAdded, ui.LevelSuccess)
	return nil
}

// RemoveFromCart removes a product. The local item is dropped only after the
// server confirmed; removing an id that is not in the local cart is a no-op
// locally.
func (g *Gateway) RemoveFromCart(ctx context.Context, productID int64) error {
	s := g.sessions.Current()
	if err := g.source.RemoveCartItem(ctx, productID, s.Token()); err != nil {
		return g.fail(ctx, "remove from cart", err, MsgRemoveFailed, MsgRemoveNetwork)
	}

	g.mu.Lock()
	kept := make([]domain.CartItem, 0, len(g.items))
	for _, it := range g.items {
		if it.ID != productID {
			kept = append(kept, it)
		}
	}
	g.items = kept
	g.mu.Unlock()

	g.logger.InfoContext(ctx, "product removed from cart", slog.Int64("product_id", productID))
	g.publisher.Publish(ctx, bus.CartChanged)
	g.notifier.Notify(ctx, MsgRemoved, ui.LevelSuccess)
	return nil
}

// LoadCart replaces the local cart with the server's contents and signals
// the change so cart counters refresh.
func (g *Gateway) LoadCart(ctx context.Context) error {
	s := g.sessions.Current()
	if !s.Authenticated() {
		g.navigator.GoTo(ctx, ui.PathLogin)
		return apperrors.AuthRequired(MsgNotLoggedIn)
	}

	items, err := g.source.ListCart(ctx, s.Token())
	if err != nil {
		return g.fail(ctx, "load cart", err, MsgLoadFailed, MsgLoadFailed)
	}

	g.mu.Lock()
	g.items = append([]domain.CartItem{}, items...)
	g.mu.Unlock()
	g.publisher.Publish(ctx, bus.CartChanged)
	return nil
}

// Reset drops the local cart without touching the server, for when the
// signed-in user changes.
func (g *Gateway) Reset() {
	g.mu.Lock()
	g.items = nil
	g.mu.Unlock()
}

// Checkout collects the delivery details and orders the whole cart. Missing
// details abort before any request; a failed order leaves the cart as is.
func (g *Gateway) Checkout(ctx context.Context, prompter ui.Prompter) error {
	details, err := g.collectDetails(ctx, prompter)
	if err != nil {
		return err
	}

	s := g.sessions.Current()
	if err := g.source.Checkout(ctx, details, s.Token()); err != nil {
		return g.fail(ctx, "checkout", err, MsgCheckoutFailed, MsgCheckoutNetwork)
	}

	g.mu.Lock()
	count := len(g.items)
	g.items = []domain.CartItem{}
	g.mu.Unlock()

	g.logger.InfoContext(ctx, "cart checked out", slog.Int("item_count", count))
	g.notifier.Notify(ctx, MsgOrderPlaced, ui.LevelSuccess)
	g.publisher.Publish(ctx, bus.CartChanged)
	g.navigator.GoTo(ctx, ui.PathCatalog)
	return nil
}

// BuyNow orders a single product directly, bypassing the cart.
func (g *Gateway) BuyNow(ctx context.Context, p domain.Product, prompter ui.Prompter) error {
	s := g.sessions.Current()
	if !s.Authenticated() {
		g.notifier.Notify(ctx, MsgNotLoggedIn, ui.LevelInfo)
		g.navigator.GoTo(ctx, ui.PathLogin)
		return apperrors.AuthRequired(MsgNotLoggedIn)
	}

	details, err := g.collectDetails(ctx, prompter)
	if err != nil {
		return err
	}

	if err := g.source.BuyNow(ctx, p.ID, details, s.Token()); err != nil {
		return g.fail(ctx, "buy now", err, MsgBuyFailed, MsgBuyNetwork)
	}

	g.logger.InfoContext(ctx, "product ordered", slog.Int64("product_id", p.ID))
	g.notifier.Notify(ctx, MsgBuyPlaced, ui.LevelSuccess)
	return nil
}

// Items returns a copy of the local cart.
func (g *Gateway) Items() []domain.CartItem {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]domain.CartItem{}, g.items...)
}

// Count returns the number of items in the local cart.
func (g *Gateway) Count() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.items)
}

// Total returns the sum of the item prices.
func (g *Gateway) Total() float64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var total float64
	for _, it := range g.items {
		total += it.Price
	}
	return total
}

func (g *Gateway) collectDetails(ctx context.Context, prompter ui.Prompter) (domain.CheckoutDetails, error) {
	var details domain.CheckoutDetails
	fields := []struct {
		label string
		dst   *string
	}{
		{PromptPhone, &details.PhoneNumber},
		{PromptEmail, &details.Email},
		{PromptLocation, &details.Location},
	}
	for _, f := range fields {
		v, ok, err := prompter.Ask(ctx, f.label)
		if err != nil {
			return domain.CheckoutDetails{}, fmt.Errorf("prompt %q: %w", f.label, err)
		}
		if ok {
			*f.dst = v
		}
	}

	if err := validator.Validate(details); err != nil {
		g.notifier.Notify(ctx, MsgDetailsRequired, ui.LevelError)
		return domain.CheckoutDetails{}, apperrors.InvalidInput(MsgDetailsRequired)
	}
	return details, nil
}

// fail reports err through the notifier and returns it. A 401 from the API
// means the session is gone, so the user is sent to log in again.
func (g *Gateway) fail(ctx context.Context, op string, err error, fallback, network string) error {
	msg := apperrors.UserMessage(err, fallback)
	if apperrors.KindOf(err) == apperrors.KindTransport {
		msg = network
	}

	g.logger.WarnContext(ctx, op+" failed",
		slog.String("error", err.Error()),
		slog.String("kind", apperrors.KindOf(err).String()),
	)
	g.notifier.Notify(ctx, msg, ui.LevelError)

	if errors.Is(err, apperrors.ErrUnauthorized) {
		g.navigator.GoTo(ctx, ui.PathLogin)
	}
	return err
}
