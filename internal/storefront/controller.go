// Package storefront composes the catalog, cart and product components of one
// browser session into a controller and keeps one controller per session.
package storefront

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/Reagan-marera/imoflames-sub000/internal/bus"
	"github.com/Reagan-marera/imoflames-sub000/internal/cart"
	"github.com/Reagan-marera/imoflames-sub000/internal/catalog"
	"github.com/Reagan-marera/imoflames-sub000/internal/datasource"
	"github.com/Reagan-marera/imoflames-sub000/internal/domain"
	"github.com/Reagan-marera/imoflames-sub000/internal/product"
	"github.com/Reagan-marera/imoflames-sub000/internal/session"
	"github.com/Reagan-marera/imoflames-sub000/internal/ui"
	apperrors "github.com/Reagan-marera/imoflames-sub000/pkg/errors"
)

// Resolver turns a bearer token into a session.
type Resolver interface {
	Resolve(ctx context.Context, token string) session.Session
}

// EventForwarder forwards bus signals of a session outside the process.
type EventForwarder interface {
	Attach(b *bus.Bus, sessionID string) (unsubscribe func())
}

// Options configures new controllers.
type Options struct {
	PageSizes        catalog.PageSizes
	Viewport         domain.ViewportClass
	CarouselInterval time.Duration
	UploadsURL       string
	Images           *product.ImageProcessor
	Events           EventForwarder
}

// Controller is the storefront state of one session.
type Controller struct {
	id       string
	logger   *slog.Logger
	resolver Resolver

	sessions    *session.Holder
	query       *catalog.QueryModel
	coordinator *catalog.Coordinator
	carousel    *catalog.Carousel
	gallery     *catalog.Gallery
	cart        *cart.Gateway
	products    *product.Gateway
	outbox      *ui.Outbox
	bus         *bus.Bus

	mu       sync.Mutex
	lastSeen time.Time
	loaded   bool
	closers  []func()
	closed   bool

	mountMu  sync.Mutex
	watchMu  sync.Mutex
	watchers map[int]chan<- Message
	nextID   int
}

// NewController builds the controller of session id. The catalog is not
// fetched until Refresh or a query change.
func NewController(id string, source datasource.DataSource, resolver Resolver, opts Options, logger *slog.Logger) *Controller {
	logger = logger.With(slog.String("session_id", id))
	if opts.Images == nil {
		opts.Images = product.NewImageProcessor(product.DefaultMaxDimension)
	}

	c := &Controller{
		id:       id,
		logger:   logger,
		resolver: resolver,
		sessions: session.NewHolder(session.LoggedOut()),
		query:    catalog.NewQueryModel(opts.PageSizes, opts.Viewport),
		carousel: catalog.NewCarousel(opts.CarouselInterval),
		gallery:  catalog.NewGallery(opts.UploadsURL),
		outbox:   ui.NewOutbox(),
		bus:      bus.New(),
		lastSeen: time.Now(),
		watchers: make(map[int]chan<- Message),
	}
	c.coordinator = catalog.NewCoordinator(source, c.outbox, logger)
	c.cart = cart.NewGateway(source, c.sessions, c.bus, c.outbox, c.outbox, logger)
	c.products = product.NewGateway(source, c.sessions, c.coordinator, opts.Images, c.outbox, logger)

	c.coordinator.OnPageChange(func(page domain.CatalogPage) {
		c.carousel.Rebuild(page.Items)
	})
	c.carousel.OnAdvance(func(index int) {
		c.broadcast(Message{Type: MessageCarouselAdvanced, Index: &index})
	})
	c.outbox.OnNotice(func(n ui.Notice) {
		c.broadcast(Message{Type: MessageNotification, Notice: &n})
	})
	c.closers = append(c.closers, c.bus.Subscribe(bus.CartChanged, func(context.Context, bus.Signal) {
		c.broadcast(Message{Type: MessageCartChanged})
	}))
	if opts.Events != nil {
		c.closers = append(c.closers, opts.Events.Attach(c.bus, id))
	}
	return c
}

// ID returns the session id.
func (c *Controller) ID() string {
	return c.id
}

// Touch marks the controller as used now.
func (c *Controller) Touch(now time.Time) {
	c.mu.Lock()
	c.lastSeen = now
	c.mu.Unlock()
}

// LastSeen returns the time of the last Touch.
func (c *Controller) LastSeen() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSeen
}

// Authenticate resolves token into the session when it differs from the
// current one. When the token belongs to someone else, the previous user's
// cart, draft, gallery and catalog page are dropped and the catalog is
// fetched again on the next Load.
func (c *Controller) Authenticate(ctx context.Context, token string) session.Session {
	current := c.sessions.Current()
	if token == current.Token() {
		return current
	}
	s := c.resolver.Resolve(ctx, token)
	c.sessions.Set(s)
	c.logger.DebugContext(ctx, "session changed", slog.Bool("authenticated", s.Authenticated()))
	if !sameUser(current, s) {
		c.resetUserState(ctx)
	}
	return s
}

// sameUser reports whether both sessions belong to the same identity. An
// unresolved user never matches.
func sameUser(a, b session.Session) bool {
	if !a.Authenticated() && !b.Authenticated() {
		return true
	}
	ua, okA := a.User()
	ub, okB := b.User()
	return okA && okB && ua.ID == ub.ID
}

func (c *Controller) resetUserState(ctx context.Context) {
	c.products.CancelEdit()
	c.cart.Reset()
	c.gallery.Close()
	c.coordinator.Reset()

	c.mu.Lock()
	c.loaded = false
	c.mu.Unlock()

	c.broadcast(Message{Type: MessageCartChanged})
	c.logger.InfoContext(ctx, "cleared state of previous user")
}

// Session returns the current session.
func (c *Controller) Session() session.Session {
	return c.sessions.Current()
}

// Drain returns and clears the notices and redirect queued by the last
// actions.
func (c *Controller) Drain() ([]ui.Notice, string) {
	return c.outbox.Drain()
}

// Refresh fetches the page for the current query.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.loaded = true
	c.mu.Unlock()
	return c.coordinator.Fetch(ctx, c.query.Descriptor(), c.sessions.Current().Token())
}

// Load fetches the first page unless a fetch was already issued.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	loaded := c.loaded
	c.mu.Unlock()
	if loaded {
		return nil
	}
	return c.Refresh(ctx)
}

// ApplyQuery changes the query and fetches when it changed. It reports
// whether a fetch was issued.
func (c *Controller) ApplyQuery(ctx context.Context, u catalog.QueryUpdate) (bool, error) {
	if !c.query.Apply(u) {
		return false, nil
	}
	return true, c.Refresh(ctx)
}

// SetViewport changes the viewport class and fetches when the page size
// changed.
func (c *Controller) SetViewport(ctx context.Context, v domain.ViewportClass) (bool, error) {
	if !v.Valid() {
		return false, apperrors.InvalidInput("unknown viewport class " + strconv.Quote(string(v)))
	}
	if !c.query.SetViewport(v) {
		return false, nil
	}
	return true, c.Refresh(ctx)
}

func (c *Controller) find(id int64) (domain.Product, error) {
	p, ok := c.coordinator.Page().Find(id)
	if !ok {
		return domain.Product{}, apperrors.NotFound("product", strconv.FormatInt(id, 10))
	}
	return p, nil
}

// SelectProduct opens the gallery on the product with the given id.
func (c *Controller) SelectProduct(id int64) (catalog.GalleryView, error) {
	p, err := c.find(id)
	if err != nil {
		return catalog.GalleryView{}, err
	}
	c.gallery.Select(p)
	return c.gallery.View(), nil
}

// NextImage moves the gallery forward.
func (c *Controller) NextImage() catalog.GalleryView {
	c.gallery.Next()
	return c.gallery.View()
}

// PreviousImage moves the gallery back.
func (c *Controller) PreviousImage() catalog.GalleryView {
	c.gallery.Previous()
	return c.gallery.View()
}

// CloseGallery clears the gallery selection.
func (c *Controller) CloseGallery() {
	c.gallery.Close()
}

// Gallery returns the gallery state.
func (c *Controller) Gallery() catalog.GalleryView {
	return c.gallery.View()
}

// AddToCart adds the listed product with the given id to the cart.
func (c *Controller) AddToCart(ctx context.Context, id int64) error {
	p, err := c.find(id)
	if err != nil {
		return err
	}
	return c.cart.AddToCart(ctx, p)
}

// BuyNow orders the listed product with the given id.
func (c *Controller) BuyNow(ctx context.Context, id int64, prompter ui.Prompter) error {
	p, err := c.find(id)
	if err != nil {
		return err
	}
	return c.cart.BuyNow(ctx, p, prompter)
}

// Cart returns the cart gateway.
func (c *Controller) Cart() *cart.Gateway {
	return c.cart
}

// Products returns the product gateway. Use SaveProduct and DeleteProduct
// for mutations so the gallery follows the page.
func (c *Controller) Products() *product.Gateway {
	return c.products
}

// SaveProduct saves the active draft and refreshes the gallery selection.
func (c *Controller) SaveProduct(ctx context.Context) (domain.Product, error) {
	p, err := c.products.Save(ctx)
	if err != nil {
		return domain.Product{}, err
	}
	c.gallery.Refresh(c.coordinator.Page())
	return p, nil
}

// DeleteProduct deletes a product after confirmation and closes the gallery
// when it showed that product.
func (c *Controller) DeleteProduct(ctx context.Context, id int64, prompter ui.Prompter) (bool, error) {
	deleted, err := c.products.Delete(ctx, id, prompter)
	if err != nil || !deleted {
		return deleted, err
	}
	c.gallery.Refresh(c.coordinator.Page())
	return true, nil
}

// Close cancels the in-flight fetch, stops the carousel and drops every
// subscriber. It is safe to call more than once.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	closers := c.closers
	c.closers = nil
	c.mu.Unlock()

	c.coordinator.Close()
	for _, fn := range closers {
		fn()
	}
	c.bus.Close()

	c.mountMu.Lock()
	defer c.mountMu.Unlock()
	c.carousel.Stop()

	c.watchMu.Lock()
	for id, ch := range c.watchers {
		close(ch)
		delete(c.watchers, id)
	}
	c.watchMu.Unlock()
}
