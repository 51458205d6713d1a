package catalog

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Reagan-marera/imoflames-sub000/internal/datasource"
	"github.com/Reagan-marera/imoflames-sub000/internal/domain"
	"github.com/Reagan-marera/imoflames-sub000/internal/ui"
	apperrors "github.com/Reagan-marera/imoflames-sub000/pkg/errors"
	"github.com/Reagan-marera/imoflames-sub000/pkg/tracing"
)

// MsgLoadFailed is shown when a catalog page could not be loaded and the
// server gave no reason.
const MsgLoadFailed = "Failed to load products"

// ErrStale is returned by Fetch when a newer fetch superseded the call. Its
// result, success or failure, was discarded.
var ErrStale = errors.New("catalog fetch superseded")

// State is a snapshot of the coordinator.
type State struct {
	Loading    bool
	Error      string
	Page       domain.CatalogPage
	Descriptor domain.QueryDescriptor
}

// Coordinator fetches catalog pages and applies only the result of the most
// recently issued fetch. Each fetch is tagged with a sequence number; issuing
// a new one cancels the previous request.
type Coordinator struct {
	source   datasource.Catalog
	notifier ui.Notifier
	logger   *slog.Logger
	tracer   trace.Tracer

	mu         sync.Mutex
	seq        uint64
	cancel     context.CancelFunc
	loading    bool
	errMsg     string
	page       domain.CatalogPage
	descriptor domain.QueryDescriptor
	listeners  []func(domain.CatalogPage)
}

// NewCoordinator creates a coordinator with an empty page.
func NewCoordinator(source datasource.Catalog, notifier ui.Notifier, logger *slog.Logger) *Coordinator {
	return &Coordinator{
		source:   source,
		notifier: notifier,
		logger:   logger,
		tracer:   tracing.Tracer("storefront/catalog"),
		page:     domain.CatalogPage{Items: []domain.Product{}},
	}
}

// OnPageChange registers fn to be called with the new base set whenever it is
// replaced or reconciled. fn runs outside the coordinator lock.
func (c *Coordinator) OnPageChange(fn func(domain.CatalogPage)) {
	c.mu.Lock()
	c.listeners = append(c.listeners, fn)
	c.mu.Unlock()
}

// Fetch requests the page for q and blocks until it resolves. It returns nil
// when the page was applied, ErrStale when a newer fetch superseded it, and
// the classified error when the fetch failed and was still the latest.
func (c *Coordinator) Fetch(ctx context.Context, q domain.QueryDescriptor, token string) error {
	fetchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	c.seq++
	tag := c.seq
	c.cancel = cancel
	c.loading = true
	c.mu.Unlock()

	fetchCtx, span := c.tracer.Start(fetchCtx, "catalog.fetch", trace.WithAttributes(
		attribute.Int("catalog.page", q.Page),
		attribute.Int("catalog.limit", q.Limit),
		attribute.String("catalog.category", string(q.Category)),
		attribute.Bool("catalog.search", q.Search != ""),
		attribute.String("catalog.seq", strconv.FormatUint(tag, 10)),
	))
	defer span.End()

	start := time.Now()
	page, err := c.source.ListProducts(fetchCtx, q, token)
	fetchDuration.Observe(time.Since(start).Seconds())

	c.mu.Lock()
	if tag != c.seq {
		c.mu.Unlock()
		fetchesTotal.WithLabelValues(outcomeStale).Inc()
		span.SetAttributes(attribute.Bool("catalog.stale", true))
		c.logger.DebugContext(ctx, "discarded stale catalog page",
			slog.Uint64("seq", tag),
			slog.Int("page", q.Page),
		)
		return ErrStale
	}
	c.loading = false
	c.cancel = nil

	if err != nil && ctx.Err() != nil {
		// The caller went away; the previous page stays.
		c.mu.Unlock()
		return ctx.Err()
	}

	if err != nil {
		msg := apperrors.UserMessage(err, MsgLoadFailed)
		c.errMsg = msg
		c.page = domain.CatalogPage{Items: []domain.Product{}}
		c.descriptor = q
		snapshot, listeners := c.page.Clone(), c.listeners
		c.mu.Unlock()

		fetchesTotal.WithLabelValues(outcomeFailed).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "catalog fetch failed")
		c.logger.WarnContext(ctx, "catalog fetch failed",
			slog.String("error", err.Error()),
			slog.String("kind", apperrors.KindOf(err).String()),
		)
		c.notifier.Notify(ctx, msg, ui.LevelError)
		notify(listeners, snapshot)
		return err
	}

	if page.Items == nil {
		page.Items = []domain.Product{}
	}
	c.errMsg = ""
	c.page = page
	c.descriptor = q
	snapshot, listeners := c.page.Clone(), c.listeners
	c.mu.Unlock()

	fetchesTotal.WithLabelValues(outcomeApplied).Inc()
	span.SetAttributes(attribute.Int("catalog.items", len(page.Items)))
	notify(listeners, snapshot)
	return nil
}

// State returns a snapshot of the current page, loading flag and error.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		Loading:    c.loading,
		Error:      c.errMsg,
		Page:       c.page.Clone(),
		Descriptor: c.descriptor,
	}
}

// Page returns a copy of the current base set.
func (c *Coordinator) Page() domain.CatalogPage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page.Clone()
}

// Reconcile applies a confirmed mutation to the current page. fn reports
// whether it changed anything; listeners are only told about real changes.
func (c *Coordinator) Reconcile(fn func(*domain.CatalogPage) bool) bool {
	c.mu.Lock()
	page := c.page.Clone()
	if !fn(&page) {
		c.mu.Unlock()
		return false
	}
	c.page = page
	snapshot, listeners := c.page.Clone(), c.listeners
	c.mu.Unlock()

	notify(listeners, snapshot)
	return true
}

// Reset drops the current page and any in-flight fetch, keeping the
// descriptor so the next fetch asks for the same view. Listeners see the
// empty page.
func (c *Coordinator) Reset() {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.seq++
	c.loading = false
	c.errMsg = ""
	c.page = domain.CatalogPage{Items: []domain.Product{}}
	snapshot, listeners := c.page.Clone(), c.listeners
	c.mu.Unlock()

	notify(listeners, snapshot)
}

// Close cancels the in-flight fetch, if any.
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	// Whatever is in flight is now stale.
	c.seq++
	c.loading = false
}

func notify(listeners []func(domain.CatalogPage), page domain.CatalogPage) {
	for _, fn := range listeners {
		fn(page)
	}
}
