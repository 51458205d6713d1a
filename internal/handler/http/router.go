package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Reagan-marera/imoflames-sub000/pkg/health"
	"github.com/Reagan-marera/imoflames-sub000/pkg/middleware"
)

// ServiceName labels metrics and traces of the storefront.
const ServiceName = "storefront"

// RouterConfig holds the middleware settings of the router.
type RouterConfig struct {
	Session        middleware.SessionConfig
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int
	RequestTimeout time.Duration
	PprofCIDRs     []string
}

// NewRouter creates a chi router with all storefront routes registered. ctx
// bounds background work of the middleware.
func NewRouter(
	ctx context.Context,
	handler *Handler,
	healthHandler *health.Handler,
	cfg RouterConfig,
	logger *slog.Logger,
) http.Handler {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics(ServiceName))
	r.Use(middleware.Tracing(ServiceName))
	r.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.AllowedOrigins)))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Pprof debug endpoints with IP allowlist.
	middleware.RegisterPprof(r, cfg.PprofCIDRs, logger)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Session(cfg.Session))
		r.Use(middleware.RequestLogger(logger))
		if cfg.RateLimitRPS > 0 {
			r.Use(middleware.RateLimit(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst, logger))
		}

		// The push channel outlives the request timeout.
		r.Get("/ws", handler.Watch)

		r.Route("/api/v1", func(r chi.Router) {
			r.Use(chimw.Compress(5))
			r.Use(chimw.Timeout(cfg.RequestTimeout))
			r.Use(middleware.NoStore)

			r.Route("/catalog", func(r chi.Router) {
				r.Get("/", handler.GetCatalog)
				r.Post("/refresh", handler.RefreshCatalog)
				r.Put("/query", handler.UpdateQuery)
				r.Put("/viewport", handler.SetViewport)
			})

			r.Route("/gallery", func(r chi.Router) {
				r.Get("/", handler.GetGallery)
				r.Delete("/", handler.CloseGallery)
				r.Post("/next", handler.NextImage)
				r.Post("/previous", handler.PreviousImage)
				r.Post("/{id}", handler.SelectProduct)
			})

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", handler.GetCart)
				r.Post("/items/{id}", handler.AddItem)
				r.Delete("/items/{id}", handler.RemoveItem)
				r.Post("/checkout", handler.Checkout)
			})

			r.Post("/buy/{id}", handler.BuyNow)

			r.Route("/products", func(r chi.Router) {
				r.Post("/", handler.CreateProduct)
				r.Put("/{id}", handler.UpdateProduct)
				r.Delete("/{id}", handler.DeleteProduct)
				r.Post("/{id}/edit", handler.BeginEdit)
				r.Delete("/{id}/edit", handler.CancelEdit)
			})
		})
	})

	return r
}
