package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Reagan-marera/imoflames-sub000/internal/catalog"
	"github.com/Reagan-marera/imoflames-sub000/internal/config"
	"github.com/Reagan-marera/imoflames-sub000/internal/datasource/rest"
	"github.com/Reagan-marera/imoflames-sub000/internal/domain"
	"github.com/Reagan-marera/imoflames-sub000/internal/event"
	handler "github.com/Reagan-marera/imoflames-sub000/internal/handler/http"
	"github.com/Reagan-marera/imoflames-sub000/internal/product"
	"github.com/Reagan-marera/imoflames-sub000/internal/session"
	"github.com/Reagan-marera/imoflames-sub000/internal/storefront"
	"github.com/Reagan-marera/imoflames-sub000/pkg/database"
	"github.com/Reagan-marera/imoflames-sub000/pkg/health"
	"github.com/Reagan-marera/imoflames-sub000/pkg/httpclient"
	pkgkafka "github.com/Reagan-marera/imoflames-sub000/pkg/kafka"
	"github.com/Reagan-marera/imoflames-sub000/pkg/middleware"
	"github.com/Reagan-marera/imoflames-sub000/pkg/tracing"
)

// evictInterval is how often idle sessions are swept.
const evictInterval = time.Minute

// App wires together all dependencies and runs the storefront service.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	rdb            *redis.Client
	producer       *pkgkafka.Producer
	registry       *storefront.Registry
	httpServer     *http.Server
	tracerShutdown func(context.Context) error

	// Background work (session eviction, rate limiter cleanup).
	bgCtx    context.Context
	bgCancel context.CancelFunc
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize OpenTelemetry tracing.
	traceCfg := tracing.DefaultConfig(handler.ServiceName)
	traceCfg.Environment = cfg.Environment
	traceCfg.OTLPEndpoint = cfg.OTELEndpoint
	traceCfg.SampleRate = cfg.OTELSampleRate
	traceCfg.Enabled = cfg.OTELEnabled
	tracerShutdown, err := tracing.InitTracer(ctx, traceCfg)
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	healthHandler := health.NewHandler()

	// Storefront API client behind a circuit breaker.
	httpCfg := httpclient.DefaultConfig()
	httpCfg.Timeout = cfg.DataSourceTimeout
	httpCfg.MaxRetries = cfg.DataSourceMaxRetries
	cbCfg := httpclient.DefaultCircuitBreakerConfig(httpclient.StorefrontAPIBreaker)
	cbCfg.MaxRequests = cfg.CBMaxRequests
	cbCfg.Interval = cfg.CBInterval
	cbCfg.Timeout = cfg.CBTimeout
	cbCfg.FailureRatio = cfg.CBFailureRatio
	cbCfg.MinRequests = cfg.CBMinRequests
	cbClient := httpclient.NewCircuitBreakerClient(httpclient.New(httpCfg), cbCfg, logger)
	source := rest.New(cfg.APIURL, cbClient, logger)
	logger.Info("storefront API client initialized",
		slog.String("url", cfg.APIURL),
		slog.Int("max_retries", cfg.DataSourceMaxRetries),
	)

	// Optional Redis cache of resolved users.
	var (
		rdb       *redis.Client
		userCache session.UserCache
	)
	if cfg.RedisAddr != "" {
		rdb, err = database.NewRedisClient(ctx, database.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPass,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			_ = tracerShutdown(context.Background())
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		userCache = session.NewRedisCache(rdb)
		healthHandler.RegisterNonCritical("redis", database.RedisChecker(rdb))
		logger.Info("connected to Redis",
			slog.String("addr", cfg.RedisAddr),
			slog.Int("db", cfg.RedisDB),
		)
	}
	resolver := session.NewResolver(source, userCache, cfg.UserCacheTTL, logger)

	// Optional Kafka bridge for cart-changed signals.
	opts := storefront.Options{
		PageSizes:        catalog.PageSizes{Narrow: cfg.PageSizeNarrow, Wide: cfg.PageSizeWide},
		Viewport:         domain.ViewportWide,
		CarouselInterval: cfg.CarouselInterval,
		UploadsURL:       cfg.UploadsURL,
		Images:           product.NewImageProcessor(cfg.ImageMaxDimension),
	}
	var producer *pkgkafka.Producer
	if cfg.KafkaEnabled {
		producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		opts.Events = event.NewProducer(producer, logger)
		healthHandler.RegisterNonCritical("kafka", producer.Ping)
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	}

	registry := storefront.NewRegistry(func(id string) *storefront.Controller {
		return storefront.NewController(id, source, resolver, opts, logger)
	}, cfg.SessionIdleTTL, logger)

	// HTTP router.
	bgCtx, bgCancel := context.WithCancel(context.Background())
	h := handler.NewHandler(registry, handler.Config{
		MaxUploadBytes: cfg.MaxUploadBytes,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	}, logger)
	router := handler.NewRouter(bgCtx, h, healthHandler, handler.RouterConfig{
		Session: middleware.SessionConfig{
			CookieName: cfg.SessionCookieName,
			MaxAge:     cfg.SessionMaxAge,
			Secure:     cfg.SessionCookieSecure,
		},
		AllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		RequestTimeout: cfg.RequestTimeout,
		PprofCIDRs:     cfg.PprofAllowedCIDRs,
	}, logger)

	// No WriteTimeout: websocket connections outlive any request deadline,
	// and API routes are bounded by the router's timeout middleware.
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		rdb:            rdb,
		producer:       producer,
		registry:       registry,
		httpServer:     httpServer,
		tracerShutdown: tracerShutdown,
		bgCtx:          bgCtx,
		bgCancel:       bgCancel,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go a.registry.Run(a.bgCtx, evictInterval)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		_ = a.Shutdown()
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components in order:
// 1. HTTP server (drain in-flight requests)
// 2. Session controllers and background loops
// 3. Tracer (flush pending spans)
// 4. Kafka producer
// 5. Redis client
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	httpCtx, httpCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	// Closing the controllers also ends open websocket streams.
	a.bgCancel()
	a.registry.Close()

	if a.tracerShutdown != nil {
		tracerCtx, tracerCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer tracerCancel()
		if err := a.tracerShutdown(tracerCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}
