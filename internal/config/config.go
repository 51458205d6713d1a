package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/Reagan-marera/imoflames-sub000/pkg/config"
	"github.com/Reagan-marera/imoflames-sub000/pkg/validator"
)

// Config holds all configuration for the storefront service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort       int           `env:"STOREFRONT_HTTP_PORT" envDefault:"8090"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	MaxUploadBytes int64         `env:"MAX_UPLOAD_BYTES" envDefault:"67108864"`

	// Storefront API
	APIURL               string        `env:"STOREFRONT_API_URL" envDefault:"http://localhost:5000/api" validate:"required,url"`
	UploadsURL           string        `env:"STOREFRONT_UPLOADS_URL" envDefault:"http://localhost:5000/api/uploads" validate:"required,url"`
	DataSourceTimeout    time.Duration `env:"DATASOURCE_TIMEOUT" envDefault:"15s"`
	DataSourceMaxRetries int           `env:"DATASOURCE_MAX_RETRIES" envDefault:"0" validate:"gte=0,lte=5"`

	// Circuit breaker around the storefront API
	CBMaxRequests  uint32        `env:"CB_MAX_REQUESTS" envDefault:"1"`
	CBInterval     time.Duration `env:"CB_INTERVAL" envDefault:"60s"`
	CBTimeout      time.Duration `env:"CB_TIMEOUT" envDefault:"30s"`
	CBFailureRatio float64       `env:"CB_FAILURE_RATIO" envDefault:"0.5"`
	CBMinRequests  uint32        `env:"CB_MIN_REQUESTS" envDefault:"5"`

	// Catalog
	PageSizeNarrow    int           `env:"CATALOG_PAGE_SIZE_NARROW" envDefault:"6"`
	PageSizeWide      int           `env:"CATALOG_PAGE_SIZE_WIDE" envDefault:"12"`
	CarouselInterval  time.Duration `env:"CAROUSEL_INTERVAL" envDefault:"3s"`
	ImageMaxDimension int           `env:"IMAGE_MAX_DIMENSION" envDefault:"1600" validate:"gte=0"`

	// Sessions
	SessionIdleTTL      time.Duration `env:"SESSION_IDLE_TTL" envDefault:"30m"`
	SessionCookieName   string        `env:"SESSION_COOKIE_NAME" envDefault:"storefront_session" validate:"required"`
	SessionCookieSecure bool          `env:"SESSION_COOKIE_SECURE" envDefault:"false"`
	SessionMaxAge       time.Duration `env:"SESSION_MAX_AGE" envDefault:"168h"`

	// Redis user cache; an empty address disables it.
	RedisAddr    string        `env:"REDIS_ADDR" envDefault:""`
	RedisPass    string        `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB      int           `env:"REDIS_DB" envDefault:"0"`
	UserCacheTTL time.Duration `env:"USER_CACHE_TTL" envDefault:"5m"`

	// Kafka
	KafkaEnabled bool     `env:"KAFKA_ENABLED" envDefault:"false"`
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`

	// Rate limiting per client IP; zero RPS disables it.
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"20"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"40"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:3000" envSeparator:","`

	// Pprof debug endpoints (IP allowlist in CIDR notation)
	PprofAllowedCIDRs []string `env:"PPROF_ALLOWED_CIDRS" envDefault:"10.0.0.0/8,172.16.0.0/12,192.168.0.0/16,127.0.0.0/8,::1/128" envSeparator:","`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if err := validator.Validate(c); err != nil {
		return fmt.Errorf("invalid storefront config: %w", err)
	}
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.PageSizeNarrow < 1 || c.PageSizeWide < 1 {
		return fmt.Errorf("catalog page sizes must be positive, got %d/%d", c.PageSizeNarrow, c.PageSizeWide)
	}
	if c.CarouselInterval <= 0 {
		return fmt.Errorf("CAROUSEL_INTERVAL must be positive, got %s", c.CarouselInterval)
	}
	if c.SessionIdleTTL <= 0 {
		return fmt.Errorf("SESSION_IDLE_TTL must be positive, got %s", c.SessionIdleTTL)
	}
	if c.KafkaEnabled && len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required when KAFKA_ENABLED is set")
	}
	if c.OTELSampleRate < 0 || c.OTELSampleRate > 1.0 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0, got %f", c.OTELSampleRate)
	}
	if c.RateLimitRPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must not be negative, got %f", c.RateLimitRPS)
	}
	return nil
}
