package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8090, cfg.HTTPPort)
	assert.Equal(t, "http://localhost:5000/api", cfg.APIURL)
	assert.Equal(t, 6, cfg.PageSizeNarrow)
	assert.Equal(t, 12, cfg.PageSizeWide)
	assert.Equal(t, 3*time.Second, cfg.CarouselInterval)
	assert.Equal(t, 0, cfg.DataSourceMaxRetries)
	assert.Equal(t, "storefront_session", cfg.SessionCookieName)
	assert.Empty(t, cfg.RedisAddr)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 1.0, cfg.OTELSampleRate)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("STOREFRONT_HTTP_PORT", "9000")
	t.Setenv("STOREFRONT_API_URL", "https://shop.example.com/api")
	t.Setenv("CAROUSEL_INTERVAL", "5s")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com,https://b.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.HTTPPort)
	assert.Equal(t, "https://shop.example.com/api", cfg.APIURL)
	assert.Equal(t, 5*time.Second, cfg.CarouselInterval)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Len(t, cfg.CORSAllowedOrigins, 2)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{"port", "STOREFRONT_HTTP_PORT", "70000", "invalid HTTP port"},
		{"api url", "STOREFRONT_API_URL", "not a url", "invalid storefront config"},
		{"page size", "CATALOG_PAGE_SIZE_WIDE", "0", "catalog page sizes must be positive"},
		{"carousel", "CAROUSEL_INTERVAL", "0s", "CAROUSEL_INTERVAL must be positive"},
		{"sample rate", "OTEL_SAMPLE_RATE", "1.5", "OTEL_SAMPLE_RATE must be between 0.0 and 1.0"},
		{"retries", "DATASOURCE_MAX_RETRIES", "9", "invalid storefront config"},
		{"unparsable", "SESSION_IDLE_TTL", "soon", "load storefront config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
