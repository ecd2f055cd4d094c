package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func loadWith(t *testing.T, env map[string]string) (*Config, error) {
	t.Helper()
	for key, value := range env {
		t.Setenv(key, value)
	}
	return Load()
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := loadWith(t, map[string]string{
		"DATABASE_URL":               "",
		"REDIS_URL":                  "",
		"PORT":                       "",
		"CATALOG_CACHE_TTL":          "",
		"INVOICE_RATE_LIMIT_MAX":     "",
		"OBS_ENABLE_PROMETHEUS":      "",
		"OBS_TRACING_SAMPLING_RATIO": "",
		"INVOICE_ARCHIVE_TTL":        "",
		"HTTP_BODY_LIMIT_BYTES":      "",
		"IDEMPOTENCY_TTL":            "",
		"INVOICE_PDF_FONT":           "",
		"HTTP_SHUTDOWN_TIMEOUT":      "",
	})
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.HTTPAddr())
	require.Equal(t, "static", cfg.CatalogBackend())
	require.Equal(t, 10*time.Minute, cfg.CatalogCacheTTL)
	require.Equal(t, 720*time.Hour, cfg.InvoiceArchiveTTL)
	require.Equal(t, 60, cfg.InvoiceRateLimitMax)
	require.Equal(t, int64(1<<20), cfg.BodyLimitBytes)
	require.Equal(t, 24*time.Hour, cfg.IdempotencyTTL)
	require.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	require.Empty(t, cfg.InvoicePDFFont)
	require.True(t, cfg.MetricsEnabled)
	require.Equal(t, 1.0, cfg.TracingSampling)
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := loadWith(t, map[string]string{
		"DATABASE_URL":           "postgres://localhost/tcm",
		"PORT":                   ":9090",
		"CORS_ALLOWED_ORIGINS":   "https://a.example, ,https://b.example",
		"CATALOG_CACHE_TTL":      "30s",
		"INVOICE_RATE_LIMIT_MAX": "5",
		"OBS_ENABLE_PROMETHEUS":  "off",
		"INVOICE_ARCHIVE_TTL":    "not-a-duration",
	})
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTPAddr())
	require.Equal(t, "postgres", cfg.CatalogBackend())
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	require.Equal(t, 30*time.Second, cfg.CatalogCacheTTL)
	require.Equal(t, 720*time.Hour, cfg.InvoiceArchiveTTL)
	require.Equal(t, 5, cfg.InvoiceRateLimitMax)
	require.False(t, cfg.MetricsEnabled)
}

func TestLoadRejectsBadSampling(t *testing.T) {
	_, err := loadWith(t, map[string]string{"OBS_TRACING_SAMPLING_RATIO": "1.5"})
	require.Error(t, err)
}

func TestLoadRejectsZeroWindow(t *testing.T) {
	_, err := loadWith(t, map[string]string{"INVOICE_RATE_LIMIT_WINDOW": "0s"})
	require.Error(t, err)
}
