package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	AppEnv             string
	Port               string
	DatabaseURL        string
	RedisURL           string
	CORSAllowedOrigins []string

	CatalogCacheTTL     time.Duration
	InvoiceArchiveTTL   time.Duration
	InvoiceRateLimitMax int
	InvoiceRateWindow   time.Duration
	BodyLimitBytes      int64
	IdempotencyTTL      time.Duration
	InvoicePDFFont      string
	ShutdownTimeout     time.Duration

	LogFormat        string
	LogLevel         string
	MetricsNamespace string
	MetricsEnabled   bool
	MetricsBuckets   string
	TracingEnabled   bool
	TracingExporter  string
	OTLPEndpoint     string
	TracingSampling  float64
}

// Load reads configuration from environment variables and optional .env files.
// DATABASE_URL and REDIS_URL are optional: without a database the built-in
// catalog is served, and without Redis caching, archiving and rate limiting
// are disabled.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	e := envReader{k}
	cfg := &Config{
		AppEnv:             e.str("APP_ENV", "development"),
		Port:               e.str("PORT", "8080"),
		DatabaseURL:        e.str("DATABASE_URL", ""),
		RedisURL:           e.str("REDIS_URL", ""),
		CORSAllowedOrigins: e.list("CORS_ALLOWED_ORIGINS"),

		CatalogCacheTTL:     e.duration("CATALOG_CACHE_TTL", 10*time.Minute),
		InvoiceArchiveTTL:   e.duration("INVOICE_ARCHIVE_TTL", 30*24*time.Hour),
		InvoiceRateLimitMax: e.integer("INVOICE_RATE_LIMIT_MAX", 60),
		InvoiceRateWindow:   e.duration("INVOICE_RATE_LIMIT_WINDOW", time.Minute),
		BodyLimitBytes:      int64(e.integer("HTTP_BODY_LIMIT_BYTES", 1<<20)),
		IdempotencyTTL:      e.duration("IDEMPOTENCY_TTL", 24*time.Hour),
		InvoicePDFFont:      e.str("INVOICE_PDF_FONT", ""),
		ShutdownTimeout:     e.duration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),

		LogFormat:        e.str("OBS_LOG_FORMAT", "json"),
		LogLevel:         e.str("OBS_LOG_LEVEL", "info"),
		MetricsNamespace: e.str("OBS_METRICS_NAMESPACE", "tcm"),
		MetricsEnabled:   e.boolean("OBS_ENABLE_PROMETHEUS", true),
		MetricsBuckets:   e.str("OBS_METRICS_BUCKETS_MS", ""),
		TracingEnabled:   e.boolean("OBS_ENABLE_TRACING", false),
		TracingExporter:  e.str("OBS_TRACING_EXPORTER", "otlp"),
		OTLPEndpoint:     e.str("OBS_OTLP_ENDPOINT", ""),
		TracingSampling:  e.float("OBS_TRACING_SAMPLING_RATIO", 1.0),
	}

	if cfg.InvoiceRateLimitMax < 0 {
		return nil, errors.New("INVOICE_RATE_LIMIT_MAX must not be negative")
	}
	if cfg.InvoiceRateWindow <= 0 {
		return nil, errors.New("INVOICE_RATE_LIMIT_WINDOW must be positive")
	}
	if cfg.TracingSampling < 0 || cfg.TracingSampling > 1 {
		return nil, errors.New("OBS_TRACING_SAMPLING_RATIO must be between 0 and 1")
	}

	return cfg, nil
}

// CatalogBackend names the catalog source selected by the configuration.
func (c *Config) CatalogBackend() string {
	if c.DatabaseURL == "" {
		return "static"
	}
	return "postgres"
}

// HTTPAddr returns the address the HTTP server should bind to.
func (c *Config) HTTPAddr() string {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

// envReader reads trimmed values from koanf, falling back to a default when
// a key is unset or does not parse.
type envReader struct {
	k *koanf.Koanf
}

func (e envReader) raw(key string) string {
	return strings.TrimSpace(e.k.String(key))
}

func (e envReader) str(key, def string) string {
	if v := e.raw(key); v != "" {
		return v
	}
	return def
}

func (e envReader) list(key string) []string {
	var out []string
	for _, part := range strings.Split(e.raw(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (e envReader) duration(key string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(e.raw(key))
	if err != nil {
		return def
	}
	return d
}

func (e envReader) integer(key string, def int) int {
	n, err := strconv.Atoi(e.raw(key))
	if err != nil {
		return def
	}
	return n
}

func (e envReader) float(key string, def float64) float64 {
	f, err := strconv.ParseFloat(e.raw(key), 64)
	if err != nil {
		return def
	}
	return f
}

func (e envReader) boolean(key string, def bool) bool {
	switch strings.ToLower(e.raw(key)) {
	case "1", "t", "true", "yes", "on":
		return true
	case "0", "f", "false", "no", "off":
		return false
	default:
		return def
	}
}
