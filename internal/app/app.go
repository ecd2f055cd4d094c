// Package app assembles the pricing service from configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/extra/redisotel/v9"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/tcm-pricing/internal/cache"
	"github.com/noah-isme/tcm-pricing/internal/catalog"
	"github.com/noah-isme/tcm-pricing/internal/config"
	"github.com/noah-isme/tcm-pricing/internal/health"
	"github.com/noah-isme/tcm-pricing/internal/obs"
	"github.com/noah-isme/tcm-pricing/internal/pricing"
	"github.com/noah-isme/tcm-pricing/internal/resilience"
	"github.com/noah-isme/tcm-pricing/internal/sku"
)

const serviceName = "tcm-pricing"

// App holds the long-lived dependencies shared by the HTTP handlers.
type App struct {
	Config     *config.Config
	Logger     zerolog.Logger
	DB         *pgxpool.Pool
	Redis      *redis.Client
	Catalog    catalog.Reader
	Calculator *pricing.Calculator
	Metrics    *obs.HTTPMetrics
}

// Open connects to the configured backends and assembles the App. Postgres and
// Redis are optional; see config.Load.
func Open(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*App, error) {
	pool, err := openPostgres(ctx, cfg)
	if err != nil {
		return nil, err
	}
	rdb, err := openRedis(ctx, cfg, logger)
	if err != nil {
		if pool != nil {
			pool.Close()
		}
		return nil, err
	}
	a, err := New(cfg, logger, pool, rdb)
	if err != nil {
		if pool != nil {
			pool.Close()
		}
		if rdb != nil {
			_ = rdb.Close()
		}
		return nil, err
	}
	return a, nil
}

// New assembles the App around already opened connections. Either may be nil.
func New(cfg *config.Config, logger zerolog.Logger, pool *pgxpool.Pool, rdb *redis.Client) (*App, error) {
	var reader catalog.Reader
	if pool != nil {
		repo, err := catalog.NewRepository(pool)
		if err != nil {
			return nil, err
		}
		breaker := resilience.NewBreaker("catalog_postgres", 5, 0.5, 30*time.Second).WithLogger(logger)
		reader = catalog.Guarded{Inner: repo, Breaker: breaker}
	} else {
		entries, err := CatalogWithSKUs(catalog.DefaultEntries)
		if err != nil {
			return nil, err
		}
		reader = catalog.NewStatic(entries...)
	}
	if rdb != nil {
		reader = catalog.Cached{Inner: reader, Cache: cache.NewJSON(rdb, cfg.CatalogCacheTTL)}
	}

	a := &App{
		Config:     cfg,
		Logger:     logger,
		DB:         pool,
		Redis:      rdb,
		Catalog:    reader,
		Calculator: pricing.NewCalculator(reader, logger),
	}
	if cfg.MetricsEnabled {
		a.Metrics = obs.NewHTTPMetrics(cfg.MetricsNamespace, obs.ParseBucketsCSV(cfg.MetricsBuckets), nil)
	}
	logger.Info().
		Str("catalog", cfg.CatalogBackend()).
		Bool("redis", rdb != nil).
		Msg("dependencies ready")
	return a, nil
}

// Close releases the connections held by the App.
func (a *App) Close() {
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.Logger.Error().Err(err).Msg("close redis")
		}
	}
	if a.DB != nil {
		a.DB.Close()
	}
}

// CatalogWithSKUs returns a copy of entries with catalog codes assigned in
// order, replacing any code they already carry.
func CatalogWithSKUs(entries []catalog.Entry) ([]catalog.Entry, error) {
	batch := make([]sku.Entry, len(entries))
	for i, e := range entries {
		batch[i] = sku.Entry{ChineseName: e.ChineseName, PinyinName: e.PinyinName}
	}
	assigned, err := sku.Batch(batch)
	if err != nil {
		return nil, fmt.Errorf("assign catalog codes: %w", err)
	}
	out := make([]catalog.Entry, len(entries))
	for i, e := range entries {
		e.SKU = assigned[i].SKU
		out[i] = e
	}
	return out, nil
}

func openPostgres(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	if cfg.DatabaseURL == "" {
		return nil, nil
	}
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}
	poolConfig.ConnConfig.Tracer = obs.PGXTracer{}
	if poolConfig.ConnConfig.RuntimeParams == nil {
		poolConfig.ConnConfig.RuntimeParams = map[string]string{}
	}
	poolConfig.ConnConfig.RuntimeParams["application_name"] = serviceName

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

func openRedis(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*redis.Client, error) {
	if cfg.RedisURL == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if cfg.TracingEnabled {
		if err := redisotel.InstrumentTracing(client); err != nil {
			logger.Error().Err(err).Msg("instrument redis tracing")
		}
	}
	if cfg.MetricsEnabled {
		if err := redisotel.InstrumentMetrics(client); err != nil {
			logger.Error().Err(err).Msg("instrument redis metrics")
		}
	}
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

type readinessChecker struct {
	db    *pgxpool.Pool
	redis *redis.Client
}

func (c readinessChecker) PingDB(ctx context.Context, timeout time.Duration) error {
	if c.db == nil {
		return health.ErrDisabled
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return c.db.Ping(ctx)
}

func (c readinessChecker) PingRedis(ctx context.Context, timeout time.Duration) error {
	if c.redis == nil {
		return health.ErrDisabled
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := c.redis.Ping(ctx).Err(); err != nil {
		return errors.New("redis unreachable")
	}
	return nil
}
