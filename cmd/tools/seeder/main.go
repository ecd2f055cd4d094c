package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/tcm-pricing/internal/app"
	"github.com/noah-isme/tcm-pricing/internal/cache"
	"github.com/noah-isme/tcm-pricing/internal/catalog"
	"github.com/noah-isme/tcm-pricing/internal/lock"
	"github.com/noah-isme/tcm-pricing/internal/migration"
	"github.com/noah-isme/tcm-pricing/internal/obs"
	"github.com/noah-isme/tcm-pricing/internal/resilience"
)

func main() {
	_ = godotenv.Load()
	logger := obs.NewLogger("console", os.Getenv("OBS_LOG_LEVEL"))

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logger.Fatal().Msg("DATABASE_URL is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	run := func(ctx context.Context) error { return seed(ctx, logger, dbURL) }

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		if err := run(ctx); err != nil {
			logger.Fatal().Err(err).Msg("seed")
		}
		logger.Info().Msg("seeding completed")
		return
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse redis url")
	}
	rdb := redis.NewClient(opts)
	defer func() { _ = rdb.Close() }()

	// replicas starting together must not race on migrations
	locker := lock.Locker{Client: rdb}
	err = locker.WithLock(ctx, "seeder", time.Minute, func(ctx context.Context) error {
		if err := run(ctx); err != nil {
			return err
		}
		return invalidateCatalog(ctx, rdb)
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("seed")
	}
	logger.Info().Msg("seeding completed")
}

func seed(ctx context.Context, logger zerolog.Logger, dbURL string) error {
	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	if err := waitForDB(ctx, logger, db); err != nil {
		return err
	}
	if err := migration.Up(db); err != nil {
		return err
	}
	logger.Info().Msg("migrations applied")

	entries, err := app.CatalogWithSKUs(catalog.DefaultEntries)
	if err != nil {
		return err
	}

	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer func() { _ = conn.Close(context.Background()) }()

	return pgx.BeginFunc(ctx, conn, func(tx pgx.Tx) error {
		repo, err := catalog.NewRepository(tx)
		if err != nil {
			return err
		}
		for _, e := range entries {
			if err := repo.Upsert(ctx, e); err != nil {
				return err
			}
			logger.Debug().Str("id", e.ID).Str("sku", e.SKU).Msg("upserted medicine")
		}
		logger.Info().Int("count", len(entries)).Msg("catalog seeded")
		return nil
	})
}

func waitForDB(ctx context.Context, logger zerolog.Logger, db *sql.DB) error {
	const attempts = 6
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = db.PingContext(ctx); err == nil {
			return nil
		}
		wait := resilience.Backoff(250*time.Millisecond, attempt, 0.2)
		logger.Warn().Err(err).Int("attempt", attempt).Dur("retry_in", wait).Msg("database not ready")
		select {
		case <-ctx.Done():
			return errors.Join(err, ctx.Err())
		case <-time.After(wait):
		}
	}
	return fmt.Errorf("ping db after %d attempts: %w", attempts, err)
}

func invalidateCatalog(ctx context.Context, rdb *redis.Client) error {
	keys := []string{cache.KeyMedicineList()}
	for _, e := range catalog.DefaultEntries {
		keys = append(keys, cache.KeyMedicine(e.ID))
	}
	return cache.NewJSON(rdb, 0).Delete(ctx, keys...)
}
