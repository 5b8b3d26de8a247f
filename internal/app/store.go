package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/prepsom/levelplay/internal/answerstore"
	"github.com/prepsom/levelplay/internal/config"
)

// OpenStore builds the configured answer store scoped to namespace, plus a ping used by
// the readiness check.
func OpenStore(ctx context.Context, cfg *config.App, namespace string, logger zerolog.Logger) (answerstore.Store, func(context.Context) error, error) {
	driver := answerstore.Driver(cfg.Store.Driver)
	logger = logger.With().Str("store", string(driver)).Logger()

	switch driver {
	case answerstore.DriverMemory:
		logger.Warn().Msg("memory answer store: progress hints are lost on exit")
		return answerstore.NewMemory(), nil, nil

	case answerstore.DriverSQLite:
		s, err := answerstore.OpenSQLite(ctx, cfg.Store.SQLitePath, namespace)
		if err != nil {
			return nil, nil, err
		}
		logger.Debug().Str("path", cfg.Store.SQLitePath).Msg("sqlite answer store ready")
		return s, nil, nil

	case answerstore.DriverPostgres:
		pool, err := pgxpool.New(ctx, cfg.Postgres.ConnString())
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("ping postgres: %w", err)
		}
		logger.Debug().Str("host", cfg.Postgres.Host).Msg("postgres answer store ready")
		return answerstore.NewPostgres(pool, namespace), pool.Ping, nil

	case answerstore.DriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("ping redis: %w", err)
		}
		logger.Debug().Str("addr", cfg.Redis.Addr).Msg("redis answer store ready")
		ping := func(ctx context.Context) error { return client.Ping(ctx).Err() }
		return answerstore.NewRedis(client, namespace, cfg.Redis.KeyPrefix), ping, nil
	}
	return nil, nil, fmt.Errorf("unknown store driver %q", driver)
}
