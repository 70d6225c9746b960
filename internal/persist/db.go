package persist

import (
	"context"
	"fmt"
	"time"

	"github.com/ballpit/ballpit/internal/config"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// DB is the telemetry store: a pgx pool whose schema is at the latest
// embedded migration.
type DB struct {
	Pool          *pgxpool.Pool
	SchemaVersion int64
	log           *zap.Logger
}

// Open connects, checks the server answers within timeout and brings the
// schema up to date. Any failure closes the pool.
func Open(ctx context.Context, cfg config.DatabaseConfig, timeout time.Duration, log *zap.Logger) (*DB, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	// Telemetry writes from one goroutine; a small pool is enough.
	if cfg.MaxOpenConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxOpenConns)
	}
	poolCfg.MinConns = int32(min(cfg.MaxIdleConns, cfg.MaxOpenConns))
	poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect telemetry db: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping telemetry db: %w", err)
	}

	version, err := migrate(ctx, pool)
	if err != nil {
		pool.Close()
		return nil, err
	}
	log.Info("telemetry database ready",
		zap.String("host", poolCfg.ConnConfig.Host),
		zap.String("database", poolCfg.ConnConfig.Database),
		zap.Int64("schema", version),
	)
	return &DB{Pool: pool, SchemaVersion: version, log: log}, nil
}

func (db *DB) Close() {
	db.Pool.Close()
}
