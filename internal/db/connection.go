// Package db provides PostgreSQL access for pgedge-salarywh: connection
// management, schema migrations, run metadata and the warehouse store.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pgEdge/pgedge-salarywh/internal/etlerr"
	"github.com/pgEdge/pgedge-salarywh/internal/logging"
)

// ApplicationName identifies warehouse sessions in pg_stat_activity.
const ApplicationName = "pgedge-salarywh"

// Pool sizing for a single writer: one connection runs the load
// transaction, the rest serve metadata reads.
const (
	defaultMaxConns          = 4
	defaultMinConns          = 1
	defaultMaxConnLifetime   = 30 * time.Minute
	defaultMaxConnIdleTime   = 5 * time.Minute
	defaultHealthCheckPeriod = 30 * time.Second
)

// applyPoolDefaults sizes the pool and tags its sessions. An application_name
// given in the connection string is kept.
func applyPoolDefaults(config *pgxpool.Config) {
	config.MaxConns = defaultMaxConns
	config.MinConns = defaultMinConns
	config.MaxConnLifetime = defaultMaxConnLifetime
	config.MaxConnIdleTime = defaultMaxConnIdleTime
	config.HealthCheckPeriod = defaultHealthCheckPeriod

	if config.ConnConfig.RuntimeParams == nil {
		config.ConnConfig.RuntimeParams = map[string]string{}
	}
	if config.ConnConfig.RuntimeParams["application_name"] == "" {
		config.ConnConfig.RuntimeParams["application_name"] = ApplicationName
	}
}

// Connect opens a connection pool to the warehouse database and verifies it
// with a ping.
func Connect(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}
	applyPoolDefaults(config)

	logging.Debug().
		Str("host", config.ConnConfig.Host).
		Uint16("port", config.ConnConfig.Port).
		Str("database", config.ConnConfig.Database).
		Int32("max_conns", config.MaxConns).
		Msg("Connecting to database")

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, etlerr.Wrap(etlerr.ErrStoreIO, err, "create connection pool")
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, etlerr.Wrap(etlerr.ErrStoreIO, err, "ping database")
	}

	logging.Info().
		Str("host", config.ConnConfig.Host).
		Str("database", config.ConnConfig.Database).
		Msg("Connected to database")

	return pool, nil
}
