//-------------------------------------------------------------------------
//
// pgEdge Salary Warehouse
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package db

import (
	"context"
	"errors"
	"maps"
	"slices"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pgEdge/pgedge-salarywh/internal/etlerr"
	"github.com/pgEdge/pgedge-salarywh/internal/logging"
	"github.com/pgEdge/pgedge-salarywh/pkg/version"
)

const metadataTable = "warehouse_metadata"

// Metadata keys written by every load.
const (
	MetaRunID    = "run_id"
	MetaVersion  = "version"
	MetaLoadedAt = "loaded_at"
	MetaSource   = "source_file"
	MetaRows     = "source_rows"
	MetaYear     = "year"
	MetaSeed     = "seed"
)

// Execer runs a statement; *pgxpool.Pool, *pgx.Conn and pgx.Tx satisfy it.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// MetadataEntry is one row of warehouse_metadata.
type MetadataEntry struct {
	Key   string `db:"key"`
	Value string `db:"value"`
}

// SaveMetadata records run metadata, replacing earlier values of the same
// keys. Build information and load time are always added.
func SaveMetadata(ctx context.Context, db Execer, meta map[string]string) error {
	all := version.Build()
	all[MetaLoadedAt] = time.Now().UTC().Format(time.RFC3339)
	maps.Copy(all, meta)

	for _, key := range slices.Sorted(maps.Keys(all)) {
		_, err := db.Exec(ctx, `
            INSERT INTO warehouse_metadata (key, value) VALUES ($1, $2)
            ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
        `, key, all[key])
		if err != nil {
			return classify(err, "save metadata %s", key)
		}
	}

	logging.Debug().
		Str("run_id", all[MetaRunID]).
		Int("keys", len(all)).
		Msg("Saved metadata")

	return nil
}

// GetMetadataValue retrieves a single metadata value by key.
func GetMetadataValue(ctx context.Context, db pgxscan.Querier, key string) (string, error) {
	var value string
	err := pgxscan.Get(ctx, db, &value, `
        SELECT value FROM warehouse_metadata WHERE key = $1
    `, key)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", err
		}
		return "", classify(err, "read metadata %s", key)
	}
	return value, nil
}

// GetAllMetadata retrieves all metadata ordered by key.
func GetAllMetadata(ctx context.Context, db pgxscan.Querier) ([]MetadataEntry, error) {
	var entries []MetadataEntry
	err := pgxscan.Select(ctx, db, &entries, `SELECT key, value FROM warehouse_metadata ORDER BY key`)
	if err != nil {
		return nil, classify(err, "read metadata")
	}
	return entries, nil
}

// MetadataExists checks if the metadata table exists.
func MetadataExists(ctx context.Context, db pgxscan.Querier) (bool, error) {
	var exists bool
	err := pgxscan.Get(ctx, db, &exists, `
        SELECT EXISTS (
            SELECT FROM information_schema.tables
            WHERE table_schema = current_schema() AND table_name = $1
        )
    `, metadataTable)
	if err != nil {
		return false, etlerr.Wrap(etlerr.ErrStoreIO, err, "check metadata table")
	}
	return exists, nil
}
