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
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/pgEdge/pgedge-salarywh/internal/etlerr"
	"github.com/pgEdge/pgedge-salarywh/internal/logging"
)

// MigrationsTable records the applied schema version.
const MigrationsTable = "warehouse_schema_migrations"

//go:embed migrations/*.sql
var migrationFS embed.FS

// Migrate creates or upgrades the warehouse schema. An up-to-date schema is
// not an error.
func Migrate(connString string) error {
	return withMigrator(connString, func(m *migrate.Migrate) error {
		err := m.Up()
		if errors.Is(err, migrate.ErrNoChange) {
			logging.Debug().Msg("Warehouse schema is up to date")
			return nil
		}
		return err
	})
}

// DropSchema removes every warehouse table, including run metadata.
func DropSchema(connString string) error {
	return withMigrator(connString, func(m *migrate.Migrate) error {
		err := m.Down()
		if errors.Is(err, migrate.ErrNoChange) {
			return nil
		}
		return err
	})
}

// SchemaVersion returns the applied migration version. A database that was
// never migrated reports version 0.
func SchemaVersion(connString string) (uint, bool, error) {
	var (
		version uint
		dirty   bool
	)
	err := withMigrator(connString, func(m *migrate.Migrate) error {
		var err error
		version, dirty, err = m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			return nil
		}
		return err
	})
	return version, dirty, err
}

func withMigrator(connString string, fn func(*migrate.Migrate) error) error {
	connConfig, err := pgx.ParseConfig(connString)
	if err != nil {
		return fmt.Errorf("failed to parse connection string: %w", err)
	}

	sqlDB := stdlib.OpenDB(*connConfig)
	defer sqlDB.Close()

	driver, err := pgxmigrate.WithInstance(sqlDB, &pgxmigrate.Config{
		MigrationsTable: MigrationsTable,
	})
	if err != nil {
		return etlerr.Wrap(etlerr.ErrStoreIO, err, "open migration driver")
	}

	migrationDir, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return err
	}

	m, err := migrate.NewWithInstance("iofs", migrationDir, "pgx5", driver)
	if err != nil {
		return etlerr.Wrap(etlerr.ErrStoreIO, err, "create migrator")
	}
	defer m.Close()

	if err := fn(m); err != nil {
		return etlerr.Wrap(etlerr.ErrStoreIO, err, "migrate schema")
	}
	return nil
}
