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
	"fmt"
	"strings"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pgEdge/pgedge-salarywh/internal/datagen"
	"github.com/pgEdge/pgedge-salarywh/internal/etlerr"
	"github.com/pgEdge/pgedge-salarywh/internal/logging"
	"github.com/pgEdge/pgedge-salarywh/internal/warehouse"
)

// maxParams is the PostgreSQL limit on bind parameters per statement.
const maxParams = 65535

// SQLSTATE codes surfaced as constraint violations.
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
	checkViolation      = "23514"
	notNullViolation    = "23502"
)

// Store persists a warehouse in PostgreSQL.
type Store struct {
	pool      *pgxpool.Pool
	batchSize int
}

// NewStore returns a store over pool. A non-positive batchSize selects the
// default.
func NewStore(pool *pgxpool.Pool, batchSize int) *Store {
	if batchSize <= 0 {
		batchSize = datagen.DefaultBatchConfig().BatchSize
	}
	return &Store{pool: pool, batchSize: batchSize}
}

// Write replaces the contents of every warehouse table with wh and records
// meta, all in one transaction. Nothing is committed on error.
func (s *Store) Write(ctx context.Context, wh *warehouse.Warehouse, meta map[string]string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return classify(err, "begin transaction")
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err := tx.Exec(ctx, truncateSQL()); err != nil {
		return classify(err, "truncate warehouse")
	}

	for _, table := range warehouse.Tables {
		rows := wh.Rows(table.Name)
		if err := s.insertRows(ctx, tx, table, rows); err != nil {
			return err
		}
		if err := resetIdentity(ctx, tx, table); err != nil {
			return err
		}
	}

	if err := SaveMetadata(ctx, tx, meta); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return classify(err, "commit")
	}
	return nil
}

// insertRows writes rows in multi-row batches. Dimension inserts ignore
// duplicates, but every row is expected to land: a duplicate means the
// in-memory deduplication and the table constraints disagree.
func (s *Store) insertRows(ctx context.Context, tx pgx.Tx, table warehouse.Table, rows [][]any) error {
	batchSize := min(s.batchSize, maxParams/len(table.Columns))
	onConflict := table.Name != warehouse.TableFact

	progress := datagen.NewProgressReporter(table.Name, "Inserting rows", int64(len(rows)),
		datagen.DefaultBatchConfig().ProgressInterval)

	for start := 0; start < len(rows); start += batchSize {
		batch := rows[start:min(start+batchSize, len(rows))]

		sql, args := buildInsert(table, batch, onConflict)
		tag, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			return classify(err, "insert into %s", table.Name)
		}
		if tag.RowsAffected() != int64(len(batch)) {
			return etlerr.New(etlerr.ErrConstraintViolation,
				"%s: %d of %d rows conflicted with existing rows",
				table.Name, int64(len(batch))-tag.RowsAffected(), len(batch))
		}
		progress.Update(int64(len(batch)))
	}
	progress.Done()

	return nil
}

// buildInsert renders a parameterized multi-row INSERT.
func buildInsert(table warehouse.Table, rows [][]any, onConflict bool) (string, []any) {
	ncols := len(table.Columns)

	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(pgx.Identifier{table.Name}.Sanitize())
	sb.WriteString(" (")
	sb.WriteString(strings.Join(table.ColumnNames(), ", "))
	sb.WriteString(") VALUES ")

	args := make([]any, 0, len(rows)*ncols)
	for i, row := range rows {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteByte('(')
		for j := range row {
			if j > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "$%d", i*ncols+j+1)
		}
		sb.WriteByte(')')
		args = append(args, row...)
	}

	if onConflict {
		sb.WriteString(" ON CONFLICT DO NOTHING")
	}
	return sb.String(), args
}

// truncateSQL empties every warehouse table and restarts identities.
func truncateSQL() string {
	names := make([]string, len(warehouse.Tables))
	for i, t := range warehouse.Tables {
		names[i] = pgx.Identifier{t.Name}.Sanitize()
	}
	return "TRUNCATE TABLE " + strings.Join(names, ", ") + " RESTART IDENTITY"
}

// resetIdentity moves the identity sequence past the explicitly assigned
// ids so later default inserts do not collide.
func resetIdentity(ctx context.Context, tx pgx.Tx, table warehouse.Table) error {
	key := table.Columns[0].Name
	sql := fmt.Sprintf(`
        SELECT setval(pg_get_serial_sequence($1, $2), max_id)
        FROM (SELECT MAX(%s) AS max_id FROM %s) m
        WHERE max_id IS NOT NULL`,
		pgx.Identifier{key}.Sanitize(), pgx.Identifier{table.Name}.Sanitize())

	if _, err := tx.Exec(ctx, sql, table.Name, key); err != nil {
		return classify(err, "reset identity of %s", table.Name)
	}
	return nil
}

// Read loads every warehouse table ordered by surrogate key.
func (s *Store) Read(ctx context.Context) (*warehouse.Warehouse, error) {
	wh := &warehouse.Warehouse{}

	targets := map[string]any{
		warehouse.TableDate:       &wh.Dates,
		warehouse.TableDepartment: &wh.Departments,
		warehouse.TableEmployee:   &wh.Employees,
		warehouse.TableSalary:     &wh.Salaries,
		warehouse.TableFact:       &wh.Facts,
	}

	for _, table := range warehouse.Tables {
		sql := fmt.Sprintf("SELECT %s FROM %s ORDER BY %s",
			strings.Join(table.ColumnNames(), ", "),
			pgx.Identifier{table.Name}.Sanitize(),
			table.Columns[0].Name)
		if err := pgxscan.Select(ctx, s.pool, targets[table.Name], sql); err != nil {
			return nil, classify(err, "read %s", table.Name)
		}
	}

	logging.Debug().
		Int("dates", len(wh.Dates)).
		Int("facts", len(wh.Facts)).
		Msg("Read warehouse")

	return wh, nil
}

// Counts returns the row count of every warehouse table.
func (s *Store) Counts(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64, len(warehouse.Tables))
	for _, table := range warehouse.Tables {
		var n int64
		sql := "SELECT COUNT(*) FROM " + pgx.Identifier{table.Name}.Sanitize()
		if err := s.pool.QueryRow(ctx, sql).Scan(&n); err != nil {
			return nil, classify(err, "count %s", table.Name)
		}
		counts[table.Name] = n
	}
	return counts, nil
}

// Metadata returns the recorded run metadata.
func (s *Store) Metadata(ctx context.Context) ([]MetadataEntry, error) {
	return GetAllMetadata(ctx, s.pool)
}

// classify maps a PostgreSQL error onto the failure taxonomy.
func classify(err error, format string, args ...any) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation, foreignKeyViolation, checkViolation, notNullViolation:
			return etlerr.Wrap(etlerr.ErrConstraintViolation, err, format, args...)
		}
	}
	return etlerr.Wrap(etlerr.ErrStoreIO, err, format, args...)
}
