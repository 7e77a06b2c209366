//-------------------------------------------------------------------------
//
// pgEdge Salary Warehouse
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package export writes warehouse tables to delimited text files.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/gocarina/gocsv"

	"github.com/pgEdge/pgedge-salarywh/internal/etlerr"
	"github.com/pgEdge/pgedge-salarywh/internal/logging"
	"github.com/pgEdge/pgedge-salarywh/internal/warehouse"
)

// ManifestName is the file describing an export.
const ManifestName = "manifest.json"

// Options controls the output format.
type Options struct {
	// Dir receives one file per table; it is created if missing.
	Dir string

	// DecimalSeparator replaces '.' in fractional numbers.
	DecimalSeparator rune

	// Delimiter separates fields.
	Delimiter rune

	// Manifest enables writing manifest.json next to the table files.
	Manifest bool

	// RunID is recorded in the manifest.
	RunID string
}

// DefaultOptions writes comma separated files with '.' decimals to the
// current directory.
func DefaultOptions() Options {
	return Options{
		Dir:              ".",
		DecimalSeparator: '.',
		Delimiter:        ',',
		Manifest:         true,
	}
}

// Validate rejects formats that would make the output ambiguous.
func (o Options) Validate() error {
	if o.Dir == "" {
		return fmt.Errorf("export directory is required")
	}
	if o.DecimalSeparator != '.' && o.DecimalSeparator != ',' {
		return fmt.Errorf("decimal separator must be '.' or ','")
	}
	if o.Delimiter == 0 || o.Delimiter == '"' || o.Delimiter == '\r' || o.Delimiter == '\n' {
		return fmt.Errorf("invalid delimiter %q", o.Delimiter)
	}
	if o.Delimiter == o.DecimalSeparator {
		return fmt.Errorf("delimiter and decimal separator must differ")
	}
	return nil
}

// File describes one exported table.
type File struct {
	Table   string `json:"table"`
	Path    string `json:"file"`
	Rows    int    `json:"rows"`
	Columns int    `json:"columns"`
}

// Manifest lists the files of one export.
type Manifest struct {
	RunID            string    `json:"run_id,omitempty"`
	ExportedAt       time.Time `json:"exported_at"`
	Delimiter        string    `json:"delimiter"`
	DecimalSeparator string    `json:"decimal_separator"`
	Files            []File    `json:"files"`
}

// Exporter writes warehouse tables to files.
type Exporter struct {
	opts Options
}

// New returns an Exporter.
func New(opts Options) (*Exporter, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Exporter{opts: opts}, nil
}

// Export writes every table of wh, header row first, and returns the files
// written in table order.
func (e *Exporter) Export(wh *warehouse.Warehouse) ([]File, error) {
	if err := os.MkdirAll(e.opts.Dir, 0o755); err != nil {
		return nil, etlerr.Wrap(etlerr.ErrStoreIO, err, "create export directory")
	}

	files := make([]File, 0, len(warehouse.Tables))
	for _, table := range warehouse.Tables {
		f, err := e.writeTable(table, wh.Rows(table.Name))
		if err != nil {
			return nil, err
		}
		files = append(files, f)

		logging.Info().
			Str("table", table.Name).
			Str("file", f.Path).
			Int("rows", f.Rows).
			Msg("Exported table")
	}

	if e.opts.Manifest {
		if err := e.writeManifest(files); err != nil {
			return nil, err
		}
	}
	return files, nil
}

func (e *Exporter) writeTable(table warehouse.Table, rows [][]any) (File, error) {
	path := filepath.Join(e.opts.Dir, table.Export+".csv")

	out, err := os.Create(path)
	if err != nil {
		return File{}, etlerr.Wrap(etlerr.ErrStoreIO, err, "create %s", path)
	}
	defer out.Close()

	w := csv.NewWriter(out)
	w.Comma = e.opts.Delimiter
	writer := gocsv.NewSafeCSVWriter(w)

	if err := writer.Write(table.Headers()); err != nil {
		return File{}, etlerr.Wrap(etlerr.ErrStoreIO, err, "write %s", path)
	}
	record := make([]string, len(table.Columns))
	for _, row := range rows {
		for i, v := range row {
			record[i] = e.format(v)
		}
		if err := writer.Write(record); err != nil {
			return File{}, etlerr.Wrap(etlerr.ErrStoreIO, err, "write %s", path)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return File{}, etlerr.Wrap(etlerr.ErrStoreIO, err, "flush %s", path)
	}
	if err := out.Close(); err != nil {
		return File{}, etlerr.Wrap(etlerr.ErrStoreIO, err, "close %s", path)
	}

	return File{Table: table.Name, Path: path, Rows: len(rows), Columns: len(table.Columns)}, nil
}

// format renders one value. NULL renders as an empty field.
func (e *Exporter) format(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case *string:
		if x == nil {
			return ""
		}
		return *x
	case string:
		return x
	case float64:
		s := strconv.FormatFloat(x, 'f', -1, 64)
		if e.opts.DecimalSeparator != '.' {
			s = strings.Replace(s, ".", string(e.opts.DecimalSeparator), 1)
		}
		return s
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	default:
		return fmt.Sprint(x)
	}
}

func (e *Exporter) writeManifest(files []File) error {
	m := Manifest{
		RunID:            e.opts.RunID,
		ExportedAt:       time.Now().UTC(),
		Delimiter:        string(e.opts.Delimiter),
		DecimalSeparator: string(e.opts.DecimalSeparator),
		Files:            files,
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}

	path := filepath.Join(e.opts.Dir, ManifestName)
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return etlerr.Wrap(etlerr.ErrStoreIO, err, "write %s", path)
	}
	return nil
}

// ReadManifest loads the manifest of an earlier export from dir.
func ReadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestName))
	if err != nil {
		return nil, etlerr.Wrap(etlerr.ErrStoreIO, err, "read manifest")
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to decode manifest: %w", err)
	}
	return &m, nil
}
