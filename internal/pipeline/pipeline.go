//-------------------------------------------------------------------------
//
// pgEdge Salary Warehouse
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package pipeline runs a warehouse load end to end: read the input file,
// build the star schema, persist it and export every table.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/pgEdge/pgedge-salarywh/internal/datagen"
	"github.com/pgEdge/pgedge-salarywh/internal/db"
	"github.com/pgEdge/pgedge-salarywh/internal/export"
	"github.com/pgEdge/pgedge-salarywh/internal/identity"
	"github.com/pgEdge/pgedge-salarywh/internal/logging"
	"github.com/pgEdge/pgedge-salarywh/internal/source"
	"github.com/pgEdge/pgedge-salarywh/internal/warehouse"
)

// Store persists and reloads a complete warehouse.
type Store interface {
	Write(ctx context.Context, wh *warehouse.Warehouse, meta map[string]string) error
	Read(ctx context.Context) (*warehouse.Warehouse, error)
}

// Options configures one load.
type Options struct {
	// Input is the salary records file.
	Input string

	// InputDelimiter separates input fields; zero means ','.
	InputDelimiter rune

	Build warehouse.Options

	// Seed makes names and monthly splits reproducible; zero picks a
	// random seed, which is recorded in the run metadata.
	Seed uint64

	// NameAttempts bounds the draws per unique employee name.
	NameAttempts int

	Export export.Options

	// SkipExport stops after the store commit.
	SkipExport bool
}

// Result summarizes a completed load.
type Result struct {
	RunID    string
	Rows     int
	Counts   map[string]int
	Files    []export.File
	Duration time.Duration
}

// Run executes the load. The store is written in a single transaction, so a
// failure at any step leaves the previous warehouse contents intact.
func Run(ctx context.Context, opts Options, store Store) (*Result, error) {
	start := time.Now()
	runID := uuid.NewString()

	if !opts.SkipExport {
		if err := opts.Export.Validate(); err != nil {
			return nil, err
		}
	}

	logging.Info().
		Str("run_id", runID).
		Str("input", opts.Input).
		Int("year", opts.Build.Year).
		Msg("Starting load")

	rows, err := source.ReadFile(opts.Input, opts.InputDelimiter)
	if err != nil {
		return nil, err
	}
	logging.Info().Int("rows", len(rows)).Msg("Read input")

	faker := datagen.NewFaker()
	if opts.Seed != 0 {
		faker = datagen.NewFakerWithSeed(opts.Seed)
	}
	synth := identity.NewSynthesizer(identity.NewFakerSource(faker), opts.NameAttempts)

	builder, err := warehouse.NewBuilder(opts.Build, faker, synth)
	if err != nil {
		return nil, err
	}
	wh, err := builder.Build(rows)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	meta := map[string]string{
		db.MetaRunID:  runID,
		db.MetaSource: opts.Input,
		db.MetaRows:   strconv.Itoa(len(rows)),
		db.MetaYear:   strconv.Itoa(opts.Build.Year),
		db.MetaSeed:   strconv.FormatUint(faker.Seed(), 10),
	}
	if err := store.Write(ctx, wh, meta); err != nil {
		return nil, err
	}
	logging.Info().Str("run_id", runID).Msg("Warehouse committed")

	res := &Result{
		RunID:  runID,
		Rows:   len(rows),
		Counts: wh.Counts(),
	}

	if !opts.SkipExport {
		exportOpts := opts.Export
		exportOpts.RunID = runID
		if res.Files, err = Export(ctx, exportOpts, store); err != nil {
			return nil, err
		}
	}

	res.Duration = time.Since(start)
	return res, nil
}

// Export reads the current warehouse from store and writes every table.
func Export(ctx context.Context, opts export.Options, store Store) ([]export.File, error) {
	exporter, err := export.New(opts)
	if err != nil {
		return nil, err
	}

	wh, err := store.Read(ctx)
	if err != nil {
		return nil, err
	}
	return exporter.Export(wh)
}

// Summary renders a human-readable completion message.
func Summary(res *Result) string {
	p := message.NewPrinter(language.English)

	var sb strings.Builder
	p.Fprintf(&sb, "Load %s complete in %v\n", res.RunID, res.Duration.Round(time.Millisecond))
	p.Fprintf(&sb, "  %-12s %10d\n", "source rows", res.Rows)
	for _, table := range warehouse.Tables {
		p.Fprintf(&sb, "  %-12s %10d\n", table.Name, res.Counts[table.Name])
	}
	if len(res.Files) > 0 {
		fmt.Fprintf(&sb, "Exported %d files to %s\n", len(res.Files), exportDir(res.Files))
	}
	return sb.String()
}

func exportDir(files []export.File) string {
	return filepath.Dir(files[0].Path)
}
