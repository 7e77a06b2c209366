package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/jackc/pgx/v5"
	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-salarywh/internal/db"
	"github.com/pgEdge/pgedge-salarywh/internal/logging"
	"github.com/pgEdge/pgedge-salarywh/internal/pipeline"
)

var (
	exportDir          string
	exportDelim        string
	exportDecimalComma bool
	exportNoManifest   bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the current warehouse tables to CSV",
	Long: `Write every warehouse table to its own CSV file without loading new
data. The files carry the same headers as those written by load.

Example:
  pgedge-salarywh export --dir ./out
  pgedge-salarywh export --dir ./out --decimal-comma`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportDir, "dir", "",
		"directory receiving the CSV files")
	exportCmd.Flags().StringVar(&exportDelim, "delimiter", "",
		"field delimiter")
	exportCmd.Flags().BoolVar(&exportDecimalComma, "decimal-comma", false,
		"write decimals with ',' (requires a delimiter other than ',')")
	exportCmd.Flags().BoolVar(&exportNoManifest, "no-manifest", false,
		"do not write manifest.json")
}

func runExport(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	applyExportFlags(exportDir, exportDelim, exportDecimalComma)
	if exportNoManifest {
		cfg.Export.Manifest = false
	}

	// Validate configuration
	if err := cfg.ValidateExport(); err != nil {
		return err
	}
	opts, err := exportOptions(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	pool, err := db.Connect(ctx, cfg.Connection)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	exists, err := db.MetadataExists(ctx, pool)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf(
			"warehouse has not been initialized; run 'pgedge-salarywh load' first")
	}

	opts.RunID, err = db.GetMetadataValue(ctx, pool, db.MetaRunID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	files, err := pipeline.Export(ctx, opts, db.NewStore(pool, cfg.Load.BatchSize))
	if err != nil {
		return err
	}

	logging.Info().
		Str("run_id", opts.RunID).
		Int("files", len(files)).
		Msg("Export complete")
	cmd.Printf("Exported %d files to %s\n", len(files), filepath.Clean(opts.Dir))

	return nil
}
