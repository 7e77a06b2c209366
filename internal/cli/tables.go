package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/pgEdge/pgedge-salarywh/internal/db"
	"github.com/pgEdge/pgedge-salarywh/internal/warehouse"
)

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "Show warehouse row counts and the last load",
	Long: `Print the row count of every warehouse table followed by the metadata
recorded by the most recent load.`,
	RunE: runTables,
}

func runTables(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
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
			"warehouse has not been initialized; run 'pgedge-salarywh init' first")
	}

	store := db.NewStore(pool, cfg.Load.BatchSize)
	counts, err := store.Counts(ctx)
	if err != nil {
		return err
	}
	entries, err := store.Metadata(ctx)
	if err != nil {
		return err
	}

	printTables(cmd.OutOrStdout(), counts, entries)
	return nil
}

func printTables(w io.Writer, counts map[string]int64, entries []db.MetadataEntry) {
	p := message.NewPrinter(language.English)

	p.Fprintln(w, "Warehouse tables:")
	for _, table := range warehouse.Tables {
		p.Fprintf(w, "  %-12s %-16s %10d\n", table.Name, table.Export, counts[table.Name])
	}

	if len(entries) == 0 {
		p.Fprintln(w)
		p.Fprintln(w, "No load recorded.")
		return
	}

	p.Fprintln(w)
	p.Fprintln(w, "Last load:")
	for _, e := range entries {
		p.Fprintf(w, "  %-12s %s\n", e.Key, e.Value)
	}
}
