package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-salarywh/internal/db"
	"github.com/pgEdge/pgedge-salarywh/internal/logging"
)

var initDropExisting bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create or upgrade the warehouse schema",
	Long: `Create the warehouse tables in the target database, or upgrade them to
the current schema version. Running init against an up-to-date database
does nothing. The load command applies the schema as well, so init is
only needed to prepare a database ahead of time or to start over.

Example:
  pgedge-salarywh init --connection "postgres://..."
  pgedge-salarywh init --drop-existing`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initDropExisting, "drop-existing", false,
		"drop the existing warehouse tables before creating them")
}

func runInit(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	if initDropExisting {
		cfg.Init.DropExisting = true
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Drop existing schema if requested
	if cfg.Init.DropExisting {
		logging.Warn().Msg("Dropping existing warehouse schema")
		if err := db.DropSchema(cfg.Connection); err != nil {
			return fmt.Errorf("failed to drop schema: %w", err)
		}
	}

	logging.Info().Msg("Creating schema")
	if err := db.Migrate(cfg.Connection); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	schemaVersion, _, err := db.SchemaVersion(cfg.Connection)
	if err != nil {
		return err
	}

	logging.Info().
		Uint("schema_version", schemaVersion).
		Msg("Warehouse schema ready")

	return nil
}
