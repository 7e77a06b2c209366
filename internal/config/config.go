//-------------------------------------------------------------------------
//
// pgEdge Salary Warehouse
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package config handles configuration management for pgedge-salarywh.
// Configuration is loaded from config files and CLI flags (no environment variables).
// CLI flags take precedence over config file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/spf13/viper"

	"github.com/pgEdge/pgedge-salarywh/internal/warehouse"
)

// Config holds all configuration for pgedge-salarywh.
type Config struct {
	// Connection is the PostgreSQL connection string.
	Connection string `mapstructure:"connection"`

	// LogLevel controls logging verbosity (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level"`

	// LogFormat selects console ("pretty") or JSON ("json") log output.
	LogFormat string `mapstructure:"log_format"`

	// Init holds configuration for the init subcommand.
	Init InitConfig `mapstructure:"init"`

	// Load holds configuration for the load subcommand.
	Load LoadConfig `mapstructure:"load"`

	// Export holds configuration for CSV output, used by load and export.
	Export ExportConfig `mapstructure:"export"`
}

// InitConfig holds configuration for schema initialization.
type InitConfig struct {
	// DropExisting drops existing schema before initialization.
	DropExisting bool `mapstructure:"drop_existing"`
}

// LoadConfig holds configuration for a warehouse load.
type LoadConfig struct {
	// Input is the salary records CSV file.
	Input string `mapstructure:"input"`

	// InputDelimiter separates input fields.
	InputDelimiter string `mapstructure:"input_delimiter"`

	// Year is the year facts are recorded against.
	Year int `mapstructure:"year"`

	// DateStartYear and DateEndYear bound the date dimension. Zero means Year.
	DateStartYear int `mapstructure:"date_start_year"`
	DateEndYear   int `mapstructure:"date_end_year"`

	// Seed makes a load reproducible (0 = random).
	Seed uint64 `mapstructure:"seed"`

	// NameAttempts bounds the draws for each unique employee name.
	NameAttempts int `mapstructure:"name_attempts"`

	// BatchSize is the number of rows per INSERT statement.
	BatchSize int `mapstructure:"batch_size"`

	// SkipExport stops after the database commit.
	SkipExport bool `mapstructure:"skip_export"`
}

// ExportConfig holds configuration for CSV export.
type ExportConfig struct {
	// Dir receives one CSV file per table.
	Dir string `mapstructure:"dir"`

	// DecimalSeparator is "." or ",".
	DecimalSeparator string `mapstructure:"decimal_separator"`

	// Delimiter separates fields.
	Delimiter string `mapstructure:"delimiter"`

	// Manifest writes manifest.json next to the table files.
	Manifest bool `mapstructure:"manifest"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:  "info",
		LogFormat: "pretty",
		Init: InitConfig{
			DropExisting: false,
		},
		Load: LoadConfig{
			InputDelimiter: ",",
			Year:           2023,
			NameAttempts:   100,
			BatchSize:      1000,
		},
		Export: ExportConfig{
			Dir:              "export",
			DecimalSeparator: ".",
			Delimiter:        ",",
			Manifest:         true,
		},
	}
}

// Load reads configuration from config files.
// Config file locations (in order of precedence):
// 1. Path specified by configFile parameter
// 2. ./pgedge-salarywh.yaml
// 3. ~/.config/pgedge-salarywh/config.yaml
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("pgedge-salarywh")
	v.SetConfigType("yaml")

	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "pgedge-salarywh"))
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Start with defaults
	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.Connection == "" {
		return fmt.Errorf("connection string is required")
	}
	if c.LogFormat != "pretty" && c.LogFormat != "json" {
		return fmt.Errorf("log_format must be 'pretty' or 'json'")
	}
	return nil
}

// ValidateLoad checks configuration required for the load command.
func (c *Config) ValidateLoad() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Load.Input == "" {
		return fmt.Errorf("input file is required for load")
	}
	if _, err := SingleRune("input_delimiter", c.Load.InputDelimiter); err != nil {
		return err
	}
	if _, err := c.Load.BuildOptions(); err != nil {
		return err
	}
	if c.Load.NameAttempts < 1 {
		return fmt.Errorf("name_attempts must be at least 1")
	}
	if c.Load.BatchSize < 1 {
		return fmt.Errorf("batch_size must be at least 1")
	}
	if c.Load.SkipExport {
		return nil
	}
	return c.validateExport()
}

// ValidateExport checks configuration required for the export command.
func (c *Config) ValidateExport() error {
	if err := c.Validate(); err != nil {
		return err
	}
	return c.validateExport()
}

func (c *Config) validateExport() error {
	if c.Export.Dir == "" {
		return fmt.Errorf("export dir is required")
	}
	sep, err := SingleRune("decimal_separator", c.Export.DecimalSeparator)
	if err != nil {
		return err
	}
	if sep != '.' && sep != ',' {
		return fmt.Errorf("decimal_separator must be '.' or ','")
	}
	delim, err := SingleRune("delimiter", c.Export.Delimiter)
	if err != nil {
		return err
	}
	if delim == sep {
		return fmt.Errorf("delimiter and decimal_separator must differ")
	}
	return nil
}

// BuildOptions converts the load section into warehouse build options.
func (l LoadConfig) BuildOptions() (warehouse.Options, error) {
	opts := warehouse.DefaultOptions()
	opts.Year = l.Year
	opts.StartYear = l.DateStartYear
	opts.EndYear = l.DateEndYear
	if opts.StartYear == 0 {
		opts.StartYear = l.Year
	}
	if opts.EndYear == 0 {
		opts.EndYear = max(l.Year, opts.StartYear)
	}

	if err := opts.Validate(); err != nil {
		return warehouse.Options{}, err
	}
	return opts, nil
}

// SingleRune parses a one-character setting.
func SingleRune(name, s string) (rune, error) {
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("%s must be a single character, got %q", name, s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}
