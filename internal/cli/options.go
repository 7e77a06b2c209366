package cli

import (
	"github.com/pgEdge/pgedge-salarywh/internal/config"
	"github.com/pgEdge/pgedge-salarywh/internal/export"
	"github.com/pgEdge/pgedge-salarywh/internal/pipeline"
)

// loadOptions converts a validated configuration into pipeline options.
func loadOptions(c *config.Config) (pipeline.Options, error) {
	build, err := c.Load.BuildOptions()
	if err != nil {
		return pipeline.Options{}, err
	}
	delim, err := config.SingleRune("input_delimiter", c.Load.InputDelimiter)
	if err != nil {
		return pipeline.Options{}, err
	}

	opts := pipeline.Options{
		Input:          c.Load.Input,
		InputDelimiter: delim,
		Build:          build,
		Seed:           c.Load.Seed,
		NameAttempts:   c.Load.NameAttempts,
		SkipExport:     c.Load.SkipExport,
	}
	if opts.SkipExport {
		return opts, nil
	}

	opts.Export, err = exportOptions(c)
	if err != nil {
		return pipeline.Options{}, err
	}
	return opts, nil
}

// exportOptions converts the export section into writer options.
func exportOptions(c *config.Config) (export.Options, error) {
	sep, err := config.SingleRune("decimal_separator", c.Export.DecimalSeparator)
	if err != nil {
		return export.Options{}, err
	}
	delim, err := config.SingleRune("delimiter", c.Export.Delimiter)
	if err != nil {
		return export.Options{}, err
	}

	opts := export.Options{
		Dir:              c.Export.Dir,
		DecimalSeparator: sep,
		Delimiter:        delim,
		Manifest:         c.Export.Manifest,
	}
	return opts, opts.Validate()
}
