// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/darijamt/colmap/cmd/config"
	"github.com/darijamt/colmap/pkg/catalog"
	"github.com/darijamt/colmap/pkg/columns"
	loglib "github.com/darijamt/colmap/pkg/log"
	"github.com/darijamt/colmap/pkg/schema"
	"github.com/darijamt/colmap/pkg/validator"
)

// parent command for validation subcommands
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate column mappings and dataset columns",
}

var (
	errNoSchemaFile     = errors.New("column mapping file is required")
	errEmptyCatalog     = errors.New("no catalog entries to validate")
	errInvalidSchema    = errors.New("column mapping is not valid")
	errValidationFailed = errors.New("column validation failed")
	errCatalogFailed    = errors.New("catalog validation failed")
)

var validateSchemaCmd = &cobra.Command{
	Use:     "schema",
	Short:   "Checks the structure of a column mapping file",
	PreRunE: validateSchemaFlagBinding,
	RunE: func(cmd *cobra.Command, args []string) error {
		sp, _ := pterm.DefaultSpinner.WithText("checking column mapping structure...").Start()

		cfg, err := config.ParseConfig()
		if err != nil {
			sp.Fail(err.Error())
			return fmt.Errorf("parsing config: %w", err)
		}
		if cfg.Schema.File == "" {
			sp.Fail(errNoSchemaFile.Error())
			return errNoSchemaFile
		}

		status, _ := schema.CheckFile(cfg.Schema.File, cfg.Schema.LoaderOptions()...)
		switch {
		case len(status.Errors) > 0:
			sp.Warning("column mapping check identified issues: ", strings.Join(status.Errors, ", "))
		case len(status.Warnings) > 0:
			sp.Success(fmt.Sprintf("column mapping is valid, %d datasets have unmapped columns", len(status.Warnings)))
		default:
			sp.Success("column mapping is valid")
		}

		if err := print(cmd, status); err != nil {
			return fmt.Errorf("failed to format column mapping status: %w", err)
		}

		if !status.ValidStructure {
			return errInvalidSchema
		}
		return nil
	},
	Example: `
	colmap validate schema -f column_mapping.yaml
	colmap validate schema -f column_mapping.yaml --extended --language-codes
	colmap validate schema -c colmap.yaml --json
	`,
}

var validateColumnsCmd = &cobra.Command{
	Use:     "columns",
	Short:   "Validates the columns of a dataset subset against the column mapping",
	PreRunE: validateColumnsFlagBinding,
	RunE: withSignalWatcher(func(ctx context.Context, cmd *cobra.Command) error {
		sp, _ := pterm.DefaultSpinner.WithText("validating dataset columns...").Start()

		report, err := func() (*validator.Report, error) {
			cfg, s, err := loadSchema()
			if err != nil {
				return nil, err
			}

			flags := cmd.Flags()
			dataset, _ := flags.GetString("dataset")
			subset, _ := flags.GetString("subset")
			split, _ := flags.GetString("split")

			logger := newLogger("colmap_validate_columns").WithFields(loglib.DatasetFields(dataset, subset, split))

			src, err := columnSource(flags, cfg.Validation.MaxRecords)
			if err != nil {
				return nil, err
			}

			cols, err := src.Columns(ctx)
			if err != nil {
				logger.Error(err, "reading dataset columns")
				return validator.NewSourceErrorReport(dataset, subset, split, err), nil
			}
			logger.Debug("dataset columns read", loglib.Fields{"columns": cols})

			return validator.New(s).Validate(dataset, subset, split, cols), nil
		}()
		if err != nil {
			sp.Fail(err.Error())
			return err
		}

		if report.Failed() {
			sp.Warning(report.Message)
		} else {
			sp.Success(report.Message)
		}

		if err := print(cmd, report); err != nil {
			return fmt.Errorf("failed to format validation report: %w", err)
		}

		if report.Failed() {
			return errValidationFailed
		}
		return nil
	}),
	Example: `
	colmap validate columns -f column_mapping.yaml --dataset M-A-D/DarijaBridge --columns sentence,translation
	colmap validate columns -f column_mapping.yaml --dataset atlasia/darija_english --subset web_data --split train --source train.csv
	colmap validate columns -c colmap.env --dataset imomayiz/darija-english --subset sentences --source sentences.jsonl --json
	`,
}

var validateCatalogCmd = &cobra.Command{
	Use:     "catalog",
	Short:   "Validates all the dataset subsets in the configured catalog",
	PreRunE: validateCatalogFlagBinding,
	RunE: withProfiling(withSignalWatcher(func(ctx context.Context, cmd *cobra.Command) error {
		sp, _ := pterm.DefaultSpinner.WithText("validating dataset catalog...").Start()

		result, cfg, err := func() (*catalog.Result, *config.Config, error) {
			cfg, s, err := loadSchema()
			if err != nil {
				return nil, nil, err
			}
			if len(cfg.Catalog) == 0 {
				return nil, nil, errEmptyCatalog
			}

			runner, err := catalog.NewRunner(&cfg.Validation, s, catalog.WithLogger(newLogger("colmap_validate_catalog")))
			if err != nil {
				return nil, nil, fmt.Errorf("creating catalog runner: %w", err)
			}

			result, err := runner.Run(ctx, cfg.Catalog)
			if err != nil {
				return nil, nil, err
			}
			return result, cfg, nil
		}()
		if err != nil {
			sp.Fail(err.Error())
			return err
		}

		if result.Failed() {
			sp.Warning(result.Summary())
		} else {
			sp.Success(result.Summary())
		}

		if jsonOutput(cmd) {
			err = print(cmd, result)
		} else {
			err = printLines(cmd, cfg.Output.LineTemplate, result)
		}
		if err != nil {
			return fmt.Errorf("failed to format catalog validation result: %w", err)
		}

		if result.Failed() {
			return fmt.Errorf("%w: %d of %d dataset subsets", errCatalogFailed, result.FailedCount, len(result.Reports))
		}
		return nil
	})),
	Example: `
	colmap validate catalog -c colmap.yaml
	colmap validate catalog -c colmap.env --catalog catalog.yaml --workers 8 --profile profiles
	colmap validate catalog -c colmap.yaml --json
	`,
}

func loadSchema() (*config.Config, *schema.Schema, error) {
	cfg, err := config.ParseConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.Schema.File == "" {
		return nil, nil, errNoSchemaFile
	}

	s, err := schema.Load(cfg.Schema.File, cfg.Schema.LoaderOptions()...)
	if err != nil {
		return nil, nil, fmt.Errorf("loading column mapping: %w", err)
	}
	return cfg, s, nil
}

func columnSource(flags *pflag.FlagSet, maxRecords int) (columns.Source, error) {
	if path, _ := flags.GetString("source"); path != "" {
		return columns.NewSource(path, columns.WithMaxRecords(maxRecords))
	}
	cols, _ := flags.GetStringSlice("columns")
	return columns.NewStaticSource(cols), nil
}

func printLines(cmd *cobra.Command, lineTemplate string, result *catalog.Result) error {
	lp, err := catalog.NewLinePrinter(lineTemplate)
	if err != nil {
		return err
	}
	return lp.Print(cmd.OutOrStdout(), result)
}

func schemaFlagBinding(cmd *cobra.Command) {
	// to be able to overwrite configuration with flags when yaml config file is
	// provided
	viper.BindPFlag("schema.file", cmd.Flags().Lookup("file"))

	// to be able to overwrite configuration with flags when env config file is
	// provided or when no configuration is provided
	viper.BindPFlag("COLMAP_SCHEMA_FILE", cmd.Flags().Lookup("file"))
}

func validateSchemaFlagBinding(cmd *cobra.Command, _ []string) error {
	schemaFlagBinding(cmd)
	viper.BindPFlag("schema.extended_checks", cmd.Flags().Lookup("extended"))
	viper.BindPFlag("schema.require_language_codes", cmd.Flags().Lookup("language-codes"))
	viper.BindPFlag("COLMAP_SCHEMA_EXTENDED_CHECKS", cmd.Flags().Lookup("extended"))
	viper.BindPFlag("COLMAP_SCHEMA_REQUIRE_LANGUAGE_CODES", cmd.Flags().Lookup("language-codes"))
	return nil
}

func validateColumnsFlagBinding(cmd *cobra.Command, _ []string) error {
	schemaFlagBinding(cmd)
	return nil
}

func validateCatalogFlagBinding(cmd *cobra.Command, _ []string) error {
	schemaFlagBinding(cmd)
	viper.BindPFlag("validation.workers", cmd.Flags().Lookup("workers"))
	viper.BindPFlag("validation.progress", cmd.Flags().Lookup("progress"))
	viper.BindPFlag("COLMAP_VALIDATION_WORKERS", cmd.Flags().Lookup("workers"))
	viper.BindPFlag("COLMAP_VALIDATION_PROGRESS", cmd.Flags().Lookup("progress"))
	viper.BindPFlag("cache.reset", cmd.Flags().Lookup("reset-cache"))
	viper.BindPFlag("COLMAP_CACHE_RESET", cmd.Flags().Lookup("reset-cache"))

	// the catalog file is merged into the configuration when loaded, so it
	// needs reloading when given as a flag
	if cmd.Flags().Lookup("catalog").Changed {
		viper.BindPFlag("COLMAP_CATALOG_FILE", cmd.Flags().Lookup("catalog"))
		return config.Load()
	}
	return nil
}
