// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/darijamt/colmap/cmd/config"
	"github.com/darijamt/colmap/internal/profiling"
)

// Version is the colmap version
var (
	Version = "development"
	Env     string
)

func Prepare() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "colmap",
		Short:        "Validates the columns of English/Darija datasets against a column mapping",
		SilenceUsage: true,
		Version:      version(),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Load(); err != nil {
				return fmt.Errorf("loading configuration: %w", err)
			}

			return nil
		},
	}

	// env keys are read with their full COLMAP_ name
	viper.AutomaticEnv()

	// Flag definition

	// root cmd
	rootCmd.PersistentFlags().StringP("config", "c", "", ".env or .yaml config file to use with colmap if any")
	rootCmd.PersistentFlags().String("log-level", "info", "log level for the application. One of trace, debug, info, warn, error, fatal, panic")
	rootCmd.PersistentFlags().String("log-format", "console", "log format for the application. One of console, json")

	// validate schema cmd
	validateSchemaCmd.Flags().StringP("file", "f", "", "Path to the column mapping YAML file")
	validateSchemaCmd.Flags().Bool("extended", false, "Whether to run the extended structure checks")
	validateSchemaCmd.Flags().Bool("language-codes", false, "Whether the column mapping must declare its language codes")
	validateSchemaCmd.Flags().Bool("json", false, "Output the column mapping status in JSON format")

	// validate columns cmd
	validateColumnsCmd.Flags().StringP("file", "f", "", "Path to the column mapping YAML file")
	validateColumnsCmd.Flags().String("dataset", "", "Name of the dataset to validate")
	validateColumnsCmd.Flags().String("subset", "", "Name of the dataset subset to validate. Defaults to the default subset")
	validateColumnsCmd.Flags().String("split", "", "Name of the split the columns belong to, if any")
	validateColumnsCmd.Flags().StringSlice("columns", nil, "List of dataset columns to validate")
	validateColumnsCmd.Flags().String("source", "", "Local dataset file (csv, tsv, jsonl, json, parquet) to read the columns from")
	validateColumnsCmd.Flags().Bool("json", false, "Output the validation report in JSON format")
	validateColumnsCmd.MarkFlagRequired("dataset")
	validateColumnsCmd.MarkFlagsMutuallyExclusive("columns", "source")
	validateColumnsCmd.MarkFlagsOneRequired("columns", "source")

	// validate catalog cmd
	validateCatalogCmd.Flags().StringP("file", "f", "", "Path to the column mapping YAML file")
	validateCatalogCmd.Flags().String("catalog", "", "YAML file with the catalog of dataset subsets to validate")
	validateCatalogCmd.Flags().Uint("workers", 0, "Number of dataset subsets validated concurrently")
	validateCatalogCmd.Flags().Bool("progress", false, "Whether to show a progress bar while the catalog is validated")
	validateCatalogCmd.Flags().Bool("reset-cache", false, "Whether to remove the cached reports before validating the catalog")
	validateCatalogCmd.Flags().Bool("json", false, "Output the validation result in JSON format")
	validateCatalogCmd.Flags().String("profile", "", "Directory where CPU and memory profile files of the run are written, if any")

	validateCmd.AddCommand(validateSchemaCmd)
	validateCmd.AddCommand(validateColumnsCmd)
	validateCmd.AddCommand(validateCatalogCmd)

	// schema dump cmd
	schemaDumpCmd.Flags().StringP("file", "f", "", "Path to the column mapping YAML file")
	schemaDumpCmd.Flags().StringP("output", "o", "", "File where the normalised column mapping will be written. Defaults to stdout")
	schemaCmd.AddCommand(schemaDumpCmd)

	// Flag binding for root cmd
	rootFlagBinding(rootCmd)

	// register subcommands
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(schemaCmd)
	return rootCmd
}

// Execute executes the root command.
func Execute() error {
	cmd := Prepare()
	return cmd.Execute()
}

// withSignalWatcher cancels the context passed to fn when the process
// receives a termination signal.
func withSignalWatcher(fn func(ctx context.Context, cmd *cobra.Command) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc,
			syscall.SIGHUP,
			syscall.SIGINT,
			syscall.SIGTERM,
			syscall.SIGQUIT)
		defer signal.Stop(sigc)

		go func() {
			select {
			case <-sigc:
				cancel()
			case <-ctx.Done():
			}
		}()

		return fn(ctx, cmd)
	}
}

// withProfiling writes CPU and memory profiles of the command run when the
// profile flag is set.
func withProfiling(fn func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("profile")
		if dir == "" {
			return fn(cmd, args)
		}

		stop, err := profiling.Start(dir)
		if err != nil {
			return err
		}

		runErr := fn(cmd, args)
		if err := stop(); err != nil {
			pterm.Warning.Println(err.Error())
		}
		return runErr
	}
}

func rootFlagBinding(cmd *cobra.Command) {
	viper.BindPFlag("config", cmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("COLMAP_LOG_LEVEL", cmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("COLMAP_LOG_FORMAT", cmd.PersistentFlags().Lookup("log-format"))
}

func version() string {
	if Env != "" {
		return Env + " (" + Version + ")"
	}
	return Version
}
