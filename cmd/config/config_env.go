// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"

	"github.com/darijamt/colmap/pkg/catalog"
	"github.com/darijamt/colmap/pkg/catalog/cache"
	"github.com/spf13/viper"
)

func envConfigToConfig() (*Config, error) {
	validationCfg, err := parseValidationConfig()
	if err != nil {
		return nil, err
	}

	entries, err := parseCatalogEntries()
	if err != nil {
		return nil, err
	}

	return &Config{
		Schema: SchemaConfig{
			File:                 SchemaFile(),
			ExtendedChecks:       viper.GetBool("COLMAP_SCHEMA_EXTENDED_CHECKS"),
			RequireLanguageCodes: viper.GetBool("COLMAP_SCHEMA_REQUIRE_LANGUAGE_CODES"),
		},
		Validation: validationCfg,
		Output: OutputConfig{
			JSON:         viper.GetBool("COLMAP_OUTPUT_JSON"),
			LineTemplate: viper.GetString("COLMAP_OUTPUT_LINE_TEMPLATE"),
		},
		Catalog: entries,
	}, nil
}

func parseValidationConfig() (catalog.Config, error) {
	workers := viper.GetInt("COLMAP_VALIDATION_WORKERS")
	if workers < 0 {
		return catalog.Config{}, errInvalidWorkers
	}

	cacheCfg, err := parseCacheConfig()
	if err != nil {
		return catalog.Config{}, err
	}

	return catalog.Config{
		Workers:          uint(workers),
		ProgressTracking: viper.GetBool("COLMAP_VALIDATION_PROGRESS"),
		MaxRecords:       viper.GetInt("COLMAP_VALIDATION_MAX_RECORDS"),
		Cache:            cacheCfg,
	}, nil
}

func parseCacheConfig() (*cache.Config, error) {
	if !viper.GetBool("COLMAP_CACHE_ENABLED") {
		return nil, nil
	}
	return newCacheConfig(
		viper.GetString("COLMAP_CACHE_DIR"),
		viper.GetDuration("COLMAP_CACHE_TTL"),
		viper.GetBool("COLMAP_CACHE_RESET"),
	)
}

// parseCatalogEntries reads the catalog entries merged from the catalog file,
// if any.
func parseCatalogEntries() ([]catalog.Entry, error) {
	if !viper.IsSet("catalog") {
		return nil, nil
	}

	entries := []catalog.Entry{}
	if err := viper.UnmarshalKey("catalog", &entries); err != nil {
		return nil, fmt.Errorf("parsing catalog entries: %w", err)
	}
	if err := catalog.ValidateEntries(entries); err != nil {
		return nil, err
	}
	return entries, nil
}
