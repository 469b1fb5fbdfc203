// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/darijamt/colmap/pkg/catalog"
	"github.com/darijamt/colmap/pkg/schema"
	"github.com/spf13/viper"
)

// Config is the colmap configuration, built from either a yaml or an env
// configuration file, environment variables and command flags.
type Config struct {
	Schema     SchemaConfig
	Validation catalog.Config
	Output     OutputConfig
	Catalog    []catalog.Entry
}

type SchemaConfig struct {
	File                 string
	ExtendedChecks       bool
	RequireLanguageCodes bool
}

type OutputConfig struct {
	JSON         bool
	LineTemplate string
}

const defaultCacheDir = ".colmap/cache"

var (
	errInvalidWorkers  = errors.New("validation workers must be a positive number")
	errInvalidCacheTTL = errors.New("cache ttl can't be negative")
	errMissingFileExt  = errors.New("config file must have a yaml or env extension")
)

func Load() error {
	return LoadFile(viper.GetString("config"))
}

func LoadFile(file string) error {
	if file != "" {
		cfgType, err := configType(file)
		if err != nil {
			return err
		}
		viper.SetConfigFile(file)
		viper.SetConfigType(cfgType)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config: %w", err)
		}
	}

	catalogFile := viper.GetString("COLMAP_CATALOG_FILE")
	if catalogFile != "" {
		cfgType, err := configType(catalogFile)
		if err != nil {
			return err
		}
		viper.SetConfigFile(catalogFile)
		viper.SetConfigType(cfgType)
		if err := viper.MergeInConfig(); err != nil {
			return fmt.Errorf("reading catalog config: %w", err)
		}
		// the config format is given by the main file, not the merged one
		viper.SetConfigFile(file)
	}
	return nil
}

func configType(file string) (string, error) {
	ext := strings.TrimPrefix(filepath.Ext(file), ".")
	if ext == "" {
		return "", fmt.Errorf("%s: %w", file, errMissingFileExt)
	}
	return ext, nil
}

// SchemaFile returns the column mapping file, from the command flag or the
// loaded configuration.
func SchemaFile() string {
	switch {
	case viper.GetString("schema.file") != "":
		// yaml config or flag
		return viper.GetString("schema.file")
	default:
		// env config or flag
		return viper.GetString("COLMAP_SCHEMA_FILE")
	}
}

// OutputJSON returns true if the results must be written in JSON format.
func OutputJSON() bool {
	return viper.GetBool("output.json") || viper.GetBool("COLMAP_OUTPUT_JSON")
}

func ParseConfig() (*Config, error) {
	cfgFile := viper.GetViper().ConfigFileUsed()
	switch ext := filepath.Ext(cfgFile); ext {
	case ".yml", ".yaml":
		yamlCfg := YAMLConfig{}
		if err := viper.Unmarshal(&yamlCfg); err != nil {
			return nil, err
		}
		return yamlCfg.toConfig()
	default:
		return envConfigToConfig()
	}
}

// LoaderOptions returns the schema loader options matching the configured
// checks.
func (c *SchemaConfig) LoaderOptions() []schema.LoaderOption {
	opts := []schema.LoaderOption{}
	if c.ExtendedChecks {
		opts = append(opts, schema.WithExtendedChecks())
	}
	if c.RequireLanguageCodes {
		opts = append(opts, schema.WithLanguageCodes())
	}
	return opts
}
