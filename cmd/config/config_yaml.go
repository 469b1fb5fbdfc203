// SPDX-License-Identifier: Apache-2.0

package config

import (
	"time"

	"github.com/darijamt/colmap/pkg/catalog"
	"github.com/darijamt/colmap/pkg/catalog/cache"
)

type YAMLConfig struct {
	Schema     SchemaFileConfig `mapstructure:"schema" yaml:"schema"`
	Validation ValidationConfig `mapstructure:"validation" yaml:"validation"`
	Cache      *CacheConfig     `mapstructure:"cache" yaml:"cache"`
	Output     OutputFileConfig `mapstructure:"output" yaml:"output"`
	Catalog    []catalog.Entry  `mapstructure:"catalog" yaml:"catalog"`
}

type SchemaFileConfig struct {
	File                 string `mapstructure:"file" yaml:"file"`
	ExtendedChecks       bool   `mapstructure:"extended_checks" yaml:"extended_checks"`
	RequireLanguageCodes bool   `mapstructure:"require_language_codes" yaml:"require_language_codes"`
}

type ValidationConfig struct {
	Workers    int  `mapstructure:"workers" yaml:"workers"`
	Progress   bool `mapstructure:"progress" yaml:"progress"`
	MaxRecords int  `mapstructure:"max_records" yaml:"max_records"`
}

type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled" yaml:"enabled"`
	Dir     string        `mapstructure:"dir" yaml:"dir"`
	TTL     time.Duration `mapstructure:"ttl" yaml:"ttl"`
	Reset   bool          `mapstructure:"reset" yaml:"reset"`
}

type OutputFileConfig struct {
	JSON         bool   `mapstructure:"json" yaml:"json"`
	LineTemplate string `mapstructure:"line_template" yaml:"line_template"`
}

func (c *YAMLConfig) toConfig() (*Config, error) {
	validationCfg, err := c.Validation.parseValidationConfig()
	if err != nil {
		return nil, err
	}

	validationCfg.Cache, err = c.Cache.parseCacheConfig()
	if err != nil {
		return nil, err
	}

	if err := catalog.ValidateEntries(c.Catalog); err != nil {
		return nil, err
	}

	return &Config{
		Schema: SchemaConfig{
			File:                 c.Schema.File,
			ExtendedChecks:       c.Schema.ExtendedChecks,
			RequireLanguageCodes: c.Schema.RequireLanguageCodes,
		},
		Validation: validationCfg,
		Output: OutputConfig{
			JSON:         c.Output.JSON,
			LineTemplate: c.Output.LineTemplate,
		},
		Catalog: c.Catalog,
	}, nil
}

func (c *ValidationConfig) parseValidationConfig() (catalog.Config, error) {
	if c.Workers < 0 {
		return catalog.Config{}, errInvalidWorkers
	}
	return catalog.Config{
		Workers:          uint(c.Workers),
		ProgressTracking: c.Progress,
		MaxRecords:       c.MaxRecords,
	}, nil
}

func (c *CacheConfig) parseCacheConfig() (*cache.Config, error) {
	if c == nil || !c.Enabled {
		return nil, nil
	}
	return newCacheConfig(c.Dir, c.TTL, c.Reset)
}

func newCacheConfig(dir string, ttl time.Duration, reset bool) (*cache.Config, error) {
	if ttl < 0 {
		return nil, errInvalidCacheTTL
	}
	if dir == "" {
		dir = defaultCacheDir
	}
	return &cache.Config{
		Dir:   dir,
		TTL:   ttl,
		Reset: reset,
	}, nil
}
