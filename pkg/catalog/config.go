// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"errors"
	"fmt"

	"github.com/darijamt/colmap/pkg/catalog/cache"
	"github.com/darijamt/colmap/pkg/columns"
)

type Config struct {
	// Workers is the number of dataset subsets validated concurrently.
	// Defaults to 4.
	Workers uint
	// ProgressTracking renders a progress bar while the catalog is validated.
	ProgressTracking bool
	// MaxRecords is the number of records inspected by the json sources.
	// Defaults to 100.
	MaxRecords int
	// Cache enables the report cache when set.
	Cache *cache.Config
}

// Entry is a dataset subset (and optionally split) to validate. Its columns
// are either listed, or read from a local dataset file.
type Entry struct {
	Dataset string   `mapstructure:"dataset" yaml:"dataset"`
	Subset  string   `mapstructure:"subset" yaml:"subset,omitempty"`
	Split   string   `mapstructure:"split" yaml:"split,omitempty"`
	Source  string   `mapstructure:"source" yaml:"source,omitempty"`
	Columns []string `mapstructure:"columns" yaml:"columns,omitempty"`
}

const defaultWorkers = 4

var (
	errMissingDataset     = errors.New("dataset name is required")
	errAmbiguousColumns   = errors.New("columns and source are mutually exclusive")
	errMissingColumnsInfo = errors.New("one of columns or source is required")
)

func (c *Config) workers() uint {
	if c.Workers > 0 {
		return c.Workers
	}
	return defaultWorkers
}

// Validate checks the entry can be validated. It doesn't check the source
// file exists, missing files are reported per entry when the catalog runs.
func (e *Entry) Validate() error {
	switch {
	case e.Dataset == "":
		return errMissingDataset
	case e.Source != "" && len(e.Columns) > 0:
		return fmt.Errorf("%s: %w", e.Dataset, errAmbiguousColumns)
	case e.Source == "" && len(e.Columns) == 0:
		return fmt.Errorf("%s: %w", e.Dataset, errMissingColumnsInfo)
	}
	return nil
}

func (e *Entry) source(maxRecords int) (columns.Source, error) {
	if e.Source == "" {
		return columns.NewStaticSource(e.Columns), nil
	}
	return columns.NewSource(e.Source, columns.WithMaxRecords(maxRecords))
}

// ValidateEntries checks all the entries, returning the first invalid one.
func ValidateEntries(entries []Entry) error {
	for i := range entries {
		if err := entries[i].Validate(); err != nil {
			return fmt.Errorf("invalid catalog entry %d: %w", i, err)
		}
	}
	return nil
}
