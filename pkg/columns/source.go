// SPDX-License-Identifier: Apache-2.0

package columns

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/exp/slices"
)

// Source retrieves the column names of one table of a dataset subset (or one
// of its splits). The returned names are deduplicated and sorted.
type Source interface {
	Columns(ctx context.Context) ([]string, error)
}

type Option func(*options)

type options struct {
	maxRecords int
}

// defaultMaxRecords is the number of records inspected by the sources without
// a header, like JSON lines files, where the set of keys can vary per record.
const defaultMaxRecords = 100

var (
	ErrUnsupportedFormat = errors.New("unsupported dataset file format")
	errEmptySource       = errors.New("no columns found")
)

// WithMaxRecords sets the number of records inspected by the JSON sources.
// Values lower than 1 are ignored.
func WithMaxRecords(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxRecords = n
		}
	}
}

// NewSource returns the column source for the dataset file on input, based
// on its extension.
func NewSource(path string, opts ...Option) (Source, error) {
	o := &options{maxRecords: defaultMaxRecords}
	for _, opt := range opts {
		opt(o)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return NewCSVSource(path, ','), nil
	case ".tsv":
		return NewCSVSource(path, '\t'), nil
	case ".jsonl", ".ndjson":
		return NewJSONLSource(path, o.maxRecords), nil
	case ".json":
		return NewJSONSource(path, o.maxRecords), nil
	case ".parquet":
		return NewParquetSource(path), nil
	default:
		return nil, fmt.Errorf("%w: %q (%s)", ErrUnsupportedFormat, ext, path)
	}
}

// normalise deduplicates and sorts the column names. Empty names are dropped,
// the others are kept as found in the source.
func normalise(names []string) []string {
	columns := make([]string, 0, len(names))
	for _, name := range names {
		if name == "" {
			continue
		}
		columns = append(columns, name)
	}
	slices.Sort(columns)
	return slices.Compact(columns)
}
