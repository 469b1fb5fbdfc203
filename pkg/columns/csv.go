// SPDX-License-Identifier: Apache-2.0

package columns

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// CSVSource reads the columns from the header row of a delimited file.
type CSVSource struct {
	path      string
	delimiter rune
}

const utf8BOM = "\ufeff"

func NewCSVSource(path string, delimiter rune) *CSVSource {
	return &CSVSource{
		path:      path,
		delimiter: delimiter,
	}
}

func (s *CSVSource) Columns(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("opening csv file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = s.delimiter
	// only the header is read, the number of fields per record doesn't matter
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("reading csv header from %s: %w", s.path, errEmptySource)
		}
		return nil, fmt.Errorf("reading csv header from %s: %w", s.path, err)
	}
	header[0] = strings.TrimPrefix(header[0], utf8BOM)

	columns := normalise(header)
	if len(columns) == 0 {
		return nil, fmt.Errorf("reading csv header from %s: %w", s.path, errEmptySource)
	}
	return columns, nil
}
