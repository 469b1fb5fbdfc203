// SPDX-License-Identifier: Apache-2.0

package columns

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/tidwall/gjson"
)

// JSONLSource reads the columns of a JSON lines file, as the union of the
// keys of the first records.
type JSONLSource struct {
	path       string
	maxRecords int
}

// JSONSource reads the columns of a JSON file containing an array of
// records, a single record, or JSON lines.
type JSONSource struct {
	path       string
	maxRecords int
}

// records can hold long texts, the default scanner limit of 64KiB is not
// enough
const maxLineBytes = 16 * 1024 * 1024

var errInvalidRecord = errors.New("invalid json record")

func NewJSONLSource(path string, maxRecords int) *JSONLSource {
	if maxRecords <= 0 {
		maxRecords = defaultMaxRecords
	}
	return &JSONLSource{
		path:       path,
		maxRecords: maxRecords,
	}
}

func (s *JSONLSource) Columns(ctx context.Context) ([]string, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("opening json lines file: %w", err)
	}
	defer f.Close()

	columns, err := readJSONLines(ctx, f, s.maxRecords)
	if err != nil {
		return nil, fmt.Errorf("reading columns from %s: %w", s.path, err)
	}
	return columns, nil
}

func NewJSONSource(path string, maxRecords int) *JSONSource {
	if maxRecords <= 0 {
		maxRecords = defaultMaxRecords
	}
	return &JSONSource{
		path:       path,
		maxRecords: maxRecords,
	}
}

func (s *JSONSource) Columns(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("reading json file: %w", err)
	}

	columns, err := s.readColumns(ctx, bytes.TrimSpace(data))
	if err != nil {
		return nil, fmt.Errorf("reading columns from %s: %w", s.path, err)
	}
	return columns, nil
}

func (s *JSONSource) readColumns(ctx context.Context, data []byte) ([]string, error) {
	if len(data) == 0 || !gjson.ValidBytes(data) {
		// not a single json document, it can still be json lines
		return readJSONLines(ctx, bytes.NewReader(data), s.maxRecords)
	}

	doc := gjson.ParseBytes(data)
	keys := []string{}
	switch {
	case doc.IsObject():
		keys = appendKeys(keys, doc)
	case doc.IsArray():
		var recordErr error
		i := 0
		doc.ForEach(func(_, record gjson.Result) bool {
			if !record.IsObject() {
				recordErr = fmt.Errorf("%w: array element %d is not an object", errInvalidRecord, i)
				return false
			}
			keys = appendKeys(keys, record)
			i++
			return i < s.maxRecords
		})
		if recordErr != nil {
			return nil, recordErr
		}
	default:
		return nil, fmt.Errorf("%w: expected an object or an array of objects", errInvalidRecord)
	}

	columns := normalise(keys)
	if len(columns) == 0 {
		return nil, errEmptySource
	}
	return columns, nil
}

func readJSONLines(ctx context.Context, r io.Reader, maxRecords int) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	keys := []string{}
	records, lineNum := 0, 0
	for records < maxRecords && scanner.Scan() {
		lineNum++
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		if !gjson.ValidBytes(line) {
			return nil, fmt.Errorf("%w at line %d", errInvalidRecord, lineNum)
		}
		record := gjson.ParseBytes(line)
		if !record.IsObject() {
			return nil, fmt.Errorf("%w at line %d: not an object", errInvalidRecord, lineNum)
		}
		keys = appendKeys(keys, record)
		records++
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	columns := normalise(keys)
	if len(columns) == 0 {
		return nil, errEmptySource
	}
	return columns, nil
}

func appendKeys(keys []string, record gjson.Result) []string {
	record.ForEach(func(key, _ gjson.Result) bool {
		keys = append(keys, key.String())
		return true
	})
	return keys
}
