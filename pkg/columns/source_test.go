// SPDX-License-Identifier: Apache-2.0

package columns

import (
	"context"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/writer"
)

func TestNewSource(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path string
		opts []Option

		wantColumns []string
		wantErr     error
	}{
		{
			name:        "csv with bom and padded header",
			path:        "test/web_data.csv",
			wantColumns: []string{" source ", "darija", "english"},
		},
		{
			name:        "tsv",
			path:        "test/stories.tsv",
			wantColumns: []string{"darija", "english", "title"},
		},
		{
			name:        "json lines",
			path:        "test/submissions.jsonl",
			wantColumns: []string{"darija", "darija_ar", "eng", "late_key"},
		},
		{
			name:        "json lines with record limit",
			path:        "test/submissions.jsonl",
			opts:        []Option{WithMaxRecords(2)},
			wantColumns: []string{"darija", "darija_ar", "eng"},
		},
		{
			name:        "json array",
			path:        "test/sentences.json",
			wantColumns: []string{"darija", "eng", "id"},
		},
		{
			name:        "json array with record limit",
			path:        "test/sentences.json",
			opts:        []Option{WithMaxRecords(1)},
			wantColumns: []string{"darija", "eng"},
		},
		{
			name:        "json file with json lines",
			path:        "test/lines.json",
			wantColumns: []string{"darija", "eng", "n"},
		},
		{
			name:    "error - record not an object",
			path:    "test/not_object.jsonl",
			wantErr: errInvalidRecord,
		},
		{
			name:    "error - empty csv",
			path:    "test/empty.csv",
			wantErr: errEmptySource,
		},
		{
			name:    "error - file not found",
			path:    "test/missing.csv",
			wantErr: fs.ErrNotExist,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			source, err := NewSource(tc.path, tc.opts...)
			require.NoError(t, err)

			columns, err := source.Columns(context.Background())
			require.ErrorIs(t, err, tc.wantErr)
			require.Equal(t, tc.wantColumns, columns)
		})
	}
}

func TestNewSource_UnsupportedFormat(t *testing.T) {
	t.Parallel()

	_, err := NewSource("test/dataset.txt")
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestCSVSource_ContextCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewCSVSource("test/web_data.csv", ',').Columns(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestStaticSource(t *testing.T) {
	t.Parallel()

	source := NewStaticSource([]string{"english", " darija", "english", "", "darija"})
	columns, err := source.Columns(context.Background())
	require.NoError(t, err)
	// padded names are distinct columns
	require.Equal(t, []string{" darija", "darija", "english"}, columns)

	// the returned slice is a copy
	columns[0] = "changed"
	columns, err = source.Columns(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{" darija", "darija", "english"}, columns)
}

type parquetRecord struct {
	English string   `parquet:"name=english, type=BYTE_ARRAY, convertedtype=UTF8"`
	Darija  string   `parquet:"name=darija, type=BYTE_ARRAY, convertedtype=UTF8"`
	Tags    []string `parquet:"name=tags, type=LIST, valuetype=BYTE_ARRAY, valueconvertedtype=UTF8"`
	ID      int32    `parquet:"name=id, type=INT32"`
}

func writeParquetFile(t *testing.T, path string, records ...parquetRecord) {
	t.Helper()

	fw, err := local.NewLocalFileWriter(path)
	require.NoError(t, err)
	defer fw.Close()

	pw, err := writer.NewParquetWriter(fw, new(parquetRecord), 1)
	require.NoError(t, err)
	for _, r := range records {
		require.NoError(t, pw.Write(r))
	}
	require.NoError(t, pw.WriteStop())
}

func TestParquetSource(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "train.parquet")
	writeParquetFile(t, path,
		parquetRecord{English: "hello", Darija: "salam", Tags: []string{"greeting"}, ID: 1},
		parquetRecord{English: "thanks", Darija: "choukran", ID: 2},
	)

	source, err := NewSource(path)
	require.NoError(t, err)

	columns, err := source.Columns(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"darija", "english", "id", "tags"}, columns)
}
