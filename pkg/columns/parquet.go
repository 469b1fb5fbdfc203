// SPDX-License-Identifier: Apache-2.0

package columns

import (
	"context"
	"fmt"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/reader"
)

// ParquetSource reads the top level fields of a parquet file schema. Nested
// fields (structs, lists, maps) count as a single column.
type ParquetSource struct {
	path string
}

func NewParquetSource(path string) *ParquetSource {
	return &ParquetSource{
		path: path,
	}
}

func (s *ParquetSource) Columns(ctx context.Context) (_ []string, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fr, err := local.NewLocalFileReader(s.path)
	if err != nil {
		return nil, fmt.Errorf("opening parquet file: %w", err)
	}
	defer func() {
		if closeErr := fr.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing parquet file: %w", closeErr)
		}
	}()

	// the schema is read from the file footer, no rows are read
	pr, err := reader.NewParquetReader(fr, nil, 1)
	if err != nil {
		return nil, fmt.Errorf("reading parquet footer from %s: %w", s.path, err)
	}
	defer pr.ReadStop()

	columns := normalise(topLevelFields(pr.Footer.GetSchema()))
	if len(columns) == 0 {
		return nil, fmt.Errorf("reading parquet schema from %s: %w", s.path, errEmptySource)
	}
	return columns, nil
}

// topLevelFields returns the names of the direct children of the root in the
// flattened, depth first, schema element list.
func topLevelFields(elements []*parquet.SchemaElement) []string {
	if len(elements) == 0 {
		return nil
	}

	root := elements[0]
	fields := make([]string, 0, root.GetNumChildren())
	next := 1
	for i := int32(0); i < root.GetNumChildren() && next < len(elements); i++ {
		fields = append(fields, elements[next].GetName())
		next = skipSubtree(elements, next)
	}
	return fields
}

// skipSubtree returns the index of the element following the subtree rooted
// at idx.
func skipSubtree(elements []*parquet.SchemaElement, idx int) int {
	children := elements[idx].GetNumChildren()
	idx++
	for i := int32(0); i < children && idx < len(elements); i++ {
		idx = skipSubtree(elements, idx)
	}
	return idx
}
