// SPDX-License-Identifier: Apache-2.0

package columns

import "context"

// StaticSource returns a fixed list of columns, usually provided through
// configuration or the command line.
type StaticSource struct {
	columns []string
}

func NewStaticSource(columns []string) *StaticSource {
	return &StaticSource{
		columns: normalise(columns),
	}
}

func (s *StaticSource) Columns(ctx context.Context) ([]string, error) {
	return append([]string{}, s.columns...), nil
}
