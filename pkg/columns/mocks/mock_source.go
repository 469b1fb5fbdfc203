// SPDX-License-Identifier: Apache-2.0

package mocks

import "context"

type Source struct {
	ColumnsFn func(ctx context.Context) ([]string, error)
}

func (m *Source) Columns(ctx context.Context) ([]string, error) {
	return m.ColumnsFn(ctx)
}
