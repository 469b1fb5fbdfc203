// SPDX-License-Identifier: Apache-2.0

package log

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMergeFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		f1   Fields
		f2   Fields

		wantFields Fields
	}{
		{
			name:       "both nil",
			wantFields: Fields{},
		},
		{
			name:       "disjoint",
			f1:         Fields{"a": 1},
			f2:         Fields{"b": "2"},
			wantFields: Fields{"a": 1, "b": "2"},
		},
		{
			name:       "second takes precedence",
			f1:         Fields{"a": 1, "c": true},
			f2:         Fields{"a": 2},
			wantFields: Fields{"a": 2, "c": true},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.wantFields, MergeFields(tc.f1, tc.f2))
		})
	}
}

func TestDatasetFields(t *testing.T) {
	t.Parallel()

	require.Equal(t, Fields{DatasetField: "ds", SubsetField: "main"}, DatasetFields("ds", "main", ""))
	require.Equal(t, Fields{DatasetField: "ds", SubsetField: "main", SplitField: "train"}, DatasetFields("ds", "main", "train"))
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	require.IsType(t, &NoopLogger{}, NewLogger(nil))

	noop := NewNoopLogger()
	require.Same(t, noop, NewLogger(noop))
	require.Same(t, noop, noop.WithFields(Fields{"a": 1}))
}
