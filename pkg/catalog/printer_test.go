// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/darijamt/colmap/pkg/validator"
	"github.com/stretchr/testify/require"
)

func testResult() *Result {
	return newResult("cs2f0kv4j1pbc3ui0e8g", []*validator.Report{
		{
			Dataset: "atlasia/darija_english",
			Subset:  "comments",
			Status:  true,
			Message: "column validation passed for atlasia/darija_english (comments)",
		},
		{
			Dataset: "atlasia/darija_english",
			Subset:  "stories",
			Split:   "train",
			Status:  false,
			Kind:    validator.FailureMissingColumns,
			Message: "missing required columns for atlasia/darija_english (stories/train): title",
		},
	}, 1500*time.Millisecond)
}

func TestLinePrinter_Print(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		template string

		wantOutput string
		wantErr    bool
	}{
		{
			name: "default template",
			wantOutput: "PASS atlasia/darija_english (comments): column validation passed for atlasia/darija_english (comments)\n" +
				"FAIL atlasia/darija_english (stories/train) [missing_columns]: missing required columns for atlasia/darija_english (stories/train): title\n",
		},
		{
			name:       "custom template with sprig functions",
			template:   `{{ .Dataset | replace "/" "__" }}:{{ .Subset | upper }}:{{ ternary "ok" "ko" .Status }}`,
			wantOutput: "atlasia__darija_english:COMMENTS:ok\natlasia__darija_english:STORIES:ko\n",
		},
		{
			name:     "error - unknown field",
			template: `{{ .Table }}`,
			wantErr:  true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			p, err := NewLinePrinter(tc.template)
			require.NoError(t, err)

			buf := &bytes.Buffer{}
			err = p.Print(buf, testResult())
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.wantOutput, buf.String())
		})
	}
}

func TestNewLinePrinter_InvalidTemplate(t *testing.T) {
	t.Parallel()

	_, err := NewLinePrinter("{{ .Dataset ")
	require.Error(t, err)
}

func TestResult(t *testing.T) {
	t.Parallel()

	result := testResult()
	require.Equal(t, 1, result.PassedCount)
	require.Equal(t, 1, result.FailedCount)
	require.True(t, result.Failed())
	require.Equal(t, "validated 2 dataset subsets in 1.5s: 1 passed, 1 failed (run cs2f0kv4j1pbc3ui0e8g)", result.Summary())

	pretty := result.PrettyPrint()
	require.True(t, strings.HasPrefix(pretty, "Catalog validation status:"))
	require.Contains(t, pretty, " - Failed: 1")
	require.Contains(t, pretty, "[FAIL] atlasia/darija_english (stories/train)")
	require.False(t, strings.HasSuffix(pretty, "\n"))

	var nilResult *Result
	require.False(t, nilResult.Failed())
}
