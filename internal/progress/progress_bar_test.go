// SPDX-License-Identifier: Apache-2.0

package progress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCountBar(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	bar := newCountBar(buf, 3, "validating catalog")

	require.NoError(t, bar.Add(1))
	bar.Describe("validating ds (main)")
	require.NoError(t, bar.Add(2))
	require.NoError(t, bar.Close())

	require.True(t, bar.IsFinished())
	require.Contains(t, buf.String(), "3/3")
}
