// SPDX-License-Identifier: Apache-2.0

package zerolog

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	loglib "github.com/darijamt/colmap/pkg/log"
)

func newTestLogger(buf *bytes.Buffer) *Logger {
	zl := zerolog.New(buf).Level(zerolog.TraceLevel)
	return NewLogger(&zl)
}

func TestLogger_WithFields(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	logger := newTestLogger(buf).WithFields(loglib.Fields{
		loglib.ModuleField: "catalog",
		"workers":          uint(4),
	})

	logger.Info("validating catalog", loglib.DatasetFields("ds", "main", "train"))

	line := buf.String()
	require.Equal(t, "info", gjson.Get(line, "level").String())
	require.Equal(t, "validating catalog", gjson.Get(line, "message").String())
	require.Equal(t, "catalog", gjson.Get(line, "module").String())
	require.Equal(t, int64(4), gjson.Get(line, "workers").Int())
	require.Equal(t, "ds", gjson.Get(line, "dataset").String())
	require.Equal(t, "main", gjson.Get(line, "subset").String())
	require.Equal(t, "train", gjson.Get(line, "split").String())
}

func TestLogger_Error(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	newTestLogger(buf).Error(errors.New("oh noes"), "reading columns", loglib.Fields{"ok": false})

	line := buf.String()
	require.Equal(t, "error", gjson.Get(line, "level").String())
	require.Equal(t, "oh noes", gjson.Get(line, zerolog.ErrorFieldName).String())
	require.False(t, gjson.Get(line, "ok").Bool())
}

func TestLogger_TruncatesLongColumnLists(t *testing.T) {
	t.Parallel()

	columns := make([]string, 0, maxLoggedColumns+10)
	for i := 0; i < maxLoggedColumns+10; i++ {
		columns = append(columns, fmt.Sprintf("col_%d", i))
	}

	buf := &bytes.Buffer{}
	newTestLogger(buf).Debug("columns", loglib.Fields{"columns": columns})

	line := buf.String()
	require.Len(t, gjson.Get(line, "columns").Array(), maxLoggedColumns)
	require.Equal(t, int64(maxLoggedColumns+10), gjson.Get(line, "columns_count").Int())
}
