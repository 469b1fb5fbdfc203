// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/darijamt/colmap/pkg/validator"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
)

const testDigest = "5f1d7a"

func testReport() *validator.Report {
	return &validator.Report{
		Dataset: "atlasia/darija_english",
		Subset:  "comments",
		Status:  true,
		Message: "column validation passed for atlasia/darija_english (comments)",
		Columns: []string{"darija", "english"},
	}
}

func TestID_Key(t *testing.T) {
	t.Parallel()

	require.Equal(t, "atlasia/darija_english_comments", NewID("atlasia/darija_english", "comments", "").Key())
	require.Equal(t, "atlasia/darija_english_comments_train", NewID("atlasia/darija_english", "comments", "train").Key())
}

func TestCache_Get(t *testing.T) {
	t.Parallel()

	now := time.Now()
	id := NewID("atlasia/darija_english", "comments", "")

	tests := []struct {
		name    string
		ttl     time.Duration
		advance time.Duration
		digest  string
		columns []string

		wantHit bool
	}{
		{
			name:    "hit",
			digest:  testDigest,
			columns: []string{"english", "darija"},
			wantHit: true,
		},
		{
			name:    "hit - not expired",
			ttl:     time.Hour,
			advance: time.Minute,
			digest:  testDigest,
			columns: []string{"darija", "english"},
			wantHit: true,
		},
		{
			name:    "miss - expired",
			ttl:     time.Hour,
			advance: 2 * time.Hour,
			digest:  testDigest,
			columns: []string{"darija", "english"},
			wantHit: false,
		},
		{
			name:    "miss - columns changed",
			digest:  testDigest,
			columns: []string{"darija", "english", "source"},
			wantHit: false,
		},
		{
			name:    "miss - schema changed",
			digest:  "9c2e41",
			columns: []string{"darija", "english"},
			wantHit: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			clock := clockwork.NewFakeClockAt(now)
			c, err := New(&Config{Dir: t.TempDir(), TTL: tc.ttl}, WithClock(clock))
			require.NoError(t, err)

			c.Set(id, testDigest, []string{"darija", "english"}, testReport())
			clock.Advance(tc.advance)

			report, hit := c.Get(id, tc.digest, tc.columns)
			require.Equal(t, tc.wantHit, hit)
			if tc.wantHit {
				require.Equal(t, testReport(), report)
			} else {
				require.Nil(t, report)
			}
		})
	}
}

func TestCache_Persistence(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	id := NewID("atlasia/darija_english", "comments", "")
	columns := []string{"darija", "english"}

	c, err := New(&Config{Dir: dir})
	require.NoError(t, err)
	c.Set(id, testDigest, columns, testReport())

	// dataset names are escaped in the file names
	files, err := filepath.Glob(filepath.Join(dir, "atlasia___darija_english_comments-*.json"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	// a new cache reads the entry from disk
	c2, err := New(&Config{Dir: dir})
	require.NoError(t, err)
	report, hit := c2.Get(id, testDigest, columns)
	require.True(t, hit)
	require.Equal(t, testReport(), report)

	// a reset cache starts empty
	c3, err := New(&Config{Dir: dir, Reset: true})
	require.NoError(t, err)
	_, hit = c3.Get(id, testDigest, columns)
	require.False(t, hit)

	files, err = filepath.Glob(filepath.Join(dir, "*.json"))
	require.NoError(t, err)
	require.Empty(t, files)
}

func TestCache_AmbiguousKeys(t *testing.T) {
	t.Parallel()

	first := NewID("a_b", "c", "")
	second := NewID("a", "b_c", "")
	require.Equal(t, first.Key(), second.Key())

	tests := []struct {
		name string
		dir  string
	}{
		{name: "memory", dir: ""},
		{name: "disk", dir: t.TempDir()},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			c, err := New(&Config{Dir: tc.dir})
			require.NoError(t, err)
			c.Set(first, testDigest, []string{"x"}, &validator.Report{Dataset: "a_b", Subset: "c", Status: true})

			_, hit := c.Get(second, testDigest, []string{"x"})
			require.False(t, hit)

			// the entry of the first subset is still there, even when read from
			// disk by a new cache
			if tc.dir != "" {
				c, err = New(&Config{Dir: tc.dir})
				require.NoError(t, err)
				_, hit = c.Get(second, testDigest, []string{"x"})
				require.False(t, hit)
			}
			report, hit := c.Get(first, testDigest, []string{"x"})
			require.True(t, hit)
			require.Equal(t, "a_b", report.Dataset)
		})
	}
}

func TestCache_CorruptedEntry(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	id := NewID("ds", "main", "")

	c, err := New(&Config{Dir: dir})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(c.entryPath(id), []byte("{not json"), 0o644))

	_, hit := c.Get(id, testDigest, []string{"a"})
	require.False(t, hit)
}

func TestCache_MemoryOnly(t *testing.T) {
	t.Parallel()

	c, err := New(&Config{})
	require.NoError(t, err)

	id := NewID("ds", "main", "test")
	_, hit := c.Get(id, testDigest, []string{"a"})
	require.False(t, hit)

	c.Set(id, testDigest, []string{"a"}, testReport())
	_, hit = c.Get(id, testDigest, []string{"a"})
	require.True(t, hit)

	require.NoError(t, c.removeAll())
	_, hit = c.Get(id, testDigest, []string{"a"})
	require.False(t, hit)
}
