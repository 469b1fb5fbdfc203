// SPDX-License-Identifier: Apache-2.0

package config

import (
	"testing"
	"time"

	"github.com/darijamt/colmap/pkg/catalog"
	"github.com/darijamt/colmap/pkg/catalog/cache"
	"github.com/stretchr/testify/require"
)

func testCatalog() []catalog.Entry {
	return []catalog.Entry{
		{
			Dataset: "atlasia/darija_english",
			Subset:  "web_data",
			Split:   "train",
			Source:  "data/web_data/train.csv",
		},
		{
			Dataset: "M-A-D/DarijaBridge",
			Columns: []string{"sentence", "translation"},
		},
	}
}

func validateTestConfig(t *testing.T, cfg *Config) {
	want := &Config{
		Schema: SchemaConfig{
			File:                 "column_mapping.yaml",
			ExtendedChecks:       true,
			RequireLanguageCodes: true,
		},
		Validation: catalog.Config{
			Workers:          8,
			ProgressTracking: true,
			MaxRecords:       50,
			Cache: &cache.Config{
				Dir: "/tmp/colmap/cache",
				TTL: 24 * time.Hour,
			},
		},
		Output: OutputConfig{
			JSON:         false,
			LineTemplate: "{{ .Dataset }}: {{ .Message }}",
		},
		Catalog: testCatalog(),
	}
	require.Equal(t, want, cfg)
}
