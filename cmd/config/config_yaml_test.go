// SPDX-License-Identifier: Apache-2.0

package config

import (
	"testing"
	"time"

	"github.com/darijamt/colmap/pkg/catalog"
	"github.com/darijamt/colmap/pkg/catalog/cache"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestYAMLConfig_toConfig(t *testing.T) {
	require.NoError(t, LoadFile("test/test_config.yaml"))

	var config YAMLConfig
	err := viper.Unmarshal(&config)
	require.NoError(t, err)

	cfg, err := config.toConfig()
	require.NoError(t, err)

	validateTestConfig(t, cfg)
}

func TestParseConfig_YAML(t *testing.T) {
	require.NoError(t, LoadFile("test/test_config.yaml"))

	cfg, err := ParseConfig()
	require.NoError(t, err)

	validateTestConfig(t, cfg)
	require.Equal(t, "column_mapping.yaml", SchemaFile())
}

func TestYAMLConfig_toConfig_Defaults(t *testing.T) {
	t.Parallel()

	config := YAMLConfig{
		Cache: &CacheConfig{
			Enabled: true,
		},
	}

	cfg, err := config.toConfig()
	require.NoError(t, err)
	require.Equal(t, catalog.Config{
		Cache: &cache.Config{
			Dir: defaultCacheDir,
		},
	}, cfg.Validation)
	require.Empty(t, cfg.Catalog)
}

func TestYAMLConfig_toConfig_CacheDisabled(t *testing.T) {
	t.Parallel()

	config := YAMLConfig{
		Cache: &CacheConfig{
			Enabled: false,
			Dir:     "/tmp/cache",
			TTL:     time.Hour,
		},
	}

	cfg, err := config.toConfig()
	require.NoError(t, err)
	require.Nil(t, cfg.Validation.Cache)
}

func TestYAMLConfig_toConfig_ErrorCases(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		config  YAMLConfig
		wantErr error
	}{
		{
			name: "err - negative workers",
			config: YAMLConfig{
				Validation: ValidationConfig{
					Workers: -1,
				},
			},
			wantErr: errInvalidWorkers,
		},
		{
			name: "err - negative cache ttl",
			config: YAMLConfig{
				Cache: &CacheConfig{
					Enabled: true,
					TTL:     -time.Minute,
				},
			},
			wantErr: errInvalidCacheTTL,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := tc.config.toConfig()
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestYAMLConfig_toConfig_InvalidCatalog(t *testing.T) {
	t.Parallel()

	config := YAMLConfig{
		Catalog: []catalog.Entry{
			{Dataset: "M-A-D/DarijaBridge", Columns: []string{"sentence"}},
			{Dataset: "atlasia/darija_english"},
		},
	}

	_, err := config.toConfig()
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid catalog entry 1")
}

func TestSchemaConfig_LoaderOptions(t *testing.T) {
	t.Parallel()

	require.Empty(t, (&SchemaConfig{}).LoaderOptions())
	require.Len(t, (&SchemaConfig{ExtendedChecks: true}).LoaderOptions(), 1)
	require.Len(t, (&SchemaConfig{ExtendedChecks: true, RequireLanguageCodes: true}).LoaderOptions(), 2)
}

func TestLoadFile_MissingExtension(t *testing.T) {
	t.Cleanup(viper.Reset)

	tests := []struct {
		name        string
		file        string
		catalogFile string
	}{
		{
			name: "config file",
			file: "test/colmap_config",
		},
		{
			name:        "catalog file",
			file:        "test/test_config.yaml",
			catalogFile: "test/catalog",
		},
		{
			name: "trailing dot",
			file: "test/colmap_config.",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			viper.Reset()
			if tc.catalogFile != "" {
				viper.Set("COLMAP_CATALOG_FILE", tc.catalogFile)
			}

			var err error
			require.NotPanics(t, func() { err = LoadFile(tc.file) })
			require.ErrorIs(t, err, errMissingFileExt)
		})
	}
}
