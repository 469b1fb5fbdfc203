// SPDX-License-Identifier: Apache-2.0

package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_EnvConfigToConfig(t *testing.T) {
	require.NoError(t, LoadFile("test/test_config.env"))

	cfg, err := envConfigToConfig()
	assert.NoError(t, err)
	assert.NotNil(t, cfg)

	validateTestConfig(t, cfg)
}

func TestParseConfig_Env(t *testing.T) {
	require.NoError(t, LoadFile("test/test_config.env"))

	cfg, err := ParseConfig()
	require.NoError(t, err)

	validateTestConfig(t, cfg)
}

func Test_EnvVarsToConfig(t *testing.T) {
	t.Setenv("COLMAP_SCHEMA_FILE", "mapping.yaml")
	t.Setenv("COLMAP_VALIDATION_WORKERS", "2")
	t.Setenv("COLMAP_CACHE_ENABLED", "true")
	t.Setenv("COLMAP_CACHE_TTL", "1h")
	t.Setenv("COLMAP_CACHE_RESET", "true")

	viper.Reset()
	viper.AutomaticEnv()
	t.Cleanup(viper.Reset)

	cfg, err := envConfigToConfig()
	require.NoError(t, err)

	require.Equal(t, "mapping.yaml", cfg.Schema.File)
	require.Equal(t, uint(2), cfg.Validation.Workers)
	require.NotNil(t, cfg.Validation.Cache)
	require.Equal(t, defaultCacheDir, cfg.Validation.Cache.Dir)
	require.Equal(t, "1h0m0s", cfg.Validation.Cache.TTL.String())
	require.True(t, cfg.Validation.Cache.Reset)
	require.Empty(t, cfg.Catalog)
}

func Test_EnvVarsToConfig_InvalidWorkers(t *testing.T) {
	t.Setenv("COLMAP_VALIDATION_WORKERS", "-3")

	viper.Reset()
	viper.AutomaticEnv()
	t.Cleanup(viper.Reset)

	_, err := envConfigToConfig()
	require.ErrorIs(t, err, errInvalidWorkers)
}
