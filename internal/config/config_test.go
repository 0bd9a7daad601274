package config

import (
	"errors"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethetl/ethetl/internal/apperrors"
)

func loadWithEnv(t *testing.T, env map[string]string) (*Config, error) {
	t.Helper()
	viper.Reset()
	t.Setenv("PROVIDER_URI", "http://localhost:8545")
	for k, v := range env {
		t.Setenv(k, v)
	}
	return Load("")
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := loadWithEnv(t, nil)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8545", cfg.ProviderURI)
	assert.Equal(t, uint64(10000), cfg.BatchSize)
	assert.Equal(t, 4, cfg.MaxWorker)
	assert.Equal(t, uint64(10000), cfg.Web3BatchSize)
	assert.Equal(t, FormatCSV, cfg.OutputFormat)
	assert.Equal(t, StorageFS, cfg.Storage.Type)
	assert.Equal(t, uint64(40000), cfg.SuperChunkSize())
}

func TestLoadEnvOverrides(t *testing.T) {
	cfg, err := loadWithEnv(t, map[string]string{
		"BATCH_SIZE":           "500",
		"MAX_WORKER":           "2",
		"OUTPUT_FORMAT":        "parquet",
		"STORAGE_TYPE":         "fs",
		"STORAGE_FS_DATA_PATH": "/tmp/out",
	})
	require.NoError(t, err)

	assert.Equal(t, uint64(500), cfg.BatchSize)
	assert.Equal(t, 2, cfg.MaxWorker)
	assert.Equal(t, FormatParquet, cfg.OutputFormat)
	assert.Equal(t, "/tmp/out", cfg.Storage.FS.DataPath)
	assert.Equal(t, uint64(1000), cfg.SuperChunkSize())
}

func TestLoadRejectsUnknownFormat(t *testing.T) {
	_, err := loadWithEnv(t, map[string]string{"OUTPUT_FORMAT": "orc"})
	require.Error(t, err)

	var cfgErr *apperrors.ConfigError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestLoadRejectsUnknownStorageType(t *testing.T) {
	_, err := loadWithEnv(t, map[string]string{"STORAGE_TYPE": "gcs"})
	require.Error(t, err)

	var cfgErr *apperrors.ConfigError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestLoadMissingProviderURIFails(t *testing.T) {
	viper.Reset()
	t.Setenv("PROVIDER_URI", "")
	_, err := Load("")
	require.Error(t, err)

	var cfgErr *apperrors.ConfigError
	assert.True(t, errors.As(err, &cfgErr))
}
