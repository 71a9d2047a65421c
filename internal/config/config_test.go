package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_AllFieldsPopulated(t *testing.T) {
	cfg := DefaultConfig()
	require.NotNil(t, cfg)

	assert.Equal(t, 1000, cfg.FetchPageSize)
	assert.Equal(t, 500, cfg.CommitBatchCrawl)
	assert.Equal(t, 100, cfg.CommitBatchSync)
	assert.Equal(t, "168h", cfg.PrimaryCacheTTLQuick)
	assert.Equal(t, "720h", cfg.PrimaryCacheTTLFull)
	assert.Equal(t, int64(0), cfg.DuplicateMinSize)
	assert.Equal(t, 5, cfg.PathMaxPaths)
	assert.Equal(t, 50, cfg.PathMaxDepth)

	assert.Equal(t, "info", cfg.Logging.LogLevel)
	assert.Equal(t, "auto", cfg.Logging.LogFormat)
	assert.Equal(t, "10s", cfg.Network.ConnectTimeout)
	assert.Equal(t, "60s", cfg.Network.DataTimeout)

	// DataDir/CacheDir are filled by Load/LoadOrDefault, not DefaultConfig.
	assert.Empty(t, cfg.DataDir)
	assert.Empty(t, cfg.CacheDir)
}

func TestDefaultConfig_FailsValidationWithoutDirs(t *testing.T) {
	// DefaultConfig alone has no data_dir/cache_dir; Validate should catch
	// that (Load/LoadOrDefault are the callers responsible for filling them
	// in before validating).
	cfg := DefaultConfig()
	err := Validate(cfg)
	assert.Error(t, err)
}

func TestDefaultConfig_PassesValidationWithDirsSet(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DataDir = "/tmp/driveindex/data"
	cfg.CacheDir = "/tmp/driveindex/cache"

	assert.NoError(t, Validate(cfg))
}
