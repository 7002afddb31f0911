package query

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultCacheConfig(t *testing.T) {
	cfg := DefaultCacheConfig()
	require.Equal(t, ".oricore-cache", cfg.Dir)
	require.Equal(t, 10000, cfg.MaxEntries)
	require.False(t, cfg.Verbose)
}

func TestLoadCacheConfigOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cache.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dir: custom-cache\nverbose: true\n"), 0o644))

	cfg, err := LoadCacheConfig(path)
	require.NoError(t, err)
	require.Equal(t, "custom-cache", cfg.Dir)
	require.True(t, cfg.Verbose)
	require.Equal(t, 10000, cfg.MaxEntries) // untouched field keeps its default
}

func TestLoadCacheConfigMissingFile(t *testing.T) {
	_, err := LoadCacheConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
