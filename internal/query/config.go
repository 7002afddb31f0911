package query

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CacheConfig configures an ArtifactCache's on-disk location and the
// engine's diagnostic verbosity. Grounded on the teacher's manifest/config
// loading style (gopkg.in/yaml.v3 over a plain struct, see
// internal/manifest) rather than a bespoke parser.
type CacheConfig struct {
	// Dir is the directory the ArtifactCache's SQLite database lives in.
	Dir string `yaml:"dir"`
	// MaxEntries is an entry cap read from the config file. OpenArtifactCache
	// does not use it: the ArtifactCache keeps every entry and never evicts.
	MaxEntries int `yaml:"maxEntries"`
	// Verbose is copied into ArtifactCache.Verbose and gates its hit/miss
	// trace lines. The Engine's [query] trace lines (spec.md §B.2/§D.7) are
	// gated by Engine.Verbose, which this config does not set.
	Verbose bool `yaml:"verbose"`
}

// DefaultCacheConfig returns the configuration used when no config file is
// present.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		Dir:        ".oricore-cache",
		MaxEntries: 10000,
		Verbose:    false,
	}
}

// LoadCacheConfig reads and parses a CacheConfig from path, filling in
// DefaultCacheConfig's values for anything the file leaves zero.
func LoadCacheConfig(path string) (CacheConfig, error) {
	cfg := DefaultCacheConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("query: reading cache config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("query: parsing cache config %s: %w", path, err)
	}
	return cfg, nil
}
