package testsupport

import (
	"path/filepath"
	"testing"

	"logbundle/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.LogRoot = filepath.Join(base, "logs")
	cfg.Paths.StagingDir = filepath.Join(base, "staging")
	cfg.Paths.ArchiveDir = filepath.Join(base, "bundles")
	cfg.Paths.StateDir = filepath.Join(base, "state")

	for _, opt := range opts {
		opt(&cfg)
	}
	for i := range cfg.Sources {
		if cfg.Sources[i].Dir == "" {
			cfg.Sources[i].Dir = cfg.Sources[i].Name
		}
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return &cfg
}

// WithSources replaces the source map on the test config.
func WithSources(sources ...config.Source) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Sources = sources
	}
}

// WithRetention sets retention limits on the test config.
func WithRetention(days, maxBundles int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Retention.Days = days
		cfg.Retention.MaxBundles = maxBundles
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.LogRoot)
}
