package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"flightsummary/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Tool search is confined to <base>/bin so host binaries never leak in.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Tools.SearchDirs = []string{filepath.Join(base, "bin")}
	cfgVal.Catalog.Path = filepath.Join(base, "catalog", "catalog.db")
	cfgVal.Logging.Dir = filepath.Join(base, "logs")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithCatalog enables the summary history database.
func WithCatalog() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Catalog.Enabled = true
	}
}

// WithWorkers overrides the batch worker pool size.
func WithWorkers(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Summary.Workers = n
	}
}

// WithStubbedBinaries writes stub executables for the provided names into the
// config's first search directory. If names is empty, every external tool the
// generator uses is stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"gdaltransform", "gdalinfo", "merge_orbitviz.py", "find"}
		}
		binDir := b.cfg.Tools.SearchDirs[0]
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		script := []byte("#!/bin/sh\nexit 0\n")
		for _, name := range names {
			target := filepath.Join(binDir, name)
			if err := os.WriteFile(target, script, 0o755); err != nil {
				b.t.Fatalf("write stub %s: %v", name, err)
			}
		}
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Logging.Dir)
}
