package config

import (
	"os"
	"path/filepath"
)

const (
	defaultGDALTransform      = "gdaltransform"
	defaultGDALInfo           = "gdalinfo"
	defaultMergeOrbitviz      = "merge_orbitviz.py"
	defaultFind               = "find"
	defaultDiscovery          = DiscoveryWalk
	defaultTransformTimeoutMS = 5000
	defaultWorkers            = 1
	maxWorkers                = 64
	defaultCatalogPath        = "~/.local/share/flightsummary/catalog.db"
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Discovery modes for locating per-batch camera files.
const (
	DiscoveryWalk = "walk"
	DiscoveryFind = "find"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Tools: Tools{
			GDALTransform:      defaultGDALTransform,
			GDALInfo:           defaultGDALInfo,
			MergeOrbitviz:      defaultMergeOrbitviz,
			Find:               defaultFind,
			Discovery:          defaultDiscovery,
			TransformTimeoutMS: defaultTransformTimeoutMS,
		},
		Summary: Summary{
			Workers: defaultWorkers,
		},
		Catalog: Catalog{
			Path: defaultCatalogPath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

// DefaultSearchDirs mirrors the layout of a packaged StereoPipeline install:
// the directory holding the binary plus its libexec, IceBridge, and Python
// siblings.
func DefaultSearchDirs() []string {
	exe, err := os.Executable()
	if err != nil {
		return nil
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	base := filepath.Dir(exe)
	return []string{
		filepath.Join(base, "..", "IceBridge"),
		filepath.Join(base, "..", "libexec"),
		filepath.Join(base, "..", "Python"),
		base,
	}
}
