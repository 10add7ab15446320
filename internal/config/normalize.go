package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

func (c *Config) normalize() error {
	if err := c.normalizeTools(); err != nil {
		return err
	}
	c.normalizeSummary()
	if err := c.normalizeCatalog(); err != nil {
		return err
	}
	return c.normalizeLogging()
}

func (c *Config) normalizeTools() error {
	c.Tools.GDALTransform = defaultString(c.Tools.GDALTransform, defaultGDALTransform)
	c.Tools.GDALInfo = defaultString(c.Tools.GDALInfo, defaultGDALInfo)
	c.Tools.MergeOrbitviz = defaultString(c.Tools.MergeOrbitviz, defaultMergeOrbitviz)
	c.Tools.Find = defaultString(c.Tools.Find, defaultFind)
	c.Tools.Discovery = strings.ToLower(defaultString(c.Tools.Discovery, defaultDiscovery))
	if c.Tools.TransformTimeoutMS <= 0 {
		c.Tools.TransformTimeoutMS = defaultTransformTimeoutMS
	}

	dirs := make([]string, 0, len(c.Tools.SearchDirs)+4)
	if value, ok := os.LookupEnv("FLIGHTSUMMARY_TOOL_DIRS"); ok {
		dirs = append(dirs, filepath.SplitList(value)...)
	}
	if len(c.Tools.SearchDirs) > 0 {
		dirs = append(dirs, c.Tools.SearchDirs...)
	} else {
		dirs = append(dirs, DefaultSearchDirs()...)
	}

	cleaned := make([]string, 0, len(dirs))
	seen := make(map[string]struct{}, len(dirs))
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		expanded, err := ExpandPath(strings.TrimSpace(dir))
		if err != nil {
			return fmt.Errorf("tools.search_dirs: %w", err)
		}
		if _, ok := seen[expanded]; ok {
			continue
		}
		seen[expanded] = struct{}{}
		cleaned = append(cleaned, expanded)
	}
	c.Tools.SearchDirs = cleaned
	return nil
}

func (c *Config) normalizeSummary() {
	if c.Summary.Workers <= 0 {
		c.Summary.Workers = defaultWorkers
	}
}

func (c *Config) normalizeCatalog() error {
	var err error
	if strings.TrimSpace(c.Catalog.Path) == "" {
		c.Catalog.Path = defaultCatalogPath
	}
	if c.Catalog.Path, err = ExpandPath(c.Catalog.Path); err != nil {
		return fmt.Errorf("catalog.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	var err error
	if c.Logging.Dir, err = ExpandPath(strings.TrimSpace(c.Logging.Dir)); err != nil {
		return fmt.Errorf("logging.dir: %w", err)
	}
	return nil
}

// TransformTimeout returns the gdaltransform round-trip bound.
func (c *Config) TransformTimeout() time.Duration {
	return time.Duration(c.Tools.TransformTimeoutMS) * time.Millisecond
}

func defaultString(value, fallback string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	return value
}
