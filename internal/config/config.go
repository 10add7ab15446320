package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Tools names the external programs the generator shells out to.
type Tools struct {
	GDALTransform      string   `toml:"gdaltransform"`
	GDALInfo           string   `toml:"gdalinfo"`
	MergeOrbitviz      string   `toml:"merge_orbitviz"`
	Find               string   `toml:"find"`
	SearchDirs         []string `toml:"search_dirs"`
	Discovery          string   `toml:"discovery"`
	TransformTimeoutMS int      `toml:"transform_timeout_ms"`
}

// Summary contains generator tuning.
type Summary struct {
	Workers int `toml:"workers"`
}

// Catalog contains configuration for the summary history database.
type Catalog struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	Dir    string `toml:"dir"`
}

// Config encapsulates all configuration values for flightsummary.
//
// Configuration sections by subsystem:
//   - Tools: external binaries, their search directories, and discovery mode
//   - Summary: batch worker pool size
//   - Catalog: optional SQLite history of generated summaries
//   - Logging: log format, level, and optional file directory
type Config struct {
	Tools   Tools   `toml:"tools"`
	Summary Summary `toml:"summary"`
	Catalog Catalog `toml:"catalog"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath is the per-user configuration file.
func DefaultConfigPath() (string, error) {
	return ExpandPath("~/.config/flightsummary/config.toml")
}

// Load reads the configuration at path, or the first existing file among the
// per-user default and ./flightsummary.toml when path is empty. Missing files
// fall back to defaults. It returns the normalized, validated config, the
// path consulted, and whether that file existed.
func Load(path string) (*Config, string, bool, error) {
	resolved, exists, err := locate(path)
	if err != nil {
		return nil, "", false, err
	}

	cfg := Default()
	if exists {
		if err := decodeFile(resolved, &cfg); err != nil {
			return nil, "", false, err
		}
	}
	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolved, exists, nil
}

func decodeFile(path string, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	decoder := toml.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// locate picks the config file. An explicit path is used as given even when
// absent; otherwise the first existing candidate wins and the per-user path
// is reported when none exists.
func locate(path string) (string, bool, error) {
	var candidates []string
	if strings.TrimSpace(path) != "" {
		candidates = []string{path}
	} else {
		candidates = []string{"~/.config/flightsummary/config.toml", "flightsummary.toml"}
	}

	var first string
	for _, candidate := range candidates {
		expanded, err := ExpandPath(candidate)
		if err != nil {
			return "", false, err
		}
		if first == "" {
			first = expanded
		}
		info, err := os.Stat(expanded)
		switch {
		case err == nil && !info.IsDir():
			return expanded, true, nil
		case err != nil && !errors.Is(err, fs.ErrNotExist):
			return "", false, fmt.Errorf("stat config: %w", err)
		}
	}
	return first, false, nil
}

// EnsureDirectories creates the folders the CLI writes into before a run.
func (c *Config) EnsureDirectories() error {
	dirs := []string{strings.TrimSpace(c.Logging.Dir)}
	if c.Catalog.Enabled {
		dirs = append(dirs, filepath.Dir(c.Catalog.Path))
	}
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// ExpandPath resolves a leading ~ to the home directory and returns a clean
// absolute path. The empty string is returned unchanged.
func ExpandPath(value string) (string, error) {
	if value == "" {
		return "", nil
	}
	if value == "~" || strings.HasPrefix(value, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		value = filepath.Join(home, strings.TrimPrefix(value, "~"))
	}
	absolute, err := filepath.Abs(value)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", value, err)
	}
	return absolute, nil
}

// CreateSample writes the embedded sample configuration to path.
func CreateSample(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
