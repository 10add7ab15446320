package preflight

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"flightsummary/internal/config"
	"flightsummary/internal/deps"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	return checkDirectory(name, path, unix.R_OK|unix.W_OK|unix.X_OK, "read/write ok")
}

// CheckReadableDirectory verifies that the directory exists and can be listed.
func CheckReadableDirectory(name, path string) Result {
	return checkDirectory(name, path, unix.R_OK|unix.X_OK, "readable")
}

func checkDirectory(name, path string, mode uint32, okDetail string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, mode); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", path, okDetail)}
}

// CheckReadableFile verifies that a regular file exists and can be read.
func CheckReadableFile(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not readable: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (readable)", path)}
}

// CheckOutputDirectory passes when path is a writable directory or when it
// does not exist yet but its nearest existing ancestor is writable.
func CheckOutputDirectory(name, path string) Result {
	_, err := os.Stat(path)
	if err == nil || !errors.Is(err, fs.ErrNotExist) {
		return CheckDirectoryAccess(name, path)
	}
	ancestor := filepath.Dir(path)
	for {
		if _, err := os.Stat(ancestor); err == nil {
			break
		}
		parent := filepath.Dir(ancestor)
		if parent == ancestor {
			break
		}
		ancestor = parent
	}
	check := CheckDirectoryAccess(name, ancestor)
	if !check.Passed {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: cannot be created under %s)", path, ancestor)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (will be created)", path)}
}

// Requirements lists the external programs the generator runs. find is only
// required when discovery shells out to it.
func Requirements(cfg *config.Config) []deps.Requirement {
	return []deps.Requirement{
		{
			Name:        "gdaltransform",
			Command:     cfg.Tools.GDALTransform,
			Description: "Required to convert DEM centers to lon/lat",
		},
		{
			Name:        "gdalinfo",
			Command:     cfg.Tools.GDALInfo,
			Description: "Required for DEM projection and statistics",
		},
		{
			Name:        "merge_orbitviz",
			Command:     cfg.Tools.MergeOrbitviz,
			Description: "Required to merge camera KML files",
		},
		{
			Name:        "find",
			Command:     cfg.Tools.Find,
			Description: "Used for camera discovery when tools.discovery = \"find\"",
			Optional:    cfg.Tools.Discovery != config.DiscoveryFind,
		},
	}
}

// CheckSystemDeps evaluates every external program for the given config.
// Both the run path and the check command use this to avoid duplicating
// the requirements list.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	return deps.CheckBinaries(Requirements(cfg), cfg.Tools.SearchDirs)
}

// MissingRequired returns an error naming every unavailable required tool.
func MissingRequired(statuses []deps.Status) error {
	var errs []error
	for _, status := range statuses {
		if status.Optional || status.Available {
			continue
		}
		errs = append(errs, fmt.Errorf("%w: %s (%s)", deps.ErrToolNotFound, status.Name, status.Detail))
	}
	return errors.Join(errs...)
}

// ResolvedCommand returns the resolved path for a named requirement, falling
// back to the configured command.
func ResolvedCommand(statuses []deps.Status, name string) string {
	for _, status := range statuses {
		if status.Name == name {
			if status.Resolved != "" {
				return status.Resolved
			}
			return status.Command
		}
	}
	return ""
}
