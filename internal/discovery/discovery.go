// Package discovery locates files by exact base name below a root folder.
//
// Walker is the in-process default. Command shells out to find(1) for hosts
// where the processing tree lives on a filesystem that is faster to scan with
// the system tool.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"flightsummary/internal/config"
	"flightsummary/internal/services"
)

// Finder returns every path below root whose base name equals name.
type Finder interface {
	Find(ctx context.Context, root, name string) ([]string, error)
}

// Walker walks the tree with filepath.WalkDir.
type Walker struct{}

// Find returns matches in lexical order. A missing root yields no matches.
func (Walker) Find(ctx context.Context, root, name string) ([]string, error) {
	if name == "" {
		return nil, services.Wrap(services.ErrValidation, "discovery", "walk", "file name required", nil)
	}
	var matches []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && path == root {
				return fs.SkipAll
			}
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !d.IsDir() && d.Name() == name {
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "discovery", "walk", root, err)
	}
	sort.Strings(matches)
	return matches, nil
}

// Command runs "find <root> -name <name>".
type Command struct {
	binary string
	exec   services.Executor
}

// NewCommand constructs a find-backed Finder. A nil exec uses real processes.
func NewCommand(binary string, exec services.Executor) (*Command, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("find binary required")
	}
	if exec == nil {
		exec = services.CommandExecutor{}
	}
	return &Command{binary: binary, exec: exec}, nil
}

// Find returns the non-empty output lines in the order find printed them.
func (c *Command) Find(ctx context.Context, root, name string) ([]string, error) {
	if name == "" {
		return nil, services.Wrap(services.ErrValidation, "discovery", "find", "file name required", nil)
	}
	output, err := c.exec.Run(ctx, c.binary, []string{root, "-name", name}, "")
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "discovery", "find", root, err)
	}
	var matches []string
	for _, line := range strings.Split(string(output), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			matches = append(matches, line)
		}
	}
	return matches, nil
}

// New selects the Finder named by the tools.discovery setting.
func New(mode, findBinary string, exec services.Executor) (Finder, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", config.DiscoveryWalk:
		return Walker{}, nil
	case config.DiscoveryFind:
		return NewCommand(findBinary, exec)
	default:
		return nil, services.Wrap(services.ErrConfiguration, "discovery", "select", fmt.Sprintf("unknown mode %q", mode), nil)
	}
}
