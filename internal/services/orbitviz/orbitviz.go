// Package orbitviz wraps merge_orbitviz.py, which combines the camera KML
// files written by bundle adjustment into one document.
package orbitviz

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"flightsummary/internal/services"
)

// Merger combines KML inputs into output.
type Merger interface {
	Merge(ctx context.Context, output string, inputs []string) error
}

// Option configures the Client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec services.Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// Client runs merge_orbitviz.py.
type Client struct {
	binary string
	exec   services.Executor
}

// New constructs a Client for the given script path.
func New(binary string, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("merge_orbitviz binary required")
	}
	c := &Client{binary: binary, exec: services.CommandExecutor{}}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Merge runs "<script> <output> <inputs...>". The call is bounded only by
// ctx. An empty input list is passed to the script unchanged.
func (c *Client) Merge(ctx context.Context, output string, inputs []string) error {
	if strings.TrimSpace(output) == "" {
		return services.Wrap(services.ErrValidation, "orbitviz", "merge", "output path required", nil)
	}
	args := make([]string, 0, len(inputs)+1)
	args = append(args, output)
	args = append(args, inputs...)
	if _, err := c.exec.Run(ctx, c.binary, args, ""); err != nil {
		return services.Wrap(services.ErrExternalTool, "orbitviz", "merge", fmt.Sprintf("%d input(s) into %s", len(inputs), output), err)
	}
	return nil
}
