package gdal

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/paulmach/orb"

	"flightsummary/internal/services"
)

// CoordinateConverter reprojects a single planar coordinate.
type CoordinateConverter interface {
	Convert(ctx context.Context, pt orb.Point, from, to string) (orb.Point, error)
}

// Option configures the GDAL clients.
type Option func(*options)

type options struct {
	exec services.Executor
}

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec services.Executor) Option {
	return func(o *options) {
		if exec != nil {
			o.exec = exec
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{exec: services.CommandExecutor{}}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Transformer converts coordinates by running gdaltransform once per point.
type Transformer struct {
	binary  string
	timeout time.Duration
	exec    services.Executor
}

// NewTransformer constructs a gdaltransform client. A non-positive timeout
// leaves the call bounded only by ctx.
func NewTransformer(binary string, timeout time.Duration, opts ...Option) (*Transformer, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("gdaltransform binary required")
	}
	o := buildOptions(opts)
	return &Transformer{binary: binary, timeout: timeout, exec: o.exec}, nil
}

// Convert writes "x y\n" to gdaltransform and parses the reprojected pair.
// Timeouts and unparseable output are returned as errors; no fallback
// coordinate is ever substituted.
func (t *Transformer) Convert(ctx context.Context, pt orb.Point, from, to string) (orb.Point, error) {
	from = strings.TrimSpace(from)
	to = strings.TrimSpace(to)
	if from == "" || to == "" {
		return orb.Point{}, services.Wrap(services.ErrConfiguration, "gdal", "transform", "source and target projections required", nil)
	}

	callCtx := ctx
	if t.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	args := []string{"-s_srs", from, "-t_srs", to}
	request := fmt.Sprintf("%f %f\n", pt.X(), pt.Y())
	output, err := t.exec.Run(callCtx, t.binary, args, request)
	if err != nil {
		if errors.Is(err, services.ErrTimeout) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return orb.Point{}, services.Wrap(services.ErrTimeout, "gdal", "transform", fmt.Sprintf("no response within %s", t.timeout), err)
		}
		return orb.Point{}, services.Wrap(services.ErrExternalTool, "gdal", "transform", "", err)
	}
	return ParsePoint(string(output))
}

// ParsePoint parses the first two whitespace separated fields of a
// gdaltransform response line.
func ParsePoint(output string) (orb.Point, error) {
	fields := strings.Fields(output)
	if len(fields) < 2 {
		return orb.Point{}, services.Wrap(services.ErrMalformed, "gdal", "transform", fmt.Sprintf("expected two coordinates, got %q", strings.TrimSpace(output)), nil)
	}
	x, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return orb.Point{}, services.Wrap(services.ErrMalformed, "gdal", "transform", fmt.Sprintf("parse x from %q", strings.TrimSpace(output)), err)
	}
	y, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return orb.Point{}, services.Wrap(services.ErrMalformed, "gdal", "transform", fmt.Sprintf("parse y from %q", strings.TrimSpace(output)), err)
	}
	return orb.Point{x, y}, nil
}
