package gdal_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/paulmach/orb"

	"flightsummary/internal/services"
	"flightsummary/internal/services/gdal"
)

type stubExecutor struct {
	output string
	err    error
	calls  int
	binary string
	args   []string
	stdin  string
}

func (s *stubExecutor) Run(ctx context.Context, binary string, args []string, stdin string) ([]byte, error) {
	s.calls++
	s.binary = binary
	s.args = append([]string(nil), args...)
	s.stdin = stdin
	return []byte(s.output), s.err
}

func TestConvertSpeaksStdinProtocol(t *testing.T) {
	exec := &stubExecutor{output: "-49.123456 69.654321 0\n"}
	tr, err := gdal.NewTransformer("gdaltransform", time.Second, gdal.WithExecutor(exec))
	if err != nil {
		t.Fatalf("NewTransformer returned error: %v", err)
	}

	got, err := tr.Convert(context.Background(), orb.Point{-180000.5, -2250000.25}, "EPSG:3413", "EPSG:4326")
	if err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}
	if got != (orb.Point{-49.123456, 69.654321}) {
		t.Fatalf("unexpected point %v", got)
	}
	if exec.stdin != "-180000.500000 -2250000.250000\n" {
		t.Fatalf("unexpected request %q", exec.stdin)
	}
	want := []string{"-s_srs", "EPSG:3413", "-t_srs", "EPSG:4326"}
	if strings.Join(exec.args, " ") != strings.Join(want, " ") {
		t.Fatalf("unexpected args %v", exec.args)
	}
}

func TestConvertRejectsMalformedOutput(t *testing.T) {
	for _, output := range []string{"", "12.5\n", "abc 1.0\n", "1.0 nan-ish\n"} {
		exec := &stubExecutor{output: output}
		tr, _ := gdal.NewTransformer("gdaltransform", time.Second, gdal.WithExecutor(exec))
		_, err := tr.Convert(context.Background(), orb.Point{1, 2}, "EPSG:3031", "EPSG:4326")
		if !errors.Is(err, services.ErrMalformed) {
			t.Fatalf("output %q: expected malformed error, got %v", output, err)
		}
	}
}

func TestConvertPropagatesTimeout(t *testing.T) {
	exec := services.ExecutorFunc(func(ctx context.Context, binary string, args []string, stdin string) ([]byte, error) {
		<-ctx.Done()
		return nil, fmt.Errorf("%w: %s did not respond in time", services.ErrTimeout, binary)
	})
	tr, _ := gdal.NewTransformer("gdaltransform", 10*time.Millisecond, gdal.WithExecutor(exec))
	_, err := tr.Convert(context.Background(), orb.Point{1, 2}, "EPSG:3031", "EPSG:4326")
	if !errors.Is(err, services.ErrTimeout) {
		t.Fatalf("expected timeout error, got %v", err)
	}
}

func TestConvertPropagatesToolFailure(t *testing.T) {
	exec := &stubExecutor{err: errors.New("exit status 1")}
	tr, _ := gdal.NewTransformer("gdaltransform", time.Second, gdal.WithExecutor(exec))
	_, err := tr.Convert(context.Background(), orb.Point{1, 2}, "EPSG:3031", "EPSG:4326")
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
}

func TestConvertRequiresFrames(t *testing.T) {
	exec := &stubExecutor{}
	tr, _ := gdal.NewTransformer("gdaltransform", time.Second, gdal.WithExecutor(exec))
	if _, err := tr.Convert(context.Background(), orb.Point{}, "", "EPSG:4326"); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if exec.calls != 0 {
		t.Fatal("expected no tool invocation")
	}
}

func TestNewTransformerRequiresBinary(t *testing.T) {
	if _, err := gdal.NewTransformer(" ", time.Second); err == nil {
		t.Fatal("expected error for empty binary")
	}
}

// affineTool mimics gdaltransform for two made-up frames related by an
// invertible affine map, formatting results the way the real tool does.
func affineTool(ctx context.Context, binary string, args []string, stdin string) ([]byte, error) {
	fields := strings.Fields(stdin)
	x, _ := strconv.ParseFloat(fields[0], 64)
	y, _ := strconv.ParseFloat(fields[1], 64)
	from := args[1]
	if from == "A" {
		x, y = x*0.5+10, y*0.25-3
	} else {
		x, y = (x-10)/0.5, (y+3)/0.25
	}
	return []byte(fmt.Sprintf("%.8f %.8f 0\n", x, y)), nil
}

func TestConvertRoundTripWithinTolerance(t *testing.T) {
	tr, _ := gdal.NewTransformer("gdaltransform", time.Second, gdal.WithExecutor(services.ExecutorFunc(affineTool)))
	original := orb.Point{-1234567.891234, 987654.321987}

	forward, err := tr.Convert(context.Background(), original, "A", "B")
	if err != nil {
		t.Fatalf("forward Convert returned error: %v", err)
	}
	back, err := tr.Convert(context.Background(), forward, "B", "A")
	if err != nil {
		t.Fatalf("inverse Convert returned error: %v", err)
	}
	const tolerance = 1e-5
	if math.Abs(back.X()-original.X()) > tolerance || math.Abs(back.Y()-original.Y()) > tolerance {
		t.Fatalf("round trip drifted: %v -> %v -> %v", original, forward, back)
	}
}
