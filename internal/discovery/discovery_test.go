package discovery_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"flightsummary/internal/discovery"
	"flightsummary/internal/services"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("<kml/>"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestWalkerFindsExactNamesSorted(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "batch_111_120", "cameras_out.kml"))
	touch(t, filepath.Join(root, "batch_100_110", "cameras_out.kml"))
	touch(t, filepath.Join(root, "batch_100_110", "cameras_out.kml.bak"))
	touch(t, filepath.Join(root, "cameras_in.kml"))
	if err := os.MkdirAll(filepath.Join(root, "cameras_out.kml.d"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	got, err := discovery.Walker{}.Find(context.Background(), root, "cameras_out.kml")
	if err != nil {
		t.Fatalf("Find returned error: %v", err)
	}
	want := []string{
		filepath.Join(root, "batch_100_110", "cameras_out.kml"),
		filepath.Join(root, "batch_111_120", "cameras_out.kml"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected matches %v", got)
	}
}

func TestWalkerMissingRoot(t *testing.T) {
	got, err := discovery.Walker{}.Find(context.Background(), filepath.Join(t.TempDir(), "missing"), "cameras_out.kml")
	if err != nil {
		t.Fatalf("Find returned error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no matches, got %v", got)
	}
}

func TestWalkerHonoursCancellation(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "a", "cameras_out.kml"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (discovery.Walker{}).Find(ctx, root, "cameras_out.kml"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
}

func TestCommandSplitsLines(t *testing.T) {
	var gotArgs []string
	exec := services.ExecutorFunc(func(ctx context.Context, binary string, args []string, stdin string) ([]byte, error) {
		gotArgs = args
		return []byte("/p/batch_2/cameras_out.kml\n\n/p/batch_1/cameras_out.kml\n"), nil
	})
	finder, err := discovery.NewCommand("find", exec)
	if err != nil {
		t.Fatalf("NewCommand returned error: %v", err)
	}
	got, err := finder.Find(context.Background(), "/p", "cameras_out.kml")
	if err != nil {
		t.Fatalf("Find returned error: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"/p/batch_2/cameras_out.kml", "/p/batch_1/cameras_out.kml"}) {
		t.Fatalf("unexpected matches %v", got)
	}
	if !reflect.DeepEqual(gotArgs, []string{"/p", "-name", "cameras_out.kml"}) {
		t.Fatalf("unexpected args %v", gotArgs)
	}
}

func TestCommandWrapsFailure(t *testing.T) {
	exec := services.ExecutorFunc(func(ctx context.Context, binary string, args []string, stdin string) ([]byte, error) {
		return nil, errors.New("exit status 1")
	})
	finder, _ := discovery.NewCommand("find", exec)
	if _, err := finder.Find(context.Background(), "/p", "cameras_out.kml"); !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
}

func TestNewSelectsImplementation(t *testing.T) {
	finder, err := discovery.New("walk", "find", nil)
	if err != nil {
		t.Fatalf("New(walk) returned error: %v", err)
	}
	if _, ok := finder.(discovery.Walker); !ok {
		t.Fatalf("expected Walker, got %T", finder)
	}
	finder, err = discovery.New("FIND", "find", nil)
	if err != nil {
		t.Fatalf("New(find) returned error: %v", err)
	}
	if _, ok := finder.(*discovery.Command); !ok {
		t.Fatalf("expected *Command, got %T", finder)
	}
	if _, err := discovery.New("locate", "find", nil); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
