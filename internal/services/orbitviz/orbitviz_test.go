package orbitviz_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"flightsummary/internal/services"
	"flightsummary/internal/services/orbitviz"
)

type recordingExecutor struct {
	binary string
	args   []string
	err    error
	calls  int
}

func (r *recordingExecutor) Run(ctx context.Context, binary string, args []string, stdin string) ([]byte, error) {
	r.calls++
	r.binary = binary
	r.args = append([]string(nil), args...)
	return nil, r.err
}

func TestMergePassesOutputThenInputs(t *testing.T) {
	exec := &recordingExecutor{}
	client, err := orbitviz.New("/opt/asp/IceBridge/merge_orbitviz.py", orbitviz.WithExecutor(exec))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	inputs := []string{"/run/processed/batch_100_110/cameras_out.kml", "/run/processed/batch_111_120/cameras_out.kml"}
	if err := client.Merge(context.Background(), "/summary/cameras_out.kml", inputs); err != nil {
		t.Fatalf("Merge returned error: %v", err)
	}
	if exec.binary != "/opt/asp/IceBridge/merge_orbitviz.py" {
		t.Fatalf("unexpected binary %q", exec.binary)
	}
	want := append([]string{"/summary/cameras_out.kml"}, inputs...)
	if !reflect.DeepEqual(exec.args, want) {
		t.Fatalf("unexpected args %v", exec.args)
	}
}

func TestMergeDelegatesEmptyInputList(t *testing.T) {
	exec := &recordingExecutor{}
	client, _ := orbitviz.New("merge_orbitviz.py", orbitviz.WithExecutor(exec))
	if err := client.Merge(context.Background(), "/summary/cameras_out.kml", nil); err != nil {
		t.Fatalf("Merge returned error: %v", err)
	}
	if exec.calls != 1 || !reflect.DeepEqual(exec.args, []string{"/summary/cameras_out.kml"}) {
		t.Fatalf("expected a single call with only the output, got %d %v", exec.calls, exec.args)
	}
}

func TestMergeWrapsFailure(t *testing.T) {
	exec := &recordingExecutor{err: errors.New("exit status 2")}
	client, _ := orbitviz.New("merge_orbitviz.py", orbitviz.WithExecutor(exec))
	err := client.Merge(context.Background(), "/summary/cameras_out.kml", []string{"a.kml"})
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
}

func TestNewRequiresBinary(t *testing.T) {
	if _, err := orbitviz.New(""); err == nil {
		t.Fatal("expected error")
	}
}
