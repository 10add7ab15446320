package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Executor abstracts command execution for testability.
type Executor interface {
	// Run executes binary with args, feeding stdin (when non-empty) and
	// returning the captured stdout.
	Run(ctx context.Context, binary string, args []string, stdin string) ([]byte, error)
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc func(ctx context.Context, binary string, args []string, stdin string) ([]byte, error)

// Run calls f.
func (f ExecutorFunc) Run(ctx context.Context, binary string, args []string, stdin string) ([]byte, error) {
	return f(ctx, binary, args, stdin)
}

// CommandExecutor runs real subprocesses via os/exec.
type CommandExecutor struct{}

const killWaitDelay = 2 * time.Second

func (CommandExecutor) Run(ctx context.Context, binary string, args []string, stdin string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	cmd.WaitDelay = killWaitDelay
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return stdout.Bytes(), fmt.Errorf("%w: %s did not respond in time", ErrTimeout, binary)
		}
		return stdout.Bytes(), ctxErr
	}
	if err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			return stdout.Bytes(), fmt.Errorf("run %s: %w", binary, err)
		}
		return stdout.Bytes(), fmt.Errorf("run %s: %w: %s", binary, err, detail)
	}
	return stdout.Bytes(), nil
}
