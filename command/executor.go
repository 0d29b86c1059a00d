package command

import (
	"context"
	"os/exec"
)

// Executor creates the exec.Cmd for a check invocation. Every child process
// the gate spawns is context-scoped so cancellation and timeouts propagate;
// tests substitute their own implementation to assert argument vectors or
// stand in faster binaries without the named tools being installed.
type Executor interface {
	CommandContext(ctx context.Context, name string, args ...string) *exec.Cmd
}

// RealExecutor is the production Executor, backed by os/exec.
type RealExecutor struct{}

func (e *RealExecutor) CommandContext(ctx context.Context, name string, args ...string) *exec.Cmd {
	return exec.CommandContext(ctx, name, args...)
}
