package engine

import (
	"context"
	stderrors "errors"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/grovetools/gate/command"
	"github.com/grovetools/gate/match"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultOutputLimit bounds captured stdout/stderr per stream.
	DefaultOutputLimit = 1 << 20 // 1 MiB

	// DefaultGracePeriod is how long a cancelled or timed-out check may
	// keep running after the interrupt signal before it is killed.
	DefaultGracePeriod = 5 * time.Second
)

// Options configures a Runner.
type Options struct {
	// Workers bounds how many checks run concurrently. Values below 1 mean
	// serial execution. Checks are independent by contract, so any value is
	// safe; report order is registration order regardless.
	Workers int

	// Timeout is the per-check wall-clock limit. Zero means no limit.
	Timeout time.Duration

	// OutputLimit caps captured stdout and stderr, each. Zero means
	// DefaultOutputLimit.
	OutputLimit int

	// GracePeriod is the termination grace period on cancellation or
	// timeout. Zero means DefaultGracePeriod.
	GracePeriod time.Duration

	// Dir is the working directory for every check. Empty means inherit.
	Dir string

	// Env is the environment for every check. Nil means inherit.
	Env []string
}

// Runner executes triggered checks. Each check is an isolated child process
// with no shared mutable state; the only structure touched by multiple
// workers is the slot-per-index result slice, written once per slot.
type Runner struct {
	executor command.Executor
	opts     Options
	logger   *logrus.Entry
}

// NewRunner creates a Runner backed by real process execution.
func NewRunner(opts Options, logger *logrus.Entry) *Runner {
	return NewRunnerWithExecutor(&command.RealExecutor{}, opts, logger)
}

// NewRunnerWithExecutor creates a Runner with a custom Executor, letting
// tests stub out process creation.
func NewRunnerWithExecutor(exec command.Executor, opts Options, logger *logrus.Entry) *Runner {
	if opts.OutputLimit <= 0 {
		opts.OutputLimit = DefaultOutputLimit
	}
	if opts.GracePeriod <= 0 {
		opts.GracePeriod = DefaultGracePeriod
	}
	return &Runner{executor: exec, opts: opts, logger: logger}
}

// Run executes every trigger and returns one result per trigger, in the
// order the triggers were supplied. Completion order never reorders the
// results: each worker writes only its own slot. When ctx is cancelled,
// running checks get the grace period and not-yet-started checks are
// recorded as cancelled without executing.
func (r *Runner) Run(ctx context.Context, triggers []match.Trigger) []NamedResult {
	results := make([]NamedResult, len(triggers))

	workers := r.opts.Workers
	if workers < 1 {
		workers = 1
	}

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i, trig := range triggers {
		results[i].Name = trig.Name()

		select {
		case <-ctx.Done():
			results[i].Result = Result{Status: StatusCancelled, ExitCode: -1}
			continue
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(i int, trig match.Trigger) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i].Result = r.runOne(ctx, trig)
		}(i, trig)
	}

	wg.Wait()
	return results
}

// runOne executes a single trigger and classifies its outcome. Errors are
// contained in the returned Result; nothing here aborts sibling checks.
func (r *Runner) runOne(ctx context.Context, trig match.Trigger) Result {
	if ctx.Err() != nil {
		return Result{Status: StatusCancelled, ExitCode: -1}
	}

	args := append([]string{}, trig.Def.Entry[1:]...)
	if trig.Def.PassesFilenames() {
		args = append(args, trig.Files...)
	}

	runCtx := ctx
	if r.opts.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, r.opts.Timeout)
		defer cancel()
	}

	stdout := newCappedBuffer(r.opts.OutputLimit)
	stderr := newCappedBuffer(r.opts.OutputLimit)

	cmd := r.executor.CommandContext(runCtx, trig.Def.Entry[0], args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	if r.opts.Dir != "" {
		cmd.Dir = r.opts.Dir
	}
	if r.opts.Env != nil {
		cmd.Env = r.opts.Env
	}
	// Interrupt first, kill after the grace period.
	cmd.Cancel = func() error {
		return cmd.Process.Signal(os.Interrupt)
	}
	cmd.WaitDelay = r.opts.GracePeriod

	if r.logger != nil {
		r.logger.WithFields(logrus.Fields{
			"hook":  trig.Name(),
			"entry": trig.Def.Entry[0],
			"files": len(trig.Files),
		}).Debug("Running check")
	}

	start := time.Now()
	if err := cmd.Start(); err != nil {
		if ctx.Err() != nil {
			return Result{Status: StatusCancelled, ExitCode: -1, Duration: time.Since(start)}
		}
		return Result{
			Status:   StatusStartError,
			ExitCode: -1,
			Stderr:   []byte(err.Error()),
			Duration: time.Since(start),
		}
	}

	waitErr := cmd.Wait()

	res := Result{
		Stdout:    stdout.Bytes(),
		Stderr:    stderr.Bytes(),
		Truncated: stdout.Truncated() || stderr.Truncated(),
		Duration:  time.Since(start),
	}

	switch {
	case waitErr == nil:
		res.Status = StatusPassed
	case ctx.Err() != nil:
		res.Status = StatusCancelled
		res.ExitCode = -1
	case runCtx.Err() == context.DeadlineExceeded:
		res.Status = StatusTimeout
		res.ExitCode = -1
	default:
		var exitErr *exec.ExitError
		if stderrors.As(waitErr, &exitErr) {
			res.Status = StatusFailed
			res.ExitCode = exitErr.ExitCode()
		} else {
			res.Status = StatusStartError
			res.ExitCode = -1
			res.Stderr = append(res.Stderr, []byte("\n"+waitErr.Error())...)
		}
	}

	if r.logger != nil {
		r.logger.WithFields(logrus.Fields{
			"hook":     trig.Name(),
			"status":   res.Status,
			"duration": res.Duration.Round(time.Millisecond),
		}).Debug("Check finished")
	}

	return res
}
