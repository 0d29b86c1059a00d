package engine

import (
	"context"
	"os/exec"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/grovetools/gate/hook"
	"github.com/grovetools/gate/match"
	"github.com/grovetools/gate/testutil"
)

func boolPtr(b bool) *bool { return &b }

func trigger(name string, entry []string, passFilenames bool, files ...string) match.Trigger {
	return match.Trigger{
		Def: &hook.Definition{
			Name:          name,
			Entry:         entry,
			PassFilenames: boolPtr(passFilenames),
		},
		Files: files,
	}
}

// recordingExecutor captures every requested invocation and substitutes a
// trivially succeeding process, so argument-vector construction can be
// asserted without the named tools being installed.
type recordingExecutor struct {
	mu    sync.Mutex
	calls [][]string
}

func (e *recordingExecutor) record(name string, args []string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, append([]string{name}, args...))
}

func (e *recordingExecutor) CommandContext(ctx context.Context, name string, args ...string) *exec.Cmd {
	e.record(name, args)
	return exec.CommandContext(ctx, "true")
}

func TestRunWithoutFilenamePassing(t *testing.T) {
	rec := &recordingExecutor{}
	r := NewRunnerWithExecutor(rec, Options{}, nil)

	// Scenario: a formatting check that matched files but does not consume
	// them runs once with no file arguments.
	results := r.Run(context.Background(), []match.Trigger{
		trigger("fmt", []string{"fmt-check"}, false, "src/lib.rs"),
	})

	if len(results) != 1 {
		t.Fatalf("Run() returned %d results, want 1", len(results))
	}
	if results[0].Name != "fmt" || results[0].Result.Status != StatusPassed {
		t.Errorf("result = %+v, want fmt passed", results[0])
	}

	if len(rec.calls) != 1 {
		t.Fatalf("executor saw %d calls, want 1", len(rec.calls))
	}
	for _, arg := range rec.calls[0] {
		if arg == "src/lib.rs" {
			t.Errorf("argv %v must not include changeset paths when pass_filenames is false", rec.calls[0])
		}
	}
}

func TestRunAppendsMatchedFiles(t *testing.T) {
	rec := &recordingExecutor{}
	r := NewRunnerWithExecutor(rec, Options{}, nil)

	r.Run(context.Background(), []match.Trigger{
		trigger("lint", []string{"lint", "--strict"}, true, "a.rs", "b.rs"),
	})

	want := []string{"lint", "--strict", "a.rs", "b.rs"}
	if len(rec.calls) != 1 {
		t.Fatalf("executor saw %d calls, want 1", len(rec.calls))
	}
	got := rec.calls[0]
	if len(got) != len(want) {
		t.Fatalf("argv = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("argv = %v, want %v", got, want)
		}
	}
}

func TestRunExecutesCheckScripts(t *testing.T) {
	dir := t.TempDir()
	pass := testutil.WriteScript(t, dir, "format-check", `echo checked "$@"`)
	fail := testutil.WriteScript(t, dir, "style-check", "echo style drift >&2; exit 2")

	r := NewRunner(Options{}, nil)
	results := r.Run(context.Background(), []match.Trigger{
		trigger("format", []string{pass}, true, "a.go", "b.go"),
		trigger("style", []string{fail}, false),
	})

	if results[0].Result.Status != StatusPassed {
		t.Errorf("format status = %s, want passed", results[0].Result.Status)
	}
	if got := string(results[0].Result.Stdout); !strings.Contains(got, "checked a.go b.go") {
		t.Errorf("format stdout = %q, want the matched files echoed back", got)
	}
	if results[1].Result.Status != StatusFailed || results[1].Result.ExitCode != 2 {
		t.Errorf("style result = %+v, want failed with exit code 2", results[1].Result)
	}
	if got := string(results[1].Result.Stderr); !strings.Contains(got, "style drift") {
		t.Errorf("style stderr = %q, want captured diagnostics", got)
	}
}

func TestRunNonZeroExit(t *testing.T) {
	r := NewRunner(Options{}, nil)

	results := r.Run(context.Background(), []match.Trigger{
		trigger("lint", []string{"sh", "-c", "echo found issues >&2; exit 3"}, false),
	})

	res := results[0].Result
	if res.Status != StatusFailed {
		t.Errorf("status = %s, want failed", res.Status)
	}
	if res.ExitCode != 3 {
		t.Errorf("exit code = %d, want 3", res.ExitCode)
	}
	if !strings.Contains(string(res.Stderr), "found issues") {
		t.Errorf("stderr = %q, want captured diagnostics", res.Stderr)
	}
}

func TestRunStartErrorDoesNotAbortSiblings(t *testing.T) {
	r := NewRunner(Options{}, nil)

	results := r.Run(context.Background(), []match.Trigger{
		trigger("broken", []string{"gate-test-no-such-binary"}, false),
		trigger("ok", []string{"true"}, false),
	})

	if results[0].Result.Status != StatusStartError {
		t.Errorf("broken status = %s, want start_error", results[0].Result.Status)
	}
	if results[1].Result.Status != StatusPassed {
		t.Errorf("ok status = %s, want passed; a failing sibling must be contained", results[1].Result.Status)
	}
}

func TestRunTimeout(t *testing.T) {
	r := NewRunner(Options{
		Timeout:     100 * time.Millisecond,
		GracePeriod: 100 * time.Millisecond,
	}, nil)

	start := time.Now()
	results := r.Run(context.Background(), []match.Trigger{
		trigger("slow", []string{"sleep", "30"}, false),
		trigger("quick", []string{"true"}, false),
	})

	if elapsed := time.Since(start); elapsed > 10*time.Second {
		t.Fatalf("run took %v, timeout did not bite", elapsed)
	}
	if results[0].Result.Status != StatusTimeout {
		t.Errorf("slow status = %s, want timeout", results[0].Result.Status)
	}
	if results[1].Result.Status != StatusPassed {
		t.Errorf("quick status = %s, want passed", results[1].Result.Status)
	}
}

func TestRunPreservesOrderUnderConcurrency(t *testing.T) {
	r := NewRunner(Options{Workers: 4}, nil)

	// Completion order is deliberately the reverse of submission order.
	results := r.Run(context.Background(), []match.Trigger{
		trigger("first", []string{"sh", "-c", "sleep 0.3"}, false),
		trigger("second", []string{"sh", "-c", "sleep 0.15"}, false),
		trigger("third", []string{"true"}, false),
	})

	want := []string{"first", "second", "third"}
	for i, name := range want {
		if results[i].Name != name {
			t.Fatalf("results[%d] = %s, want %s (registration order must survive concurrency)", i, results[i].Name, name)
		}
		if results[i].Result.Status != StatusPassed {
			t.Errorf("%s status = %s, want passed", name, results[i].Result.Status)
		}
	}
}

func TestRunCancelledBeforeStart(t *testing.T) {
	rec := &recordingExecutor{}
	r := NewRunnerWithExecutor(rec, Options{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := r.Run(ctx, []match.Trigger{
		trigger("fmt", []string{"fmt-check"}, false),
		trigger("lint", []string{"lint"}, false),
	})

	for _, res := range results {
		if res.Result.Status != StatusCancelled {
			t.Errorf("%s status = %s, want cancelled", res.Name, res.Result.Status)
		}
	}
	if len(rec.calls) != 0 {
		t.Errorf("executor saw %d calls, want 0: cancelled checks must not execute", len(rec.calls))
	}
}

func TestRunCancelledMidRun(t *testing.T) {
	r := NewRunner(Options{
		Workers:     1,
		GracePeriod: 100 * time.Millisecond,
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(200 * time.Millisecond)
		cancel()
	}()

	results := r.Run(ctx, []match.Trigger{
		trigger("running", []string{"sleep", "30"}, false),
		trigger("pending", []string{"true"}, false),
	})

	if results[0].Result.Status != StatusCancelled {
		t.Errorf("running status = %s, want cancelled", results[0].Result.Status)
	}
	if results[1].Result.Status != StatusCancelled {
		t.Errorf("pending status = %s, want cancelled (never started)", results[1].Result.Status)
	}
}

func TestRunTruncatesOutput(t *testing.T) {
	r := NewRunner(Options{OutputLimit: 64}, nil)

	results := r.Run(context.Background(), []match.Trigger{
		trigger("chatty", []string{"sh", "-c", "i=0; while [ $i -lt 100 ]; do echo some line of output; i=$((i+1)); done"}, false),
	})

	res := results[0].Result
	if res.Status != StatusPassed {
		t.Fatalf("status = %s, want passed: truncation alone must not fail a check", res.Status)
	}
	if !res.Truncated {
		t.Error("Truncated = false, want true")
	}
	if !strings.HasSuffix(string(res.Stdout), truncationMarker) {
		t.Errorf("stdout %q missing truncation marker", res.Stdout)
	}
	if len(res.Stdout) > 64+len(truncationMarker) {
		t.Errorf("stdout length = %d, cap not applied", len(res.Stdout))
	}
}
