// Package engine runs triggered checks as isolated child processes and
// collects their outcomes in registration order.
package engine

import (
	"time"
)

// Status classifies the outcome of a single check invocation.
type Status string

const (
	// StatusPassed means the process exited 0.
	StatusPassed Status = "passed"
	// StatusFailed means the process exited non-zero.
	StatusFailed Status = "failed"
	// StatusStartError means the process could not be started at all.
	StatusStartError Status = "start_error"
	// StatusTimeout means the process exceeded the per-check wall-clock limit.
	StatusTimeout Status = "timeout"
	// StatusCancelled means the run was cancelled before or during this check.
	StatusCancelled Status = "cancelled"
)

// Result records the outcome of one check invocation. It is immutable once
// produced; a failing result never aborts sibling checks.
type Result struct {
	Status   Status        `json:"status"`
	ExitCode int           `json:"exit_code"`
	Stdout   []byte        `json:"-"`
	Stderr   []byte        `json:"-"`
	// Truncated is set when captured output hit the capture cap. Truncation
	// never changes the exit-status-derived verdict.
	Truncated bool          `json:"truncated,omitempty"`
	Duration  time.Duration `json:"duration"`
}

// OK reports whether the check succeeded.
func (r Result) OK() bool {
	return r.Status == StatusPassed
}

// NamedResult pairs a check name with its result, in trigger order.
type NamedResult struct {
	Name   string `json:"name"`
	Result Result `json:"result"`
}
