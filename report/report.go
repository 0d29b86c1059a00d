// Package report composes per-check results into an overall verdict.
package report

import (
	"encoding/json"
	"time"

	"github.com/grovetools/gate/engine"
)

// Entry is one check's outcome, in registration order.
type Entry struct {
	Name   string
	Result engine.Result
}

// MarshalJSON renders captured output as text rather than base64.
func (e Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name      string        `json:"name"`
		Status    engine.Status `json:"status"`
		ExitCode  int           `json:"exit_code"`
		Stdout    string        `json:"stdout,omitempty"`
		Stderr    string        `json:"stderr,omitempty"`
		Truncated bool          `json:"truncated,omitempty"`
		Duration  string        `json:"duration"`
	}{
		Name:      e.Name,
		Status:    e.Result.Status,
		ExitCode:  e.Result.ExitCode,
		Stdout:    string(e.Result.Stdout),
		Stderr:    string(e.Result.Stderr),
		Truncated: e.Result.Truncated,
		Duration:  e.Result.Duration.Round(time.Millisecond).String(),
	})
}

// Report is the terminal artifact of a run: every check's result plus the
// derived verdict. It never summarizes failures away; all failing checks
// remain discoverable.
type Report struct {
	Entries []Entry `json:"checks"`
}

// Aggregate builds a Report from the engine's ordered results.
func Aggregate(results []engine.NamedResult) Report {
	entries := make([]Entry, len(results))
	for i, res := range results {
		entries[i] = Entry{Name: res.Name, Result: res.Result}
	}
	return Report{Entries: entries}
}

// Pass reports the overall verdict: true iff every check succeeded. No
// applicable checks is a vacuous pass, not a failure.
func (r Report) Pass() bool {
	for _, e := range r.Entries {
		if !e.Result.OK() {
			return false
		}
	}
	return true
}

// Failed returns every non-passing entry, in report order.
func (r Report) Failed() []Entry {
	var failed []Entry
	for _, e := range r.Entries {
		if !e.Result.OK() {
			failed = append(failed, e)
		}
	}
	return failed
}

// ExitCode maps the verdict to a process exit code: zero on pass,
// otherwise the number of failed checks capped at 255.
func (r Report) ExitCode() int {
	n := len(r.Failed())
	if n > 255 {
		n = 255
	}
	return n
}
