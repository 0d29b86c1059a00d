package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/grovetools/gate/engine"
	"github.com/grovetools/gate/report"
)

func renderToString(rep report.Report) string {
	var buf bytes.Buffer
	r := &Renderer{Out: &buf, Width: 80}
	r.Render(rep)
	return buf.String()
}

func TestRenderEmptyReport(t *testing.T) {
	got := renderToString(report.Aggregate(nil))
	if !strings.Contains(got, "No applicable checks") {
		t.Errorf("output = %q, want empty-report notice", got)
	}
}

func TestRenderPassingReport(t *testing.T) {
	rep := report.Aggregate([]engine.NamedResult{
		{Name: "fmt", Result: engine.Result{Status: engine.StatusPassed}},
		{Name: "lint", Result: engine.Result{Status: engine.StatusPassed}},
	})

	got := renderToString(rep)
	if !strings.Contains(got, "PASS") {
		t.Errorf("output = %q, want PASS verdict", got)
	}
	if strings.Contains(got, "---") {
		t.Errorf("output = %q, should not show failure sections", got)
	}
}

func TestRenderShowsEveryFailure(t *testing.T) {
	rep := report.Aggregate([]engine.NamedResult{
		{Name: "fmt", Result: engine.Result{
			Status:   engine.StatusFailed,
			ExitCode: 1,
			Stdout:   []byte("main.go needs formatting\n"),
		}},
		{Name: "lint", Result: engine.Result{Status: engine.StatusPassed}},
		{Name: "spell", Result: engine.Result{
			Status:   engine.StatusFailed,
			ExitCode: 2,
			Stderr:   []byte("typo in README\n"),
		}},
	})

	got := renderToString(rep)
	for _, want := range []string{
		"--- fmt",
		"main.go needs formatting",
		"--- spell",
		"typo in README",
		"FAIL",
		"2 of 3 check(s) failed",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestRenderStatusLabels(t *testing.T) {
	rep := report.Aggregate([]engine.NamedResult{
		{Name: "slow", Result: engine.Result{Status: engine.StatusTimeout}},
		{Name: "skipped", Result: engine.Result{Status: engine.StatusCancelled}},
		{Name: "broken", Result: engine.Result{Status: engine.StatusStartError}},
	})

	got := renderToString(rep)
	for _, want := range []string{"timeout", "cancelled", "error"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing status label %q:\n%s", want, got)
		}
	}
}
