package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/gate/engine"
	"github.com/grovetools/gate/report"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

var (
	passStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Renderer writes a human-readable report.
type Renderer struct {
	Out   io.Writer
	Color bool
	Width int
}

// NewRenderer creates a renderer for stdout, enabling color and measuring
// the terminal width only when stdout is a terminal.
func NewRenderer() *Renderer {
	r := &Renderer{Out: os.Stdout, Width: 80}
	if isatty.IsTerminal(os.Stdout.Fd()) {
		r.Color = true
		if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
			r.Width = width
		}
	}
	return r
}

func (r *Renderer) style(s lipgloss.Style, text string) string {
	if !r.Color {
		return text
	}
	return s.Render(text)
}

func (r *Renderer) symbol(status engine.Status) string {
	switch status {
	case engine.StatusPassed:
		return r.style(passStyle, "ok")
	case engine.StatusTimeout:
		return r.style(warnStyle, "timeout")
	case engine.StatusCancelled:
		return r.style(warnStyle, "cancelled")
	case engine.StatusStartError:
		return r.style(failStyle, "error")
	default:
		return r.style(failStyle, "failed")
	}
}

// Render writes one line per check, the captured output of every failing
// check, and the overall verdict. Every failing check is shown, not just
// the first.
func (r *Renderer) Render(rep report.Report) {
	if len(rep.Entries) == 0 {
		fmt.Fprintln(r.Out, "No applicable checks.")
		return
	}

	nameWidth := 0
	for _, e := range rep.Entries {
		if len(e.Name) > nameWidth {
			nameWidth = len(e.Name)
		}
	}

	for _, e := range rep.Entries {
		duration := r.style(dimStyle, e.Result.Duration.Round(time.Millisecond).String())
		fmt.Fprintf(r.Out, "%-*s  %s %s\n", nameWidth, e.Name, r.symbol(e.Result.Status), duration)
	}

	failed := rep.Failed()
	for _, e := range failed {
		fmt.Fprintf(r.Out, "\n%s\n", r.style(failStyle, "--- "+e.Name))
		r.writeOutput(e.Result)
	}

	fmt.Fprintln(r.Out)
	if rep.Pass() {
		fmt.Fprintf(r.Out, "%s %d check(s) passed\n", r.style(passStyle, "PASS"), len(rep.Entries))
	} else {
		fmt.Fprintf(r.Out, "%s %d of %d check(s) failed\n", r.style(failStyle, "FAIL"), len(failed), len(rep.Entries))
	}
}

func (r *Renderer) writeOutput(res engine.Result) {
	for _, stream := range [][]byte{res.Stdout, res.Stderr} {
		text := strings.TrimRight(string(stream), "\n")
		if text == "" {
			continue
		}
		for _, line := range strings.Split(text, "\n") {
			fmt.Fprintf(r.Out, "  %s\n", line)
		}
	}
	if res.Status == engine.StatusFailed {
		fmt.Fprintf(r.Out, "  %s\n", r.style(dimStyle, fmt.Sprintf("exit status %d", res.ExitCode)))
	}
}
