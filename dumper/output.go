package dumper

import (
	"fmt"
	"strings"
	"sync"
)

const (
	errorLinePrefix  = "[error]"
	warnLinePrefix   = "[warn]"
	trailerLineLimit = 50
)

// DiagnosticLine is one line of build-tool output, tagged by stream.
type DiagnosticLine struct {
	Text    string
	IsError bool
}

// ProcessFailedError reports that the external tool ran and failed: non-zero
// exit, or a clean exit that produced no dump. Diagnostics carry the
// trailing block of error/warning lines for the user.
type ProcessFailedError struct {
	ExitCode    int
	Diagnostics []DiagnosticLine
}

func (e *ProcessFailedError) Error() string {
	if len(e.Diagnostics) == 0 {
		if e.ExitCode == 0 {
			return "build tool produced no dump"
		}
		return fmt.Sprintf("build tool exited with code %d", e.ExitCode)
	}
	lines := make([]string, 0, len(e.Diagnostics))
	for _, l := range e.Diagnostics {
		lines = append(lines, l.Text)
	}
	return fmt.Sprintf("build tool failed (exit code %d):\n%s", e.ExitCode, strings.Join(lines, "\n"))
}

// diagnosticLog accumulates relayed output lines. Two reader goroutines feed
// it concurrently.
type diagnosticLog struct {
	mu    sync.Mutex
	lines []DiagnosticLine
}

func (d *diagnosticLog) append(text string, isError bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lines = append(d.lines, DiagnosticLine{Text: text, IsError: isError})
}

// text returns the full diagnostic output as one string.
func (d *diagnosticLog) text() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	var sb strings.Builder
	for _, l := range d.lines {
		sb.WriteString(l.Text)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// trailer extracts the trailing run of "[error]"/"[warn]" prefixed lines,
// the block build tools print last when a task fails.
func (d *diagnosticLog) trailer() []DiagnosticLine {
	d.mu.Lock()
	defer d.mu.Unlock()

	var trailer []DiagnosticLine
	for i := len(d.lines) - 1; i >= 0 && len(trailer) < trailerLineLimit; i-- {
		text := strings.TrimSpace(d.lines[i].Text)
		if strings.HasPrefix(text, errorLinePrefix) || strings.HasPrefix(text, warnLinePrefix) {
			trailer = append(trailer, d.lines[i])
			continue
		}
		if len(trailer) > 0 {
			break
		}
	}

	// Collected back to front.
	for i, j := 0, len(trailer)-1; i < j; i, j = i+1, j-1 {
		trailer[i], trailer[j] = trailer[j], trailer[i]
	}
	return trailer
}
