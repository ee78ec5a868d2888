package interpreter

import (
	"fmt"
	"strings"
)

// Outcome labels used in logs and metrics.
const (
	outcomeOK         = "ok"
	outcomeWarning    = "warning"
	outcomeNotFound   = "not_found"
	outcomeInvalid    = "invalid"
	outcomeDependency = "dependency"
	outcomeUnknown    = "unknown"
	outcomeError      = "error"
)

// report collects transcript lines for a batch.
type report struct {
	lines  []string
	warned bool
}

// begin resets per-action state.
func (r *report) begin() {
	r.warned = false
}

func (r *report) add(line string) {
	r.lines = append(r.lines, line)
}

func (r *report) addf(format string, args ...any) {
	r.add(fmt.Sprintf(format, args...))
}

func (r *report) ok(format string, args ...any) {
	r.add("✅ " + fmt.Sprintf(format, args...))
}

func (r *report) warn(format string, args ...any) {
	r.warned = true
	r.add("⚠️ " + fmt.Sprintf(format, args...))
}

func (r *report) fail(format string, args ...any) {
	r.add("❌ " + fmt.Sprintf(format, args...))
}

func (r *report) transcript() string {
	return strings.Join(r.lines, "\n")
}
