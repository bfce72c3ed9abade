// Package diag formats and deduplicates diagnostics. It depends only on
// source positions and message strings so any layer can report without
// creating an import cycle.
package diag

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"

	"github.com/termfx/lithium/internal/source"
)

var (
	red     = color.New(color.FgRed).SprintFunc()
	boldRed = color.New(color.FgRed, color.Bold).SprintFunc()
)

const bar = "│ "

// Reporter writes formatted diagnostics to a stream, suppressing
// repeats at the same start location unless ReportAll is set.
type Reporter struct {
	mu        sync.Mutex
	out       io.Writer
	seen      map[source.LocationKey]struct{}
	reportAll bool
	count     int
}

// NewReporter returns a reporter writing to out. A nil out means
// os.Stderr.
func NewReporter(out io.Writer) *Reporter {
	if out == nil {
		out = os.Stderr
	}
	return &Reporter{out: out, seen: make(map[source.LocationKey]struct{})}
}

// SetReportAll disables location-based suppression (used by tests and
// the --report-all flag).
func (r *Reporter) SetReportAll(all bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reportAll = all
}

// Count returns the number of diagnostics actually emitted.
func (r *Reporter) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Reset clears the suppression set and the counter between compilation
// units (each interactive input is its own unit).
func (r *Reporter) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = make(map[source.LocationKey]struct{})
	r.count = 0
}

// Error reports a diagnostic whose caret coincides with the start of
// the squiggled range.
func (r *Reporter) Error(msg string, rng source.Range) {
	r.ErrorAt(msg, rng.Start, rng)
}

// ErrorAt reports a diagnostic with a caret at loc inside the broader
// squiggled range rng.
func (r *Reporter) ErrorAt(msg string, loc source.Location, rng source.Range) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.reportAll {
		if _, dup := r.seen[loc.Key()]; dup {
			return
		}
		if _, dup := r.seen[rng.Start.Key()]; dup {
			return
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s: %s\n", red("error"), loc, msg)
	b.WriteString(squiggles(loc, rng))
	fmt.Fprintln(r.out, b.String())

	r.seen[loc.Key()] = struct{}{}
	r.seen[rng.Start.Key()] = struct{}{}
	r.count++
}

// General reports a diagnostic with no source position (driver-level
// failures such as an unreadable file).
func (r *Reporter) General(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.out, "%s: %s\n", red("error"), msg)
	r.count++
}

// squiggles renders the source line, a squiggle run under the range and
// a caret under loc:
//
//	│ let y = z + 1;
//	│         ~
//	│         ^
func squiggles(loc source.Location, rng source.Range) string {
	raw := rng.Start.SourceLine()
	line := strings.TrimLeft(raw, " \t")
	trimmed := len(raw) - len(line)

	start := rng.Start.Column() - 1 - trimmed
	end := rng.End.Column() - 1 - trimmed
	caret := loc.Column() - 1 - trimmed

	startLine := rng.Start.Line()
	endLine := rng.End.Line()

	start = clamp(start, 0, len(line))
	end = clamp(end, 0, len(line))
	caret = clamp(caret, 0, len(line))

	if startLine < endLine {
		// Only squiggle to the end of the first line when the range
		// spans multiple lines.
		end = len(line)
	} else if start > end {
		start, end = end, start
	}
	if start == end {
		// Always highlight at least one column, e.g. for an expected ';'.
		end = start + 1
	}

	var b strings.Builder
	b.WriteString(bar + line + "\n" + bar)
	b.WriteString(strings.Repeat(" ", start))
	b.WriteString(red(strings.Repeat("~", end-start)))
	b.WriteString("\n" + bar)
	b.WriteString(strings.Repeat(" ", caret))
	b.WriteString(boldRed("^"))
	return b.String()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
