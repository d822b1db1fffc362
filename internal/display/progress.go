package display

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
)

// ANSI sequences used when colour is enabled
const (
	ansiCyan   = "\x1b[36m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiReset  = "\x1b[0m"
)

// IsTerminal reports whether w is a file descriptor attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// ProgressIndicator prints one line per processed file: [N/Total] name
type ProgressIndicator struct {
	writer     io.Writer
	totalFiles int
	current    int
	color      bool
}

// NewProgressIndicator creates a new progress indicator. Colour is enabled
// when w is a terminal.
func NewProgressIndicator(w io.Writer, total int) *ProgressIndicator {
	return &ProgressIndicator{
		writer:     w,
		totalFiles: total,
		color:      IsTerminal(w),
	}
}

// Start displays the header message
func (p *ProgressIndicator) Start() {
	fmt.Fprintf(p.writer, "Scanning run files:\n")
}

// Step displays progress for the next file: [N/Total] basename
func (p *ProgressIndicator) Step(filename string) {
	p.current++
	line := fmt.Sprintf("  [%d/%d] %s", p.current, p.totalFiles, filepath.Base(filename))
	if p.color {
		line = ansiCyan + line + ansiReset
	}
	fmt.Fprintln(p.writer, line)
}

// Current returns the number of steps taken
func (p *ProgressIndicator) Current() int {
	return p.current
}

// Complete displays the final counts. Skipped files turn the mark into a warning.
func (p *ProgressIndicator) Complete(scanned, skipped int) {
	mark := "✓"
	if skipped > 0 {
		mark = "!"
	}
	if p.color {
		if skipped > 0 {
			mark = ansiYellow + mark + ansiReset
		} else {
			mark = ansiGreen + mark + ansiReset
		}
	}

	if skipped > 0 {
		fmt.Fprintf(p.writer, "%s Scanned %d of %d run files (%d skipped)\n", mark, scanned, p.totalFiles, skipped)
		return
	}
	fmt.Fprintf(p.writer, "%s Scanned %d run files\n", mark, scanned)
}
