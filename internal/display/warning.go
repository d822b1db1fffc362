package display

import (
	"fmt"
	"io"
	"strings"
)

// Warning represents a user-facing warning message
type Warning struct {
	Title      string   // Main warning title
	Message    string   // Detailed explanation (optional)
	Files      []string // Related files (optional)
	Suggestion string   // Action to take (optional)
}

// Display writes the warning, in yellow when out is a terminal.
func (w Warning) Display(out io.Writer) {
	var b strings.Builder
	useColor := IsTerminal(out)

	if useColor {
		b.WriteString(ansiYellow)
	}
	b.WriteString("Warning: ")
	b.WriteString(w.Title)
	b.WriteString("\n")

	if w.Message != "" {
		b.WriteString("    ")
		b.WriteString(w.Message)
		b.WriteString("\n")
	}

	if len(w.Files) > 0 {
		if len(w.Files) == 1 {
			b.WriteString("    Affected file:\n")
		} else {
			b.WriteString("    Affected files:\n")
		}
		for i, file := range w.Files {
			b.WriteString(fmt.Sprintf("      %d. %s\n", i+1, file))
		}
	}

	if w.Suggestion != "" {
		b.WriteString("    Suggestion:\n")
		b.WriteString("    ")
		b.WriteString(w.Suggestion)
		b.WriteString("\n")
	}

	if useColor {
		b.WriteString(ansiReset)
	}
	fmt.Fprint(out, b.String())
}

// WarnSkippedFiles builds the warning shown after a scrape that left files out
func WarnSkippedFiles(files []string) Warning {
	noun := "files were"
	if len(files) == 1 {
		noun = "file was"
	}
	return Warning{
		Title:      fmt.Sprintf("%d run %s skipped", len(files), noun),
		Message:    "Their records are not part of the output table.",
		Files:      files,
		Suggestion: "Re-run with --log-level debug to see why each file was skipped",
	}
}
