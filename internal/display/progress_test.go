package display

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestProgressIndicator(t *testing.T) {
	buf := &bytes.Buffer{}
	p := NewProgressIndicator(buf, 3)

	p.Start()
	p.Step("/data/results/run0.txt")
	p.Step("run1.txt")
	p.Step("run2.txt")
	p.Complete(3, 0)

	want := "Scanning run files:\n" +
		"  [1/3] run0.txt\n" +
		"  [2/3] run1.txt\n" +
		"  [3/3] run2.txt\n" +
		"✓ Scanned 3 run files\n"
	if buf.String() != want {
		t.Errorf("unexpected output:\n%q\nwant:\n%q", buf.String(), want)
	}
	if p.Current() != 3 {
		t.Errorf("Current() = %d, want 3", p.Current())
	}
}

func TestProgressIndicator_CompleteWithSkipped(t *testing.T) {
	buf := &bytes.Buffer{}
	p := NewProgressIndicator(buf, 9)
	p.Complete(8, 1)

	if buf.String() != "! Scanned 8 of 9 run files (1 skipped)\n" {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestIsTerminal_NonTTY(t *testing.T) {
	if IsTerminal(&bytes.Buffer{}) {
		t.Error("buffer is not a terminal")
	}

	f, err := os.Create(filepath.Join(t.TempDir(), "out.txt"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if IsTerminal(f) {
		t.Error("regular file is not a terminal")
	}
}

func TestWarningDisplay(t *testing.T) {
	tests := []struct {
		name     string
		warning  Warning
		contains []string
		excludes []string
	}{
		{
			name:     "title only",
			warning:  Warning{Title: "Something happened"},
			contains: []string{"Warning: Something happened\n"},
			excludes: []string{"Affected", "Suggestion", "\x1b["},
		},
		{
			name:     "single file",
			warning:  Warning{Title: "t", Files: []string{"run3.txt"}},
			contains: []string{"    Affected file:\n", "      1. run3.txt\n"},
		},
		{
			name:     "full",
			warning:  Warning{Title: "t", Message: "m", Files: []string{"a", "b"}, Suggestion: "s"},
			contains: []string{"    m\n", "    Affected files:\n", "      2. b\n", "    Suggestion:\n    s\n"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			tt.warning.Display(buf)
			out := buf.String()
			for _, c := range tt.contains {
				if !strings.Contains(out, c) {
					t.Errorf("output missing %q:\n%s", c, out)
				}
			}
			for _, e := range tt.excludes {
				if strings.Contains(out, e) {
					t.Errorf("output should not contain %q:\n%s", e, out)
				}
			}
		})
	}
}

func TestWarnSkippedFiles(t *testing.T) {
	if w := WarnSkippedFiles([]string{"run3.txt"}); w.Title != "1 run file was skipped" {
		t.Errorf("unexpected title %q", w.Title)
	}
	w := WarnSkippedFiles([]string{"a", "b"})
	if w.Title != "2 run files were skipped" || len(w.Files) != 2 {
		t.Errorf("unexpected warning %+v", w)
	}
}
