package logger

import (
	"bytes"
	"errors"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/harrison/genscrape/internal/models"
)

var tsPattern = regexp.MustCompile(`^\[\d{2}:\d{2}:\d{2}\] `)

func TestNewConsoleLogger_NormalizesLevel(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", "info"},
		{"DEBUG", "debug"},
		{" warn ", "warn"},
		{"verbose", "info"},
		{"trace", "trace"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			logger := NewConsoleLogger(&bytes.Buffer{}, tt.input)
			if logger.Level() != tt.want {
				t.Errorf("Level() = %q, want %q", logger.Level(), tt.want)
			}
		})
	}
}

func TestConsoleLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		logFunc   func(*ConsoleLogger)
		shouldLog bool
	}{
		{"info passes at info", "info", func(l *ConsoleLogger) { l.LogInfo("x") }, true},
		{"debug filtered at info", "info", func(l *ConsoleLogger) { l.LogDebug("x") }, false},
		{"trace passes at trace", "trace", func(l *ConsoleLogger) { l.LogTrace("x") }, true},
		{"warn filtered at error", "error", func(l *ConsoleLogger) { l.LogWarn("x") }, false},
		{"error passes at error", "error", func(l *ConsoleLogger) { l.LogError("x") }, true},
		{"skipped file is a warning", "warn", func(l *ConsoleLogger) { l.LogFileSkipped("run1.txt", errors.New("boom")) }, true},
		{"scan start is info", "warn", func(l *ConsoleLogger) { l.LogScanStart("dir", 3) }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			tt.logFunc(NewConsoleLogger(buf, tt.level))
			if got := buf.Len() > 0; got != tt.shouldLog {
				t.Errorf("logged = %v, want %v (output %q)", got, tt.shouldLog, buf.String())
			}
		})
	}
}

func TestConsoleLogger_Format(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewConsoleLogger(buf, "info")

	logger.LogInfo("hello")

	out := buf.String()
	if !tsPattern.MatchString(out) {
		t.Errorf("missing timestamp prefix: %q", out)
	}
	if !strings.HasSuffix(out, "[INFO] hello\n") {
		t.Errorf("unexpected format: %q", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("non-terminal output must not contain ANSI codes")
	}
}

func TestConsoleLogger_NilWriter(t *testing.T) {
	logger := NewConsoleLogger(nil, "trace")
	logger.LogInfo("discarded")
	logger.LogScanSummary(models.ScanSummary{Dir: "x"})
}

func TestLogScanStart(t *testing.T) {
	tests := []struct {
		files int
		want  string
	}{
		{1, "Scanning results/wc: 1 run file\n"},
		{9, "Scanning results/wc: 9 run files\n"},
	}
	for _, tt := range tests {
		buf := &bytes.Buffer{}
		NewConsoleLogger(buf, "info").LogScanStart("results/wc", tt.files)
		if !strings.HasSuffix(buf.String(), tt.want) {
			t.Errorf("got %q, want suffix %q", buf.String(), tt.want)
		}
	}
}

func TestLogFileSkipped(t *testing.T) {
	buf := &bytes.Buffer{}
	NewConsoleLogger(buf, "info").LogFileSkipped("/tmp/run3.txt", errors.New("empty file"))

	if !strings.Contains(buf.String(), "[WARN] Skipping /tmp/run3.txt: empty file") {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestLogScanSummary(t *testing.T) {
	buf := &bytes.Buffer{}
	NewConsoleLogger(buf, "info").LogScanSummary(models.ScanSummary{
		Dir:      "results/wc",
		Schema:   "v3",
		Files:    9,
		Scanned:  8,
		Skipped:  1,
		Records:  32,
		Output:   "output.csv",
		BatchID:  "abc",
		Duration: 1500 * time.Millisecond,
	})

	out := buf.String()
	for _, want := range []string{
		"=== Scrape Summary ===",
		"Directory: results/wc",
		"Schema: v3",
		"Files: 9 (scanned: 8, skipped: 1)",
		"Records: 32",
		"Output: output.csv",
		"Archive batch: abc",
		"Duration: 1.5s",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}

	for _, line := range strings.Split(strings.TrimSuffix(out, "\n"), "\n") {
		if !tsPattern.MatchString(line) {
			t.Errorf("line without timestamp: %q", line)
		}
	}
}

func TestLogScanSummary_FilteredAtWarn(t *testing.T) {
	buf := &bytes.Buffer{}
	NewConsoleLogger(buf, "warn").LogScanSummary(models.ScanSummary{Dir: "x"})
	if buf.Len() != 0 {
		t.Errorf("summary should be filtered at warn, got %q", buf.String())
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{150 * time.Millisecond, "150ms"},
		{2500 * time.Millisecond, "2.5s"},
		{3*time.Minute + 4*time.Second, "3m4s"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestConsoleLogger_Concurrent(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewConsoleLogger(buf, "info")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			logger.LogInfo("line")
		}()
	}
	wg.Wait()

	if got := strings.Count(buf.String(), "\n"); got != 20 {
		t.Errorf("expected 20 lines, got %d", got)
	}
}

func TestIsValidLevel(t *testing.T) {
	for _, l := range ValidLevels {
		if !IsValidLevel(l) {
			t.Errorf("%q should be valid", l)
		}
	}
	if IsValidLevel("loud") {
		t.Error("unknown level should be invalid")
	}
}
