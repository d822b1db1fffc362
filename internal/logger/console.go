// Package logger provides leveled console logging for genscrape commands.
//
// Messages are prefixed with [HH:MM:SS] timestamps. Implementations are
// safe for concurrent use; colour is applied only when writing to a terminal.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"

	"github.com/harrison/genscrape/internal/models"
)

// Log level constants for filtering
const (
	levelTrace int = 0
	levelDebug int = 1
	levelInfo  int = 2
	levelWarn  int = 3
	levelError int = 4
)

// ValidLevels lists the accepted log level names, most verbose first
var ValidLevels = []string{"trace", "debug", "info", "warn", "error"}

// ConsoleLogger writes timestamped, level-filtered messages to a writer.
type ConsoleLogger struct {
	writer      io.Writer
	logLevel    string
	mutex       sync.Mutex
	colorOutput bool
}

// NewConsoleLogger creates a ConsoleLogger that writes to the provided io.Writer.
// A nil writer discards everything. An empty or unknown level means "info".
func NewConsoleLogger(writer io.Writer, logLevel string) *ConsoleLogger {
	return &ConsoleLogger{
		writer:      writer,
		logLevel:    normalizeLogLevel(logLevel),
		colorOutput: isTerminal(writer),
	}
}

// isTerminal reports whether w is stdout/stderr and colour is enabled.
// fatih/color disables colour for non-TTYs and when NO_COLOR is set.
func isTerminal(w io.Writer) bool {
	if w == nil {
		return false
	}
	if w == os.Stdout || w == os.Stderr {
		return !color.NoColor
	}
	return false
}

// IsValidLevel reports whether level names a known log level
func IsValidLevel(level string) bool {
	normalized := strings.ToLower(strings.TrimSpace(level))
	for _, l := range ValidLevels {
		if l == normalized {
			return true
		}
	}
	return false
}

func normalizeLogLevel(level string) string {
	if IsValidLevel(level) {
		return strings.ToLower(strings.TrimSpace(level))
	}
	return "info"
}

func (cl *ConsoleLogger) shouldLog(messageLevel string) bool {
	return logLevelToInt(messageLevel) >= logLevelToInt(cl.logLevel)
}

func logLevelToInt(level string) int {
	switch level {
	case "trace":
		return levelTrace
	case "debug":
		return levelDebug
	case "info":
		return levelInfo
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

// Level returns the effective log level
func (cl *ConsoleLogger) Level() string {
	return cl.logLevel
}

// LogTrace logs a trace-level message.
func (cl *ConsoleLogger) LogTrace(message string) {
	cl.logWithLevel("TRACE", message)
}

// LogDebug logs a debug-level message.
func (cl *ConsoleLogger) LogDebug(message string) {
	cl.logWithLevel("DEBUG", message)
}

// LogInfo logs an info-level message.
// Format: "[HH:MM:SS] [INFO] <message>"
func (cl *ConsoleLogger) LogInfo(message string) {
	cl.logWithLevel("INFO", message)
}

// LogWarn logs a warning-level message.
func (cl *ConsoleLogger) LogWarn(message string) {
	cl.logWithLevel("WARN", message)
}

// LogError logs an error-level message.
func (cl *ConsoleLogger) LogError(message string) {
	cl.logWithLevel("ERROR", message)
}

func (cl *ConsoleLogger) logWithLevel(level string, message string) {
	if cl.writer == nil || !cl.shouldLog(strings.ToLower(level)) {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()
	var formatted string
	if cl.colorOutput {
		formatted = cl.formatWithColor(ts, level, message)
	} else {
		formatted = fmt.Sprintf("[%s] [%s] %s\n", ts, level, message)
	}

	cl.writer.Write([]byte(formatted))
}

func (cl *ConsoleLogger) formatWithColor(ts, level, message string) string {
	var coloredLevel string

	switch strings.ToUpper(level) {
	case "TRACE":
		coloredLevel = color.New(color.FgHiBlack).Sprint(level)
	case "DEBUG":
		coloredLevel = color.New(color.FgCyan).Sprint(level)
	case "INFO":
		coloredLevel = color.New(color.FgBlue).Sprint(level)
	case "WARN":
		coloredLevel = color.New(color.FgYellow).Sprint(level)
	case "ERROR":
		coloredLevel = color.New(color.FgRed).Sprint(level)
	default:
		coloredLevel = level
	}

	return fmt.Sprintf("[%s] [%s] %s\n", ts, coloredLevel, message)
}

// LogScanStart logs the start of a directory scrape at INFO level.
// Format: "[HH:MM:SS] [INFO] Scanning <dir>: <n> run files"
func (cl *ConsoleLogger) LogScanStart(dir string, files int) {
	noun := "run files"
	if files == 1 {
		noun = "run file"
	}
	name := dir
	if cl.colorOutput {
		name = color.New(color.Bold).Sprint(dir)
	}
	cl.LogInfo(fmt.Sprintf("Scanning %s: %d %s", name, files, noun))
}

// LogFileSkipped logs a run file that was left out of the batch at WARN level.
func (cl *ConsoleLogger) LogFileSkipped(path string, err error) {
	cl.LogWarn(fmt.Sprintf("Skipping %s: %v", path, err))
}

// LogScanSummary logs the totals of a completed scrape.
//
// Format:
//
//	=== Scrape Summary ===
//	Directory: <dir>
//	Schema: <name>
//	Files: <n> (scanned: <n>, skipped: <n>)
//	Records: <n>
//	Output: <path>
//	Duration: <d>
func (cl *ConsoleLogger) LogScanSummary(summary models.ScanSummary) {
	if cl.writer == nil || !cl.shouldLog("info") {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	scheme := newColorScheme(cl.colorOutput)
	var b strings.Builder

	ts := timestamp()
	fmt.Fprintf(&b, "[%s] === Scrape Summary ===\n", ts)
	fmt.Fprintf(&b, "[%s] %s\n", ts, scheme.metric("Directory", summary.Dir))
	if summary.Schema != "" {
		fmt.Fprintf(&b, "[%s] %s\n", ts, scheme.metric("Schema", summary.Schema))
	}
	fmt.Fprintf(&b, "[%s] %s: %d (%s, %s)\n", ts, scheme.label.Sprint("Files"), summary.Files,
		scheme.count("scanned", summary.Scanned, scheme.success),
		scheme.count("skipped", summary.Skipped, scheme.warn))
	fmt.Fprintf(&b, "[%s] %s\n", ts, scheme.metric("Records", summary.Records))
	if summary.Output != "" {
		fmt.Fprintf(&b, "[%s] %s\n", ts, scheme.metric("Output", summary.Output))
	}
	if summary.BatchID != "" {
		fmt.Fprintf(&b, "[%s] %s\n", ts, scheme.metric("Archive batch", summary.BatchID))
	}
	fmt.Fprintf(&b, "[%s] %s\n", ts, scheme.metric("Duration", formatDuration(summary.Duration)))

	cl.writer.Write([]byte(b.String()))
}

func timestamp() string {
	return time.Now().Format("15:04:05")
}

// formatDuration renders durations as "1.2s", "3m4s" or "150ms".
func formatDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		d = d.Round(time.Second)
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
}

// NoOpLogger discards everything.
type NoOpLogger struct{}

// NewNoOpLogger creates a logger that does nothing
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

func (n *NoOpLogger) LogTrace(string) {}
func (n *NoOpLogger) LogDebug(string) {}
func (n *NoOpLogger) LogInfo(string) {}
func (n *NoOpLogger) LogWarn(string) {}
func (n *NoOpLogger) LogError(string) {}
func (n *NoOpLogger) LogScanStart(string, int) {}
func (n *NoOpLogger) LogFileSkipped(string, error) {}
func (n *NoOpLogger) LogScanSummary(models.ScanSummary) {}
