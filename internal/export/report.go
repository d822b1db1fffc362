package export

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/harrison/genscrape/internal/filelock"
	"github.com/harrison/genscrape/internal/models"
)

// Report is the input of a summary report: an aggregated table and where it came from.
type Report struct {
	Source      string
	Mode        models.Mode
	Metrics     []models.Metric
	Rows        []models.GroupedStat
	SkippedRows int
	GeneratedAt time.Time // zero omits the timestamp line
}

// Validate checks that a report can be rendered
func (r *Report) Validate() error {
	if r.Mode != models.ModeMean && r.Mode != models.ModeMedian {
		return fmt.Errorf("invalid stats mode %q", r.Mode)
	}
	if len(r.Metrics) == 0 {
		return fmt.Errorf("report has no metrics")
	}
	return nil
}

// Exporter renders a summary report
type Exporter interface {
	Export(report *Report) (string, error)
}

// MarkdownExporter renders a report as a Markdown document
type MarkdownExporter struct{}

// Export renders the report header, a final-generation summary and the full
// per-generation table for each metric.
func (me *MarkdownExporter) Export(report *Report) (string, error) {
	if report == nil {
		return "", fmt.Errorf("report cannot be nil")
	}
	if err := report.Validate(); err != nil {
		return "", fmt.Errorf("invalid report: %w", err)
	}

	var sb strings.Builder

	sb.WriteString("# Generation Statistics Report\n\n")
	if report.Source != "" {
		sb.WriteString(fmt.Sprintf("- **Source**: `%s`\n", report.Source))
	}
	sb.WriteString(fmt.Sprintf("- **Statistics**: %s\n", report.Mode))
	sb.WriteString(fmt.Sprintf("- **Generations**: %d\n", len(report.Rows)))
	if report.SkippedRows > 0 {
		sb.WriteString(fmt.Sprintf("- **Skipped rows**: %d\n", report.SkippedRows))
	}
	if !report.GeneratedAt.IsZero() {
		sb.WriteString(fmt.Sprintf("- **Generated**: %s\n", report.GeneratedAt.Format("2006-01-02 15:04:05")))
	}
	sb.WriteString("\n")

	if len(report.Rows) == 0 {
		sb.WriteString("_No generations found._\n")
		return sb.String(), nil
	}

	suffixes := models.StatSuffixes(report.Mode)

	// Final generation summary
	last := report.Rows[len(report.Rows)-1]
	sb.WriteString(fmt.Sprintf("## Final Generation (%d)\n\n", last.Generation))
	sb.WriteString("| Metric | Samples | " + strings.Join(suffixes, " | ") + " |\n")
	sb.WriteString("|--------|---------|" + strings.Repeat("------|", len(suffixes)) + "\n")
	for _, m := range report.Metrics {
		fields := StatFields(last, m, report.Mode)
		sb.WriteString(fmt.Sprintf("| %s | %d | %s |\n", m, last.Stats[m].Count, strings.Join(dashEmpty(fields), " | ")))
	}
	sb.WriteString("\n")

	for _, m := range report.Metrics {
		sb.WriteString(fmt.Sprintf("## %s\n\n", m))
		sb.WriteString("| Generation | " + strings.Join(suffixes, " | ") + " |\n")
		sb.WriteString("|------------|" + strings.Repeat("------|", len(suffixes)) + "\n")
		for _, row := range report.Rows {
			fields := StatFields(row, m, report.Mode)
			sb.WriteString(fmt.Sprintf("| %d | %s |\n", row.Generation, strings.Join(dashEmpty(fields), " | ")))
		}
		sb.WriteString("\n")
	}

	return sb.String(), nil
}

func dashEmpty(fields []string) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		if f == "" {
			f = "-"
		}
		out[i] = f
	}
	return out
}

// HTMLExporter renders the Markdown report to a standalone HTML page
type HTMLExporter struct {
	Title string
}

// Export converts the Markdown rendering to HTML with table support
func (he *HTMLExporter) Export(report *Report) (string, error) {
	md, err := (&MarkdownExporter{}).Export(report)
	if err != nil {
		return "", err
	}

	converter := goldmark.New(goldmark.WithExtensions(extension.Table))
	var body bytes.Buffer
	if err := converter.Convert([]byte(md), &body); err != nil {
		return "", fmt.Errorf("failed to render HTML: %w", err)
	}

	title := he.Title
	if title == "" {
		title = "Generation Statistics Report"
	}

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	sb.WriteString(fmt.Sprintf("<title>%s</title>\n", html.EscapeString(title)))
	sb.WriteString("</head>\n<body>\n")
	sb.Write(body.Bytes())
	sb.WriteString("</body>\n</html>\n")
	return sb.String(), nil
}

// NewExporter returns the exporter for a format name ("markdown"/"md" or "html")
func NewExporter(format string) (Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "markdown", "md":
		return &MarkdownExporter{}, nil
	case "html":
		return &HTMLExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported report format %q: must be 'markdown' or 'html'", format)
	}
}

// ExportToFile renders a report and writes it atomically to path.
func ExportToFile(exporter Exporter, report *Report, path string) error {
	content, err := exporter.Export(report)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	if err := filelock.LockAndWrite(path, func(w io.Writer) error {
		_, err := io.WriteString(w, content)
		return err
	}); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
