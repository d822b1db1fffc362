package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/harrison/genscrape/internal/config"
	"github.com/harrison/genscrape/internal/export"
	"github.com/harrison/genscrape/internal/models"
)

// NewReportCommand creates the 'genscrape report' command
func NewReportCommand() *cobra.Command {
	var format string
	var output string

	cmd := &cobra.Command{
		Use:   "report <table.csv>",
		Short: "Render a per-generation summary report as Markdown or HTML",
		Long: `Aggregate a scraped table and render a report with the final generation's
statistics and one per-generation table per metric.

Examples:
  genscrape report output.csv
  genscrape report output.csv --stats median --format html -o report.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, config.Overrides{Stats: changedString(cmd, "stats")})
			if err != nil {
				return err
			}
			mode, err := models.ParseMode(cfg.Stats)
			if err != nil {
				return err
			}
			exporter, err := export.NewExporter(format)
			if err != nil {
				return err
			}

			table, rows, err := loadStats(cmd, cfg, args[0], mode)
			if err != nil {
				return err
			}

			report := &export.Report{
				Source:      args[0],
				Mode:        mode,
				Metrics:     table.Metrics,
				Rows:        rows,
				SkippedRows: table.SkippedRows,
				GeneratedAt: time.Now(),
			}

			if output == "" {
				content, err := exporter.Export(report)
				if err != nil {
					return err
				}
				_, err = io.WriteString(cmd.OutOrStdout(), content)
				return err
			}

			if err := export.ExportToFile(exporter, report, output); err != nil {
				return err
			}
			newLogger(cmd, cfg).LogInfo(fmt.Sprintf("Report written to %s", output))
			return nil
		},
	}

	cmd.Flags().String("stats", "", "Aggregation mode: mean or median (default: mean)")
	cmd.Flags().StringVar(&format, "format", "markdown", "Report format (markdown|html)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file path (stdout if not specified)")

	return cmd
}
