package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrison/genscrape/internal/aggregate"
	"github.com/harrison/genscrape/internal/config"
	"github.com/harrison/genscrape/internal/export"
	"github.com/harrison/genscrape/internal/models"
)

// NewAggregateCommand creates the 'genscrape aggregate' command
func NewAggregateCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "aggregate <table.csv>",
		Short: "Summarize a scraped table per generation across runs",
		Long: `Group the rows of a scraped table by generation and summarize each metric
across runs.

  mean:   {metric}_mean, {metric}_std (sample standard deviation)
  median: {metric}_median, {metric}_q25, {metric}_q75

Values such as "3/4" are parsed as fractions; values that do not parse are
left out of the sample. A statistic with no samples is written as an empty
field. Output goes to stdout unless --output is given.`,
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

			table, rows, err := loadStats(cmd, cfg, args[0], mode)
			if err != nil {
				return err
			}

			if output == "" {
				return export.WriteStats(cmd.OutOrStdout(), rows, mode, table.Metrics)
			}
			if err := export.WriteStatsFile(output, rows, mode, table.Metrics); err != nil {
				return err
			}
			newLogger(cmd, cfg).LogInfo(fmt.Sprintf("Wrote %d generation rows to %s", len(rows), output))
			return nil
		},
	}

	cmd.Flags().String("stats", "", "Aggregation mode: mean or median (default: mean)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output CSV path (stdout if not specified)")

	return cmd
}

// loadStats reads a scraped table and aggregates it, warning about unusable rows.
func loadStats(cmd *cobra.Command, cfg *config.Config, path string, mode models.Mode) (*aggregate.Table, []models.GroupedStat, error) {
	table, err := aggregate.ReadTableFile(path)
	if err != nil {
		return nil, nil, err
	}
	if table.SkippedRows > 0 {
		newLogger(cmd, cfg).LogWarn(fmt.Sprintf("%s: skipped %d rows without a valid generation", path, table.SkippedRows))
	}
	return table, aggregate.Aggregate(table.Records, table.Metrics, mode), nil
}
