package cmd

import (
	"fmt"
	"image/color"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/harrison/genscrape/internal/chart"
	"github.com/harrison/genscrape/internal/config"
	"github.com/harrison/genscrape/internal/models"
)

// NewPlotCommand creates the 'genscrape plot' command
func NewPlotCommand() *cobra.Command {
	var label1, label2, prefix string

	cmd := &cobra.Command{
		Use:   "plot <table1.csv> <table2.csv>",
		Short: "Chart two experiment settings against each other per generation",
		Long: `Aggregate two scraped tables and draw one chart per metric with both
settings overlaid: a centre line plus a shaded band (mean ± std, or the
25th..75th percentile range in median mode).

Charts are written to <out-dir>/<prefix>_<metric>.<format>, for example
images/plot_mean_code_size.pdf and images/plot_diversity.pdf. Metrics missing
from both tables are skipped.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, config.Overrides{
				Stats:  changedString(cmd, "stats"),
				Format: changedString(cmd, "format"),
				OutDir: changedString(cmd, "out-dir"),
			})
			if err != nil {
				return err
			}
			mode, err := models.ParseMode(cfg.Stats)
			if err != nil {
				return err
			}

			labels := []string{label1, label2}
			colors := []color.Color{chart.SeriesBlack, chart.SeriesBlue}
			series := make([]chart.Series, 0, len(args))
			for i, path := range args {
				table, rows, err := loadStats(cmd, cfg, path, mode)
				if err != nil {
					return err
				}
				series = append(series, chart.Series{
					Label:   labels[i],
					Color:   colors[i],
					Metrics: table.Metrics,
					Rows:    rows,
				})
			}

			opts := chart.DefaultOptions()
			opts.OutDir = cfg.Chart.OutDir
			opts.Format = cfg.Chart.Format
			opts.DiversityScale = cfg.Chart.DiversityScale
			opts.Prefix = prefix

			written, err := chart.Render(series, opts)
			for _, path := range written {
				abs, absErr := filepath.Abs(path)
				if absErr != nil {
					abs = path
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved: %s\n", abs)
			}
			if err != nil {
				return err
			}
			if len(written) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to do: no plottable metrics in either table")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&label1, "label1", "Setting 1", "Legend label for the first table")
	cmd.Flags().StringVar(&label2, "label2", "Setting 2", "Legend label for the second table")
	cmd.Flags().StringVar(&prefix, "prefix", "plot", "Output filename prefix")
	cmd.Flags().String("stats", "", "Aggregation mode: mean or median (default: mean)")
	cmd.Flags().String("format", "", "Chart format: pdf, png, svg or eps (default: pdf)")
	cmd.Flags().String("out-dir", "", "Directory charts are written to (default: images)")

	return cmd
}
