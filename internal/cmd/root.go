package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for genscrape
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "genscrape",
		Short: "Extract and summarize per-generation statistics from evolutionary run logs",
		Long: `genscrape scans a directory of run logs (run0.txt, run1.txt, ...) produced by
repeated runs of an evolutionary experiment and extracts per-generation metrics
(code size, genome size, unique behaviors) into a flat CSV table.

The table can then be aggregated across runs (mean ± std or median with
quartiles), plotted against a second experiment setting, or rendered as a
summary report. Solution outcomes and type frequencies of a result directory
can be summarized as well.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String("config", "", "Path to config file (default: .genscrape/config.yaml)")
	cmd.PersistentFlags().String("log-level", "", "Log level: trace, debug, info, warn, error")

	cmd.AddCommand(NewScrapeCommand())
	cmd.AddCommand(NewAggregateCommand())
	cmd.AddCommand(NewPlotCommand())
	cmd.AddCommand(NewReportCommand())
	cmd.AddCommand(NewOutcomesCommand())
	cmd.AddCommand(NewTypesCommand())
	cmd.AddCommand(NewArchiveCommand())

	return cmd
}
