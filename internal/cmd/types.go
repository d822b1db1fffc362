package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrison/genscrape/internal/config"
	"github.com/harrison/genscrape/internal/outcome"
)

// NewTypesCommand creates the 'genscrape types' command
func NewTypesCommand() *cobra.Command {
	var asCSV, recursive bool

	cmd := &cobra.Command{
		Use:   "types <dir>",
		Short: "Summarize program-type frequencies of run<N>_types.edn files",
		Long: `Read run0_types.edn, run1_types.edn, ... in order for as long as they exist.
Each line up to a closing "]" line is one type, ending in its frequency.

Reports the median and mean number of types per run, the median number of
types with frequency >= 10, 100 and 1000, and the median frequency overall.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, config.Overrides{})
			if err != nil {
				return err
			}
			log := newLogger(cmd, cfg)

			dirs, err := problemDirs(args[0], recursive)
			if err != nil {
				return err
			}

			summaries := make([]*outcome.TypesSummary, 0, len(dirs))
			for _, dir := range dirs {
				s, err := outcome.ScanTypes(dir)
				if err != nil {
					return err
				}
				if s == nil {
					if recursive {
						log.LogDebug(fmt.Sprintf("%s: no type files", dir))
					} else {
						fmt.Fprintf(cmd.OutOrStdout(), "Nothing to do: no type files in %s\n", dir)
					}
					continue
				}
				for _, run := range s.Runs {
					if run.Malformed > 0 {
						log.LogWarn(fmt.Sprintf("%s: run %d has %d lines without a frequency", dir, run.Run, run.Malformed))
					}
				}
				summaries = append(summaries, s)
			}

			if asCSV || recursive {
				if len(summaries) == 0 {
					return nil
				}
				return outcome.WriteTypesCSV(cmd.OutOrStdout(), summaries, true)
			}
			for _, s := range summaries {
				if err := outcome.WriteTypesText(cmd.OutOrStdout(), s); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asCSV, "csv", false, "Print a CSV header and one row per directory")
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Summarize each subdirectory of <dir> (implies --csv)")

	return cmd
}
