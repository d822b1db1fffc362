package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrison/genscrape/internal/config"
	"github.com/harrison/genscrape/internal/fileutil"
	"github.com/harrison/genscrape/internal/outcome"
)

// problemDirs returns dir itself, or its sorted subdirectories when recursive
func problemDirs(dir string, recursive bool) ([]string, error) {
	if !recursive {
		if err := fileutil.EnsureDir(dir); err != nil {
			return nil, err
		}
		return []string{dir}, nil
	}
	return fileutil.ListSubdirs(dir)
}

// NewOutcomesCommand creates the 'genscrape outcomes' command
func NewOutcomesCommand() *cobra.Command {
	var asCSV, recursive bool

	cmd := &cobra.Command{
		Use:   "outcomes <dir>",
		Short: "Count finished, solved and generalized runs",
		Long: `Read run0<ext>, run1<ext>, ... in order for as long as they exist and
classify each run by the last solution marker in its log:

  SOLUTION GENERALIZED   solved, with zero error on the test set
  SOLUTION FOUND         solved
  SOLUTION NOT FOUND     finished without a solution

Runs without a marker (including empty logs) are listed as not done.
With --recursive every subdirectory of <dir> is summarized as its own problem.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, config.Overrides{Extension: changedString(cmd, "ext")})
			if err != nil {
				return err
			}

			dirs, err := problemDirs(args[0], recursive)
			if err != nil {
				return err
			}

			summaries := make([]*outcome.Summary, 0, len(dirs))
			for _, dir := range dirs {
				s, err := outcome.ScanStatuses(dir, cfg.Extension)
				if err != nil {
					return err
				}
				if len(s.Runs) == 0 && recursive {
					newLogger(cmd, cfg).LogDebug(fmt.Sprintf("%s: no run files", dir))
				}
				summaries = append(summaries, s)
			}

			if asCSV || recursive {
				return outcome.WriteStatusCSV(cmd.OutOrStdout(), summaries, recursive)
			}
			for _, s := range summaries {
				if len(s.Runs) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "Nothing to do: no run files in %s\n", s.Dir)
					continue
				}
				if err := outcome.WriteStatusText(cmd.OutOrStdout(), s); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asCSV, "csv", false, "Print one CSV row: dir,finished,found,generalized")
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Summarize each subdirectory of <dir> (implies --csv)")
	cmd.Flags().String("ext", "", "Run log extension (default: .txt)")

	return cmd
}
