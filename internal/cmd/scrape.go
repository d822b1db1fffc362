package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/harrison/genscrape/internal/aggregate"
	"github.com/harrison/genscrape/internal/config"
	"github.com/harrison/genscrape/internal/display"
	"github.com/harrison/genscrape/internal/export"
	"github.com/harrison/genscrape/internal/filelock"
	"github.com/harrison/genscrape/internal/fileutil"
	"github.com/harrison/genscrape/internal/models"
	"github.com/harrison/genscrape/internal/scanner"
	"github.com/harrison/genscrape/internal/schema"
	"github.com/harrison/genscrape/internal/store"
)

// NewScrapeCommand creates the 'genscrape scrape' command
func NewScrapeCommand() *cobra.Command {
	var statsOutput string
	var quiet bool

	cmd := &cobra.Command{
		Use:   "scrape <dir>",
		Short: "Extract per-generation metrics from run logs into a CSV table",
		Long: `Scan every run<N><ext> file directly inside <dir> and write one row per
(run, generation) to the output table, sorted by run then generation.

Files that are empty or unreadable are skipped and reported; the remaining
files are still processed. A missing directory is an error.

Examples:
  # Newest log layout, default output.csv
  genscrape scrape results/umad/wc

  # Older logs without genome size, also write mean/std per generation
  genscrape scrape results/old --schema v1 -o sizes.csv --stats-output stats.csv

  # Keep a copy of the extracted table in the archive database
  genscrape scrape results/umad/wc --archive`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, config.Overrides{
				Extension: changedString(cmd, "ext"),
				Schema:    changedString(cmd, "schema"),
				Stats:     changedString(cmd, "stats"),
				Output:    changedString(cmd, "output"),
				Archive:   changedBool(cmd, "archive"),
				DBPath:    changedString(cmd, "db-path"),
			})
			if err != nil {
				return err
			}
			return runScrape(cmd, args[0], cfg, statsOutput, quiet)
		},
	}

	cmd.Flags().StringP("output", "o", "", "Output CSV path (default: output.csv)")
	cmd.Flags().String("ext", "", "Run log extension (default: .txt)")
	cmd.Flags().String("schema", "", fmt.Sprintf("Log layout version: %v (default: v3)", schema.VersionNames()))
	cmd.Flags().String("stats", "", "Aggregation mode for --stats-output: mean or median")
	cmd.Flags().StringVar(&statsOutput, "stats-output", "", "Also write per-generation statistics to this CSV")
	cmd.Flags().Bool("archive", false, "Store the extracted records in the archive database")
	cmd.Flags().String("db-path", "", "Archive database path (default: .genscrape/archive.db)")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Do not print per-file progress")

	return cmd
}

func runScrape(cmd *cobra.Command, dir string, cfg *config.Config, statsOutput string, quiet bool) error {
	start := time.Now()
	log := newLogger(cmd, cfg)

	adapter, err := schema.Lookup(cfg.Schema)
	if err != nil {
		return err
	}

	discovered, err := fileutil.DiscoverRunFiles(dir, cfg.Extension)
	if err != nil {
		return err
	}
	for _, e := range discovered.Errors {
		log.LogWarn(e.Error())
	}

	if len(discovered.Files) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "Nothing to do: no run files in %s\n", dir)
		return nil
	}

	log.LogScanStart(dir, len(discovered.Files))

	var progress *display.ProgressIndicator
	if !quiet {
		progress = display.NewProgressIndicator(cmd.ErrOrStderr(), len(discovered.Files))
		progress.Start()
	}

	records := store.NewRecordStore()
	result, err := scanner.ScanBatch(discovered.Files, records, scanner.BatchOptions{
		Adapter: adapter,
		OnFile: func(file fileutil.RunFile, n int, err error) {
			if progress != nil {
				progress.Step(file.Path)
			}
			if err != nil {
				log.LogFileSkipped(file.Path, err)
				return
			}
			log.LogDebug(fmt.Sprintf("%s: %d records", file.Name, n))
		},
	})
	if err != nil {
		return err
	}
	if progress != nil {
		progress.Complete(result.Scanned, result.Skipped())
	}

	snapshot := records.Snapshot()
	if err := export.WriteRecordsFile(cfg.Output, snapshot, adapter.Metrics); err != nil {
		return err
	}

	if statsOutput != "" {
		mode, err := models.ParseMode(cfg.Stats)
		if err != nil {
			return err
		}
		rows := aggregate.Aggregate(snapshot, adapter.Metrics, mode)
		if err := export.WriteStatsFile(statsOutput, rows, mode, adapter.Metrics); err != nil {
			return err
		}
		log.LogInfo(fmt.Sprintf("Wrote %d generation rows to %s", len(rows), statsOutput))
	}

	summary := models.ScanSummary{
		Dir:     dir,
		Schema:  string(adapter.Version),
		Files:   result.Files,
		Scanned: result.Scanned,
		Skipped: result.Skipped(),
		Records: result.Records,
		Output:  cfg.Output,
	}

	if cfg.Archive.Enabled {
		batchID, err := archiveBatch(cmd, cfg, dir, summary, snapshot)
		if err != nil {
			return err
		}
		summary.BatchID = batchID
	}

	if result.Skipped() > 0 {
		skipped := make([]string, 0, len(result.Failures))
		for _, f := range result.Failures {
			skipped = append(skipped, f.Error())
		}
		display.WarnSkippedFiles(skipped).Display(cmd.ErrOrStderr())
	}

	summary.Duration = time.Since(start)
	log.LogScanSummary(summary)
	return nil
}

// archiveBatch stores the scan under an exclusive lock on the database path.
func archiveBatch(cmd *cobra.Command, cfg *config.Config, dir string, summary models.ScanSummary, records []models.LogRecord) (string, error) {
	ctx := commandContext(cmd)

	if err := os.MkdirAll(filepath.Dir(cfg.Archive.DBPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}
	lock := filelock.NewFileLock(cfg.Archive.DBPath + ".lock")
	if err := lock.LockContext(ctx); err != nil {
		return "", err
	}
	defer lock.Unlock()

	archive, err := store.OpenArchive(cfg.Archive.DBPath)
	if err != nil {
		return "", fmt.Errorf("failed to open archive: %w", err)
	}
	defer archive.Close()

	sourceDir, err := filepath.Abs(dir)
	if err != nil {
		sourceDir = dir
	}

	return archive.SaveBatch(ctx, store.Batch{
		SourceDir:     sourceDir,
		SchemaVersion: summary.Schema,
		Files:         summary.Files,
		Skipped:       summary.Skipped,
	}, records)
}
