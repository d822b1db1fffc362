package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harrison/genscrape/internal/config"
	"github.com/harrison/genscrape/internal/export"
	"github.com/harrison/genscrape/internal/schema"
	"github.com/harrison/genscrape/internal/store"
)

// NewArchiveCommand creates the 'genscrape archive' parent command
func NewArchiveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Inspect and re-export archived scrape batches",
		Long: `Commands for the archive database filled by 'genscrape scrape --archive'.

Every archived batch keeps the directory, log layout version and records of
one scrape, so its table can be re-exported later without the original logs.`,
	}

	cmd.PersistentFlags().String("db-path", "", "Archive database path (default: .genscrape/archive.db)")

	cmd.AddCommand(newArchiveListCommand())
	cmd.AddCommand(newArchiveExportCommand())
	cmd.AddCommand(newArchiveDeleteCommand())

	return cmd
}

func openArchive(cmd *cobra.Command) (*store.Archive, error) {
	cfg, err := loadConfig(cmd, config.Overrides{DBPath: changedString(cmd, "db-path")})
	if err != nil {
		return nil, err
	}
	archive, err := store.OpenArchive(cfg.Archive.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	return archive, nil
}

func newArchiveListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List archived batches, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			archive, err := openArchive(cmd)
			if err != nil {
				return err
			}
			defer archive.Close()

			batches, err := archive.ListBatches(commandContext(cmd))
			if err != nil {
				return err
			}
			if len(batches) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No archived batches")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCREATED\tSCHEMA\tFILES\tSKIPPED\tRECORDS\tDIRECTORY")
			for _, b := range batches {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
					b.ID, b.CreatedAt.Local().Format("2006-01-02 15:04:05"),
					b.SchemaVersion, b.Files, b.Skipped, b.Records, b.SourceDir)
			}
			return tw.Flush()
		},
	}
}

func newArchiveExportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export <batch-id>",
		Short: "Write an archived batch back out as a scraped table",
		Long: `Write the records of an archived batch as the same CSV table the original
scrape produced. A unique prefix of the batch ID is accepted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			archive, err := openArchive(cmd)
			if err != nil {
				return err
			}
			defer archive.Close()

			ctx := commandContext(cmd)
			batch, err := archive.GetBatch(ctx, args[0])
			if err != nil {
				return err
			}
			adapter, err := schema.Lookup(batch.SchemaVersion)
			if err != nil {
				return fmt.Errorf("batch %s: %w", batch.ID, err)
			}
			records, err := archive.LoadRecords(ctx, batch.ID)
			if err != nil {
				return err
			}

			if output == "" {
				return export.WriteRecords(cmd.OutOrStdout(), records, adapter.Metrics)
			}
			return export.WriteRecordsFile(output, records, adapter.Metrics)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output CSV path (stdout if not specified)")
	return cmd
}

func newArchiveDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <batch-id>",
		Short: "Remove an archived batch and its records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			archive, err := openArchive(cmd)
			if err != nil {
				return err
			}
			defer archive.Close()

			ctx := commandContext(cmd)
			batch, err := archive.GetBatch(ctx, args[0])
			if err != nil {
				return err
			}
			if err := archive.DeleteBatch(ctx, batch.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted batch %s (%d records)\n", batch.ID, batch.Records)
			return nil
		},
	}
}
