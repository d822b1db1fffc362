// Package export writes the raw per-run table and the aggregated statistics
// table as CSV, and renders human-readable summary reports.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/harrison/genscrape/internal/filelock"
	"github.com/harrison/genscrape/internal/models"
	"github.com/harrison/genscrape/internal/store"
)

// FormatFloat renders a statistic in the shortest form that round-trips.
// NaN and infinities render as an empty field.
func FormatFloat(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WriteRecords writes the raw table: header, then one row per record ordered
// by (run, generation) as integers. Metric values are written verbatim and
// missing values stay empty. The input slice is not reordered.
func WriteRecords(w io.Writer, records []models.LogRecord, metrics []models.Metric) error {
	sorted := make([]models.LogRecord, len(records))
	copy(sorted, records)
	store.SortRecords(sorted)

	cw := csv.NewWriter(w)
	if err := cw.Write(models.RecordColumns(metrics)); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	row := make([]string, 0, len(metrics)+2)
	for i := range sorted {
		row = row[:0]
		row = append(row, strconv.Itoa(sorted[i].RunNumber), strconv.Itoa(sorted[i].Generation))
		for _, m := range metrics {
			row = append(row, sorted[i].Value(m))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}

// WriteStats writes the aggregated table, one row per generation in the
// order given. Statistics that are undefined for a generation are empty.
func WriteStats(w io.Writer, rows []models.GroupedStat, mode models.Mode, metrics []models.Metric) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(models.StatColumns(mode, metrics)); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, r := range rows {
		row := []string{strconv.Itoa(r.Generation)}
		for _, m := range metrics {
			row = append(row, StatFields(r, m, mode)...)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write stats row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}

// StatFields returns the formatted statistics of one metric in the column
// order of models.StatSuffixes.
func StatFields(r models.GroupedStat, m models.Metric, mode models.Mode) []string {
	s, ok := r.Stats[m]
	if mode == models.ModeMedian {
		if !ok {
			return []string{"", "", ""}
		}
		return []string{FormatFloat(s.Median), FormatFloat(s.Q25), FormatFloat(s.Q75)}
	}

	if !ok {
		return []string{"", ""}
	}
	std := ""
	if s.StdDefined {
		std = FormatFloat(s.Std)
	}
	return []string{FormatFloat(s.Mean), std}
}

// WriteRecordsFile replaces path with the raw table under an exclusive lock.
func WriteRecordsFile(path string, records []models.LogRecord, metrics []models.Metric) error {
	err := filelock.LockAndWrite(path, func(w io.Writer) error {
		return WriteRecords(w, records, metrics)
	})
	if err != nil {
		return fmt.Errorf("failed to export %s: %w", path, err)
	}
	return nil
}

// WriteStatsFile replaces path with the aggregated table under an exclusive lock.
func WriteStatsFile(path string, rows []models.GroupedStat, mode models.Mode, metrics []models.Metric) error {
	err := filelock.LockAndWrite(path, func(w io.Writer) error {
		return WriteStats(w, rows, mode, metrics)
	})
	if err != nil {
		return fmt.Errorf("failed to export %s: %w", path, err)
	}
	return nil
}
