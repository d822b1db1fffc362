package aggregate

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/harrison/genscrape/internal/models"
)

// Table is a raw per-run-per-generation table read back from CSV
type Table struct {
	Metrics     []models.Metric // metric columns present, in canonical order
	Records     []models.LogRecord
	SkippedRows int // rows without a usable generation index
}

// ReadTable parses a raw table. The header must contain a generation column;
// a missing runNumber column reads as run 0. Unknown columns are ignored and
// short rows read as empty trailing fields.
func ReadTable(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("table is empty: missing header row")
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, col := range header {
		index[strings.TrimSpace(strings.TrimPrefix(col, "\ufeff"))] = i
	}

	genCol, ok := index[models.ColumnGeneration]
	if !ok {
		return nil, fmt.Errorf("table has no %q column", models.ColumnGeneration)
	}
	runCol, hasRun := index[models.ColumnRunNumber]

	table := &Table{Records: make([]models.LogRecord, 0)}
	for _, m := range models.GenomeMetrics {
		if _, ok := index[string(m)]; ok {
			table.Metrics = append(table.Metrics, m)
		}
	}

	field := func(row []string, i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}

		generation, err := strconv.Atoi(field(row, genCol))
		if err != nil || generation < 0 {
			table.SkippedRows++
			continue
		}

		rec := models.LogRecord{Generation: generation}
		if hasRun {
			if run, err := strconv.Atoi(field(row, runCol)); err == nil {
				rec.RunNumber = run
			}
		}
		for _, m := range table.Metrics {
			rec.Set(m, field(row, index[string(m)]))
		}
		table.Records = append(table.Records, rec)
	}

	return table, nil
}

// ReadTableFile opens and parses a raw table file
func ReadTableFile(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open table: %w", err)
	}
	defer file.Close()

	table, err := ReadTable(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}
