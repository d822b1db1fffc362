package aggregate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/genscrape/internal/models"
)

func TestReadTable(t *testing.T) {
	input := strings.Join([]string{
		"runNumber,generation,codeSizeMean,codeSizeMedian,uniqueBehaviors",
		"1,0,3/4,1,12",
		"1,1,,2,",
		"2,0,5,1,10",
		"",
	}, "\n")

	table, err := ReadTable(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, models.BaseMetrics, table.Metrics)
	require.Len(t, table.Records, 3)
	assert.Equal(t, 0, table.SkippedRows)

	assert.Equal(t, models.LogRecord{RunNumber: 1, Generation: 0, CodeSizeMean: "3/4", CodeSizeMedian: "1", UniqueBehaviors: "12"}, table.Records[0])
	assert.Equal(t, "", table.Records[1].CodeSizeMean)
	assert.Equal(t, 2, table.Records[2].RunNumber)
}

func TestReadTable_GenomeColumns(t *testing.T) {
	input := "runNumber,generation,codeSizeMean,codeSizeMedian,genomeSizeMean,genomeSizeMedian,uniqueBehaviors\n" +
		"0,0,1,2,3,4,5\n"

	table, err := ReadTable(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, models.GenomeMetrics, table.Metrics)
	assert.Equal(t, "3", table.Records[0].GenomeSizeMean)
	assert.Equal(t, "4", table.Records[0].GenomeSizeMedian)
}

func TestReadTable_SkipsBadGeneration(t *testing.T) {
	input := "runNumber,generation,codeSizeMean\n" +
		"1,x,5\n" +
		"1,,5\n" +
		"1,-1,5\n" +
		"1,2,5\n"

	table, err := ReadTable(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 3, table.SkippedRows)
	require.Len(t, table.Records, 1)
	assert.Equal(t, 2, table.Records[0].Generation)
}

func TestReadTable_ShortRows(t *testing.T) {
	input := "runNumber,generation,codeSizeMean,uniqueBehaviors\n1,0,5\n"

	table, err := ReadTable(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, table.Records, 1)
	assert.Equal(t, "5", table.Records[0].CodeSizeMean)
	assert.Equal(t, "", table.Records[0].UniqueBehaviors)
}

func TestReadTable_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"empty", "", "missing header"},
		{"no generation column", "runNumber,codeSizeMean\n1,2\n", "generation"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadTable(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestReadTableFile_RoundTripIntoAggregate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output.csv")
	content := "runNumber,generation,codeSizeMean,codeSizeMedian,uniqueBehaviors\n" +
		"1,0,10,1,1\n2,0,20,1,1\n3,0,30,1,1\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	table, err := ReadTableFile(path)
	require.NoError(t, err)

	rows := Aggregate(table.Records, table.Metrics, models.ModeMean)
	require.Len(t, rows, 1)
	assert.InDelta(t, 20.0, rows[0].Stats[models.MetricCodeSizeMean].Mean, 1e-9)
	assert.InDelta(t, 10.0, rows[0].Stats[models.MetricCodeSizeMean].Std, 1e-9)

	_, err = ReadTableFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
