package export

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/genscrape/internal/models"
)

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{20, "20"},
		{0.75, "0.75"},
		{1e6, "1000000"},
		{-2.5, "-2.5"},
		{math.NaN(), ""},
		{math.Inf(1), ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatFloat(tt.in))
	}
}

func TestWriteRecords_SortsAndKeepsTokens(t *testing.T) {
	records := []models.LogRecord{
		{RunNumber: 10, Generation: 0, CodeSizeMean: "4", UniqueBehaviors: "1"},
		{RunNumber: 2, Generation: 1, CodeSizeMean: "3/4", CodeSizeMedian: "1"},
		{RunNumber: 2, Generation: 0, CodeSizeMean: "abc"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteRecords(&buf, records, models.BaseMetrics))

	want := "runNumber,generation,codeSizeMean,codeSizeMedian,uniqueBehaviors\n" +
		"2,0,abc,,\n" +
		"2,1,3/4,1,\n" +
		"10,0,4,,1\n"
	assert.Equal(t, want, buf.String())

	// input order untouched
	assert.Equal(t, 10, records[0].RunNumber)
}

func TestWriteRecords_GenomeColumns(t *testing.T) {
	records := []models.LogRecord{{RunNumber: 0, Generation: 0, GenomeSizeMean: "9", GenomeSizeMedian: "8"}}

	var buf bytes.Buffer
	require.NoError(t, WriteRecords(&buf, records, models.GenomeMetrics))
	assert.Equal(t,
		"runNumber,generation,codeSizeMean,codeSizeMedian,genomeSizeMean,genomeSizeMedian,uniqueBehaviors\n0,0,,,9,8,\n",
		buf.String())
}

func TestWriteRecords_HeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRecords(&buf, nil, models.BaseMetrics))
	assert.Equal(t, "runNumber,generation,codeSizeMean,codeSizeMedian,uniqueBehaviors\n", buf.String())
}

func TestWriteStats(t *testing.T) {
	rows := []models.GroupedStat{
		{
			Generation: 0,
			Mode:       models.ModeMean,
			Stats: map[models.Metric]models.MetricStat{
				models.MetricCodeSizeMean:    {Count: 3, Mean: 20, Std: 10, StdDefined: true},
				models.MetricUniqueBehaviors: {Count: 1, Mean: 5},
			},
		},
		{Generation: 1, Mode: models.ModeMean, Stats: map[models.Metric]models.MetricStat{}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteStats(&buf, rows, models.ModeMean, models.BaseMetrics))

	want := "generation,codeSizeMean_mean,codeSizeMean_std,codeSizeMedian_mean,codeSizeMedian_std,uniqueBehaviors_mean,uniqueBehaviors_std\n" +
		"0,20,10,,,5,\n" +
		"1,,,,,,\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteStats_Median(t *testing.T) {
	rows := []models.GroupedStat{{
		Generation: 3,
		Mode:       models.ModeMedian,
		Stats: map[models.Metric]models.MetricStat{
			models.MetricCodeSizeMean: {Count: 3, Median: 20, Q25: 15, Q75: 25},
		},
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteStats(&buf, rows, models.ModeMedian, []models.Metric{models.MetricCodeSizeMean}))
	assert.Equal(t, "generation,codeSizeMean_median,codeSizeMean_q25,codeSizeMean_q75\n3,20,15,25\n", buf.String())
}

func TestWriteRecordsFile_Idempotent(t *testing.T) {
	records := []models.LogRecord{
		{RunNumber: 1, Generation: 1, CodeSizeMean: "5"},
		{RunNumber: 1, Generation: 0, CodeSizeMean: "4"},
	}
	path := filepath.Join(t.TempDir(), "out", "output.csv")

	require.NoError(t, WriteRecordsFile(path, records, models.BaseMetrics))
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, WriteRecordsFile(path, records, models.BaseMetrics))
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	_, err = os.Stat(path + ".lock")
	assert.True(t, os.IsNotExist(err))
}

func TestWriteStatsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.csv")
	rows := []models.GroupedStat{{Generation: 0, Mode: models.ModeMean, Stats: map[models.Metric]models.MetricStat{}}}

	require.NoError(t, WriteStatsFile(path, rows, models.ModeMean, []models.Metric{models.MetricUniqueBehaviors}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "generation,uniqueBehaviors_mean,uniqueBehaviors_std\n0,,\n", string(data))
}
