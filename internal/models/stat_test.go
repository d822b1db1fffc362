package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	m, err := ParseMode(" Median ")
	require.NoError(t, err)
	assert.Equal(t, ModeMedian, m)

	m, err = ParseMode("mean")
	require.NoError(t, err)
	assert.Equal(t, ModeMean, m)

	_, err = ParseMode("mode")
	assert.Error(t, err)
}

func TestGroupedStatBand(t *testing.T) {
	g := GroupedStat{
		Mode: ModeMean,
		Stats: map[Metric]MetricStat{
			MetricCodeSizeMean:    {Count: 3, Mean: 20, Std: 10, StdDefined: true},
			MetricUniqueBehaviors: {Count: 1, Mean: 4},
		},
	}

	c, lo, hi, ok := g.Band(MetricCodeSizeMean)
	require.True(t, ok)
	assert.Equal(t, []float64{20, 10, 30}, []float64{c, lo, hi})

	c, lo, hi, ok = g.Band(MetricUniqueBehaviors)
	require.True(t, ok)
	assert.Equal(t, []float64{4, 4, 4}, []float64{c, lo, hi})

	_, _, _, ok = g.Band(MetricGenomeSizeMean)
	assert.False(t, ok)

	med := GroupedStat{
		Mode:  ModeMedian,
		Stats: map[Metric]MetricStat{MetricCodeSizeMedian: {Count: 3, Median: 20, Q25: 15, Q75: 25}},
	}
	c, lo, hi, ok = med.Band(MetricCodeSizeMedian)
	require.True(t, ok)
	assert.Equal(t, []float64{20, 15, 25}, []float64{c, lo, hi})
}

func TestStatColumns(t *testing.T) {
	assert.Equal(t,
		[]string{"generation", "uniqueBehaviors_mean", "uniqueBehaviors_std"},
		StatColumns(ModeMean, []Metric{MetricUniqueBehaviors}))
	assert.Equal(t,
		[]string{"generation", "codeSizeMean_median", "codeSizeMean_q25", "codeSizeMean_q75"},
		StatColumns(ModeMedian, []Metric{MetricCodeSizeMean}))
}
