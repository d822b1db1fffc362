// Package aggregate groups per-run records by generation and summarizes each
// metric across runs, either as mean ± sample standard deviation or as median
// with 25th/75th percentiles.
//
// Values are parsed with the fraction package at this stage; tokens that do not
// parse are left out of the sample, never counted as zero.
package aggregate

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/harrison/genscrape/internal/fraction"
	"github.com/harrison/genscrape/internal/models"
)

// Aggregate computes one GroupedStat per generation, ordered by ascending generation.
// Every generation present in records yields a row; a metric with no valid
// samples in a generation is simply absent from that row's Stats.
func Aggregate(records []models.LogRecord, metrics []models.Metric, mode models.Mode) []models.GroupedStat {
	groups := make(map[int][]models.LogRecord)
	for _, r := range records {
		groups[r.Generation] = append(groups[r.Generation], r)
	}

	generations := make([]int, 0, len(groups))
	for g := range groups {
		generations = append(generations, g)
	}
	sort.Ints(generations)

	out := make([]models.GroupedStat, 0, len(generations))
	for _, g := range generations {
		row := models.GroupedStat{
			Generation: g,
			Mode:       mode,
			Stats:      make(map[models.Metric]models.MetricStat),
		}
		for _, m := range metrics {
			values := Samples(groups[g], m)
			if len(values) == 0 {
				continue
			}
			row.Stats[m] = Summarize(values, mode)
		}
		out = append(out, row)
	}
	return out
}

// Samples returns the parseable values of one metric, in record order.
func Samples(records []models.LogRecord, m models.Metric) []float64 {
	values := make([]float64, 0, len(records))
	for i := range records {
		if v, ok := fraction.Parse(records[i].Value(m)); ok {
			values = append(values, v)
		}
	}
	return values
}

// Summarize computes the statistics of a non-empty sample for the given mode.
func Summarize(values []float64, mode models.Mode) models.MetricStat {
	s := models.MetricStat{Count: len(values)}
	if len(values) == 0 {
		return s
	}

	if mode == models.ModeMedian {
		sorted := make([]float64, len(values))
		copy(sorted, values)
		sort.Float64s(sorted)
		s.Median = Quantile(sorted, 0.5)
		s.Q25 = Quantile(sorted, 0.25)
		s.Q75 = Quantile(sorted, 0.75)
		return s
	}

	if len(values) < 2 {
		// a single sample has no sample standard deviation
		s.Mean = values[0]
		return s
	}
	s.Mean, s.Std = stat.MeanStdDev(values, nil)
	s.StdDefined = !math.IsNaN(s.Std)
	return s
}

// Quantile returns the p-quantile of an ascending sample using linear
// interpolation between the order statistics at (n-1)*p.
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 || p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	h := float64(n-1) * p
	lo := int(math.Floor(h))
	frac := h - float64(lo)
	if lo+1 >= n {
		return sorted[n-1]
	}
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}
