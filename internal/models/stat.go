package models

import (
	"fmt"
	"strings"
)

// Mode selects which central-tendency and spread statistics are computed
type Mode string

// Aggregation modes
const (
	ModeMean   Mode = "mean"   // sample mean and sample standard deviation
	ModeMedian Mode = "median" // sample median with 25th/75th percentiles
)

// ParseMode validates and normalizes an aggregation mode name
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeMean:
		return ModeMean, nil
	case ModeMedian:
		return ModeMedian, nil
	default:
		return "", fmt.Errorf("invalid stats mode %q: must be 'mean' or 'median'", s)
	}
}

// MetricStat holds the statistics of one metric within one generation group.
// Only the fields belonging to the group's Mode are populated.
type MetricStat struct {
	Count      int     `json:"count"`
	Mean       float64 `json:"mean,omitempty"`
	Std        float64 `json:"std,omitempty"`
	StdDefined bool    `json:"std_defined,omitempty"` // false when fewer than two samples
	Median     float64 `json:"median,omitempty"`
	Q25        float64 `json:"q25,omitempty"`
	Q75        float64 `json:"q75,omitempty"`
}

// GroupedStat is one row per generation across all runs.
// A metric missing from Stats had no valid samples for this generation.
type GroupedStat struct {
	Generation int                   `json:"generation"`
	Mode       Mode                  `json:"mode"`
	Stats      map[Metric]MetricStat `json:"stats"`
}

// Band returns the centre line and the lower/upper band edges for a metric.
// In mean mode an undefined standard deviation collapses the band onto the mean.
func (g *GroupedStat) Band(m Metric) (center, lower, upper float64, ok bool) {
	s, ok := g.Stats[m]
	if !ok {
		return 0, 0, 0, false
	}
	if g.Mode == ModeMedian {
		return s.Median, s.Q25, s.Q75, true
	}
	if !s.StdDefined {
		return s.Mean, s.Mean, s.Mean, true
	}
	return s.Mean, s.Mean - s.Std, s.Mean + s.Std, true
}

// StatSuffixes returns the per-metric column suffixes produced in the given mode.
func StatSuffixes(mode Mode) []string {
	if mode == ModeMedian {
		return []string{"median", "q25", "q75"}
	}
	return []string{"mean", "std"}
}

// StatColumns returns the aggregate table header for the given mode and metric set.
// Format: generation, {metric}_{suffix}...
func StatColumns(mode Mode, metrics []Metric) []string {
	suffixes := StatSuffixes(mode)
	cols := make([]string, 0, 1+len(metrics)*len(suffixes))
	cols = append(cols, ColumnGeneration)
	for _, m := range metrics {
		for _, suffix := range suffixes {
			cols = append(cols, fmt.Sprintf("%s_%s", m, suffix))
		}
	}
	return cols
}
