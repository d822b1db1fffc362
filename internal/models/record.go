package models

import (
	"fmt"
	"strings"
)

// Metric identifies one per-generation measurement column of the raw table
type Metric string

// Metric column names as they appear in the raw per-run-per-generation table
const (
	MetricCodeSizeMean     Metric = "codeSizeMean"
	MetricCodeSizeMedian   Metric = "codeSizeMedian"
	MetricGenomeSizeMean   Metric = "genomeSizeMean"
	MetricGenomeSizeMedian Metric = "genomeSizeMedian"
	MetricUniqueBehaviors  Metric = "uniqueBehaviors"
)

// Key columns that precede the metric columns in every raw table
const (
	ColumnRunNumber  = "runNumber"
	ColumnGeneration = "generation"
)

// BaseMetrics are reported by every schema version, in column order.
var BaseMetrics = []Metric{
	MetricCodeSizeMean,
	MetricCodeSizeMedian,
	MetricUniqueBehaviors,
}

// GenomeMetrics are the metrics of schemas that also report genome size, in column order.
var GenomeMetrics = []Metric{
	MetricCodeSizeMean,
	MetricCodeSizeMedian,
	MetricGenomeSizeMean,
	MetricGenomeSizeMedian,
	MetricUniqueBehaviors,
}

// LogRecord is one row per (run, generation) observed in a single log file.
// Metric values are kept verbatim as they appeared in the log (possibly "a/b"
// rationals); an empty string means the log never reported the value.
type LogRecord struct {
	RunNumber        int    `json:"run_number"`
	Generation       int    `json:"generation"`
	CodeSizeMean     string `json:"code_size_mean,omitempty"`
	CodeSizeMedian   string `json:"code_size_median,omitempty"`
	GenomeSizeMean   string `json:"genome_size_mean,omitempty"`
	GenomeSizeMedian string `json:"genome_size_median,omitempty"`
	UniqueBehaviors  string `json:"unique_behaviors,omitempty"`
}

// Value returns the raw value stored for the metric.
func (r *LogRecord) Value(m Metric) string {
	switch m {
	case MetricCodeSizeMean:
		return r.CodeSizeMean
	case MetricCodeSizeMedian:
		return r.CodeSizeMedian
	case MetricGenomeSizeMean:
		return r.GenomeSizeMean
	case MetricGenomeSizeMedian:
		return r.GenomeSizeMedian
	case MetricUniqueBehaviors:
		return r.UniqueBehaviors
	default:
		return ""
	}
}

// Set stores a raw value for the metric. Unknown metrics are ignored.
func (r *LogRecord) Set(m Metric, value string) {
	switch m {
	case MetricCodeSizeMean:
		r.CodeSizeMean = value
	case MetricCodeSizeMedian:
		r.CodeSizeMedian = value
	case MetricGenomeSizeMean:
		r.GenomeSizeMean = value
	case MetricGenomeSizeMedian:
		r.GenomeSizeMedian = value
	case MetricUniqueBehaviors:
		r.UniqueBehaviors = value
	}
}

// Validate checks the key fields of a record
func (r *LogRecord) Validate() error {
	if r.RunNumber < 0 {
		return fmt.Errorf("run number cannot be negative: %d", r.RunNumber)
	}
	if r.Generation < 0 {
		return fmt.Errorf("generation cannot be negative: %d", r.Generation)
	}
	return nil
}

// RecordColumns returns the raw table header for the given metric set.
func RecordColumns(metrics []Metric) []string {
	cols := make([]string, 0, len(metrics)+2)
	cols = append(cols, ColumnRunNumber, ColumnGeneration)
	for _, m := range metrics {
		cols = append(cols, string(m))
	}
	return cols
}

// ParseMetric maps a column name back to its Metric.
func ParseMetric(name string) (Metric, bool) {
	for _, m := range GenomeMetrics {
		if string(m) == strings.TrimSpace(name) {
			return m, true
		}
	}
	return "", false
}
