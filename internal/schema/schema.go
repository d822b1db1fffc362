// Package schema declares the line patterns of each historical run-log layout.
//
// The scanner is schema-agnostic: it asks the active Adapter whether a line is a
// generation boundary and which metric fields the line populates. Supporting a
// new log layout means adding a Version and its Adapter here.
package schema

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/harrison/genscrape/internal/models"
)

// Version names a historical log layout
type Version string

// Known log layouts
const (
	// V1 prints "STARTING <gen>" and one line per statistics block.
	V1 Version = "v1"
	// V2 prints the whole generation report as a single EDN map line.
	V2 Version = "v2"
	// V3 is the V1 layout plus a :genome-size block.
	V3 Version = "v3"
)

// DefaultVersion is the layout assumed when none is configured
const DefaultVersion = V3

var (
	startingPattern         = regexp.MustCompile(`STARTING\s+(\d+)`)
	reportGenerationPattern = regexp.MustCompile(`:generation\s+(\d+)`)
	codeSizeKey             = regexp.MustCompile(`:code-size\s+\{`)
	genomeSizeKey           = regexp.MustCompile(`:genome-size\s+\{`)
	uniqueBehaviorsPattern  = regexp.MustCompile(`:unique-behaviors\s+(\d+)`)

	// Sub-patterns inside a statistics block: the value runs up to a comma,
	// closing brace or whitespace.
	meanPattern   = regexp.MustCompile(`:mean\s+([^,\}\s]+)`)
	medianPattern = regexp.MustCompile(`:50%\s+([^,\}\s]+)`)
)

// StatsBlock describes a "<key> {... :mean X ... :50% Y ...}" statistics map.
type StatsBlock struct {
	Name   string
	Key    *regexp.Regexp
	Mean   models.Metric
	Median models.Metric
}

// Adapter is the active pattern set for one scan.
// A nil pattern means the layout never reports that field.
type Adapter struct {
	Version         Version
	Generation      *regexp.Regexp
	Blocks          []StatsBlock
	UniqueBehaviors *regexp.Regexp
	Metrics         []models.Metric // raw table metric columns, in order
}

var codeSizeBlock = StatsBlock{
	Name:   "code-size",
	Key:    codeSizeKey,
	Mean:   models.MetricCodeSizeMean,
	Median: models.MetricCodeSizeMedian,
}

var genomeSizeBlock = StatsBlock{
	Name:   "genome-size",
	Key:    genomeSizeKey,
	Mean:   models.MetricGenomeSizeMean,
	Median: models.MetricGenomeSizeMedian,
}

// ForVersion returns the adapter for a known layout.
func ForVersion(v Version) (*Adapter, error) {
	switch v {
	case V1:
		return &Adapter{
			Version:         V1,
			Generation:      startingPattern,
			Blocks:          []StatsBlock{codeSizeBlock},
			UniqueBehaviors: uniqueBehaviorsPattern,
			Metrics:         models.BaseMetrics,
		}, nil
	case V2:
		return &Adapter{
			Version:         V2,
			Generation:      reportGenerationPattern,
			Blocks:          []StatsBlock{codeSizeBlock},
			UniqueBehaviors: uniqueBehaviorsPattern,
			Metrics:         models.BaseMetrics,
		}, nil
	case V3:
		return &Adapter{
			Version:         V3,
			Generation:      startingPattern,
			Blocks:          []StatsBlock{codeSizeBlock, genomeSizeBlock},
			UniqueBehaviors: uniqueBehaviorsPattern,
			Metrics:         models.GenomeMetrics,
		}, nil
	default:
		return nil, fmt.Errorf("unknown schema version %q: must be one of: %s", v, strings.Join(VersionNames(), ", "))
	}
}

// Lookup resolves a user-supplied schema name ("v3", "V3", " v1 ").
func Lookup(name string) (*Adapter, error) {
	return ForVersion(Version(strings.ToLower(strings.TrimSpace(name))))
}

// VersionNames lists the known layouts, oldest first.
func VersionNames() []string {
	return []string{string(V1), string(V2), string(V3)}
}

// MatchGeneration reports the generation token on a boundary line.
func (a *Adapter) MatchGeneration(line string) (string, bool) {
	if a.Generation == nil {
		return "", false
	}
	m := a.Generation.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// MatchUniqueBehaviors reports the unique-behaviors count token on a line.
func (a *Adapter) MatchUniqueBehaviors(line string) (string, bool) {
	if a.UniqueBehaviors == nil {
		return "", false
	}
	m := a.UniqueBehaviors.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// HasMetric reports whether the layout can ever populate the metric.
func (a *Adapter) HasMetric(m models.Metric) bool {
	for _, metric := range a.Metrics {
		if metric == m {
			return true
		}
	}
	return false
}

// BlockValues is what a statistics block yielded on one line.
// Either token may be absent.
type BlockValues struct {
	Mean      string
	HasMean   bool
	Median    string
	HasMedian bool
}

// Extract finds the block on the line and pulls its mean and median tokens.
// Matching is limited to the text between the block key and the first closing
// brace, so other maps on the same line are never read.
func (b StatsBlock) Extract(line string) (BlockValues, bool) {
	loc := b.Key.FindStringIndex(line)
	if loc == nil {
		return BlockValues{}, false
	}

	body := line[loc[1]:]
	if end := strings.IndexByte(body, '}'); end >= 0 {
		body = body[:end+1]
	}

	var v BlockValues
	if m := meanPattern.FindStringSubmatch(body); m != nil {
		v.Mean, v.HasMean = m[1], true
	}
	if m := medianPattern.FindStringSubmatch(body); m != nil {
		v.Median, v.HasMedian = m[1], true
	}
	return v, true
}
