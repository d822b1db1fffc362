package outcome

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/harrison/genscrape/internal/aggregate"
	"github.com/harrison/genscrape/internal/fileutil"
)

// TypesSuffix is the file suffix of per-run type-frequency dumps
const TypesSuffix = "_types.edn"

// Frequency thresholds counted per run
var Thresholds = []int{10, 100, 1000}

// TypeCounts summarizes one run<i>_types.edn file
type TypeCounts struct {
	Run       int
	Types     int         // lines with a frequency
	AtLeast   map[int]int // threshold -> number of types with freq >= threshold
	Freqs     []int
	Malformed int // non-empty lines without a trailing integer
}

// ParseTypes reads a type-frequency dump: one type per line, each ending in
// its frequency, until a line consisting of "]".
func ParseTypes(r io.Reader) (TypeCounts, error) {
	tc := TypeCounts{AtLeast: make(map[int]int, len(Thresholds))}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 10*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "]" {
			break
		}
		if line == "" || line == "[" {
			continue
		}

		freq, ok := trailingInt(line)
		if !ok {
			tc.Malformed++
			continue
		}
		tc.Types++
		tc.Freqs = append(tc.Freqs, freq)
		for _, th := range Thresholds {
			if freq >= th {
				tc.AtLeast[th]++
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return tc, fmt.Errorf("failed to read types: %w", err)
	}
	return tc, nil
}

// trailingInt parses the last whitespace-separated field, ignoring closing
// brackets after the digits, e.g. `[(integer_+ exec_dup) 12]`.
func trailingInt(line string) (int, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return 0, false
	}
	last := strings.TrimRight(fields[len(fields)-1], "])},")
	n, err := strconv.Atoi(last)
	if err != nil {
		return 0, false
	}
	return n, true
}

// TypesSummary aggregates the type counts of every run in a directory
type TypesSummary struct {
	Dir             string
	Runs            []TypeCounts
	MedianTypes     float64
	MeanTypes       float64
	MedianAtLeast   map[int]float64
	MedianFrequency float64
}

// ScanTypes reads run0_types.edn, run1_types.edn, ... for as long as they
// exist. Zero-length files are skipped. A nil summary with no error means no
// type files were found.
func ScanTypes(dir string) (*TypesSummary, error) {
	files, err := fileutil.SequentialRunFiles(dir, TypesSuffix)
	if err != nil {
		return nil, err
	}

	summary := &TypesSummary{Dir: dir, MedianAtLeast: make(map[int]float64, len(Thresholds))}
	for _, f := range files {
		if f.Size == 0 {
			continue
		}
		tc, err := parseTypesFile(f.Path)
		if err != nil {
			return nil, err
		}
		tc.Run = f.RunNumber
		summary.Runs = append(summary.Runs, tc)
	}
	if len(summary.Runs) == 0 {
		return nil, nil
	}

	var numTypes, allFreqs []float64
	atLeast := make(map[int][]float64, len(Thresholds))
	for _, tc := range summary.Runs {
		numTypes = append(numTypes, float64(tc.Types))
		for _, th := range Thresholds {
			atLeast[th] = append(atLeast[th], float64(tc.AtLeast[th]))
		}
		for _, f := range tc.Freqs {
			allFreqs = append(allFreqs, float64(f))
		}
	}

	summary.MedianTypes = median(numTypes)
	summary.MeanTypes = stat.Mean(numTypes, nil)
	for _, th := range Thresholds {
		summary.MedianAtLeast[th] = median(atLeast[th])
	}
	summary.MedianFrequency = median(allFreqs)
	return summary, nil
}

func parseTypesFile(path string) (TypeCounts, error) {
	f, err := os.Open(path)
	if err != nil {
		return TypeCounts{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	tc, err := ParseTypes(f)
	if err != nil {
		return tc, fmt.Errorf("%s: %w", path, err)
	}
	return tc, nil
}

func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return aggregate.Quantile(sorted, 0.5)
}
