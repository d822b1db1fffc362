package outcome

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTypes(t *testing.T) {
	input := strings.Join([]string{
		"[[(integer_+ exec_dup) 1500]",
		"[(in1 integer_*) 120]",
		"[(boolean_and) 12]",
		"[(exec_noop) 3]",
		"garbage",
		"]",
		"[(after end) 99]",
	}, "\n")

	tc, err := ParseTypes(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, 4, tc.Types)
	assert.Equal(t, []int{1500, 120, 12, 3}, tc.Freqs)
	assert.Equal(t, 3, tc.AtLeast[10])
	assert.Equal(t, 2, tc.AtLeast[100])
	assert.Equal(t, 1, tc.AtLeast[1000])
	assert.Equal(t, 1, tc.Malformed)
}

func TestTrailingInt(t *testing.T) {
	tests := []struct {
		line string
		want int
		ok   bool
	}{
		{"[(a b) 12]", 12, true},
		{"[x 7]]", 7, true},
		{"(y 5)", 5, true},
		{"no number", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := trailingInt(tt.line)
		assert.Equal(t, tt.ok, ok, tt.line)
		assert.Equal(t, tt.want, got, tt.line)
	}
}

func TestScanTypes(t *testing.T) {
	dir := t.TempDir()
	writeLog(t, dir, "run0_types.edn", "[[(a) 10]\n[(b) 1]]\n")
	writeLog(t, dir, "run1_types.edn", "")
	writeLog(t, dir, "run2_types.edn", "[[(a) 100]\n[(b) 1000]\n[(c) 2]\n[(d) 4]]\n")

	s, err := ScanTypes(dir)
	require.NoError(t, err)
	require.NotNil(t, s)

	require.Len(t, s.Runs, 2)
	assert.Equal(t, 2, s.Runs[1].Run)
	assert.Equal(t, 3.0, s.MedianTypes)
	assert.Equal(t, 3.0, s.MeanTypes)
	assert.Equal(t, 1.5, s.MedianAtLeast[10])
	assert.Equal(t, 0.5, s.MedianAtLeast[1000])
	// freqs 10,1,100,1000,2,4 -> sorted 1,2,4,10,100,1000
	assert.Equal(t, 7.0, s.MedianFrequency)
}

func TestScanTypes_NoFiles(t *testing.T) {
	s, err := ScanTypes(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, s)

	_, err = ScanTypes(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestWriteTypesCSV(t *testing.T) {
	s := &TypesSummary{
		Dir:             "p",
		MedianTypes:     3,
		MeanTypes:       2.5,
		MedianAtLeast:   map[int]float64{10: 1.5, 100: 1, 1000: 0},
		MedianFrequency: 7,
	}

	var buf bytes.Buffer
	require.NoError(t, WriteTypesCSV(&buf, []*TypesSummary{s}, true))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, strings.Join(TypesHeader, ","), lines[0])
	assert.Equal(t, "p,3,2.5,1.5,1,0,7", lines[1])

	buf.Reset()
	require.NoError(t, WriteTypesText(&buf, s))
	assert.Contains(t, buf.String(), "Median number of types per run: 3\n")
	assert.Contains(t, buf.String(), "Mean number of types per run:   2.5\n")
}
