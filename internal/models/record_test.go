package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogRecordValueAndSet(t *testing.T) {
	var r LogRecord
	for _, m := range GenomeMetrics {
		r.Set(m, string(m)+"-v")
	}
	for _, m := range GenomeMetrics {
		assert.Equal(t, string(m)+"-v", r.Value(m))
	}

	r.Set(Metric("bogus"), "x")
	assert.Equal(t, "", r.Value(Metric("bogus")))
}

func TestLogRecordValidate(t *testing.T) {
	tests := []struct {
		name    string
		record  LogRecord
		wantErr bool
	}{
		{"valid", LogRecord{RunNumber: 3, Generation: 0}, false},
		{"negative run", LogRecord{RunNumber: -1}, true},
		{"negative generation", LogRecord{Generation: -2}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.record.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRecordColumns(t *testing.T) {
	assert.Equal(t,
		[]string{"runNumber", "generation", "codeSizeMean", "codeSizeMedian", "uniqueBehaviors"},
		RecordColumns(BaseMetrics))
	assert.Len(t, RecordColumns(GenomeMetrics), 7)
}

func TestParseMetric(t *testing.T) {
	m, ok := ParseMetric(" genomeSizeMedian ")
	require.True(t, ok)
	assert.Equal(t, MetricGenomeSizeMedian, m)

	_, ok = ParseMetric("runNumber")
	assert.False(t, ok)
}
