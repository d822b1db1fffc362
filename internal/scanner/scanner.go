// Package scanner turns free-text run logs into per-generation records.
//
// Each log file is read line by line through a two-state machine:
//
//	Idle --boundary--> Open --boundary--> Open (previous record flushed)
//	Open --EOF--> flushed
//	Idle --EOF--> nothing emitted
//
// Metric lines only update the record under construction; lines before the
// first generation boundary carry no state. Captured tokens are stored
// verbatim and numeric validation is left to aggregation.
package scanner

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/harrison/genscrape/internal/models"
	"github.com/harrison/genscrape/internal/schema"
)

// ErrEmptyFile is returned for zero-length log files
var ErrEmptyFile = errors.New("file is empty")

// maxLineSize bounds a single log line; generation reports can be long EDN maps.
const maxLineSize = 10 * 1024 * 1024

// State of the per-file scanner
type State int

const (
	// StateIdle means no record is under construction
	StateIdle State = iota
	// StateOpen means a generation boundary was seen and its record is being filled
	StateOpen
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateOpen:
		return "open"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Scanner is the line-oriented state machine for a single log file.
// It is not safe for concurrent use.
type Scanner struct {
	adapter   *schema.Adapter
	runNumber int
	state     State
	current   models.LogRecord
	records   []models.LogRecord
	lines     int
	finished  bool
}

// New creates a Scanner for one run using the given schema adapter.
func New(adapter *schema.Adapter, runNumber int) *Scanner {
	return &Scanner{
		adapter:   adapter,
		runNumber: runNumber,
		state:     StateIdle,
		records:   make([]models.LogRecord, 0),
	}
}

// State returns the current machine state
func (s *Scanner) State() State {
	return s.state
}

// Lines returns the number of lines fed so far
func (s *Scanner) Lines() int {
	return s.lines
}

// Feed advances the machine by one line.
// A boundary line may also carry metrics (single-line report layouts), so
// metric patterns are evaluated after the boundary transition.
func (s *Scanner) Feed(line string) {
	s.lines++

	if token, ok := s.adapter.MatchGeneration(line); ok {
		// \d+ can still overflow int; such a line is not a usable boundary
		if generation, err := strconv.Atoi(token); err == nil {
			if s.state == StateOpen {
				s.flush()
			}
			s.current = models.LogRecord{
				RunNumber:  s.runNumber,
				Generation: generation,
			}
			s.state = StateOpen
		}
	}

	if s.state != StateOpen {
		return
	}

	for _, block := range s.adapter.Blocks {
		values, found := block.Extract(line)
		if !found {
			continue
		}
		if values.HasMean {
			s.current.Set(block.Mean, values.Mean)
		}
		if values.HasMedian {
			s.current.Set(block.Median, values.Median)
		}
	}

	if count, ok := s.adapter.MatchUniqueBehaviors(line); ok {
		s.current.Set(models.MetricUniqueBehaviors, count)
	}
}

// Finish applies the end-of-file transition and returns every emitted record
// in order of appearance. Calling Finish again returns the same records.
func (s *Scanner) Finish() []models.LogRecord {
	if !s.finished {
		if s.state == StateOpen {
			s.flush()
		}
		s.finished = true
	}
	return s.records
}

func (s *Scanner) flush() {
	s.records = append(s.records, s.current)
	s.current = models.LogRecord{}
	s.state = StateIdle
}

// Scan reads every line of r and returns the records of one run.
func Scan(r io.Reader, adapter *schema.Adapter, runNumber int) ([]models.LogRecord, error) {
	if adapter == nil {
		return nil, errors.New("schema adapter cannot be nil")
	}

	s := New(adapter, runNumber)

	lines := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	lines.Buffer(buf, maxLineSize)

	for lines.Scan() {
		s.Feed(lines.Text())
	}
	if err := lines.Err(); err != nil {
		return nil, fmt.Errorf("failed to read line %d: %w", s.Lines()+1, err)
	}

	return s.Finish(), nil
}

// ScanFile scans one log file. The file handle is released before returning,
// including when reading fails mid-file.
func ScanFile(path string, adapter *schema.Adapter, runNumber int) ([]models.LogRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat log file: %w", err)
	}
	if info.Size() == 0 {
		return nil, ErrEmptyFile
	}

	return Scan(file, adapter, runNumber)
}
