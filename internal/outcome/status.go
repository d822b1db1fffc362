// Package outcome summarizes how the runs of an experiment ended (solution
// status per run) and how many distinct program types each run produced.
package outcome

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/harrison/genscrape/internal/fileutil"
)

// Status is the final state reported by a run log
type Status int

const (
	// StatusUnfinished means no terminal marker was found
	StatusUnfinished Status = iota
	StatusNotFound
	StatusFound
	// StatusGeneralized implies StatusFound
	StatusGeneralized
)

// String returns a human-readable status name
func (s Status) String() string {
	switch s {
	case StatusNotFound:
		return "not-found"
	case StatusFound:
		return "found"
	case StatusGeneralized:
		return "generalized"
	default:
		return "unfinished"
	}
}

// Finished reports whether the run printed a terminal marker
func (s Status) Finished() bool { return s != StatusUnfinished }

// Solved reports whether the run found a solution
func (s Status) Solved() bool { return s == StatusFound || s == StatusGeneralized }

var (
	markerGeneralized = []byte("SOLUTION GENERALIZED")
	markerFound       = []byte("SOLUTION FOUND")
	markerNotFound    = []byte("SOLUTION NOT FOUND")
)

// lineStatus checks the markers of a single line
func lineStatus(line []byte) Status {
	switch {
	case bytes.Contains(line, markerGeneralized):
		return StatusGeneralized
	case bytes.Contains(line, markerFound):
		return StatusFound
	case bytes.Contains(line, markerNotFound):
		return StatusNotFound
	default:
		return StatusUnfinished
	}
}

// readChunk is the block size used when reading a log backwards
var readChunk int64 = 64 * 1024

// ReadStatus returns the status decided by the last marker line of r.
// The log is read from the end in blocks, so a finished run costs one block.
func ReadStatus(r io.ReaderAt, size int64) (Status, error) {
	var carry []byte // incomplete first line of the previous block
	pos := size

	for pos > 0 {
		n := readChunk
		if pos < n {
			n = pos
		}
		pos -= n

		buf := make([]byte, int(n)+len(carry))
		if _, err := r.ReadAt(buf[:n], pos); err != nil && err != io.EOF {
			return StatusUnfinished, fmt.Errorf("failed to read log: %w", err)
		}
		copy(buf[n:], carry)

		start := 0
		if pos > 0 {
			idx := bytes.IndexByte(buf, '\n')
			if idx < 0 {
				carry = buf
				continue
			}
			start = idx + 1
		}
		carry = buf[:start]

		lines := buf[start:]
		for len(lines) > 0 {
			cut := bytes.LastIndexByte(lines[:len(lines)-1], '\n')
			line := lines[cut+1:]
			if s := lineStatus(line); s != StatusUnfinished {
				return s, nil
			}
			if cut < 0 {
				break
			}
			lines = lines[:cut+1]
		}
	}

	return StatusUnfinished, nil
}

// ReadStatusFile opens a run log and returns its status
func ReadStatusFile(path string) (Status, error) {
	f, err := os.Open(path)
	if err != nil {
		return StatusUnfinished, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return StatusUnfinished, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return ReadStatus(f, info.Size())
}

// RunStatus is the status of one run log
type RunStatus struct {
	Run    int
	Path   string
	Status Status
	Empty  bool // zero-length log, never read
}

// Summary counts run outcomes of one experiment directory
type Summary struct {
	Dir         string
	Runs        []RunStatus
	Finished    int
	Found       int
	Generalized int
	NotDone     []int
}

// ScanStatuses reads run0<ext>, run1<ext>, ... for as long as they exist.
func ScanStatuses(dir, ext string) (*Summary, error) {
	files, err := fileutil.SequentialRunFiles(dir, fileutil.NormalizeExtension(ext))
	if err != nil {
		return nil, err
	}

	summary := &Summary{Dir: dir, NotDone: make([]int, 0)}
	for _, f := range files {
		rs := RunStatus{Run: f.RunNumber, Path: f.Path}
		if f.Size == 0 {
			rs.Empty = true
		} else {
			status, err := ReadStatusFile(f.Path)
			if err != nil {
				return nil, err
			}
			rs.Status = status
		}
		summary.add(rs)
	}
	return summary, nil
}

func (s *Summary) add(rs RunStatus) {
	s.Runs = append(s.Runs, rs)
	if rs.Status.Finished() {
		s.Finished++
	} else {
		s.NotDone = append(s.NotDone, rs.Run)
	}
	if rs.Status.Solved() {
		s.Found++
	}
	if rs.Status == StatusGeneralized {
		s.Generalized++
	}
}
