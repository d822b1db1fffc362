package scanner

import (
	"fmt"

	"github.com/harrison/genscrape/internal/fileutil"
	"github.com/harrison/genscrape/internal/schema"
	"github.com/harrison/genscrape/internal/store"
)

// FileFailure records a log file that was skipped
type FileFailure struct {
	Path string
	Err  error
}

func (f FileFailure) Error() string {
	return fmt.Sprintf("%s: %v", f.Path, f.Err)
}

// BatchResult summarizes one pass over a directory's run files
type BatchResult struct {
	Files    int // candidate files handed to the batch
	Scanned  int // files scanned to completion
	Records  int // records appended to the store
	Failures []FileFailure
}

// Skipped returns the number of files that produced no records because of an error
func (r *BatchResult) Skipped() int {
	return len(r.Failures)
}

// BatchOptions configures ScanBatch
type BatchOptions struct {
	Adapter *schema.Adapter
	// OnFile, when set, is called after each file with its record count or error.
	OnFile func(file fileutil.RunFile, records int, err error)
}

// ScanBatch scans files one at a time and appends each file's records to st
// only after that file was read in full. A failing file is skipped and
// reported; it never aborts the batch.
func ScanBatch(files []fileutil.RunFile, st *store.RecordStore, opts BatchOptions) (*BatchResult, error) {
	if opts.Adapter == nil {
		return nil, fmt.Errorf("schema adapter cannot be nil")
	}
	if st == nil {
		return nil, fmt.Errorf("record store cannot be nil")
	}

	result := &BatchResult{
		Files:    len(files),
		Failures: make([]FileFailure, 0),
	}

	for _, file := range files {
		records, err := ScanFile(file.Path, opts.Adapter, file.RunNumber)
		if err != nil {
			result.Failures = append(result.Failures, FileFailure{Path: file.Path, Err: err})
			if opts.OnFile != nil {
				opts.OnFile(file, 0, err)
			}
			continue
		}

		st.Append(records...)
		result.Scanned++
		result.Records += len(records)
		if opts.OnFile != nil {
			opts.OnFile(file, len(records), nil)
		}
	}

	return result, nil
}
