// Package store holds scanned records in memory and, optionally, archives
// scan batches in a SQLite database.
package store

import (
	"sort"

	"github.com/harrison/genscrape/internal/models"
)

// RecordStore is the in-memory, append-only collection of emitted records.
// Records keep their order of arrival; it is not safe for concurrent use.
type RecordStore struct {
	records []models.LogRecord
}

// NewRecordStore creates an empty RecordStore
func NewRecordStore() *RecordStore {
	return &RecordStore{
		records: make([]models.LogRecord, 0),
	}
}

// Append adds records in order. Records are copied by value and never mutated afterwards.
func (s *RecordStore) Append(records ...models.LogRecord) {
	s.records = append(s.records, records...)
}

// Len returns the number of stored records
func (s *RecordStore) Len() int {
	return len(s.records)
}

// Snapshot returns a copy of the records in arrival order
func (s *RecordStore) Snapshot() []models.LogRecord {
	out := make([]models.LogRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Sorted returns a copy ordered by (run number, generation) as integers.
// The sort is stable, so repeated generations within a run keep their order of appearance.
func (s *RecordStore) Sorted() []models.LogRecord {
	out := s.Snapshot()
	SortRecords(out)
	return out
}

// Runs returns the distinct run numbers in ascending order
func (s *RecordStore) Runs() []int {
	seen := make(map[int]bool)
	var runs []int
	for _, r := range s.records {
		if !seen[r.RunNumber] {
			seen[r.RunNumber] = true
			runs = append(runs, r.RunNumber)
		}
	}
	sort.Ints(runs)
	return runs
}

// SortRecords orders records in place by (run number, generation), stably.
func SortRecords(records []models.LogRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].RunNumber != records[j].RunNumber {
			return records[i].RunNumber < records[j].RunNumber
		}
		return records[i].Generation < records[j].Generation
	})
}
