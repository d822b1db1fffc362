package models

import "time"

// ScanSummary describes a completed scrape of one directory
type ScanSummary struct {
	Dir      string
	Schema   string
	Files    int // candidate run files discovered
	Scanned  int // files read to the end
	Skipped  int // files that could not be read, or were empty
	Records  int
	Output   string
	BatchID  string // archive batch, empty when archiving is off
	Duration time.Duration
}
