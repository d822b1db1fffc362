package outcome

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/harrison/genscrape/internal/export"
)

const rule = "------------------------------------------------------------"

// StatusHeader is the CSV header of a solution-count row
var StatusHeader = []string{"Problem", "Finished", "Found", "Generalized"}

// TypesHeader is the CSV header of a type-frequency row
var TypesHeader = []string{
	"Problem", "MedianNumTypes", "MeanNumTypes",
	"MedianTypesWithFreqGTE10", "MedianTypesWithFreqGTE100", "MedianTypesWithFreqGTE1000",
	"MedianFreqs",
}

// WriteStatusText prints the human-readable solution counts of one directory.
func WriteStatusText(w io.Writer, s *Summary) error {
	var sb strings.Builder

	sb.WriteString("\n           Directory of results:\n")
	sb.WriteString(s.Dir + "\n")
	for i, rs := range s.Runs {
		sb.WriteString(fmt.Sprintf("%4d", rs.Run))
		if i%25 == 24 {
			sb.WriteString("\n")
		}
	}
	sb.WriteString("\n")
	sb.WriteString(rule + "\n")
	sb.WriteString(fmt.Sprintf("Number of finished runs:            %4d\n", s.Finished))
	sb.WriteString(fmt.Sprintf("Solutions found:                    %4d\n", s.Found))
	sb.WriteString(fmt.Sprintf("Zero error on test set:             %4d\n", s.Generalized))
	sb.WriteString(rule + "\n")
	sb.WriteString("Not done yet: ")
	for _, run := range s.NotDone {
		sb.WriteString(strconv.Itoa(run) + ",")
	}
	sb.WriteString("\n" + rule + "\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

// WriteStatusCSV prints one row per directory, optionally preceded by the header.
func WriteStatusCSV(w io.Writer, summaries []*Summary, header bool) error {
	cw := csv.NewWriter(w)
	if header {
		if err := cw.Write(StatusHeader); err != nil {
			return err
		}
	}
	for _, s := range summaries {
		row := []string{s.Dir, strconv.Itoa(s.Finished), strconv.Itoa(s.Found), strconv.Itoa(s.Generalized)}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTypesText prints the human-readable type summary of one directory.
func WriteTypesText(w io.Writer, s *TypesSummary) error {
	var sb strings.Builder

	sb.WriteString("\n           Directory of results:\n")
	sb.WriteString(s.Dir + "\n")
	sb.WriteString(rule + "\n")
	sb.WriteString(fmt.Sprintf("Runs with types:                %d\n", len(s.Runs)))
	sb.WriteString(fmt.Sprintf("Median number of types per run: %s\n", export.FormatFloat(s.MedianTypes)))
	sb.WriteString(fmt.Sprintf("Mean number of types per run:   %s\n", export.FormatFloat(s.MeanTypes)))
	for _, th := range Thresholds {
		sb.WriteString(fmt.Sprintf("Median types with freq >= %-5d %s\n", th, export.FormatFloat(s.MedianAtLeast[th])))
	}
	sb.WriteString(fmt.Sprintf("Median frequency:               %s\n", export.FormatFloat(s.MedianFrequency)))
	sb.WriteString(rule + "\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

// WriteTypesCSV prints one row per directory, optionally preceded by the header.
func WriteTypesCSV(w io.Writer, summaries []*TypesSummary, header bool) error {
	cw := csv.NewWriter(w)
	if header {
		if err := cw.Write(TypesHeader); err != nil {
			return err
		}
	}
	for _, s := range summaries {
		row := []string{s.Dir, export.FormatFloat(s.MedianTypes), export.FormatFloat(s.MeanTypes)}
		for _, th := range Thresholds {
			row = append(row, export.FormatFloat(s.MedianAtLeast[th]))
		}
		row = append(row, export.FormatFloat(s.MedianFrequency))
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
