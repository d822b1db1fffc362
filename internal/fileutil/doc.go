// Package fileutil discovers run log files inside an experiment directory.
//
// A candidate file has a base name of the form run<digits><ext>, for example
// run0.txt or run17.log; the digits are the run number. Discovery is
// non-recursive and error-tolerant: entries that cannot be inspected are
// collected as non-fatal errors while the remaining files are still returned.
// Only a missing or non-directory root is fatal.
//
// Results are sorted by run number (as an integer, so run9 precedes run10) and
// then by name, which keeps every downstream table deterministic.
//
//	result, err := fileutil.DiscoverRunFiles("results/umad/wc", ".txt")
//	if errors.Is(err, fileutil.ErrDirNotFound) {
//	    // fatal: report and exit non-zero
//	}
//	for _, f := range result.Files {
//	    fmt.Println(f.RunNumber, f.Path)
//	}
package fileutil
