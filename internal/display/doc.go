// Package display renders user-facing progress and warning output for the
// genscrape CLI.
//
// # Progress Indicators
//
//	progress := display.NewProgressIndicator(os.Stderr, len(files))
//	progress.Start()
//	for _, f := range files {
//	    progress.Step(f.Path)
//	    // ... scan file ...
//	}
//	progress.Complete(scanned, skipped)
//
// # Warning Messages
//
//	warning := display.WarnSkippedFiles(failedPaths)
//	warning.Display(os.Stderr)
//
// ANSI colour is emitted only when the destination is a terminal; output to
// files and pipes is plain text.
package display
