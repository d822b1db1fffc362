package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// ErrDirNotFound is returned when the directory to scan does not exist
var ErrDirNotFound = errors.New("directory does not exist")

// DefaultExtension is the log file extension used when none is configured
const DefaultExtension = ".txt"

// RunFile is a discovered run log
type RunFile struct {
	Path      string // absolute path
	Name      string // base name, e.g. run7.txt
	RunNumber int
	Size      int64
}

// DiscoverResult contains the results of a directory scan
type DiscoverResult struct {
	// Files contains matched run files sorted by run number
	Files []RunFile
	// Errors contains non-fatal errors encountered during the scan
	Errors []error
}

// NormalizeExtension lower-cases an extension and ensures a leading dot.
func NormalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" {
		return DefaultExtension
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// RunFilePattern returns the base-name pattern run<digits><ext>.
func RunFilePattern(ext string) *regexp.Regexp {
	return regexp.MustCompile(`^run(\d+)` + regexp.QuoteMeta(NormalizeExtension(ext)) + `$`)
}

// ParseRunNumber extracts the run number from a base name such as run12.txt.
func ParseRunNumber(name, ext string) (int, bool) {
	m := RunFilePattern(ext).FindStringSubmatch(strings.ToLower(name))
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// EnsureDir returns ErrDirNotFound (wrapped with the path) unless dir is an existing directory.
func EnsureDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrDirNotFound, dir)
		}
		return fmt.Errorf("failed to access directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", dir)
	}
	return nil
}

// DiscoverRunFiles lists the run<digits><ext> files directly inside dir.
func DiscoverRunFiles(dir, ext string) (*DiscoverResult, error) {
	if err := EnsureDir(dir); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	result := &DiscoverResult{
		Files:  make([]RunFile, 0),
		Errors: make([]error, 0),
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		runNumber, ok := ParseRunNumber(entry.Name(), ext)
		if !ok {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		info, err := entry.Info()
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("error accessing %s: %w", path, err))
			continue
		}
		if !info.Mode().IsRegular() {
			continue
		}

		absPath, err := filepath.Abs(path)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("failed to resolve path %s: %w", path, err))
			continue
		}

		result.Files = append(result.Files, RunFile{
			Path:      absPath,
			Name:      entry.Name(),
			RunNumber: runNumber,
			Size:      info.Size(),
		})
	}

	sort.SliceStable(result.Files, func(i, j int) bool {
		if result.Files[i].RunNumber != result.Files[j].RunNumber {
			return result.Files[i].RunNumber < result.Files[j].RunNumber
		}
		return result.Files[i].Name < result.Files[j].Name
	})

	return result, nil
}

// ListSubdirs returns the sorted immediate subdirectories of dir, skipping hidden ones.
func ListSubdirs(dir string) ([]string, error) {
	if err := EnsureDir(dir); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var dirs []string
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		dirs = append(dirs, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(dirs)
	return dirs, nil
}

// SequentialRunFiles returns run0<suffix>, run1<suffix>, ... stopping at the
// first index with no regular file. Numbering gaps therefore end the sequence.
func SequentialRunFiles(dir, suffix string) ([]RunFile, error) {
	if err := EnsureDir(dir); err != nil {
		return nil, err
	}

	var files []RunFile
	for i := 0; ; i++ {
		name := fmt.Sprintf("run%d%s", i, suffix)
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				break
			}
			return files, fmt.Errorf("error accessing %s: %w", path, err)
		}
		if !info.Mode().IsRegular() {
			break
		}
		files = append(files, RunFile{Path: path, Name: name, RunNumber: i, Size: info.Size()})
	}
	return files, nil
}
