package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/harrison/genscrape/internal/chart"
	"github.com/harrison/genscrape/internal/fileutil"
	"github.com/harrison/genscrape/internal/logger"
	"github.com/harrison/genscrape/internal/models"
	"github.com/harrison/genscrape/internal/schema"
)

// Dir is the per-project directory holding config and the archive database
const Dir = ".genscrape"

// ArchiveConfig controls the SQLite record archive
type ArchiveConfig struct {
	// Enabled archives every scrape batch without passing --archive
	Enabled bool `yaml:"enabled"`

	// DBPath is the path to the archive database
	DBPath string `yaml:"db_path"`
}

// ChartConfig controls chart rendering
type ChartConfig struct {
	// Format is the output file format: pdf, png, svg or eps
	Format string `yaml:"format"`

	// OutDir is the directory charts are written to
	OutDir string `yaml:"out_dir"`

	// DiversityScale divides unique-behavior counts on the diversity chart
	DiversityScale float64 `yaml:"diversity_scale"`
}

// Config represents genscrape configuration options
type Config struct {
	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// Extension is the run log file extension, e.g. ".txt"
	Extension string `yaml:"extension"`

	// Schema names the log layout version (v1, v2, v3)
	Schema string `yaml:"schema"`

	// Stats selects the aggregation mode (mean, median)
	Stats string `yaml:"stats"`

	// Output is the raw table written by scrape
	Output string `yaml:"output"`

	Archive ArchiveConfig `yaml:"archive"`
	Chart   ChartConfig   `yaml:"chart"`
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		LogLevel:  "info",
		Extension: fileutil.DefaultExtension,
		Schema:    string(schema.DefaultVersion),
		Stats:     string(models.ModeMean),
		Output:    "output.csv",
		Archive: ArchiveConfig{
			Enabled: false,
			DBPath:  filepath.Join(Dir, "archive.db"),
		},
		Chart: ChartConfig{
			Format:         "pdf",
			OutDir:         "images",
			DiversityScale: 1000,
		},
	}
}

// LoadConfig loads configuration from the specified file path.
// A missing file yields the defaults; a malformed file is an error.
// Keys absent from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if fileCfg.LogLevel != "" {
		cfg.LogLevel = fileCfg.LogLevel
	}
	if fileCfg.Extension != "" {
		cfg.Extension = fileCfg.Extension
	}
	if fileCfg.Schema != "" {
		cfg.Schema = fileCfg.Schema
	}
	if fileCfg.Stats != "" {
		cfg.Stats = fileCfg.Stats
	}
	if fileCfg.Output != "" {
		cfg.Output = fileCfg.Output
	}
	if fileCfg.Chart.Format != "" {
		cfg.Chart.Format = fileCfg.Chart.Format
	}
	if fileCfg.Chart.OutDir != "" {
		cfg.Chart.OutDir = fileCfg.Chart.OutDir
	}

	// Explicit zeros in nested sections must survive the merge, so those keys
	// are checked for presence rather than for a non-zero value.
	var rawMap map[string]interface{}
	if err := yaml.Unmarshal(data, &rawMap); err == nil {
		if section, ok := rawMap["archive"].(map[string]interface{}); ok {
			if _, exists := section["enabled"]; exists {
				cfg.Archive.Enabled = fileCfg.Archive.Enabled
			}
			if _, exists := section["db_path"]; exists {
				cfg.Archive.DBPath = fileCfg.Archive.DBPath
			}
		}
		if section, ok := rawMap["chart"].(map[string]interface{}); ok {
			if _, exists := section["diversity_scale"]; exists {
				cfg.Chart.DiversityScale = fileCfg.Chart.DiversityScale
			}
		}
	}

	return cfg, nil
}

// DefaultPath returns .genscrape/config.yaml inside dir
func DefaultPath(dir string) string {
	return filepath.Join(dir, Dir, "config.yaml")
}

// LoadConfigFromDir loads .genscrape/config.yaml in the specified directory
func LoadConfigFromDir(dir string) (*Config, error) {
	return LoadConfig(DefaultPath(dir))
}

// Overrides holds CLI flag values; nil fields were not set on the command line.
type Overrides struct {
	LogLevel  *string
	Extension *string
	Schema    *string
	Stats     *string
	Output    *string
	Archive   *bool
	DBPath    *string
	Format    *string
	OutDir    *string
}

// MergeWithFlags lets non-nil flag values override configuration values.
func (c *Config) MergeWithFlags(o Overrides) {
	if o.LogLevel != nil {
		c.LogLevel = *o.LogLevel
	}
	if o.Extension != nil {
		c.Extension = *o.Extension
	}
	if o.Schema != nil {
		c.Schema = *o.Schema
	}
	if o.Stats != nil {
		c.Stats = *o.Stats
	}
	if o.Output != nil {
		c.Output = *o.Output
	}
	if o.Archive != nil {
		c.Archive.Enabled = *o.Archive
	}
	if o.DBPath != nil {
		c.Archive.DBPath = *o.DBPath
	}
	if o.Format != nil {
		c.Chart.Format = *o.Format
	}
	if o.OutDir != nil {
		c.Chart.OutDir = *o.OutDir
	}
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	if !logger.IsValidLevel(c.LogLevel) {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}
	if _, err := schema.Lookup(c.Schema); err != nil {
		return fmt.Errorf("invalid schema: %w", err)
	}
	if _, err := models.ParseMode(c.Stats); err != nil {
		return err
	}
	if c.Output == "" {
		return fmt.Errorf("output cannot be empty")
	}
	if c.Archive.Enabled && c.Archive.DBPath == "" {
		return fmt.Errorf("archive.db_path cannot be empty when archive is enabled")
	}
	if err := chart.ValidateFormat(c.Chart.Format); err != nil {
		return fmt.Errorf("invalid chart.format: %w", err)
	}
	if c.Chart.DiversityScale <= 0 {
		return fmt.Errorf("chart.diversity_scale must be > 0, got %g", c.Chart.DiversityScale)
	}
	return nil
}
