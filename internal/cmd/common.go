package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/harrison/genscrape/internal/config"
	"github.com/harrison/genscrape/internal/logger"
	"github.com/harrison/genscrape/internal/models"
)

// scanLogger is the logging surface used by commands
type scanLogger interface {
	LogDebug(message string)
	LogInfo(message string)
	LogWarn(message string)
	LogScanStart(dir string, files int)
	LogFileSkipped(path string, err error)
	LogScanSummary(summary models.ScanSummary)
}

// loadConfig reads the config file named by --config (or .genscrape/config.yaml
// in the working directory), applies flag overrides and validates the result.
func loadConfig(cmd *cobra.Command, overrides config.Overrides) (*config.Config, error) {
	var cfg *config.Config
	var err error

	configPath, _ := cmd.Flags().GetString("config")
	if configPath != "" {
		cfg, err = config.LoadConfig(configPath)
	} else {
		cfg, err = config.LoadConfigFromDir(".")
	}
	if err != nil {
		return nil, err
	}

	overrides.LogLevel = changedString(cmd, "log-level")
	cfg.MergeWithFlags(overrides)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// changedString returns the flag value only if it was set on the command line
func changedString(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		return nil
	}
	return &v
}

func changedBool(cmd *cobra.Command, name string) *bool {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		return nil
	}
	return &v
}

// newLogger writes log lines to the command's stderr so data on stdout stays pipeable
func newLogger(cmd *cobra.Command, cfg *config.Config) scanLogger {
	return logger.NewConsoleLogger(cmd.ErrOrStderr(), cfg.LogLevel)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
