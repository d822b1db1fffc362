package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// executeCommand runs the root command with args and returns stdout and stderr.
func executeCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	cmd := NewRootCommand()
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRootCommand(t *testing.T) {
	stdout, _, err := executeCommand(t, "--help")
	require.NoError(t, err)

	assert.Contains(t, stdout, "genscrape")
	for _, sub := range []string{"scrape", "aggregate", "plot", "report", "outcomes", "types", "archive"} {
		assert.Contains(t, stdout, sub)
	}
}

func TestRootCommandHasSubcommands(t *testing.T) {
	cmd := NewRootCommand()
	assert.Equal(t, "genscrape", cmd.Use)

	names := make(map[string]bool)
	for _, c := range cmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"scrape", "aggregate", "plot", "report", "outcomes", "types", "archive"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestRootCommand_UnknownSubcommand(t *testing.T) {
	_, _, err := executeCommand(t, "frobnicate")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "unknown command"))
}

func TestRootCommand_BadConfigFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", "log_level: [oops\n")

	_, _, err := executeCommand(t, "aggregate", "--config", path, "missing.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}
