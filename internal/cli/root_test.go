package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// executeCommand runs the root command with the given args, capturing output.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	// Keep test logs out of the real home directory
	return executeCommandInHome(t, t.TempDir(), args...)
}

// executeCommandInHome runs the root command against a specific home
// directory, for tests that seed state there beforehand.
func executeCommandInHome(t *testing.T, home string, args ...string) (string, error) {
	t.Helper()

	t.Setenv("PAGESMITH_HOME", home)

	flags := &GlobalFlags{}
	cmd := newRootCmd(flags, BuildInfo{Version: "test"})

	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return buf.String(), err
}

// TestRootShowsHelp verifies invoking without a subcommand prints help.
func TestRootShowsHelp(t *testing.T) {
	out, err := executeCommand(t)
	require.NoError(t, err)
	assert.Contains(t, out, "pagesmith")
	assert.Contains(t, out, "serve")
	assert.Contains(t, out, "init")
	assert.Contains(t, out, "records")
}

// TestRootVersion tests the version string formatting.
func TestRootVersion(t *testing.T) {
	out, err := executeCommand(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "test (commit: none, built: unknown)")
}

// TestRootInvalidOutputFormat verifies an unknown output format is rejected.
func TestRootInvalidOutputFormat(t *testing.T) {
	_, err := executeCommand(t, "--output", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xml")
}

// TestRootMutuallyExclusiveFlags verifies verbose and quiet cannot combine.
func TestRootMutuallyExclusiveFlags(t *testing.T) {
	_, err := executeCommand(t, "--verbose", "--quiet")
	require.Error(t, err)
}

// TestFormatVersion tests version defaults.
func TestFormatVersion(t *testing.T) {
	tests := []struct {
		name string
		info BuildInfo
		want string
	}{
		{
			name: "all empty",
			info: BuildInfo{},
			want: "dev (commit: none, built: unknown)",
		},
		{
			name: "fully populated",
			info: BuildInfo{Version: "1.2.3", Commit: "abc123", Date: "2026-08-30"},
			want: "1.2.3 (commit: abc123, built: 2026-08-30)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatVersion(tt.info))
		})
	}
}
