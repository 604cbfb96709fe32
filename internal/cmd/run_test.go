// SPDX-License-Identifier: MIT

package cmd_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ugo-os/bootrun/internal/cmd"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	rc := cmd.Run(context.Background(), args, cmd.IO{
		Stdout: &stdout,
		Stderr: &stderr,
	})

	return rc, stdout.String(), stderr.String()
}

// newTestProject creates a project root whose build tool is replaced by a
// fixed shell command, so CLI tests do not depend on cargo being installed.
func newTestProject(t *testing.T, buildScript string) string {
	t.Helper()

	root := t.TempDir()
	content := "build-command = \"sh\"\nbuild-args = [\"-c\", \"" +
		buildScript + "\"]\n"

	require.NoError(t, os.WriteFile(
		filepath.Join(root, "bootrun.toml"),
		[]byte(content),
		0o644,
	))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "bootloader"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "kernel"), 0o755))

	return root
}

func TestRunUsageFallback(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{
			name: "no command",
			args: []string{},
		},
		{
			name: "unknown command",
			args: []string{"frobnicate"},
		},
		{
			name: "unknown flag",
			args: []string{"--frobnicate"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rc, stdout, stderr := runCLI(t, tt.args...)

			assert.Equal(t, 1, rc)
			assert.Contains(t, stderr, "Error:")
			assert.Contains(t, stdout+stderr, "Usage:")
		})
	}
}

func TestRunBuild(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		root := newTestProject(t, "touch ran")

		rc, _, stderr := runCLI(t, "build", "--root", root)
		assert.Equal(t, 0, rc, stderr)
		assert.FileExists(t, filepath.Join(root, "bootloader", "ran"))
		assert.FileExists(t, filepath.Join(root, "kernel", "ran"))
	})

	t.Run("failure exit code differs from usage", func(t *testing.T) {
		root := newTestProject(t, "false")

		rc, _, stderr := runCLI(t, "build", "--root", root)
		assert.Equal(t, 125, rc)
		assert.Contains(t, stderr, "Error:")
	})
}

func TestRunInstallFailure(t *testing.T) {
	// Builds succeed but produce no artifacts, so staging must fail.
	root := newTestProject(t, "true")

	rc, _, stderr := runCLI(t, "install", "--root", root)
	assert.Equal(t, 125, rc)
	assert.Contains(t, stderr, "missing artifact")
}

func TestRunVersion(t *testing.T) {
	rc, stdout, _ := runCLI(t, "version")

	assert.Equal(t, 0, rc)
	assert.Contains(t, stdout, "bootrun")
}
