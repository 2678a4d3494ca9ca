//go:build integration

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/glorpus-work/permfix/pkg/errors"
	"github.com/glorpus-work/permfix/test/testutil"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetFlags clears the package-level flag variables between commands.
func resetFlags() {
	configPath, verbose, noColor, outputFormat = "", false, false, ""
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(resetFlags)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func buildSite(t *testing.T) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "site")
	testutil.BuildTree(t, afero.NewOsFs(), root,
		testutil.Dir(".git", 0o755),
		testutil.File(".git/HEAD", 0o600),
		testutil.Dir("wp-content", 0o777),
		testutil.Dir("wp-content/uploads", 0o755),
		testutil.File("wp-config.php", 0o644),
		testutil.File("index.php", 0o600),
	)
	return root
}

func perm(t *testing.T, path string) os.FileMode {
	t.Helper()
	return testutil.Perm(t, afero.NewOsFs(), path)
}

func TestVersionCommand(t *testing.T) {
	out, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "permfix version")
}

func TestFixCommand(t *testing.T) {
	root := buildSite(t)

	out, err := runCLI(t, "fix", "--no-color", root)
	require.NoError(t, err)

	assert.Contains(t, out, "Permissions fixed successfully!")
	assert.Equal(t, os.FileMode(0o755), perm(t, filepath.Join(root, "wp-content")))
	assert.Equal(t, os.FileMode(0o600), perm(t, filepath.Join(root, "wp-config.php")))
	assert.Equal(t, os.FileMode(0o644), perm(t, filepath.Join(root, "index.php")))
	assert.Equal(t, os.FileMode(0o600), perm(t, filepath.Join(root, ".git", "HEAD")))
}

func TestFixCommandDryRunJSON(t *testing.T) {
	root := buildSite(t)

	out, err := runCLI(t, "fix", "--dry-run", "-o", "json", root)
	require.NoError(t, err)

	var doc struct {
		Root    string           `json:"root"`
		DryRun  bool             `json:"dry_run"`
		Changes []map[string]any `json:"changes"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.True(t, doc.DryRun)
	assert.Equal(t, root, doc.Root)
	assert.Len(t, doc.Changes, 3)
	assert.Equal(t, os.FileMode(0o777), perm(t, filepath.Join(root, "wp-content")))
}

func TestCheckCommand(t *testing.T) {
	root := buildSite(t)

	_, err := runCLI(t, "check", "--no-color", root)
	require.ErrorIs(t, err, errors.ErrChangesPending)

	_, err = runCLI(t, "fix", "--no-color", root)
	require.NoError(t, err)

	_, err = runCLI(t, "check", "--no-color", root)
	assert.NoError(t, err)
}

func TestFixCommandInvalidRoot(t *testing.T) {
	_, err := runCLI(t, "fix", filepath.Join(t.TempDir(), "missing"))
	require.ErrorIs(t, err, errors.ErrInvalidRoot)
}

func TestFixCommandInvalidOwner(t *testing.T) {
	root := buildSite(t)

	_, err := runCLI(t, "fix", "--owner", "user:", root)
	require.ErrorIs(t, err, errors.ErrInvalidOwner)
	assert.Equal(t, os.FileMode(0o777), perm(t, filepath.Join(root, "wp-content")))
}

func TestConfigInitAndSet(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")

	_, err := runCLI(t, "--config", cfgPath, "config", "init")
	require.NoError(t, err)

	_, err = runCLI(t, "--config", cfgPath, "config", "init")
	require.ErrorIs(t, err, errors.ErrConfigFileExists)

	_, err = runCLI(t, "--config", cfgPath, "config", "set", "match_mode", "ancestor")
	require.NoError(t, err)

	out, err := runCLI(t, "--config", cfgPath, "config", "get", "match_mode")
	require.NoError(t, err)
	assert.Equal(t, "ancestor\n", out)

	_, err = runCLI(t, "--config", cfgPath, "config", "set", "match_mode", "nope")
	require.Error(t, err)
}

func TestFixCommandWithConfigFile(t *testing.T) {
	root := buildSite(t)
	cfgPath := testutil.SetupTestConfig(t, `version: "1.0"
exclusions:
  names: [.git, wp-content]
  match_mode: segment
settings:
  output_format: text
  color_output: false
`)

	out, err := runCLI(t, "--config", cfgPath, "fix", root)
	require.NoError(t, err)
	assert.Contains(t, out, "Skipped: 4")
	assert.Equal(t, os.FileMode(0o777), perm(t, filepath.Join(root, "wp-content")))
	assert.Equal(t, os.FileMode(0o600), perm(t, filepath.Join(root, ".git", "HEAD")))
}
