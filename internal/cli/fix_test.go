package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/glorpus-work/permfix/pkg/config"
	"github.com/glorpus-work/permfix/pkg/errors"
	"github.com/glorpus-work/permfix/test/testutil"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyRunFlags(t *testing.T) {
	cfg := config.DefaultConfig()
	applyRunFlags(cfg, runOptions{
		excludes:  []string{"vendor"},
		patterns:  []string{"wp-content/cache/**"},
		matchMode: "ancestor",
		prune:     true,
	})

	assert.Contains(t, cfg.Exclusions.Names, ".git")
	assert.Contains(t, cfg.Exclusions.Names, "vendor")
	assert.Equal(t, []string{"wp-content/cache/**"}, cfg.Exclusions.Patterns)
	assert.Equal(t, "ancestor", cfg.Exclusions.MatchMode)
	assert.True(t, cfg.Exclusions.Prune)
}

func TestResolveOwner(t *testing.T) {
	ids, err := resolveOwner("")
	require.NoError(t, err)
	assert.Nil(t, ids)

	ids, err = resolveOwner("1000:33")
	require.NoError(t, err)
	require.NotNil(t, ids)
	assert.Equal(t, 1000, ids.UID)
	assert.Equal(t, 33, ids.GID)

	_, err = resolveOwner("www-data:")
	assert.ErrorIs(t, err, errors.ErrInvalidOwner)
}

func TestRunFix(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	root := filepath.Join(t.TempDir(), "site")
	testutil.BuildTree(t, afero.NewOsFs(), root,
		testutil.Dir("wp-admin", 0o700),
		testutil.File("wp-config.php", 0o644),
	)
	dir := filepath.Join(root, "wp-admin")

	format := "yaml"
	OutputFormat = &format
	t.Cleanup(func() { OutputFormat = nil })

	var out bytes.Buffer
	rep, err := runFix(context.Background(), &out, root, runOptions{dryRun: true})
	require.NoError(t, err)
	require.NotNil(t, rep)
	assert.Equal(t, 1, rep.Stats.DirectoriesFixed)
	assert.Equal(t, 1, rep.Stats.FilesFixed)
	assert.Contains(t, out.String(), "root: "+root)

	assert.Equal(t, os.FileMode(0o700), testutil.Perm(t, afero.NewOsFs(), dir))
}

func TestRunFixBadMatchMode(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	_, err := runFix(context.Background(), &bytes.Buffer{}, t.TempDir(), runOptions{matchMode: "nope"})
	assert.ErrorIs(t, err, errors.ErrInvalidMatchMode)
}
