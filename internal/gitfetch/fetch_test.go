package gitfetch

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"panelkeeper/internal/models"
	"panelkeeper/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchFreshTarget(t *testing.T) {
	runner := utils.NewMockRunner()
	f := NewFetcher(runner, 1)
	f.SetOutput(io.Discard)

	spec := models.ComponentSpec{
		Name:      "panel",
		RepoURL:   "https://example.com/panel.git",
		Branch:    "main",
		Directory: filepath.Join(t.TempDir(), "panel"),
	}
	require.NoError(t, f.Fetch(context.Background(), spec))

	lines := runner.CommandLines()
	require.Len(t, lines, 1)
	assert.Equal(t, "git clone --depth 1 -b main https://example.com/panel.git "+spec.Directory, lines[0])
}

func TestFetchReplacesExistingDirectory(t *testing.T) {
	runner := utils.NewMockRunner()
	f := NewFetcher(runner, 1)
	f.SetOutput(io.Discard)

	dir := filepath.Join(t.TempDir(), "panel")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "old.txt"), []byte("x"), 0644))

	spec := models.ComponentSpec{Name: "panel", RepoURL: "https://example.com/panel.git", Directory: dir}
	require.NoError(t, f.Fetch(context.Background(), spec))

	_, err := os.Stat(filepath.Join(dir, "old.txt"))
	assert.True(t, os.IsNotExist(err), "previous contents removed")
	assert.Contains(t, strings.Join(runner.CommandLines(), " "), "git clone")
}

func TestCountdownAbortCancelsDeletion(t *testing.T) {
	runner := utils.NewMockRunner()
	f := NewFetcher(runner, 10)
	f.SetOutput(io.Discard)

	dir := filepath.Join(t.TempDir(), "panel")
	require.NoError(t, os.MkdirAll(dir, 0755))

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	spec := models.ComponentSpec{Name: "panel", RepoURL: "https://example.com/panel.git", Directory: dir}
	err := f.Fetch(ctx, spec)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	_, statErr := os.Stat(dir)
	assert.NoError(t, statErr, "aborted countdown must leave the directory untouched")
	assert.Empty(t, runner.Commands, "no clone after an aborted countdown")
}
