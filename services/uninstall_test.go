package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"panelkeeper/internal/models"
	"panelkeeper/internal/sysd"
	"panelkeeper/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoveStopsBeforeDeleting(t *testing.T) {
	runner := utils.NewMockRunner()
	unitDir := t.TempDir()
	systemd := sysd.New(runner, unitDir)
	u := NewUninstaller(systemd)

	dir := filepath.Join(t.TempDir(), "panel")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(unitDir, "panel.service"), []byte("[Unit]\n"), 0644))

	spec := models.ComponentSpec{
		Name: "panel", Directory: dir,
		StartCommand: []string{"/usr/bin/npm", "run", "start"},
	}
	runner.Hooks["systemctl daemon-reload"] = func([]string) error {
		if _, err := os.Stat(dir); !os.IsNotExist(err) {
			return errors.New("unit cache reloaded before the directory was removed")
		}
		return nil
	}
	require.NoError(t, u.Remove(context.Background(), spec))

	lines := runner.CommandLines()
	joined := strings.Join(lines, "\n")
	assert.Contains(t, joined, "systemctl stop panel.service")
	assert.Contains(t, joined, "systemctl disable panel.service")
	assert.Contains(t, joined, "systemctl daemon-reload")
	// stop precedes everything else, and the cache reload is the final step
	assert.Equal(t, "systemctl stop panel.service", lines[0])
	assert.Equal(t, "systemctl daemon-reload", lines[len(lines)-1])

	_, err := os.Stat(dir)
	assert.True(t, os.IsNotExist(err), "component directory removed")
	_, err = os.Stat(filepath.Join(unitDir, "panel.service"))
	assert.True(t, os.IsNotExist(err), "unit file removed")
}

func TestRemoveIdempotentOnAbsentService(t *testing.T) {
	runner := utils.NewMockRunner()
	runner.Fail["systemctl stop"] = errors.New("Unit panel.service not loaded")
	runner.Fail["systemctl disable"] = errors.New("Unit panel.service does not exist")
	systemd := sysd.New(runner, t.TempDir())
	u := NewUninstaller(systemd)

	spec := models.ComponentSpec{
		Name:         "panel",
		Directory:    filepath.Join(t.TempDir(), "never-installed"),
		StartCommand: []string{"/usr/bin/npm", "run", "start"},
	}
	// absent unit, absent directory: still succeeds
	require.NoError(t, u.Remove(context.Background(), spec))
	require.NoError(t, u.Remove(context.Background(), spec))
}

func TestRemoveAddonWithoutUnit(t *testing.T) {
	runner := utils.NewMockRunner()
	u := NewUninstaller(sysd.New(runner, t.TempDir()))

	dir := filepath.Join(t.TempDir(), "subdomains")
	require.NoError(t, os.MkdirAll(dir, 0755))
	spec := models.ComponentSpec{Name: "subdomains", Kind: models.KindAddon, Directory: dir}

	require.NoError(t, u.Remove(context.Background(), spec))
	assert.Empty(t, runner.Commands, "no systemctl calls for unit-less addons")
	_, err := os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
}
