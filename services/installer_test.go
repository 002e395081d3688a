package services

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"panelkeeper/internal/config"
	"panelkeeper/internal/envfile"
	"panelkeeper/internal/models"
	"panelkeeper/internal/osprobe"
	"panelkeeper/internal/sysd"
	"panelkeeper/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestInstaller(t *testing.T, runner *utils.MockRunner) (*Installer, *sysd.Systemd) {
	t.Helper()
	config.Config.Provision.CountdownSeconds = 1
	// a recorded clone materializes its target directory, as the real one does
	runner.Hooks["git clone"] = func(argv []string) error {
		return os.MkdirAll(argv[len(argv)-1], 0755)
	}
	systemd := sysd.New(runner, t.TempDir())
	profile, err := osprobe.Classify("ubuntu", "24.04")
	require.NoError(t, err)
	in := NewInstaller(*profile, runner, systemd)
	in.Fetcher().SetOutput(io.Discard)
	return in, systemd
}

func TestInstallPanelEndToEnd(t *testing.T) {
	runner := utils.NewMockRunner()
	in, systemd := newTestInstaller(t, runner)

	dir := filepath.Join(t.TempDir(), "panel")
	require.NoError(t, os.MkdirAll(dir, 0755))
	spec := models.ComponentSpec{
		Name:          "panel",
		DisplayName:   "Panel",
		Kind:          models.KindPanel,
		RepoURL:       "https://example.com/panel.git",
		Directory:     dir,
		ServiceUser:   "www-data",
		StartCommand:  []string{"/usr/bin/npm", "run", "start"},
		BuildCommands: [][]string{{"npm", "run", "build"}},
	}
	icfg := &models.InstallConfig{
		Component:     "panel",
		Port:          3000,
		AdminEmail:    "admin@example.com",
		AdminUsername: "admin",
		AdminPassword: "abcd1234",
	}
	_, err := icfg.Validate()
	require.NoError(t, err)

	require.NoError(t, in.InstallComponent(context.Background(), spec, icfg))

	// environment file carries the collected port and a fresh secret
	port, err := envfile.GetKey(EnvPath(spec), "PORT")
	require.NoError(t, err)
	assert.Equal(t, "3000", port)
	secret, err := envfile.GetKey(EnvPath(spec), "SESSION_SECRET")
	require.NoError(t, err)
	assert.Len(t, secret, 64)
	reg, err := envfile.GetKey(EnvPath(spec), "REGISTRATION_ENABLED")
	require.NoError(t, err)
	assert.Equal(t, "false", reg)

	// unit file points at the configured panel directory
	unitData, err := os.ReadFile(systemd.UnitPath("panel.service"))
	require.NoError(t, err)
	assert.Contains(t, string(unitData), "WorkingDirectory="+dir)
	assert.Contains(t, string(unitData), "Restart=always")

	lines := strings.Join(runner.CommandLines(), "\n")
	assert.Contains(t, lines, "git clone --depth 1 https://example.com/panel.git "+dir)
	assert.Contains(t, lines, "npm install --omit=dev")
	assert.Contains(t, lines, "npm run build")
	assert.Contains(t, lines, "chown -R www-data:www-data "+dir)
	assert.Contains(t, lines, "systemctl enable --now panel.service")
}

func TestInstallSecretsFreshPerRun(t *testing.T) {
	runner := utils.NewMockRunner()
	in, _ := newTestInstaller(t, runner)

	dir := filepath.Join(t.TempDir(), "panel")
	require.NoError(t, os.MkdirAll(dir, 0755))
	spec := models.ComponentSpec{
		Name: "panel", DisplayName: "Panel", Kind: models.KindPanel,
		RepoURL: "https://example.com/panel.git", Directory: dir,
		ServiceUser: "www-data", StartCommand: []string{"/usr/bin/npm", "run", "start"},
	}
	icfg := &models.InstallConfig{Port: 3000, AdminEmail: "a@b.c", AdminUsername: "admin", AdminPassword: "abcd1234"}

	require.NoError(t, in.InstallComponent(context.Background(), spec, icfg))
	first, _ := envfile.GetKey(EnvPath(spec), "SESSION_SECRET")

	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, in.InstallComponent(context.Background(), spec, icfg))
	second, _ := envfile.GetKey(EnvPath(spec), "SESSION_SECRET")

	assert.NotEqual(t, first, second, "secrets are never reused across runs")
}

func TestInstallBuildFailureAborts(t *testing.T) {
	runner := utils.NewMockRunner()
	runner.Fail["npm run build"] = assert.AnError
	in, systemd := newTestInstaller(t, runner)

	dir := filepath.Join(t.TempDir(), "daemon")
	require.NoError(t, os.MkdirAll(dir, 0755))
	spec := models.ComponentSpec{
		Name: "daemon", DisplayName: "Daemon", Kind: models.KindDaemon,
		RepoURL: "https://example.com/daemon.git", Directory: dir,
		ServiceUser:   "root",
		StartCommand:  []string{"/usr/bin/npm", "run", "start"},
		BuildCommands: [][]string{{"npm", "run", "build"}},
	}
	icfg := &models.InstallConfig{Port: 3000, AdminEmail: "a@b.c", AdminUsername: "admin", AdminPassword: "abcd1234"}

	err := in.InstallComponent(context.Background(), spec, icfg)
	require.Error(t, err)

	// no unit and no enable once a build step failed
	_, statErr := os.Stat(systemd.UnitPath("daemon.service"))
	assert.True(t, os.IsNotExist(statErr))
	assert.NotContains(t, strings.Join(runner.CommandLines(), "\n"), "systemctl enable --now daemon.service")
}

func TestInstallAddonSkipsEnvAndUnit(t *testing.T) {
	runner := utils.NewMockRunner()
	in, systemd := newTestInstaller(t, runner)

	dir := filepath.Join(t.TempDir(), "subdomains")
	spec := models.ComponentSpec{
		Name: "subdomains", DisplayName: "Subdomain Manager", Kind: models.KindAddon,
		RepoURL: "https://example.com/addon.git", Branch: "main", Directory: dir,
	}
	icfg := &models.InstallConfig{Port: 3000, AdminEmail: "a@b.c", AdminUsername: "admin", AdminPassword: "abcd1234"}

	require.NoError(t, in.InstallComponent(context.Background(), spec, icfg))

	_, err := os.Stat(filepath.Join(dir, ".env"))
	assert.True(t, os.IsNotExist(err), "addons get no environment file")
	_, err = os.Stat(systemd.UnitPath("subdomains.service"))
	assert.True(t, os.IsNotExist(err), "addons get no unit")
	assert.Contains(t, strings.Join(runner.CommandLines(), "\n"), "npm install --omit=dev")
}

func TestInstallFailsWhenCloneProducesNoDirectory(t *testing.T) {
	runner := utils.NewMockRunner()
	in, _ := newTestInstaller(t, runner)
	delete(runner.Hooks, "git clone")

	dir := filepath.Join(t.TempDir(), "panel")
	spec := models.ComponentSpec{
		Name: "panel", DisplayName: "Panel", Kind: models.KindPanel,
		RepoURL: "https://example.com/panel.git", Directory: dir,
		ServiceUser: "www-data", StartCommand: []string{"/usr/bin/npm", "run", "start"},
	}
	icfg := &models.InstallConfig{Port: 3000, AdminEmail: "a@b.c", AdminUsername: "admin", AdminPassword: "abcd1234"}

	err := in.InstallComponent(context.Background(), spec, icfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), dir)
	// the failure is caught before any later step runs
	assert.NotContains(t, strings.Join(runner.CommandLines(), "\n"), "npm install")
}

func TestDaemonUnitOrderedAfterDocker(t *testing.T) {
	runner := utils.NewMockRunner()
	in, systemd := newTestInstaller(t, runner)

	dir := filepath.Join(t.TempDir(), "daemon")
	require.NoError(t, os.MkdirAll(dir, 0755))
	spec := models.ComponentSpec{
		Name: "daemon", DisplayName: "Daemon", Kind: models.KindDaemon,
		RepoURL: "https://example.com/daemon.git", Directory: dir,
		ServiceUser: "root", StartCommand: []string{"/usr/bin/npm", "run", "start"},
	}
	icfg := &models.InstallConfig{Port: 3000, AdminEmail: "a@b.c", AdminUsername: "admin", AdminPassword: "abcd1234"}

	require.NoError(t, in.InstallComponent(context.Background(), spec, icfg))
	unitData, err := os.ReadFile(systemd.UnitPath("daemon.service"))
	require.NoError(t, err)
	assert.Contains(t, string(unitData), "After=network.target docker.service")
}
