package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"panelkeeper/internal/config"
	"panelkeeper/internal/envfile"
	"panelkeeper/internal/gitfetch"
	"panelkeeper/internal/logger"
	"panelkeeper/internal/models"
	"panelkeeper/internal/sysd"
	"panelkeeper/internal/task"
	"panelkeeper/internal/utils"
)

// stepTimeout bounds every network/build step so a hang surfaces as
// task.ErrTimeout instead of blocking the installer forever.
const stepTimeout = 20 * time.Minute

// daemonPort is the listen port rendered into the daemon environment.
const daemonPort = 3002

/**
 * Component installer (panel / daemon / addon)
 * @description
 * - One pipeline for every component: destructive-replace clone, environment
 *   render with fresh secrets, production dependency install, declared
 *   build/migrate/seed steps, ownership fix, service unit registration
 * - Re-invocation always re-provisions from scratch; idempotence exists only
 *   at the directory level through the fetcher's replace step
 * - Any non-zero build/migration exit aborts the component with no rollback:
 *   the filesystem is left as-is for operator inspection
 */
type Installer struct {
	profile models.HostProfile
	cfg     config.ProvisionConfig
	runner  utils.CommandRunner
	systemd *sysd.Systemd
	fetcher *gitfetch.Fetcher
}

func NewInstaller(profile models.HostProfile, runner utils.CommandRunner, systemd *sysd.Systemd) *Installer {
	cfg := config.Config.Provision
	return &Installer{
		profile: profile,
		cfg:     cfg,
		runner:  runner,
		systemd: systemd,
		fetcher: gitfetch.NewFetcher(runner, cfg.CountdownSeconds),
	}
}

// Fetcher exposes the repository fetcher (menu wires its output there).
func (in *Installer) Fetcher() *gitfetch.Fetcher {
	return in.fetcher
}

/**
 * Install one component
 * @param {models.ComponentSpec} spec - Component to install
 * @param {*models.InstallConfig} icfg - Collected user settings
 * @returns {error} First failing step; remaining steps are skipped
 */
func (in *Installer) InstallComponent(ctx context.Context, spec models.ComponentSpec, icfg *models.InstallConfig) error {
	RecordInstall(spec.Name)
	if err := in.installComponent(ctx, spec, icfg); err != nil {
		RecordInstallFailure(spec.Name)
		return err
	}
	return nil
}

func (in *Installer) installComponent(ctx context.Context, spec models.ComponentSpec, icfg *models.InstallConfig) error {
	logger.Infof("Installing %s into %s", spec.DisplayName, spec.Directory)

	if err := task.Run(ctx, "clone "+spec.Name, stepTimeout, func(ctx context.Context) error {
		return in.fetcher.Fetch(ctx, spec)
	}); err != nil {
		return err
	}
	if _, err := os.Stat(spec.Directory); err != nil {
		return fmt.Errorf("clone reported success but %s is missing: %w", spec.Directory, err)
	}

	if spec.Kind != models.KindAddon {
		if err := in.renderEnvironment(spec, icfg); err != nil {
			return fmt.Errorf("render environment: %w", err)
		}
	}

	if err := task.Run(ctx, "dependencies "+spec.Name, stepTimeout, func(ctx context.Context) error {
		return in.runner.RunIn(ctx, spec.Directory, "npm", "install", "--omit=dev")
	}); err != nil {
		return err
	}

	for _, cmd := range spec.BuildCommands {
		argv := cmd
		if err := task.Run(ctx, argv[0]+" "+spec.Name, stepTimeout, func(ctx context.Context) error {
			return in.runner.RunIn(ctx, spec.Directory, argv[0], argv[1:]...)
		}); err != nil {
			return fmt.Errorf("build step %v: %w", argv, err)
		}
	}

	owner := spec.ServiceUser
	if owner == "" {
		owner = "root"
	}
	if err := in.runner.Run(ctx, "chown", "-R", owner+":"+owner, spec.Directory); err != nil {
		return err
	}

	// addons ride inside the panel tree and have no unit of their own
	if len(spec.StartCommand) == 0 {
		logger.Infof("%s installed (no service unit declared)", spec.DisplayName)
		return nil
	}

	unit := models.ServiceUnit{
		Name:             spec.Name,
		Description:      spec.DisplayName,
		User:             owner,
		WorkingDirectory: spec.Directory,
		ExecStart:        spec.StartCommand,
	}
	if spec.Kind == models.KindDaemon {
		unit.After = []string{"docker.service"}
	}
	if err := in.systemd.WriteUnit(ctx, unit); err != nil {
		return err
	}
	if err := in.systemd.EnableNow(ctx, unit.FileName()); err != nil {
		return err
	}
	logger.Infof("%s installed and service %s enabled", spec.DisplayName, unit.FileName())
	return nil
}

// EnvPath returns the environment file path of a component.
func EnvPath(spec models.ComponentSpec) string {
	return filepath.Join(spec.Directory, ".env")
}

/**
 * Render the component environment file
 * @description
 * - Secrets come from a cryptographically strong source, fresh per install
 * - The panel always starts with registration closed; the admin bootstrap
 *   opens it for exactly one request
 */
func (in *Installer) renderEnvironment(spec models.ComponentSpec, icfg *models.InstallConfig) error {
	var pairs []envfile.KV
	switch spec.Kind {
	case models.KindPanel:
		pairs = []envfile.KV{
			{Key: "NAME", Value: spec.DisplayName},
			{Key: "HOST", Value: "0.0.0.0"},
			{Key: "PORT", Value: strconv.Itoa(icfg.Port)},
			{Key: "SESSION_SECRET", Value: envfile.GenerateSecret(32)},
			{Key: "JWT_SECRET", Value: envfile.GenerateSecret(32)},
			{Key: "DATABASE_URL", Value: "file:./database.sqlite"},
			{Key: "REGISTRATION_ENABLED", Value: "false"},
		}
	case models.KindDaemon:
		pairs = []envfile.KV{
			{Key: "NAME", Value: spec.DisplayName},
			{Key: "PANEL_URL", Value: fmt.Sprintf("http://127.0.0.1:%d", icfg.Port)},
			{Key: "PORT", Value: strconv.Itoa(daemonPort)},
			{Key: "DAEMON_KEY", Value: envfile.GenerateSecret(32)},
		}
	default:
		return nil
	}
	return envfile.Render(EnvPath(spec), pairs)
}
