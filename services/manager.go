package services

import (
	"context"
	"fmt"
	"os"

	"panelkeeper/internal/config"
	"panelkeeper/internal/env"
	"panelkeeper/internal/logger"
	"panelkeeper/internal/models"
	"panelkeeper/internal/osprobe"
	"panelkeeper/internal/pkgmgr"
	"panelkeeper/internal/sysd"
	"panelkeeper/internal/utils"
)

/**
 * Install manager: top-level orchestration over one host
 * @description
 * - Holds the HostProfile (probed once, immutable) and wires provisioner,
 *   installer and uninstaller over a shared CommandRunner
 * - Strictly sequential: nothing here is designed for concurrent invocation,
 *   two instances against the same component are undefined
 */
type InstallManager struct {
	profile     models.HostProfile
	runner      utils.CommandRunner
	systemd     *sysd.Systemd
	provisioner *pkgmgr.Provisioner
	installer   *Installer
	uninstaller *Uninstaller
}

var installManager *InstallManager

/**
 * Get the singleton install manager
 * @returns {*InstallManager} Manager bound to the probed host profile
 * @returns {error} Host probe failure (unsupported/unidentified OS)
 */
func GetInstallManager() (*InstallManager, error) {
	if installManager != nil {
		return installManager, nil
	}
	profile, err := osprobe.Probe()
	if err != nil {
		return nil, err
	}
	installManager = NewInstallManager(*profile, utils.ExecRunner{})
	return installManager, nil
}

// NewInstallManager builds a manager over an explicit profile and runner (tests).
func NewInstallManager(profile models.HostProfile, runner utils.CommandRunner) *InstallManager {
	systemd := sysd.New(runner, env.SystemdUnitDir)
	m := &InstallManager{
		profile:     profile,
		runner:      runner,
		systemd:     systemd,
		provisioner: pkgmgr.NewProvisioner(profile, config.Config.Provision, runner),
		installer:   NewInstaller(profile, runner, systemd),
		uninstaller: NewUninstaller(systemd),
	}
	return m
}

// Profile returns the immutable host profile.
func (m *InstallManager) Profile() models.HostProfile {
	return m.profile
}

// Installer exposes the component installer.
func (m *InstallManager) Installer() *Installer {
	return m.installer
}

/**
 * Provision the host baseline: system packages, pinned Node.js, Docker
 */
func (m *InstallManager) ProvisionHost(ctx context.Context, withDocker bool) error {
	if err := m.provisioner.EnsurePackages(ctx, config.Config.Provision.BasePackages...); err != nil {
		return err
	}
	if err := m.provisioner.EnsureNode(ctx); err != nil {
		return err
	}
	if withDocker {
		if err := m.provisioner.EnsureDocker(ctx); err != nil {
			return err
		}
	}
	return nil
}

/**
 * Install everything: packages -> panel -> daemon -> admin -> addons
 * @description
 * - Configuration is collected once up front (icfg), never interleaved
 * - The fixed order is part of the contract; a fatal step aborts the rest
 */
func (m *InstallManager) InstallAll(ctx context.Context, icfg *models.InstallConfig) error {
	cat := config.Catalog()

	if err := m.ProvisionHost(ctx, true); err != nil {
		return err
	}
	if err := m.installer.InstallComponent(ctx, cat.Panel, icfg); err != nil {
		return err
	}
	if err := m.installer.InstallComponent(ctx, cat.Daemon, icfg); err != nil {
		return err
	}

	bootstrap := NewAdminBootstrap(cat.Panel, icfg)
	outcome, err := bootstrap.Bootstrap(ctx, icfg)
	if err != nil {
		return fmt.Errorf("admin bootstrap (%s): %w", outcome, err)
	}
	logger.Infof("Admin bootstrap finished: %s", outcome)

	for _, name := range icfg.Addons {
		spec, err := config.FindComponent(name)
		if err != nil {
			logger.Warnf("Unknown addon %q skipped", name)
			continue
		}
		if err := m.installer.InstallComponent(ctx, spec, icfg); err != nil {
			return err
		}
	}
	return nil
}

/**
 * Install a single named component (panel/daemon/addon)
 */
func (m *InstallManager) InstallOne(ctx context.Context, name string, icfg *models.InstallConfig) error {
	spec, err := config.FindComponent(name)
	if err != nil {
		return err
	}
	withDocker := spec.Kind == models.KindDaemon
	if err := m.ProvisionHost(ctx, withDocker); err != nil {
		return err
	}
	return m.installer.InstallComponent(ctx, spec, icfg)
}

/**
 * Remove a named component
 */
func (m *InstallManager) Remove(ctx context.Context, name string) error {
	spec, err := config.FindComponent(name)
	if err != nil {
		return err
	}
	return m.uninstaller.Remove(ctx, spec)
}

/**
 * Status of every catalogued component
 */
func (m *InstallManager) Status(ctx context.Context) []models.ComponentDetail {
	cat := config.Catalog()
	specs := append([]models.ComponentSpec{cat.Panel, cat.Daemon}, cat.Addons...)
	details := make([]models.ComponentDetail, 0, len(specs))
	for _, spec := range specs {
		detail := models.ComponentDetail{
			Name:      spec.Name,
			Kind:      spec.Kind,
			Directory: spec.Directory,
			UnitState: "unknown",
		}
		if _, err := os.Stat(spec.Directory); err == nil {
			detail.Installed = true
		}
		if len(spec.StartCommand) > 0 {
			detail.UnitState = m.systemd.IsActive(ctx, spec.ServiceName())
		}
		details = append(details, detail)
	}
	return details
}
