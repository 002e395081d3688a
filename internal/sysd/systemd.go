package sysd

import (
	"context"
	"os"
	"path/filepath"

	"panelkeeper/internal/logger"
	"panelkeeper/internal/models"
	"panelkeeper/internal/utils"
)

/**
 * Thin wrapper over the systemd control plane
 * @property {string} unitDir - Unit directory (/etc/systemd/system, tests override)
 * @description
 * - Install path: write unit, daemon-reload, enable --now
 * - Uninstall path: stop/disable tolerate "already stopped/disabled", the unit
 *   file is removed, and the caller reloads the unit cache last
 */
type Systemd struct {
	runner  utils.CommandRunner
	unitDir string
}

func New(runner utils.CommandRunner, unitDir string) *Systemd {
	return &Systemd{runner: runner, unitDir: unitDir}
}

// UnitPath returns where the named unit file lives.
func (s *Systemd) UnitPath(unitName string) string {
	return filepath.Join(s.unitDir, unitName)
}

/**
 * Write the rendered unit file and reload the unit cache
 */
func (s *Systemd) WriteUnit(ctx context.Context, unit models.ServiceUnit) error {
	path := s.UnitPath(unit.FileName())
	if err := os.WriteFile(path, []byte(unit.Render()), 0644); err != nil {
		return err
	}
	logger.Infof("Wrote unit %s", path)
	return s.DaemonReload(ctx)
}

/**
 * Enable the unit to start now and on boot
 */
func (s *Systemd) EnableNow(ctx context.Context, unitName string) error {
	return s.runner.Run(ctx, "systemctl", "enable", "--now", unitName)
}

/**
 * Stop the unit; an already-stopped or absent unit is success
 */
func (s *Systemd) Stop(ctx context.Context, unitName string) {
	if err := s.runner.Run(ctx, "systemctl", "stop", unitName); err != nil {
		logger.Warnf("stop %s: %v (continuing)", unitName, err)
	}
}

/**
 * Disable the unit; an already-disabled or absent unit is success
 */
func (s *Systemd) Disable(ctx context.Context, unitName string) {
	if err := s.runner.Run(ctx, "systemctl", "disable", unitName); err != nil {
		logger.Warnf("disable %s: %v (continuing)", unitName, err)
	}
}

/**
 * Remove the unit file from disk (missing file is success)
 * @description
 * - Does not reload the unit cache; the caller reloads once after all
 *   filesystem removal is done
 */
func (s *Systemd) RemoveUnit(unitName string) error {
	path := s.UnitPath(unitName)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// DaemonReload refreshes systemd's unit cache.
func (s *Systemd) DaemonReload(ctx context.Context) error {
	return s.runner.Run(ctx, "systemctl", "daemon-reload")
}

/**
 * IsActive reports the unit state ("active"/"inactive"/"unknown")
 */
func (s *Systemd) IsActive(ctx context.Context, unitName string) string {
	out, err := s.runner.Output(ctx, "systemctl", "is-active", unitName)
	if err != nil || out == "" {
		return "unknown"
	}
	return out
}
