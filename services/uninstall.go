package services

import (
	"context"
	"fmt"
	"os"

	"panelkeeper/internal/logger"
	"panelkeeper/internal/models"
	"panelkeeper/internal/sysd"
)

/**
 * Uninstaller removes a previously installed component
 * @description
 * - Order matters: the service is stopped before files are deleted so a
 *   running process never loses its working directory underneath it
 * - stop/disable tolerate "already stopped/disabled"; the whole sequence is
 *   idempotent and safe to run against a half-installed component
 */
type Uninstaller struct {
	systemd *sysd.Systemd
}

func NewUninstaller(systemd *sysd.Systemd) *Uninstaller {
	return &Uninstaller{systemd: systemd}
}

/**
 * Remove one component: unit first, directory second, reload last
 */
func (u *Uninstaller) Remove(ctx context.Context, spec models.ComponentSpec) error {
	unitName := spec.ServiceName()
	hadUnit := len(spec.StartCommand) > 0
	if hadUnit {
		u.systemd.Stop(ctx, unitName)
		u.systemd.Disable(ctx, unitName)
		if err := u.systemd.RemoveUnit(unitName); err != nil {
			return fmt.Errorf("remove unit %s: %w", unitName, err)
		}
	}
	if err := os.RemoveAll(spec.Directory); err != nil {
		return fmt.Errorf("remove %s: %w", spec.Directory, err)
	}
	if hadUnit {
		if err := u.systemd.DaemonReload(ctx); err != nil {
			return fmt.Errorf("reload unit cache: %w", err)
		}
	}
	logger.Infof("Component '%s' removed", spec.Name)
	return nil
}
