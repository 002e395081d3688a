package env

import (
	"os"
	"path/filepath"
)

// BaseDir holds panelkeeper state (logs, cached settings).
// (default: /var/lib/panelkeeper, PANELKEEPER_DIR overrides)
var BaseDir string = GetBaseDir()

// SystemdUnitDir is where rendered service units are written.
var SystemdUnitDir string = "/etc/systemd/system"

/**
 * Get panelkeeper data directory path
 * @returns {string} Returns panelkeeper directory path
 * @description
 * - Honors PANELKEEPER_DIR when set (used by tests and packaging)
 * - Defaults to /var/lib/panelkeeper
 */
func GetBaseDir() string {
	if dir := os.Getenv("PANELKEEPER_DIR"); dir != "" {
		return dir
	}
	return "/var/lib/panelkeeper"
}

/**
 * Get install log file path
 * @returns {string} Returns the append-only install log path
 */
func LogPath() string {
	return filepath.Join(BaseDir, "logs", "panelkeeper.log")
}
