package root

import (
	"github.com/spf13/cobra"
)

var RootCmd = &cobra.Command{
	Use:   "panelkeeper",
	Short: "Panel and daemon installer",
	Long:  `panelkeeper provisions the panel web application and its companion daemon on a Linux host: OS detection, package/Node.js/Docker provisioning, repository fetch, environment rendering, database migration, systemd registration, admin bootstrap, addons and uninstall.`,
}
