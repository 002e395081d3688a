package status

import (
	"context"
	"os"

	"panelkeeper/cmd/root"
	"panelkeeper/internal/logger"
	"panelkeeper/services"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the install and service state of every component",
	Run: func(cmd *cobra.Command, args []string) {
		manager, err := services.GetInstallManager()
		if err != nil {
			logger.Fatalf("Host detection failed: %v", err)
		}

		profile := manager.Profile()
		logger.Infof("Host: %s %s (%s family, %s)",
			profile.DistributionID, profile.VersionID, profile.Family, profile.PackageManager)

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Component", "Kind", "Directory", "Installed", "Service"})
		for _, detail := range manager.Status(context.Background()) {
			installed := "no"
			if detail.Installed {
				installed = "yes"
			}
			t.AppendRow(table.Row{detail.Name, detail.Kind, detail.Directory, installed, detail.UnitState})
		}
		t.SetStyle(table.StyleLight)
		t.Render()
	},
}

func init() {
	root.RootCmd.AddCommand(statusCmd)
}
