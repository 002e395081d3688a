package addon

import (
	"context"
	"os"

	"panelkeeper/cmd/root"
	"panelkeeper/internal/config"
	"panelkeeper/internal/logger"
	"panelkeeper/internal/models"
	"panelkeeper/services"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var addonCmd = &cobra.Command{
	Use:   "addon",
	Short: "List and install panel addons",
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the addons in the catalogue",
	Run: func(cmd *cobra.Command, args []string) {
		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Name", "Display name", "Repository", "Directory"})
		for _, spec := range config.Catalog().Addons {
			t.AppendRow(table.Row{spec.Name, spec.DisplayName, spec.RepoURL, spec.Directory})
		}
		t.SetStyle(table.StyleLight)
		t.Render()
	},
}

var installCmd = &cobra.Command{
	Use:   "install <name>",
	Short: "Install an addon from the catalogue",
	Long: `Addon install fetches the addon repository into the panel's addons
directory and runs its build commands. The panel must already be installed.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		manager, err := services.GetInstallManager()
		if err != nil {
			logger.Fatalf("Host detection failed: %v", err)
		}
		icfg := &models.InstallConfig{Component: args[0]}
		if err := manager.InstallOne(context.Background(), args[0], icfg); err != nil {
			logger.Fatalf("Addon install failed: %v", err)
		}
		logger.Infof("Addon %s installed", args[0])
	},
}

func init() {
	addonCmd.AddCommand(listCmd)
	addonCmd.AddCommand(installCmd)
	root.RootCmd.AddCommand(addonCmd)
}
