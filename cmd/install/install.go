package install

import (
	"context"

	"panelkeeper/cmd/root"
	"panelkeeper/internal/logger"
	"panelkeeper/internal/models"
	"panelkeeper/services"

	"github.com/spf13/cobra"
)

var (
	optPort     int
	optEmail    string
	optUsername string
	optPassword string
	optAddons   []string
)

var installCmd = &cobra.Command{
	Use:   "install [panel|daemon|all]",
	Short: "Install the panel, the daemon, or everything",
	Long: `Install provisions the host (packages, Node.js, and Docker when the daemon
is selected), fetches the component repositories, renders their environment
files, registers systemd units and starts them. Installing everything also
creates the first admin account from the supplied flags.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		component := "all"
		if len(args) == 1 {
			component = args[0]
		}

		icfg := &models.InstallConfig{
			Component:     component,
			Port:          optPort,
			AdminEmail:    optEmail,
			AdminUsername: optUsername,
			AdminPassword: optPassword,
			Addons:        optAddons,
		}
		if component == "all" || component == "panel" {
			substituted, err := icfg.Validate()
			if err != nil {
				logger.Fatalf("Invalid install settings: %v", err)
			}
			if substituted {
				logger.Warnf("Username rejected, continuing with %q", icfg.AdminUsername)
			}
		}

		manager, err := services.GetInstallManager()
		if err != nil {
			logger.Fatalf("Host detection failed: %v", err)
		}

		ctx := context.Background()
		if component == "all" {
			err = manager.InstallAll(ctx, icfg)
		} else {
			err = manager.InstallOne(ctx, component, icfg)
		}
		if err != nil {
			logger.Fatalf("Install failed: %v", err)
		}
		logger.Info("Install finished")
	},
}

func init() {
	installCmd.Flags().IntVar(&optPort, "port", 3000, "panel listen port")
	installCmd.Flags().StringVar(&optEmail, "email", "", "admin account email")
	installCmd.Flags().StringVar(&optUsername, "username", "admin", "admin account username")
	installCmd.Flags().StringVar(&optPassword, "password", "", "admin account password")
	installCmd.Flags().StringSliceVar(&optAddons, "addons", nil, "addon names to install after the panel")
	root.RootCmd.AddCommand(installCmd)
}
