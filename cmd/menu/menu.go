package menu

import (
	"context"
	"fmt"
	"os"
	"strings"

	"panelkeeper/cmd/root"
	"panelkeeper/internal/config"
	"panelkeeper/internal/env"
	"panelkeeper/internal/logger"
	"panelkeeper/internal/models"
	"panelkeeper/internal/ui"
	"panelkeeper/services"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Interactive install menu",
	Long: `Menu opens a full-screen picker for the common operations: installing
everything, installing one component, installing addons, removing a
component, and inspecting status or logs. The menu collects settings and
confirmations, then runs the chosen operation with normal log output.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runMenu(); err != nil {
			logger.Fatal(err)
		}
	},
}

func runMenu() error {
	manager, err := services.GetInstallManager()
	if err != nil {
		return fmt.Errorf("host detection failed: %w", err)
	}

	catalog := config.Catalog()
	componentNames := []string{catalog.Panel.Name, catalog.Daemon.Name}
	addonNames := make([]string, 0, len(catalog.Addons))
	for _, spec := range catalog.Addons {
		componentNames = append(componentNames, spec.Name)
		addonNames = append(addonNames, spec.Name)
	}

	for {
		model := ui.NewMenu(componentNames, addonNames)
		if _, err := tea.NewProgram(model).Run(); err != nil {
			return fmt.Errorf("menu failed: %w", err)
		}
		sel := model.Selection()

		ctx := context.Background()
		switch sel.Action {
		case ui.ActionQuit, ui.ActionNone:
			return nil
		case ui.ActionInstallAll:
			if err := manager.InstallAll(ctx, sel.Config); err != nil {
				return err
			}
			logger.Info("Install finished")
		case ui.ActionInstallPanel:
			if err := manager.InstallOne(ctx, catalog.Panel.Name, sel.Config); err != nil {
				return err
			}
			logger.Info("Panel installed")
		case ui.ActionInstallDaemon:
			// The daemon form collects nothing: the panel port defaults.
			icfg := &models.InstallConfig{Component: catalog.Daemon.Name, Port: 3000}
			if err := manager.InstallOne(ctx, catalog.Daemon.Name, icfg); err != nil {
				return err
			}
			logger.Info("Daemon installed")
		case ui.ActionInstallAddon:
			if err := manager.InstallOne(ctx, sel.Component, sel.Config); err != nil {
				return err
			}
			logger.Infof("Addon %s installed", sel.Component)
		case ui.ActionRemove:
			if err := manager.Remove(ctx, sel.Component); err != nil {
				return err
			}
			logger.Infof("Component %s removed", sel.Component)
		case ui.ActionStatus:
			printStatus(ctx, manager)
		case ui.ActionLogs:
			printLogs()
		}
	}
}

func printStatus(ctx context.Context, manager *services.InstallManager) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Component", "Kind", "Directory", "Installed", "Service"})
	for _, detail := range manager.Status(ctx) {
		installed := "no"
		if detail.Installed {
			installed = "yes"
		}
		t.AppendRow(table.Row{detail.Name, detail.Kind, detail.Directory, installed, detail.UnitState})
	}
	t.SetStyle(table.StyleLight)
	t.Render()
}

func printLogs() {
	path := config.Config.Log.Path
	if path == "" {
		path = env.LogPath()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warnf("No log file at %s yet", path)
		return
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) > 50 {
		lines = lines[len(lines)-50:]
	}
	for _, line := range lines {
		fmt.Println(line)
	}
}

func init() {
	root.RootCmd.AddCommand(menuCmd)
}
