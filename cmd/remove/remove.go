package remove

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"panelkeeper/cmd/root"
	"panelkeeper/internal/logger"
	"panelkeeper/services"

	"github.com/spf13/cobra"
)

var optYes bool

var removeCmd = &cobra.Command{
	Use:   "remove <component>",
	Short: "Stop and remove an installed component",
	Long: `Remove stops the component's systemd unit, disables it, deletes the unit
file and removes the install directory. Removing is idempotent: a component
that is already gone is not an error.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name := args[0]
		if !optYes && !confirm(name) {
			fmt.Println("Aborted.")
			return
		}
		manager, err := services.GetInstallManager()
		if err != nil {
			logger.Fatalf("Host detection failed: %v", err)
		}
		if err := manager.Remove(context.Background(), name); err != nil {
			logger.Fatalf("Remove failed: %v", err)
		}
		logger.Infof("Component %s removed", name)
	},
}

func confirm(name string) bool {
	fmt.Printf("This deletes %s and all of its data. Type 'yes' to continue: ", name)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	return strings.TrimSpace(line) == "yes"
}

func init() {
	removeCmd.Flags().BoolVarP(&optYes, "yes", "y", false, "skip the confirmation prompt")
	root.RootCmd.AddCommand(removeCmd)
}
