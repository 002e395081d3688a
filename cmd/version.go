package cmd

import (
	"fmt"

	"panelkeeper/cmd/root"

	"github.com/spf13/cobra"
)

var Version = "1.0.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print panelkeeper version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("panelkeeper %s\n", Version)
	},
}

func init() {
	root.RootCmd.AddCommand(versionCmd)
}
