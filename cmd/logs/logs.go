package logs

import (
	"fmt"
	"os"
	"strings"

	"panelkeeper/cmd/root"
	"panelkeeper/internal/config"
	"panelkeeper/internal/env"
	"panelkeeper/internal/logger"

	"github.com/spf13/cobra"
)

var optLines int

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show the tail of the panelkeeper log file",
	Run: func(cmd *cobra.Command, args []string) {
		path := config.Config.Log.Path
		if path == "" {
			path = env.LogPath()
		}
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				logger.Warnf("No log file at %s yet", path)
				return
			}
			logger.Fatalf("Failed to read %s: %v", path, err)
		}
		lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
		if len(lines) > optLines {
			lines = lines[len(lines)-optLines:]
		}
		for _, line := range lines {
			fmt.Println(line)
		}
	},
}

func init() {
	logsCmd.Flags().IntVarP(&optLines, "lines", "n", 100, "number of lines to show")
	root.RootCmd.AddCommand(logsCmd)
}
