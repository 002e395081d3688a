package main

import (
	"os"

	_ "panelkeeper/cmd"
	"panelkeeper/cmd/root"
	"panelkeeper/internal/config"
	"panelkeeper/internal/env"
	"panelkeeper/internal/logger"
)

func main() {
	// 检查是否是服务器模式，服务器模式下日志只落盘
	isServerMode := len(os.Args) > 1 && os.Args[1] == "server"

	logPath := config.Config.Log.Path
	if logPath == "" {
		logPath = env.LogPath()
	}
	logger.InitLogger(logPath, config.Config.Log.Level, !isServerMode)

	if err := root.RootCmd.Execute(); err != nil {
		logger.Fatal(err)
	}
	os.Exit(0)
}
