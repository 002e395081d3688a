package server

import (
	"log"

	"panelkeeper/cmd/root"
	"panelkeeper/controllers"
	"panelkeeper/internal/config"
	"panelkeeper/internal/middleware"
	"panelkeeper/services"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "启动HTTP管理服务",
	Run: func(cmd *cobra.Command, args []string) {
		if err := startServer(); err != nil {
			log.Fatal(err)
		}
	},
}

func startServer() error {
	gin.SetMode(config.Config.Server.Mode)
	router := gin.Default()
	router.Use(middleware.MetricsMiddleware())

	manager, err := services.GetInstallManager()
	if err != nil {
		return err
	}

	// 注册API路由
	apiController := controllers.NewAPIController(manager)
	apiController.RegisterRoutes(router)
	componentController := controllers.NewComponentController(manager)
	componentController.RegisterRoutes(router)

	return router.Run(config.Config.Server.Address)
}

func init() {
	root.RootCmd.AddCommand(serverCmd)
}
