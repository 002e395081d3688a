package controllers

import (
	"time"

	"panelkeeper/internal/config"
	"panelkeeper/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type APIController struct {
	manager   *services.InstallManager
	startTime time.Time
}

/**
 * Create new API controller instance
 * @param {*services.InstallManager} manager - Install manager bound to the host
 * @returns {*APIController} New API controller instance
 */
func NewAPIController(manager *services.InstallManager) *APIController {
	return &APIController{
		manager:   manager,
		startTime: time.Now(),
	}
}

/**
 * Register all API routes to Gin engine
 * @param {*gin.Engine} r - Gin router instance
 */
func (a *APIController) RegisterRoutes(r *gin.Engine) {
	r.POST("/panelkeeper/api/v1/reload", a.ReloadConfig)
	r.GET("/healthz", a.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// @Summary 重新加载配置
// @Description 重新加载应用配置文件
// @Tags Config
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /panelkeeper/api/v1/reload [post]
func (a *APIController) ReloadConfig(c *gin.Context) {
	if err := config.ReloadConfig(); err != nil {
		c.JSON(500, gin.H{
			"code":    "config.reload_failed",
			"message": "Failed to reload configuration: " + err.Error(),
		})
		return
	}
	config.ResetCatalog()

	c.JSON(200, gin.H{
		"status":  "success",
		"message": "Configuration reloaded successfully",
	})
}

// @Summary 健康检查
// @Description 返回服务器运行状态与请求计数
// @Tags System
// @Success 200 {object} map[string]interface{}
// @Router /healthz [get]
func (a *APIController) Healthz(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":    "ok",
		"host":      a.manager.Profile(),
		"startTime": a.startTime.Format(time.RFC3339),
		"requests":  services.GetTotalRequestCount(),
		"errors":    services.GetTotalErrorCount(),
	})
}
