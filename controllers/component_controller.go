package controllers

import (
	"errors"

	"panelkeeper/internal/config"
	"panelkeeper/services"

	"github.com/gin-gonic/gin"
)

type ComponentController struct {
	manager *services.InstallManager
}

/**
 * Create new Component controller instance
 * @param {*services.InstallManager} manager - Install manager instance
 * @returns {*ComponentController} New Component controller instance
 */
func NewComponentController(manager *services.InstallManager) *ComponentController {
	return &ComponentController{
		manager: manager,
	}
}

/**
 * Register all component API routes to Gin engine
 * @param {*gin.Engine} r - Gin router instance
 * @description
 * - Registers routes for component status and removal
 * - Installs stay on the CLI: they are interactive (countdown, collected
 *   settings) and must not run concurrently with another install
 */
func (c *ComponentController) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/panelkeeper/api/v1")
	api.GET("/components", c.ListComponents)
	api.GET("/components/:name", c.GetComponent)
	api.DELETE("/components/:name", c.DeleteComponent)
}

// @Summary 获取组件列表
// @Description 获取全部组件（面板/守护进程/插件）的安装状态
// @Tags Components
// @Produce json
// @Success 200 {array} models.ComponentDetail
// @Router /panelkeeper/api/v1/components [get]
func (c *ComponentController) ListComponents(g *gin.Context) {
	g.JSON(200, c.manager.Status(g.Request.Context()))
}

// @Summary 获取单个组件状态
// @Tags Components
// @Param name path string true "组件名称"
// @Success 200 {object} models.ComponentDetail
// @Failure 404 {object} models.ErrorResponse
// @Router /panelkeeper/api/v1/components/{name} [get]
func (c *ComponentController) GetComponent(g *gin.Context) {
	name := g.Param("name")
	for _, detail := range c.manager.Status(g.Request.Context()) {
		if detail.Name == name {
			g.JSON(200, detail)
			return
		}
	}
	g.JSON(404, gin.H{
		"code":    "component.not_found",
		"message": "Component not found",
	})
}

// @Summary 删除组件
// @Description 停止服务并删除指定组件
// @Tags Components
// @Param name path string true "组件名称"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} models.ErrorResponse
// @Router /panelkeeper/api/v1/components/{name} [delete]
func (c *ComponentController) DeleteComponent(g *gin.Context) {
	name := g.Param("name")
	if err := c.manager.Remove(g.Request.Context(), name); err != nil {
		if errors.Is(err, config.ErrComponentNotFound) {
			g.JSON(404, gin.H{
				"code":    "component.not_found",
				"message": "Component not found",
			})
		} else {
			g.JSON(500, gin.H{
				"code":    "component.remove_failed",
				"message": err.Error(),
			})
		}
		return
	}
	g.JSON(200, gin.H{"status": "success"})
}
