package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"phoneadmin_backend/internal/middleware"
	"phoneadmin_backend/internal/models"
	"phoneadmin_backend/internal/services"
)

type DashboardHandler struct {
	*BaseHandler
	dashboardService services.DashboardService
}

func NewDashboardHandler(base *BaseHandler, dashboardService services.DashboardService) *DashboardHandler {
	return &DashboardHandler{BaseHandler: base, dashboardService: dashboardService}
}

func (h *DashboardHandler) RegisterRoutes(r *gin.RouterGroup) {
	dashboard := r.Group("/dashboard")
	dashboard.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.UserRoleAdmin, models.UserRoleManager))
	{
		dashboard.GET("/stats", h.GetStats)
		dashboard.GET("/charts", h.GetCharts)
		dashboard.GET("/recent-activity", h.GetRecentActivity)
	}
}

func (h *DashboardHandler) GetStats(c *gin.Context) {
	stats, err := h.dashboardService.GetStats(h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *DashboardHandler) GetCharts(c *gin.Context) {
	days := ParseQueryInt(c, "days", 30)

	charts, err := h.dashboardService.GetCharts(h.GetDB(c), days)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, charts)
}

func (h *DashboardHandler) GetRecentActivity(c *gin.Context) {
	limit := ParseQueryInt(c, "limit", 20)

	activity, err := h.dashboardService.GetRecentActivity(h.GetDB(c), limit)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, activity)
}
