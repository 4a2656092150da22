package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"phoneadmin_backend/internal/handlers"
)

// RegisterRoutes registers all HTTP routes.
func RegisterRoutes(ginRouter *gin.Engine, appHandlers *handlers.AppHandlers) {
	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	ginRouter.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := ginRouter.Group("/api/v1")
	{
		appHandlers.AuthHandler.RegisterRoutes(api)
		appHandlers.UserHandler.RegisterRoutes(api)
		appHandlers.NotificationHandler.RegisterRoutes(api)
		appHandlers.PaymentHandler.RegisterRoutes(api)
		appHandlers.DashboardHandler.RegisterRoutes(api)
		appHandlers.PhoneHandler.RegisterRoutes(api)
		appHandlers.AuditHandler.RegisterRoutes(api)
		appHandlers.ReportHandler.RegisterRoutes(api)
	}
}
