package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"phoneadmin_backend/internal/logger"
	"phoneadmin_backend/internal/services"
	"phoneadmin_backend/pkg/contextkeys"
)

// AuditMiddleware records the outcome of every authenticated mutating
// request. Runs after the handler so the final status is known.
func AuditMiddleware(auditService services.AuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		default:
			return
		}

		userID, ok := GetUserID(c)
		if !ok {
			return
		}

		db, ok := c.Get(string(contextkeys.DBContextKey))
		if !ok {
			return
		}
		gormDB, ok := db.(*gorm.DB)
		if !ok {
			return
		}

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}

		err := auditService.Record(gormDB, userID,
			strings.ToLower(c.Request.Method)+" "+route,
			modelNameFromRoute(route),
			c.Param("id"),
			map[string]interface{}{"status": c.Writer.Status()},
			c.ClientIP(),
			c.Request.UserAgent(),
		)
		if err != nil {
			logger.Warn("failed to write audit entry", "route", route, "error", err)
		}
	}
}

// modelNameFromRoute derives the audited entity from the first path
// segment after the API prefix.
func modelNameFromRoute(route string) string {
	parts := strings.Split(strings.TrimPrefix(route, "/api/v1/"), "/")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "unknown"
}
