package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"phoneadmin_backend/internal/auth"
	"phoneadmin_backend/internal/logger"
	"phoneadmin_backend/internal/models"
)

// AuthMiddleware validates the bearer token and stores the claims.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header missing or invalid"})
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := auth.ParseToken(tokenStr)
		if err != nil {
			msg := "Invalid token"
			if err == auth.ErrTokenExpired {
				msg = "Token expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("role", claims.Role)

		ctx := logger.WithUserID(c.Request.Context(), claims.UserID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireRoles allows only the listed roles past.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	roleSet := make(map[models.UserRole]bool, len(roles))
	for _, r := range roles {
		roleSet[r] = true
	}

	return func(c *gin.Context) {
		roleVal, exists := c.Get("role")
		if !exists {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied: no role"})
			return
		}

		roleStr, ok := roleVal.(string)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied: invalid role type"})
			return
		}

		if !roleSet[models.UserRole(roleStr)] {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied: insufficient permissions"})
			return
		}
		c.Next()
	}
}

// AdminMiddleware shortcuts RequireRoles for admin-only routes.
func AdminMiddleware() gin.HandlerFunc {
	return RequireRoles(models.UserRoleAdmin)
}

// GetUserID returns the authenticated user id from the gin context.
func GetUserID(c *gin.Context) (string, bool) {
	val, exists := c.Get("userID")
	if !exists {
		return "", false
	}
	id, ok := val.(string)
	return id, ok
}

// GetRole returns the authenticated user's role from the gin context.
func GetRole(c *gin.Context) string {
	val, exists := c.Get("role")
	if !exists {
		return ""
	}
	role, _ := val.(string)
	return role
}
