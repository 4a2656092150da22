package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"phoneadmin_backend/internal/middleware"
	"phoneadmin_backend/internal/models"
	"phoneadmin_backend/internal/repositories"
	"phoneadmin_backend/internal/services"
	"phoneadmin_backend/internal/services/dto"
)

type UserHandler struct {
	*BaseHandler
	userService services.UserService
}

func NewUserHandler(base *BaseHandler, userService services.UserService) *UserHandler {
	return &UserHandler{BaseHandler: base, userService: userService}
}

func (h *UserHandler) RegisterRoutes(r *gin.RouterGroup) {
	users := r.Group("/users")
	users.Use(middleware.AuthMiddleware())
	{
		users.GET("", middleware.RequireRoles(models.UserRoleAdmin, models.UserRoleManager), h.ListUsers)
		users.GET("/:id", middleware.RequireRoles(models.UserRoleAdmin, models.UserRoleManager), h.GetUser)
		users.GET("/:id/activity", middleware.RequireRoles(models.UserRoleAdmin, models.UserRoleManager), h.GetUserActivity)

		admin := users.Group("")
		admin.Use(middleware.AdminMiddleware())
		{
			admin.POST("", h.CreateUser)
			admin.PUT("/:id", h.UpdateUser)
			admin.DELETE("/:id", h.DeleteUser)
			admin.POST("/bulk-delete", h.BulkDeleteUsers)
		}
	}
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	var filter repositories.UserFilter
	if !h.BindAndValidate_Query(c, &filter) {
		return
	}

	resp, err := h.userService.ListUsers(h.GetDB(c), filter)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userService.GetUser(h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) GetUserActivity(c *gin.Context) {
	page, pageSize := ParsePagination(c)

	entries, total, err := h.userService.GetUserActivity(h.GetDB(c), c.Param("id"), page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"entries":   entries,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	user, err := h.userService.CreateUser(h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	actorID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	user, err := h.userService.UpdateUser(h.GetDB(c), actorID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	actorID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.userService.DeleteUser(h.GetDB(c), actorID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *UserHandler) BulkDeleteUsers(c *gin.Context) {
	actorID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.BulkDeleteRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	deleted, err := h.userService.BulkDeleteUsers(h.GetDB(c), actorID, req.UserIDs)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "deleted": deleted})
}
