package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"phoneadmin_backend/internal/middleware"
	"phoneadmin_backend/internal/repositories"
	"phoneadmin_backend/internal/services"
	"phoneadmin_backend/pkg/apperrors"
)

type AuditHandler struct {
	*BaseHandler
	auditService services.AuditService
}

func NewAuditHandler(base *BaseHandler, auditService services.AuditService) *AuditHandler {
	return &AuditHandler{BaseHandler: base, auditService: auditService}
}

func (h *AuditHandler) RegisterRoutes(r *gin.RouterGroup) {
	admin := r.Group("")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		admin.GET("/audit", h.ListEntries)
		admin.GET("/settings/:key", h.GetSetting)
		admin.PUT("/settings/:key", h.SetSetting)
	}
}

func (h *AuditHandler) ListEntries(c *gin.Context) {
	var criteria repositories.AuditCriteria
	if !h.BindAndValidate_Query(c, &criteria) {
		return
	}

	entries, total, err := h.auditService.ListEntries(h.GetDB(c), criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"entries": entries,
		"total":   total,
	})
}

func (h *AuditHandler) GetSetting(c *gin.Context) {
	setting, err := h.auditService.GetSetting(h.GetDB(c), c.Param("key"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, setting)
}

type setSettingRequest struct {
	Value       string `json:"value" validate:"required"`
	Description string `json:"description" validate:"omitempty,max=500"`
}

func (h *AuditHandler) SetSetting(c *gin.Context) {
	key := c.Param("key")
	if key == "" {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Missing setting key"))
		return
	}

	var req setSettingRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	setting, err := h.auditService.SetSetting(h.GetDB(c), key, req.Value, req.Description)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, setting)
}
