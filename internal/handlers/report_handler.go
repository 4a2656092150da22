package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"phoneadmin_backend/internal/auth"
	"phoneadmin_backend/internal/middleware"
	"phoneadmin_backend/internal/services"
	"phoneadmin_backend/internal/services/dto"
)

type ReportHandler struct {
	*BaseHandler
	reportService services.ReportService
}

func NewReportHandler(base *BaseHandler, reportService services.ReportService) *ReportHandler {
	return &ReportHandler{BaseHandler: base, reportService: reportService}
}

func (h *ReportHandler) RegisterRoutes(r *gin.RouterGroup) {
	reports := r.Group("/reports")
	reports.Use(middleware.AuthMiddleware())
	{
		reports.POST("", h.CreateReport)
		reports.GET("", h.ListReports)
		reports.GET("/:id", h.GetReport)
	}
}

func (h *ReportHandler) CreateReport(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateReportRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	report, err := h.reportService.CreateReport(h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, report)
}

func (h *ReportHandler) ListReports(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	page, pageSize := ParsePagination(c)

	resp, err := h.reportService.ListReports(h.GetDB(c), userID, middleware.GetRole(c) == auth.RoleAdmin, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReportHandler) GetReport(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	report, err := h.reportService.GetReport(h.GetDB(c), userID, c.Param("id"), middleware.GetRole(c) == auth.RoleAdmin)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
