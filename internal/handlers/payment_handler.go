package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"phoneadmin_backend/internal/auth"
	"phoneadmin_backend/internal/middleware"
	"phoneadmin_backend/internal/repositories"
	"phoneadmin_backend/internal/services"
	"phoneadmin_backend/internal/services/dto"
)

type PaymentHandler struct {
	*BaseHandler
	paymentService services.PaymentService
}

func NewPaymentHandler(base *BaseHandler, paymentService services.PaymentService) *PaymentHandler {
	return &PaymentHandler{BaseHandler: base, paymentService: paymentService}
}

func (h *PaymentHandler) RegisterRoutes(r *gin.RouterGroup) {
	payments := r.Group("/payments")
	payments.Use(middleware.AuthMiddleware())
	{
		payments.GET("/transactions", h.ListTransactions)
		payments.POST("/transactions/verify", h.VerifyPayment)

		admin := payments.Group("")
		admin.Use(middleware.AdminMiddleware())
		{
			admin.GET("/settings", h.GetSettings)
			admin.PUT("/settings", h.UpdateSettings)
			admin.POST("/settings/test-connection", h.TestConnection)
		}
	}
}

func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.VerifyPaymentRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	result, err := h.paymentService.VerifyPayment(c.Request.Context(), h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *PaymentHandler) ListTransactions(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var criteria repositories.TransactionCriteria
	if !h.BindAndValidate_Query(c, &criteria) {
		return
	}

	// Non-admins only see their own history.
	if middleware.GetRole(c) != auth.RoleAdmin {
		criteria.UserID = userID
	}

	resp, err := h.paymentService.ListTransactions(h.GetDB(c), criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PaymentHandler) GetSettings(c *gin.Context) {
	settings, err := h.paymentService.GetSettings(h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (h *PaymentHandler) UpdateSettings(c *gin.Context) {
	var req dto.UpdatePaymentSettingsRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	settings, err := h.paymentService.UpdateSettings(h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (h *PaymentHandler) TestConnection(c *gin.Context) {
	result, err := h.paymentService.TestConnection(c.Request.Context(), h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
