package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"phoneadmin_backend/internal/checkapi"
	"phoneadmin_backend/internal/middleware"
	"phoneadmin_backend/internal/models"
	"phoneadmin_backend/internal/services"
	"phoneadmin_backend/internal/services/dto"
	"phoneadmin_backend/pkg/apperrors"
)

// PhoneHandler proxies the phone registry endpoints. Upstream status and
// body are relayed verbatim.
type PhoneHandler struct {
	*BaseHandler
	phoneService services.PhoneService
}

func NewPhoneHandler(base *BaseHandler, phoneService services.PhoneService) *PhoneHandler {
	return &PhoneHandler{BaseHandler: base, phoneService: phoneService}
}

func (h *PhoneHandler) RegisterRoutes(r *gin.RouterGroup) {
	phone := r.Group("/phone")
	phone.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.UserRoleAdmin, models.UserRoleManager))
	{
		phone.POST("/check", h.Check)
		phone.POST("/register", h.Register)
		phone.POST("/bulk-register", h.BulkRegister)
		phone.GET("/list", h.List)
		phone.GET("/analytics", h.Analytics)
		phone.DELETE("/cleanup", h.Cleanup)
		phone.POST("/analyze-spam", h.AnalyzeSpam)

		admin := phone.Group("/config")
		admin.Use(middleware.AdminMiddleware())
		{
			admin.GET("", h.GetConfig)
			admin.PUT("", h.UpdateConfig)
		}
	}
}

func (h *PhoneHandler) rawBody(c *gin.Context) ([]byte, bool) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Unable to read request body"))
		return nil, false
	}
	return body, true
}

func (h *PhoneHandler) relay(c *gin.Context, resp *checkapi.Response) {
	contentType := resp.ContentType
	if contentType == "" {
		contentType = "application/json"
	}
	c.Data(resp.StatusCode, contentType, resp.Body)
}

func (h *PhoneHandler) decodeBody(c *gin.Context, body []byte, out interface{}) bool {
	if err := json.Unmarshal(body, out); err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid request body: "+err.Error()))
		return false
	}
	return true
}

func (h *PhoneHandler) Check(c *gin.Context) {
	body, ok := h.rawBody(c)
	if !ok {
		return
	}

	var req dto.CheckPhoneRequest
	if !h.decodeBody(c, body, &req) {
		return
	}
	if req.PhoneNumber == "" {
		apperrors.HandleError(c, apperrors.NewBadRequestError("phone_number is required"))
		return
	}

	resp, err := h.phoneService.Check(c.Request.Context(), h.GetDB(c), body)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.relay(c, resp)
}

// registerRequiredFields must be present in a register payload; the
// upstream validates their contents.
var registerRequiredFields = []string{"phone_number", "botname", "country", "iso2", "twofa", "session_string"}

func (h *PhoneHandler) Register(c *gin.Context) {
	body, ok := h.rawBody(c)
	if !ok {
		return
	}

	var fields map[string]json.RawMessage
	if !h.decodeBody(c, body, &fields) {
		return
	}
	for _, field := range registerRequiredFields {
		if _, present := fields[field]; !present {
			apperrors.HandleError(c, apperrors.NewBadRequestError(field+" is required"))
			return
		}
	}

	resp, err := h.phoneService.Register(c.Request.Context(), h.GetDB(c), body)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.relay(c, resp)
}

func (h *PhoneHandler) BulkRegister(c *gin.Context) {
	body, ok := h.rawBody(c)
	if !ok {
		return
	}

	// The batch limit is enforced locally; everything else is the
	// upstream's to validate.
	var req dto.BulkRegisterRequest
	if !h.decodeBody(c, body, &req) {
		return
	}
	if len(req.PhoneNumbers) == 0 {
		apperrors.HandleError(c, apperrors.NewBadRequestError("phone_numbers array is required"))
		return
	}
	if len(req.PhoneNumbers) > 1000 {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Maximum 1000 phone numbers allowed per request"))
		return
	}

	resp, err := h.phoneService.BulkRegister(c.Request.Context(), h.GetDB(c), body)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.relay(c, resp)
}

func (h *PhoneHandler) List(c *gin.Context) {
	resp, err := h.phoneService.List(c.Request.Context(), h.GetDB(c), c.Request.URL.Query())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.relay(c, resp)
}

func (h *PhoneHandler) Analytics(c *gin.Context) {
	resp, err := h.phoneService.Analytics(c.Request.Context(), h.GetDB(c), c.Request.URL.Query())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.relay(c, resp)
}

func (h *PhoneHandler) Cleanup(c *gin.Context) {
	body, ok := h.rawBody(c)
	if !ok {
		return
	}

	var req dto.CleanupRequest
	if !h.decodeBody(c, body, &req) {
		return
	}
	if req.RetentionDays == 0 {
		apperrors.HandleError(c, apperrors.NewBadRequestError("retention_days is required"))
		return
	}

	resp, err := h.phoneService.Cleanup(c.Request.Context(), h.GetDB(c), body)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.relay(c, resp)
}

func (h *PhoneHandler) AnalyzeSpam(c *gin.Context) {
	body, ok := h.rawBody(c)
	if !ok {
		return
	}

	var req dto.AnalyzeSpamRequest
	if !h.decodeBody(c, body, &req) {
		return
	}
	if req.Message == "" {
		apperrors.HandleError(c, apperrors.NewBadRequestError("message is required"))
		return
	}

	resp, err := h.phoneService.AnalyzeSpam(c.Request.Context(), h.GetDB(c), body)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.relay(c, resp)
}

func (h *PhoneHandler) GetConfig(c *gin.Context) {
	cfg, err := h.phoneService.GetConfig(h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

func (h *PhoneHandler) UpdateConfig(c *gin.Context) {
	var req dto.UpdateCheckAPIConfigRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	cfg, err := h.phoneService.UpdateConfig(h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}
