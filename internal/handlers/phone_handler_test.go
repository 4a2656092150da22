package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"phoneadmin_backend/internal/checkapi"
	"phoneadmin_backend/internal/models"
	"phoneadmin_backend/internal/services/dto"
	"phoneadmin_backend/internal/validator"
	"phoneadmin_backend/pkg/contextkeys"
)

// fakePhoneService records relay calls; the handler's local validation
// must decide whether it is reached at all.
type fakePhoneService struct {
	calls    map[string]int
	lastBody []byte
	resp     *checkapi.Response
}

func newFakePhoneService() *fakePhoneService {
	return &fakePhoneService{
		calls: make(map[string]int),
		resp:  &checkapi.Response{StatusCode: http.StatusOK, Body: []byte(`{"success":true}`)},
	}
}

func (f *fakePhoneService) record(endpoint string, body []byte) (*checkapi.Response, error) {
	f.calls[endpoint]++
	f.lastBody = body
	return f.resp, nil
}

func (f *fakePhoneService) Check(_ context.Context, _ *gorm.DB, body []byte) (*checkapi.Response, error) {
	return f.record("check", body)
}

func (f *fakePhoneService) Register(_ context.Context, _ *gorm.DB, body []byte) (*checkapi.Response, error) {
	return f.record("register", body)
}

func (f *fakePhoneService) BulkRegister(_ context.Context, _ *gorm.DB, body []byte) (*checkapi.Response, error) {
	return f.record("bulk_register", body)
}

func (f *fakePhoneService) List(_ context.Context, _ *gorm.DB, _ url.Values) (*checkapi.Response, error) {
	return f.record("list", nil)
}

func (f *fakePhoneService) Analytics(_ context.Context, _ *gorm.DB, _ url.Values) (*checkapi.Response, error) {
	return f.record("analytics", nil)
}

func (f *fakePhoneService) Cleanup(_ context.Context, _ *gorm.DB, body []byte) (*checkapi.Response, error) {
	return f.record("cleanup", body)
}

func (f *fakePhoneService) AnalyzeSpam(_ context.Context, _ *gorm.DB, body []byte) (*checkapi.Response, error) {
	return f.record("analyze_spam", body)
}

func (f *fakePhoneService) GetConfig(_ *gorm.DB) (*models.CheckAPIConfig, error) {
	return &models.CheckAPIConfig{}, nil
}

func (f *fakePhoneService) UpdateConfig(_ *gorm.DB, _ *dto.UpdateCheckAPIConfigRequest) (*models.CheckAPIConfig, error) {
	return &models.CheckAPIConfig{}, nil
}

func setupPhoneRouter(svc *fakePhoneService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(string(contextkeys.DBContextKey), &gorm.DB{})
	})

	h := NewPhoneHandler(NewBaseHandler(validator.New()), svc)
	router.POST("/phone/check", h.Check)
	router.POST("/phone/register", h.Register)
	router.POST("/phone/bulk-register", h.BulkRegister)
	router.DELETE("/phone/cleanup", h.Cleanup)
	router.POST("/analyze-spam", h.AnalyzeSpam)
	return router
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestBulkRegisterAcceptsPlainNumberArray(t *testing.T) {
	svc := newFakePhoneService()
	router := setupPhoneRouter(svc)

	payload := `{"phone_numbers":["+15551234567","+15557654321"]}`
	w := doJSON(router, http.MethodPost, "/phone/bulk-register", payload)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, svc.calls["bulk_register"])
	assert.Equal(t, payload, string(svc.lastBody), "the original body is relayed untouched")
}

func TestBulkRegisterRequiresNumbers(t *testing.T) {
	svc := newFakePhoneService()
	router := setupPhoneRouter(svc)

	w := doJSON(router, http.MethodPost, "/phone/bulk-register", `{}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "phone_numbers array is required")
	assert.Zero(t, svc.calls["bulk_register"])
}

func TestBulkRegisterEnforcesBatchLimit(t *testing.T) {
	svc := newFakePhoneService()
	router := setupPhoneRouter(svc)

	numbers := make([]string, 0, 1001)
	for i := 0; i < 1001; i++ {
		numbers = append(numbers, `"+1555"`)
	}
	payload := `{"phone_numbers":[` + strings.Join(numbers, ",") + `]}`
	w := doJSON(router, http.MethodPost, "/phone/bulk-register", payload)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Maximum 1000 phone numbers")
	assert.Zero(t, svc.calls["bulk_register"])
}

func TestCheckRequiresPhoneNumber(t *testing.T) {
	svc := newFakePhoneService()
	router := setupPhoneRouter(svc)

	w := doJSON(router, http.MethodPost, "/phone/check", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "phone_number is required")
	assert.Zero(t, svc.calls["check"])

	w = doJSON(router, http.MethodPost, "/phone/check", `{"phone_number":"+15551234567"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, svc.calls["check"])
}

func TestRegisterRequiresAllFields(t *testing.T) {
	svc := newFakePhoneService()
	router := setupPhoneRouter(svc)

	// session_string missing.
	partial := `{"phone_number":"+15551234567","botname":"b","country":"US","iso2":"US","twofa":"x"}`
	w := doJSON(router, http.MethodPost, "/phone/register", partial)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "session_string is required")
	assert.Zero(t, svc.calls["register"])

	full := `{"phone_number":"+15551234567","botname":"b","country":"US","iso2":"US","twofa":"x","session_string":"s"}`
	w = doJSON(router, http.MethodPost, "/phone/register", full)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, svc.calls["register"])
	assert.Equal(t, full, string(svc.lastBody))
}

func TestCleanupRequiresRetentionDays(t *testing.T) {
	svc := newFakePhoneService()
	router := setupPhoneRouter(svc)

	w := doJSON(router, http.MethodDelete, "/phone/cleanup", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "retention_days is required")
	assert.Zero(t, svc.calls["cleanup"])

	w = doJSON(router, http.MethodDelete, "/phone/cleanup", `{"retention_days":30}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, svc.calls["cleanup"])
}

func TestAnalyzeSpamRequiresMessage(t *testing.T) {
	svc := newFakePhoneService()
	router := setupPhoneRouter(svc)

	w := doJSON(router, http.MethodPost, "/analyze-spam", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "message is required")
	assert.Zero(t, svc.calls["analyze_spam"])

	w = doJSON(router, http.MethodPost, "/analyze-spam", `{"message":"account blocked"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, svc.calls["analyze_spam"])
}

func TestUpstreamStatusIsRelayedVerbatim(t *testing.T) {
	svc := newFakePhoneService()
	svc.resp = &checkapi.Response{
		StatusCode:  http.StatusUnprocessableEntity,
		ContentType: "application/json",
		Body:        []byte(`{"error":"invalid number"}`),
	}
	router := setupPhoneRouter(svc)

	w := doJSON(router, http.MethodPost, "/phone/check", `{"phone_number":"bad"}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, `{"error":"invalid number"}`, w.Body.String())
}
