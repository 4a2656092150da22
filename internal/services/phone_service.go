package services

import (
	"context"
	"errors"
	"net/url"
	"os"
	"strconv"

	"gorm.io/gorm"

	"phoneadmin_backend/internal/checkapi"
	"phoneadmin_backend/internal/config"
	"phoneadmin_backend/internal/logger"
	"phoneadmin_backend/internal/metrics"
	"phoneadmin_backend/internal/models"
	"phoneadmin_backend/internal/repositories"
	"phoneadmin_backend/internal/services/dto"
	"phoneadmin_backend/pkg/apperrors"
)

// PhoneService relays phone registry calls to the upstream Check API.
// Upstream responses are passed back verbatim; this layer only resolves
// credentials and observes outcomes, required-field checks happen in the
// handlers before the body is relayed.
type PhoneService interface {
	Check(ctx context.Context, db *gorm.DB, body []byte) (*checkapi.Response, error)
	Register(ctx context.Context, db *gorm.DB, body []byte) (*checkapi.Response, error)
	BulkRegister(ctx context.Context, db *gorm.DB, body []byte) (*checkapi.Response, error)
	List(ctx context.Context, db *gorm.DB, query url.Values) (*checkapi.Response, error)
	Analytics(ctx context.Context, db *gorm.DB, query url.Values) (*checkapi.Response, error)
	Cleanup(ctx context.Context, db *gorm.DB, body []byte) (*checkapi.Response, error)
	AnalyzeSpam(ctx context.Context, db *gorm.DB, body []byte) (*checkapi.Response, error)

	GetConfig(db *gorm.DB) (*models.CheckAPIConfig, error)
	UpdateConfig(db *gorm.DB, req *dto.UpdateCheckAPIConfigRequest) (*models.CheckAPIConfig, error)
}

type phoneService struct {
	checkAPIRepo repositories.CheckAPIRepository
}

func NewPhoneService(checkAPIRepo repositories.CheckAPIRepository) PhoneService {
	return &phoneService{checkAPIRepo: checkAPIRepo}
}

// client resolves connection settings, preferring the active DB row and
// falling back to the config file.
func (s *phoneService) client(db *gorm.DB) (*checkapi.Client, error) {
	cfg, err := s.checkAPIRepo.GetActiveConfig(db)
	if err == nil {
		return checkapi.NewClient(cfg.BaseURL, cfg.APIKey), nil
	}
	if !apperrors.Is(err, repositories.ErrCheckAPIConfigNotFound) {
		return nil, apperrors.InternalError(err)
	}

	fileCfg := config.GetConfig().CheckAPI
	if fileCfg.APIKey == "" {
		return nil, apperrors.ErrInvalidOperation("phone_registry", "Check API is not configured")
	}
	return checkapi.NewClient(fileCfg.BaseURL, fileCfg.APIKey), nil
}

func (s *phoneService) relayPost(ctx context.Context, db *gorm.DB, endpoint, path string, body []byte) (*checkapi.Response, error) {
	client, err := s.client(db)
	if err != nil {
		return nil, err
	}
	resp, err := client.Post(ctx, path, body)
	return s.observe(endpoint, resp, err)
}

func (s *phoneService) relayGet(ctx context.Context, db *gorm.DB, endpoint, path string, query url.Values) (*checkapi.Response, error) {
	client, err := s.client(db)
	if err != nil {
		return nil, err
	}
	resp, err := client.Get(ctx, path, query)
	return s.observe(endpoint, resp, err)
}

func (s *phoneService) observe(endpoint string, resp *checkapi.Response, err error) (*checkapi.Response, error) {
	if err != nil {
		logger.Error("check api relay failed", "endpoint", endpoint, "error", err)
		metrics.RegistryProxyRequests.WithLabelValues(endpoint, "error").Inc()
		if isTimeout(err) {
			return nil, apperrors.ErrCheckAPITimeout.WithError(err)
		}
		return nil, apperrors.ErrCheckAPIUnavailable.WithError(err)
	}
	metrics.RegistryProxyRequests.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()
	return resp, nil
}

func isTimeout(err error) bool {
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, os.ErrDeadlineExceeded) || errors.Is(err, context.DeadlineExceeded)
}

func (s *phoneService) Check(ctx context.Context, db *gorm.DB, body []byte) (*checkapi.Response, error) {
	return s.relayPost(ctx, db, "check", "/phone/check", body)
}

func (s *phoneService) Register(ctx context.Context, db *gorm.DB, body []byte) (*checkapi.Response, error) {
	return s.relayPost(ctx, db, "register", "/phone/register", body)
}

func (s *phoneService) BulkRegister(ctx context.Context, db *gorm.DB, body []byte) (*checkapi.Response, error) {
	return s.relayPost(ctx, db, "bulk_register", "/phone/bulk-register", body)
}

func (s *phoneService) List(ctx context.Context, db *gorm.DB, query url.Values) (*checkapi.Response, error) {
	return s.relayGet(ctx, db, "list", "/phone/list", query)
}

func (s *phoneService) Analytics(ctx context.Context, db *gorm.DB, query url.Values) (*checkapi.Response, error) {
	return s.relayGet(ctx, db, "analytics", "/phone/analytics", query)
}

func (s *phoneService) Cleanup(ctx context.Context, db *gorm.DB, body []byte) (*checkapi.Response, error) {
	client, err := s.client(db)
	if err != nil {
		return nil, err
	}
	resp, err := client.Delete(ctx, "/phone/cleanup", body)
	return s.observe("cleanup", resp, err)
}

func (s *phoneService) AnalyzeSpam(ctx context.Context, db *gorm.DB, body []byte) (*checkapi.Response, error) {
	return s.relayPost(ctx, db, "analyze_spam", "/analyze-spam", body)
}

func (s *phoneService) GetConfig(db *gorm.DB) (*models.CheckAPIConfig, error) {
	cfg, err := s.checkAPIRepo.GetActiveConfig(db)
	if err != nil {
		if apperrors.Is(err, repositories.ErrCheckAPIConfigNotFound) {
			return nil, apperrors.NewNotFoundError("phone_registry", "Check API config not found")
		}
		return nil, apperrors.InternalError(err)
	}
	return cfg, nil
}

func (s *phoneService) UpdateConfig(db *gorm.DB, req *dto.UpdateCheckAPIConfigRequest) (*models.CheckAPIConfig, error) {
	cfg, err := s.checkAPIRepo.GetActiveConfig(db)
	if err != nil {
		if !apperrors.Is(err, repositories.ErrCheckAPIConfigNotFound) {
			return nil, apperrors.InternalError(err)
		}
		fileCfg := config.GetConfig().CheckAPI
		cfg = &models.CheckAPIConfig{
			Name:     "default",
			BaseURL:  fileCfg.BaseURL,
			APIKey:   fileCfg.APIKey,
			IsActive: true,
		}
	}

	if req.APIKey != nil {
		cfg.APIKey = *req.APIKey
	}
	if req.BaseURL != nil {
		cfg.BaseURL = *req.BaseURL
	}
	if req.IsActive != nil {
		cfg.IsActive = *req.IsActive
	}

	if err := s.checkAPIRepo.UpsertConfig(db, cfg); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return cfg, nil
}
