package services

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"phoneadmin_backend/internal/models"
	"phoneadmin_backend/internal/repositories"
	"phoneadmin_backend/pkg/apperrors"
)

type AuditService interface {
	Record(db *gorm.DB, userID, action, modelName, objectID string, changes map[string]interface{}, ipAddress, userAgent string) error
	ListEntries(db *gorm.DB, criteria repositories.AuditCriteria) ([]models.AuditLog, int64, error)
	GetSetting(db *gorm.DB, key string) (*models.SystemSetting, error)
	SetSetting(db *gorm.DB, key, value, description string) (*models.SystemSetting, error)
}

type auditService struct {
	auditRepo repositories.AuditRepository
}

func NewAuditService(auditRepo repositories.AuditRepository) AuditService {
	return &auditService{auditRepo: auditRepo}
}

func (s *auditService) Record(db *gorm.DB, userID, action, modelName, objectID string, changes map[string]interface{}, ipAddress, userAgent string) error {
	entry := &models.AuditLog{
		UserID:    userID,
		Action:    action,
		ModelName: modelName,
		ObjectID:  objectID,
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}
	if len(changes) > 0 {
		if b, err := json.Marshal(changes); err == nil {
			entry.Changes = datatypes.JSON(b)
		}
	}
	return s.auditRepo.Create(db, entry)
}

func (s *auditService) ListEntries(db *gorm.DB, criteria repositories.AuditCriteria) ([]models.AuditLog, int64, error) {
	if criteria.Page < 1 {
		criteria.Page = 1
	}
	if criteria.PageSize < 1 || criteria.PageSize > 100 {
		criteria.PageSize = 20
	}

	entries, total, err := s.auditRepo.FindAll(db, criteria)
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}
	return entries, total, nil
}

func (s *auditService) GetSetting(db *gorm.DB, key string) (*models.SystemSetting, error) {
	setting, err := s.auditRepo.GetSetting(db, key)
	if err != nil {
		if apperrors.Is(err, repositories.ErrSettingNotFound) {
			return nil, apperrors.NewNotFoundError("system_setting", "Setting not found")
		}
		return nil, apperrors.InternalError(err)
	}
	return setting, nil
}

func (s *auditService) SetSetting(db *gorm.DB, key, value, description string) (*models.SystemSetting, error) {
	setting := &models.SystemSetting{Key: key, Value: value, Description: description}
	if err := s.auditRepo.UpsertSetting(db, setting); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return s.auditRepo.GetSetting(db, key)
}
