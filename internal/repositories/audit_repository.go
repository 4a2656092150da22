package repositories

import (
	"errors"

	"phoneadmin_backend/internal/models"

	"gorm.io/gorm"
)

var ErrSettingNotFound = errors.New("system setting not found")

// AuditCriteria filters the audit log listing.
type AuditCriteria struct {
	UserID    string `form:"user_id"`
	Action    string `form:"action"`
	ModelName string `form:"model_name"`
	Page      int    `form:"page"`
	PageSize  int    `form:"page_size"`
}

type AuditRepository interface {
	Create(db *gorm.DB, entry *models.AuditLog) error
	FindAll(db *gorm.DB, criteria AuditCriteria) ([]models.AuditLog, int64, error)

	// System settings
	GetSetting(db *gorm.DB, key string) (*models.SystemSetting, error)
	UpsertSetting(db *gorm.DB, setting *models.SystemSetting) error
}

type auditRepository struct{}

func NewAuditRepository() AuditRepository {
	return &auditRepository{}
}

func (r *auditRepository) Create(db *gorm.DB, entry *models.AuditLog) error {
	return db.Create(entry).Error
}

func (r *auditRepository) FindAll(db *gorm.DB, criteria AuditCriteria) ([]models.AuditLog, int64, error) {
	query := db.Model(&models.AuditLog{})

	if criteria.UserID != "" {
		query = query.Where("user_id = ?", criteria.UserID)
	}
	if criteria.Action != "" {
		query = query.Where("action = ?", criteria.Action)
	}
	if criteria.ModelName != "" {
		query = query.Where("model_name = ?", criteria.ModelName)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []models.AuditLog
	err := query.Order("created_at DESC").
		Offset((criteria.Page - 1) * criteria.PageSize).
		Limit(criteria.PageSize).
		Find(&entries).Error
	return entries, total, err
}

func (r *auditRepository) GetSetting(db *gorm.DB, key string) (*models.SystemSetting, error) {
	var setting models.SystemSetting
	if err := db.First(&setting, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSettingNotFound
		}
		return nil, err
	}
	return &setting, nil
}

func (r *auditRepository) UpsertSetting(db *gorm.DB, setting *models.SystemSetting) error {
	var existing models.SystemSetting
	err := db.First(&existing, "key = ?", setting.Key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return db.Create(setting).Error
	}
	if err != nil {
		return err
	}

	existing.Value = setting.Value
	if setting.Description != "" {
		existing.Description = setting.Description
	}
	return db.Save(&existing).Error
}
