package repositories

import (
	"errors"

	"phoneadmin_backend/internal/models"

	"gorm.io/gorm"
)

var ErrCheckAPIConfigNotFound = errors.New("check api config not found")

type CheckAPIRepository interface {
	GetActiveConfig(db *gorm.DB) (*models.CheckAPIConfig, error)
	UpsertConfig(db *gorm.DB, config *models.CheckAPIConfig) error
}

type checkAPIRepository struct{}

func NewCheckAPIRepository() CheckAPIRepository {
	return &checkAPIRepository{}
}

func (r *checkAPIRepository) GetActiveConfig(db *gorm.DB) (*models.CheckAPIConfig, error) {
	var config models.CheckAPIConfig
	err := db.Where("is_active = ?", true).Order("created_at ASC").First(&config).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCheckAPIConfigNotFound
	}
	if err != nil {
		return nil, err
	}
	return &config, nil
}

func (r *checkAPIRepository) UpsertConfig(db *gorm.DB, config *models.CheckAPIConfig) error {
	var existing models.CheckAPIConfig
	err := db.First(&existing, "name = ?", config.Name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return db.Create(config).Error
	}
	if err != nil {
		return err
	}

	existing.APIKey = config.APIKey
	existing.BaseURL = config.BaseURL
	existing.IsActive = config.IsActive
	if err := db.Save(&existing).Error; err != nil {
		return err
	}
	*config = existing
	return nil
}
