package repositories

import (
	"errors"
	"time"

	"phoneadmin_backend/internal/models"

	"gorm.io/gorm"
)

var ErrRefreshTokenNotFound = errors.New("refresh token not found")

type RefreshTokenRepository interface {
	Create(db *gorm.DB, token *models.RefreshToken) error
	FindByToken(db *gorm.DB, tokenString string) (*models.RefreshToken, error)
	DeleteByToken(db *gorm.DB, tokenString string) error
	DeleteByUserID(db *gorm.DB, userID string) error
	CleanExpired(db *gorm.DB) error
}

type refreshTokenRepository struct{}

func NewRefreshTokenRepository() RefreshTokenRepository {
	return &refreshTokenRepository{}
}

func (r *refreshTokenRepository) Create(db *gorm.DB, token *models.RefreshToken) error {
	return db.Create(token).Error
}

func (r *refreshTokenRepository) FindByToken(db *gorm.DB, tokenString string) (*models.RefreshToken, error) {
	var token models.RefreshToken
	if err := db.Where("token = ?", tokenString).First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRefreshTokenNotFound
		}
		return nil, err
	}
	return &token, nil
}

func (r *refreshTokenRepository) DeleteByToken(db *gorm.DB, tokenString string) error {
	return db.Delete(&models.RefreshToken{}, "token = ?", tokenString).Error
}

func (r *refreshTokenRepository) DeleteByUserID(db *gorm.DB, userID string) error {
	return db.Delete(&models.RefreshToken{}, "user_id = ?", userID).Error
}

func (r *refreshTokenRepository) CleanExpired(db *gorm.DB) error {
	return db.Delete(&models.RefreshToken{}, "expires_at < ?", time.Now()).Error
}
