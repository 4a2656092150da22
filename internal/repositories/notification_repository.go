package repositories

import (
	"errors"
	"time"

	"phoneadmin_backend/internal/models"

	"gorm.io/gorm"
)

var ErrNotificationNotFound = errors.New("notification not found")

// NotificationCriteria filters a user's notification listing.
type NotificationCriteria struct {
	IsRead   *bool  `form:"is_read"`
	Type     string `form:"type"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// NotificationStats summarizes a user's inbox.
type NotificationStats struct {
	Total  int64 `json:"total"`
	Unread int64 `json:"unread"`
}

type NotificationRepository interface {
	Create(db *gorm.DB, notification *models.Notification) error
	CreateBulk(db *gorm.DB, notifications []*models.Notification) error
	FindByID(db *gorm.DB, id string) (*models.Notification, error)
	FindUserNotifications(db *gorm.DB, userID string, criteria NotificationCriteria) ([]models.Notification, int64, error)
	MarkAsRead(db *gorm.DB, notificationID string) error
	MarkAllAsRead(db *gorm.DB, userID string) (int64, error)
	Delete(db *gorm.DB, notificationID string) error
	GetUnreadCount(db *gorm.DB, userID string) (int64, error)
	GetUserStats(db *gorm.DB, userID string) (*NotificationStats, error)
	CleanOld(db *gorm.DB, days int) error
}

type notificationRepository struct{}

func NewNotificationRepository() NotificationRepository {
	return &notificationRepository{}
}

func (r *notificationRepository) Create(db *gorm.DB, notification *models.Notification) error {
	return db.Create(notification).Error
}

func (r *notificationRepository) CreateBulk(db *gorm.DB, notifications []*models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return db.CreateInBatches(notifications, 500).Error
}

func (r *notificationRepository) FindByID(db *gorm.DB, id string) (*models.Notification, error) {
	var notification models.Notification
	if err := db.First(&notification, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	return &notification, nil
}

func (r *notificationRepository) FindUserNotifications(db *gorm.DB, userID string, criteria NotificationCriteria) ([]models.Notification, int64, error) {
	query := db.Model(&models.Notification{}).Where("user_id = ?", userID)

	if criteria.IsRead != nil {
		query = query.Where("is_read = ?", *criteria.IsRead)
	}
	if criteria.Type != "" {
		query = query.Where("type = ?", criteria.Type)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notifications []models.Notification
	err := query.Order("created_at DESC").
		Offset((criteria.Page - 1) * criteria.PageSize).
		Limit(criteria.PageSize).
		Find(&notifications).Error
	return notifications, total, err
}

func (r *notificationRepository) MarkAsRead(db *gorm.DB, notificationID string) error {
	now := time.Now()
	result := db.Model(&models.Notification{}).
		Where("id = ?", notificationID).
		Updates(map[string]interface{}{"is_read": true, "read_at": now})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (r *notificationRepository) MarkAllAsRead(db *gorm.DB, userID string) (int64, error) {
	now := time.Now()
	result := db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": now})
	return result.RowsAffected, result.Error
}

func (r *notificationRepository) Delete(db *gorm.DB, notificationID string) error {
	result := db.Delete(&models.Notification{}, "id = ?", notificationID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (r *notificationRepository) GetUnreadCount(db *gorm.DB, userID string) (int64, error) {
	var count int64
	err := db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (r *notificationRepository) GetUserStats(db *gorm.DB, userID string) (*NotificationStats, error) {
	stats := &NotificationStats{}

	if err := db.Model(&models.Notification{}).Where("user_id = ?", userID).Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&stats.Unread).Error; err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *notificationRepository) CleanOld(db *gorm.DB, days int) error {
	cutoff := time.Now().AddDate(0, 0, -days)
	return db.Delete(&models.Notification{}, "is_read = ? AND created_at < ?", true, cutoff).Error
}
