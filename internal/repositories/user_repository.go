package repositories

import (
	"errors"
	"strings"
	"time"

	"phoneadmin_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)

// UserFilter narrows admin user listings.
type UserFilter struct {
	Role     models.UserRole `form:"role"`
	IsActive *bool           `form:"is_active"`
	Search   string          `form:"search"`
	OrderBy  string          `form:"order_by"`
	Page     int             `form:"page"`
	PageSize int             `form:"page_size"`
}

// UserStats feeds the dashboard KPI endpoint.
type UserStats struct {
	TotalUsers    int64 `json:"total_users"`
	ActiveUsers   int64 `json:"active_users"`
	InactiveUsers int64 `json:"inactive_users"`
	NewUsers30d   int64 `json:"new_users_30d"`
}

// DailyCount is one point of the user-growth chart.
type DailyCount struct {
	Date  string `json:"date"`
	Users int64  `json:"users"`
}

type UserRepository interface {
	FindByID(db *gorm.DB, id string) (*models.User, error)
	FindByEmail(db *gorm.DB, email string) (*models.User, error)
	FindByResetToken(db *gorm.DB, token string) (*models.User, error)
	Create(db *gorm.DB, user *models.User) error
	Update(db *gorm.DB, user *models.User) error
	Delete(db *gorm.DB, userID string) error
	BulkDelete(db *gorm.DB, userIDs []string) (int64, error)
	FindWithFilter(db *gorm.DB, criteria UserFilter) ([]models.User, int64, error)
	UpdateLastLogin(db *gorm.DB, userID string) error

	// Dashboard aggregates
	GetUserStats(db *gorm.DB) (*UserStats, error)
	GetDailySignups(db *gorm.DB, days int) ([]DailyCount, error)
	CountByRole(db *gorm.DB) (map[string]int64, error)

	// Activity log
	CreateActivityLog(db *gorm.DB, log *models.ActivityLog) error
	FindUserActivity(db *gorm.DB, userID string, page, pageSize int) ([]models.ActivityLog, int64, error)
	FindRecentActivity(db *gorm.DB, limit int) ([]models.ActivityLog, error)
}

type userRepository struct{}

func NewUserRepository() UserRepository {
	return &userRepository{}
}

func (r *userRepository) FindByID(db *gorm.DB, id string) (*models.User, error) {
	var user models.User
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(db *gorm.DB, email string) (*models.User, error) {
	var user models.User
	if err := db.First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByResetToken(db *gorm.DB, token string) (*models.User, error) {
	var user models.User
	err := db.Where("reset_token = ? AND reset_token_exp > ?", token, time.Now()).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Create(db *gorm.DB, user *models.User) error {
	var existing models.User
	if err := db.Where("email = ?", user.Email).First(&existing).Error; err == nil {
		return ErrUserAlreadyExists
	}
	if err := db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrUserAlreadyExists
		}
		return err
	}
	return nil
}

func (r *userRepository) Update(db *gorm.DB, user *models.User) error {
	return db.Save(user).Error
}

func (r *userRepository) Delete(db *gorm.DB, userID string) error {
	result := db.Delete(&models.User{}, "id = ?", userID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *userRepository) BulkDelete(db *gorm.DB, userIDs []string) (int64, error) {
	result := db.Delete(&models.User{}, "id IN ?", userIDs)
	return result.RowsAffected, result.Error
}

func (r *userRepository) FindWithFilter(db *gorm.DB, criteria UserFilter) ([]models.User, int64, error) {
	query := db.Model(&models.User{})

	if criteria.Role != "" {
		query = query.Where("role = ?", criteria.Role)
	}
	if criteria.IsActive != nil {
		query = query.Where("is_active = ?", *criteria.IsActive)
	}
	if criteria.Search != "" {
		pattern := "%" + strings.ToLower(criteria.Search) + "%"
		query = query.Where(
			"LOWER(username) LIKE ? OR LOWER(email) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "created_at DESC"
	switch criteria.OrderBy {
	case "email":
		order = "email ASC"
	case "username":
		order = "username ASC"
	case "created_at":
		order = "created_at ASC"
	}

	var users []models.User
	err := query.Order(order).
		Offset((criteria.Page - 1) * criteria.PageSize).
		Limit(criteria.PageSize).
		Find(&users).Error
	return users, total, err
}

func (r *userRepository) UpdateLastLogin(db *gorm.DB, userID string) error {
	now := time.Now()
	return db.Model(&models.User{}).Where("id = ?", userID).Update("last_login_at", now).Error
}

// Dashboard aggregates

func (r *userRepository) GetUserStats(db *gorm.DB) (*UserStats, error) {
	stats := &UserStats{}

	if err := db.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.User{}).Where("is_active = ?", true).Count(&stats.ActiveUsers).Error; err != nil {
		return nil, err
	}
	stats.InactiveUsers = stats.TotalUsers - stats.ActiveUsers

	thirtyDaysAgo := time.Now().AddDate(0, 0, -30)
	if err := db.Model(&models.User{}).Where("created_at >= ?", thirtyDaysAgo).Count(&stats.NewUsers30d).Error; err != nil {
		return nil, err
	}

	return stats, nil
}

func (r *userRepository) GetDailySignups(db *gorm.DB, days int) ([]DailyCount, error) {
	counts := make([]DailyCount, 0, days)

	for i := days - 1; i >= 0; i-- {
		day := time.Now().AddDate(0, 0, -i)
		start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
		end := start.AddDate(0, 0, 1)

		var count int64
		if err := db.Model(&models.User{}).
			Where("created_at >= ? AND created_at < ?", start, end).
			Count(&count).Error; err != nil {
			return nil, err
		}
		counts = append(counts, DailyCount{Date: start.Format("2006-01-02"), Users: count})
	}

	return counts, nil
}

func (r *userRepository) CountByRole(db *gorm.DB) (map[string]int64, error) {
	type roleCount struct {
		Role  string
		Count int64
	}

	var rows []roleCount
	err := db.Model(&models.User{}).
		Select("role, COUNT(id) as count").
		Group("role").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make(map[string]int64, len(rows))
	for _, row := range rows {
		result[row.Role] = row.Count
	}
	return result, nil
}

// Activity log

func (r *userRepository) CreateActivityLog(db *gorm.DB, log *models.ActivityLog) error {
	return db.Create(log).Error
}

func (r *userRepository) FindUserActivity(db *gorm.DB, userID string, page, pageSize int) ([]models.ActivityLog, int64, error) {
	query := db.Model(&models.ActivityLog{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []models.ActivityLog
	err := query.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&logs).Error
	return logs, total, err
}

func (r *userRepository) FindRecentActivity(db *gorm.DB, limit int) ([]models.ActivityLog, error) {
	var logs []models.ActivityLog
	err := db.Preload("User").Order("created_at DESC").Limit(limit).Find(&logs).Error
	return logs, err
}
