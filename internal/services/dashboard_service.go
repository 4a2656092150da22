package services

import (
	"time"

	"gorm.io/gorm"

	"phoneadmin_backend/internal/models"
	"phoneadmin_backend/internal/repositories"
	"phoneadmin_backend/internal/services/dto"
	"phoneadmin_backend/pkg/apperrors"
)

type DashboardService interface {
	GetStats(db *gorm.DB) (*dto.DashboardStats, error)
	GetCharts(db *gorm.DB, days int) (*dto.DashboardCharts, error)
	GetRecentActivity(db *gorm.DB, limit int) (*dto.RecentActivityResponse, error)
}

type dashboardService struct {
	userRepo repositories.UserRepository
}

func NewDashboardService(userRepo repositories.UserRepository) DashboardService {
	return &dashboardService{userRepo: userRepo}
}

func (s *dashboardService) GetStats(db *gorm.DB) (*dto.DashboardStats, error) {
	userStats, err := s.userRepo.GetUserStats(db)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	stats := &dto.DashboardStats{
		TotalUsers:    userStats.TotalUsers,
		ActiveUsers:   userStats.ActiveUsers,
		InactiveUsers: userStats.InactiveUsers,
		NewUsers30d:   userStats.NewUsers30d,
	}

	if err := db.Model(&models.Notification{}).Count(&stats.Notifications).Error; err != nil {
		return nil, apperrors.InternalError(err)
	}
	if err := db.Model(&models.PaymentTransaction{}).
		Where("status = ?", models.PaymentStatusVerified).
		Count(&stats.VerifiedPays).Error; err != nil {
		return nil, apperrors.InternalError(err)
	}
	if err := db.Model(&models.PaymentTransaction{}).
		Where("status = ?", models.PaymentStatusFailed).
		Count(&stats.FailedPays).Error; err != nil {
		return nil, apperrors.InternalError(err)
	}
	if err := db.Model(&models.Report{}).
		Where("status IN ?", []models.ReportStatus{models.ReportStatusPending, models.ReportStatusProcessing}).
		Count(&stats.PendingReports).Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	return stats, nil
}

func (s *dashboardService) GetCharts(db *gorm.DB, days int) (*dto.DashboardCharts, error) {
	if days < 1 || days > 90 {
		days = 30
	}

	signups, err := s.userRepo.GetDailySignups(db, days)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	signupPoints := make([]dto.ChartPoint, 0, len(signups))
	for _, p := range signups {
		signupPoints = append(signupPoints, dto.ChartPoint{Date: p.Date, Count: p.Users})
	}

	byRole, err := s.userRepo.CountByRole(db)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	paymentPoints := make([]dto.ChartPoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := time.Now().AddDate(0, 0, -i)
		start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
		end := start.AddDate(0, 0, 1)

		var count int64
		if err := db.Model(&models.PaymentTransaction{}).
			Where("status = ? AND created_at >= ? AND created_at < ?", models.PaymentStatusVerified, start, end).
			Count(&count).Error; err != nil {
			return nil, apperrors.InternalError(err)
		}
		paymentPoints = append(paymentPoints, dto.ChartPoint{Date: start.Format("2006-01-02"), Count: count})
	}

	return &dto.DashboardCharts{
		SignupsByDay:  signupPoints,
		UsersByRole:   byRole,
		PaymentsByDay: paymentPoints,
	}, nil
}

func (s *dashboardService) GetRecentActivity(db *gorm.DB, limit int) (*dto.RecentActivityResponse, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}

	logs, err := s.userRepo.FindRecentActivity(db, limit)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	entries := make([]*dto.ActivityLogDTO, 0, len(logs))
	for i := range logs {
		entries = append(entries, dto.ActivityLogToDTO(&logs[i]))
	}
	return &dto.RecentActivityResponse{Entries: entries}, nil
}
