package repositories

import (
	"errors"
	"time"

	"phoneadmin_backend/internal/models"

	"gorm.io/gorm"
)

var ErrReportNotFound = errors.New("report not found")

type ReportRepository interface {
	Create(db *gorm.DB, report *models.Report) error
	FindByID(db *gorm.DB, id string) (*models.Report, error)
	FindByUser(db *gorm.DB, userID string, page, pageSize int) ([]models.Report, int64, error)
	FindAll(db *gorm.DB, page, pageSize int) ([]models.Report, int64, error)
	ClaimNextPending(db *gorm.DB) (*models.Report, error)
	MarkCompleted(db *gorm.DB, reportID, filePath string) error
	MarkFailed(db *gorm.DB, reportID string) error
}

type reportRepository struct{}

func NewReportRepository() ReportRepository {
	return &reportRepository{}
}

func (r *reportRepository) Create(db *gorm.DB, report *models.Report) error {
	return db.Create(report).Error
}

func (r *reportRepository) FindByID(db *gorm.DB, id string) (*models.Report, error) {
	var report models.Report
	if err := db.First(&report, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	return &report, nil
}

func (r *reportRepository) FindByUser(db *gorm.DB, userID string, page, pageSize int) ([]models.Report, int64, error) {
	query := db.Model(&models.Report{}).Where("created_by_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reports []models.Report
	err := query.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&reports).Error
	return reports, total, err
}

func (r *reportRepository) FindAll(db *gorm.DB, page, pageSize int) ([]models.Report, int64, error) {
	var total int64
	if err := db.Model(&models.Report{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reports []models.Report
	err := db.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&reports).Error
	return reports, total, err
}

// ClaimNextPending atomically flips the oldest pending report to
// "processing" so concurrent workers never pick the same one.
func (r *reportRepository) ClaimNextPending(db *gorm.DB) (*models.Report, error) {
	var report models.Report

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses().
			Raw(`SELECT * FROM reports WHERE status = ? ORDER BY created_at ASC LIMIT 1 FOR UPDATE SKIP LOCKED`, models.ReportStatusPending).
			Scan(&report).Error; err != nil {
			return err
		}
		if report.ID == "" {
			return gorm.ErrRecordNotFound
		}
		return tx.Model(&models.Report{}).
			Where("id = ?", report.ID).
			Update("status", models.ReportStatusProcessing).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrReportNotFound
	}
	if err != nil {
		return nil, err
	}

	report.Status = models.ReportStatusProcessing
	return &report, nil
}

func (r *reportRepository) MarkCompleted(db *gorm.DB, reportID, filePath string) error {
	now := time.Now()
	return db.Model(&models.Report{}).
		Where("id = ?", reportID).
		Updates(map[string]interface{}{
			"status":       models.ReportStatusCompleted,
			"file_path":    filePath,
			"completed_at": now,
		}).Error
}

func (r *reportRepository) MarkFailed(db *gorm.DB, reportID string) error {
	return db.Model(&models.Report{}).
		Where("id = ?", reportID).
		Update("status", models.ReportStatusFailed).Error
}
