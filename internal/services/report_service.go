package services

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"phoneadmin_backend/internal/config"
	"phoneadmin_backend/internal/logger"
	"phoneadmin_backend/internal/metrics"
	"phoneadmin_backend/internal/models"
	"phoneadmin_backend/internal/repositories"
	"phoneadmin_backend/internal/services/dto"
	"phoneadmin_backend/pkg/apperrors"
)

type ReportService interface {
	CreateReport(db *gorm.DB, userID string, req *dto.CreateReportRequest) (*dto.ReportDTO, error)
	GetReport(db *gorm.DB, userID, reportID string, isAdmin bool) (*dto.ReportDTO, error)
	ListReports(db *gorm.DB, userID string, isAdmin bool, page, pageSize int) (*dto.ReportListResponse, error)

	// ProcessNext claims and generates one pending report. Returns
	// false when the queue is empty.
	ProcessNext(db *gorm.DB) (bool, error)
}

type reportService struct {
	reportRepo repositories.ReportRepository
	userRepo   repositories.UserRepository
}

func NewReportService(reportRepo repositories.ReportRepository, userRepo repositories.UserRepository) ReportService {
	return &reportService{reportRepo: reportRepo, userRepo: userRepo}
}

func (s *reportService) CreateReport(db *gorm.DB, userID string, req *dto.CreateReportRequest) (*dto.ReportDTO, error) {
	report := &models.Report{
		CreatedByID: userID,
		Title:       req.Title,
		Type:        models.ReportType(req.Type),
		Status:      models.ReportStatusPending,
	}
	if len(req.Filters) > 0 {
		if b, err := json.Marshal(req.Filters); err == nil {
			report.Filters = datatypes.JSON(b)
		}
	}

	if err := s.reportRepo.Create(db, report); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.ReportToDTO(report), nil
}

func (s *reportService) GetReport(db *gorm.DB, userID, reportID string, isAdmin bool) (*dto.ReportDTO, error) {
	report, err := s.reportRepo.FindByID(db, reportID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrReportNotFound) {
			return nil, apperrors.NewNotFoundError("report", "Report not found")
		}
		return nil, apperrors.InternalError(err)
	}
	if !isAdmin && report.CreatedByID != userID {
		return nil, apperrors.NewNotFoundError("report", "Report not found")
	}
	return dto.ReportToDTO(report), nil
}

func (s *reportService) ListReports(db *gorm.DB, userID string, isAdmin bool, page, pageSize int) (*dto.ReportListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var (
		reports []models.Report
		total   int64
		err     error
	)
	if isAdmin {
		reports, total, err = s.reportRepo.FindAll(db, page, pageSize)
	} else {
		reports, total, err = s.reportRepo.FindByUser(db, userID, page, pageSize)
	}
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	out := make([]*dto.ReportDTO, 0, len(reports))
	for i := range reports {
		out = append(out, dto.ReportToDTO(&reports[i]))
	}
	return &dto.ReportListResponse{
		Reports:    out,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}, nil
}

func (s *reportService) ProcessNext(db *gorm.DB) (bool, error) {
	report, err := s.reportRepo.ClaimNextPending(db)
	if err != nil {
		if apperrors.Is(err, repositories.ErrReportNotFound) {
			return false, nil
		}
		return false, err
	}

	filePath, genErr := s.generate(db, report)
	if genErr != nil {
		logger.Error("report generation failed", "report_id", report.ID, "type", report.Type, "error", genErr)
		metrics.ReportsGenerated.WithLabelValues(string(report.Type), "failed").Inc()
		if err := s.reportRepo.MarkFailed(db, report.ID); err != nil {
			return true, err
		}
		return true, nil
	}

	metrics.ReportsGenerated.WithLabelValues(string(report.Type), "completed").Inc()
	if err := s.reportRepo.MarkCompleted(db, report.ID, filePath); err != nil {
		return true, err
	}
	logger.Info("report generated", "report_id", report.ID, "type", report.Type, "file", filePath)
	return true, nil
}

func (s *reportService) generate(db *gorm.DB, report *models.Report) (string, error) {
	dir := config.GetConfig().Reports.Dir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create reports dir: %w", err)
	}

	filePath := filepath.Join(dir, fmt.Sprintf("%s_%s.csv", report.Type, report.ID))
	f, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("create report file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	switch report.Type {
	case models.ReportTypeUser:
		return filePath, s.writeUserReport(db, w)
	case models.ReportTypeActivity:
		return filePath, s.writeActivityReport(db, w)
	case models.ReportTypeSystem:
		return filePath, s.writeSystemReport(db, w)
	default:
		return "", fmt.Errorf("unknown report type %q", report.Type)
	}
}

func (s *reportService) writeUserReport(db *gorm.DB, w *csv.Writer) error {
	if err := w.Write([]string{"id", "email", "username", "role", "active", "created_at"}); err != nil {
		return err
	}

	var users []models.User
	if err := db.Order("created_at ASC").Find(&users).Error; err != nil {
		return err
	}
	for _, u := range users {
		if err := w.Write([]string{
			u.ID, u.Email, u.Username, string(u.Role),
			strconv.FormatBool(u.IsActive),
			u.CreatedAt.Format(time.RFC3339),
		}); err != nil {
			return err
		}
	}
	return nil
}

func (s *reportService) writeActivityReport(db *gorm.DB, w *csv.Writer) error {
	if err := w.Write([]string{"id", "user_id", "action", "ip_address", "created_at"}); err != nil {
		return err
	}

	var logs []models.ActivityLog
	if err := db.Order("created_at DESC").Limit(10000).Find(&logs).Error; err != nil {
		return err
	}
	for _, l := range logs {
		if err := w.Write([]string{
			l.ID, l.UserID, l.Action, l.IPAddress,
			l.CreatedAt.Format(time.RFC3339),
		}); err != nil {
			return err
		}
	}
	return nil
}

func (s *reportService) writeSystemReport(db *gorm.DB, w *csv.Writer) error {
	if err := w.Write([]string{"metric", "value"}); err != nil {
		return err
	}

	stats, err := s.userRepo.GetUserStats(db)
	if err != nil {
		return err
	}

	var verified, failed int64
	if err := db.Model(&models.PaymentTransaction{}).
		Where("status = ?", models.PaymentStatusVerified).Count(&verified).Error; err != nil {
		return err
	}
	if err := db.Model(&models.PaymentTransaction{}).
		Where("status = ?", models.PaymentStatusFailed).Count(&failed).Error; err != nil {
		return err
	}

	rows := [][]string{
		{"total_users", strconv.FormatInt(stats.TotalUsers, 10)},
		{"active_users", strconv.FormatInt(stats.ActiveUsers, 10)},
		{"new_users_30d", strconv.FormatInt(stats.NewUsers30d, 10)},
		{"verified_payments", strconv.FormatInt(verified, 10)},
		{"failed_payments", strconv.FormatInt(failed, 10)},
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
