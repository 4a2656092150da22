package dto

import (
	"encoding/json"
	"time"

	"phoneadmin_backend/internal/models"
)

type CreateReportRequest struct {
	Title   string                 `json:"title" validate:"required,max=255"`
	Type    string                 `json:"type" validate:"required,oneof=user activity system"`
	Filters map[string]interface{} `json:"filters"`
}

type ReportDTO struct {
	ID          string                 `json:"id"`
	CreatedBy   string                 `json:"created_by"`
	Title       string                 `json:"title"`
	Type        models.ReportType      `json:"type"`
	Filters     map[string]interface{} `json:"filters,omitempty"`
	FilePath    string                 `json:"file_path,omitempty"`
	Status      models.ReportStatus    `json:"status"`
	CompletedAt *time.Time             `json:"completed_at,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
}

type ReportListResponse struct {
	Reports    []*ReportDTO `json:"reports"`
	Total      int64        `json:"total"`
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
	TotalPages int          `json:"total_pages"`
}

func ReportToDTO(r *models.Report) *ReportDTO {
	d := &ReportDTO{
		ID:          r.ID,
		CreatedBy:   r.CreatedByID,
		Title:       r.Title,
		Type:        r.Type,
		FilePath:    r.FilePath,
		Status:      r.Status,
		CompletedAt: r.CompletedAt,
		CreatedAt:   r.CreatedAt,
	}
	if len(r.Filters) > 0 {
		var filters map[string]interface{}
		if err := json.Unmarshal(r.Filters, &filters); err == nil {
			d.Filters = filters
		}
	}
	return d
}
