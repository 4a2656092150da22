package models

import (
	"time"

	"gorm.io/datatypes"
)

// Report is a generated export built asynchronously by the report worker.
type Report struct {
	BaseModel
	CreatedByID string         `gorm:"not null;index" json:"created_by"`
	Title       string         `gorm:"not null" json:"title"`
	Type        ReportType     `gorm:"type:varchar(50);not null" json:"type"`
	Filters     datatypes.JSON `gorm:"type:jsonb" json:"filters,omitempty"`
	FilePath    string         `gorm:"size:500" json:"file_path"`
	Status      ReportStatus   `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`

	CreatedBy *User `gorm:"foreignKey:CreatedByID" json:"created_by_user,omitempty"`
}
