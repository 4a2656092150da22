package models

import "gorm.io/datatypes"

// AuditLog records every mutating action for compliance review.
type AuditLog struct {
	BaseModel
	UserID    string         `gorm:"index" json:"user_id"`
	Action    string         `gorm:"not null" json:"action"`
	ModelName string         `gorm:"size:100" json:"model_name"`
	ObjectID  string         `gorm:"size:100" json:"object_id"`
	Changes   datatypes.JSON `gorm:"type:jsonb" json:"changes,omitempty"`
	IPAddress string         `json:"ip_address"`
	UserAgent string         `gorm:"type:text" json:"user_agent"`
}

// SystemSetting is a free-form key/value configuration entry.
type SystemSetting struct {
	BaseModel
	Key         string `gorm:"size:100;uniqueIndex;not null" json:"key"`
	Value       string `gorm:"type:text" json:"value"`
	Description string `gorm:"type:text" json:"description"`
}
