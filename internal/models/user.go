package models

import "time"

type User struct {
	BaseModel
	Email        string   `gorm:"uniqueIndex;not null" json:"email"`
	Username     string   `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash string   `gorm:"not null" json:"-"`
	FirstName    string   `json:"first_name"`
	LastName     string   `json:"last_name"`
	Phone        string   `json:"phone"`
	Role         UserRole `gorm:"type:varchar(20);default:'user'" json:"role"`
	IsActive     bool     `gorm:"default:true" json:"is_active"`
	ResetToken   string   `json:"-"`
	ResetTokenExp *time.Time `json:"-"`
	LastLoginAt  *time.Time `json:"last_login_at"`

	// Relations
	RefreshTokens []RefreshToken `gorm:"foreignKey:UserID" json:"-"`
	ActivityLogs  []ActivityLog  `gorm:"foreignKey:UserID" json:"-"`
}

type RefreshToken struct {
	BaseModel
	UserID    string    `gorm:"not null;index" json:"user_id"`
	Token     string    `gorm:"not null;uniqueIndex" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
}

// ActivityLog tracks user-visible actions (logins, profile changes).
type ActivityLog struct {
	BaseModel
	UserID    string `gorm:"not null;index" json:"user_id"`
	Action    string `gorm:"not null" json:"action"`
	Details   string `json:"details"`
	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
