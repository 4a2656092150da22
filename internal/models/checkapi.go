package models

// CheckAPIConfig stores the connection settings for the external phone
// registry ("Check API"). The config file value is used as a fallback when
// no active row exists.
type CheckAPIConfig struct {
	BaseModel
	Name     string `gorm:"size:100;uniqueIndex;default:'default'" json:"name"`
	APIKey   string `gorm:"size:255;not null" json:"-"`
	BaseURL  string `gorm:"size:255;default:'http://checkapi.org/api'" json:"base_url"`
	IsActive bool   `gorm:"default:true" json:"is_active"`
}
