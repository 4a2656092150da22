package dto

// The proxy endpoints check required fields locally and relay the raw
// body; everything else is the upstream's to validate.

type CheckPhoneRequest struct {
	PhoneNumber string `json:"phone_number"`
}

type BulkRegisterRequest struct {
	PhoneNumbers []string `json:"phone_numbers"`
}

type CleanupRequest struct {
	RetentionDays int `json:"retention_days"`
}

type AnalyzeSpamRequest struct {
	Message string `json:"message"`
}

type UpdateCheckAPIConfigRequest struct {
	APIKey   *string `json:"api_key,omitempty" validate:"omitempty,max=255"`
	BaseURL  *string `json:"base_url,omitempty" validate:"omitempty,url,max=255"`
	IsActive *bool   `json:"is_active,omitempty"`
}
