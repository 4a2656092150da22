package models

type UserRole string
type PaymentStatus string
type NotificationType string
type ReportType string
type ReportStatus string

const (
	UserRoleAdmin   UserRole = "admin"
	UserRoleManager UserRole = "manager"
	UserRoleUser    UserRole = "user"

	// Payment verification is a single atomic decide-and-persist step:
	// the engine only ever creates records in "verified" or "failed".
	// "pending" and "expired" exist for schema parity with older data.
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusVerified PaymentStatus = "verified"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusExpired  PaymentStatus = "expired"

	NotificationTypeInfo    NotificationType = "info"
	NotificationTypeSuccess NotificationType = "success"
	NotificationTypeWarning NotificationType = "warning"
	NotificationTypeError   NotificationType = "error"

	ReportTypeUser     ReportType = "user"
	ReportTypeActivity ReportType = "activity"
	ReportTypeSystem   ReportType = "system"

	ReportStatusPending    ReportStatus = "pending"
	ReportStatusProcessing ReportStatus = "processing"
	ReportStatusCompleted  ReportStatus = "completed"
	ReportStatusFailed     ReportStatus = "failed"
)
