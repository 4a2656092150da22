package handlers

// AppHandlers holds every HTTP handler of the application.
type AppHandlers struct {
	AuthHandler         *AuthHandler
	UserHandler         *UserHandler
	NotificationHandler *NotificationHandler
	PaymentHandler      *PaymentHandler
	DashboardHandler    *DashboardHandler
	PhoneHandler        *PhoneHandler
	AuditHandler        *AuditHandler
	ReportHandler       *ReportHandler
}
