package services

import (
	"phoneadmin_backend/internal/email"
	"phoneadmin_backend/internal/repositories"
)

// ServiceContainer holds every application service.
type ServiceContainer struct {
	AuthService         AuthService
	UserService         UserService
	NotificationService NotificationService
	PaymentService      PaymentService
	DashboardService    DashboardService
	PhoneService        PhoneService
	AuditService        AuditService
	ReportService       ReportService
}

// NewServiceContainer wires the services with their repositories.
func NewServiceContainer(emailProvider email.Provider, binanceFactory BinanceClientFactory) *ServiceContainer {
	userRepo := repositories.NewUserRepository()
	refreshTokenRepo := repositories.NewRefreshTokenRepository()
	notificationRepo := repositories.NewNotificationRepository()
	paymentRepo := repositories.NewPaymentRepository()
	auditRepo := repositories.NewAuditRepository()
	reportRepo := repositories.NewReportRepository()
	checkAPIRepo := repositories.NewCheckAPIRepository()

	return &ServiceContainer{
		AuthService:         NewAuthService(userRepo, refreshTokenRepo, emailProvider),
		UserService:         NewUserService(userRepo),
		NotificationService: NewNotificationService(notificationRepo, userRepo, emailProvider),
		PaymentService:      NewPaymentService(paymentRepo, binanceFactory),
		DashboardService:    NewDashboardService(userRepo),
		PhoneService:        NewPhoneService(checkAPIRepo),
		AuditService:        NewAuditService(auditRepo),
		ReportService:       NewReportService(reportRepo, userRepo),
	}
}
