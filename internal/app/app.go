package app

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"phoneadmin_backend/database"
	"phoneadmin_backend/internal/auth"
	"phoneadmin_backend/internal/config"
	"phoneadmin_backend/internal/email"
	"phoneadmin_backend/internal/handlers"
	"phoneadmin_backend/internal/logger"
	"phoneadmin_backend/internal/middleware"
	"phoneadmin_backend/internal/models"
	"phoneadmin_backend/internal/routes"
	"phoneadmin_backend/internal/services"
	"phoneadmin_backend/internal/validator"
	"phoneadmin_backend/internal/workers"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...")
	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{TranslateError: true})
	if err != nil {
		logger.Fatal("Failed to connect to GORM", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.Migrate(gormDB); err != nil {
		logger.Fatal("Migration failed", "error", err)
	}

	if err := seedFirstAdmin(gormDB, cfg); err != nil {
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	serviceContainer := initializeServices(cfg)
	ginRouter := SetupRouter(cfg, gormDB, serviceContainer)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reportWorker := workers.NewReportWorker(gormDB, serviceContainer.ReportService,
		time.Duration(cfg.Reports.Interval)*time.Second)
	reportWorker.Start(ctx)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

func SetupRouter(cfg *config.Config, gormDB *gorm.DB, serviceContainer *services.ServiceContainer) *gin.Engine {
	appHandlers := initializeHandlers(serviceContainer)
	ginRouter := initializeGinRouter(gormDB, serviceContainer)
	routes.RegisterRoutes(ginRouter, appHandlers)
	return ginRouter
}

func initializeServices(cfg *config.Config) *services.ServiceContainer {
	emailProvider := email.NewSMTPProvider(cfg.Email)
	return services.NewServiceContainer(emailProvider, services.DefaultBinanceClientFactory)
}

func initializeHandlers(container *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		AuthHandler:         handlers.NewAuthHandler(baseHandler, container.AuthService),
		UserHandler:         handlers.NewUserHandler(baseHandler, container.UserService),
		NotificationHandler: handlers.NewNotificationHandler(baseHandler, container.NotificationService),
		PaymentHandler:      handlers.NewPaymentHandler(baseHandler, container.PaymentService),
		DashboardHandler:    handlers.NewDashboardHandler(baseHandler, container.DashboardService),
		PhoneHandler:        handlers.NewPhoneHandler(baseHandler, container.PhoneService),
		AuditHandler:        handlers.NewAuditHandler(baseHandler, container.AuditService),
		ReportHandler:       handlers.NewReportHandler(baseHandler, container.ReportService),
	}
}

func initializeGinRouter(db *gorm.DB, container *services.ServiceContainer) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.DBMiddleware(db))
	router.Use(middleware.AuditMiddleware(container.AuditService))
	return router
}

func seedFirstAdmin(db *gorm.DB, cfg *config.Config) error {
	adminEmail := cfg.FirstAdminEmail
	adminPassword := cfg.FirstAdminPassword

	if adminEmail == "" || adminPassword == "" {
		logger.Warn("first_admin_email or first_admin_password is not set. Skipping admin seeding.")
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var adminUser models.User
		result := tx.Where("email = ?", adminEmail).First(&adminUser)

		if result.Error == nil {
			logger.Info("Admin user already exists. Skipping creation.", "email", adminEmail)
			return nil
		}
		if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check for admin user: %w", result.Error)
		}

		logger.Warn("No admin user found. Creating first admin...", "email", adminEmail)

		hash, err := auth.HashPassword(adminPassword)
		if err != nil {
			return fmt.Errorf("failed to hash admin password: %w", err)
		}

		newAdmin := &models.User{
			Email:        adminEmail,
			Username:     "admin",
			PasswordHash: hash,
			Role:         models.UserRoleAdmin,
			IsActive:     true,
		}
		if err := tx.Create(newAdmin).Error; err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}
		return nil
	})
}
