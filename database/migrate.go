package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"phoneadmin_backend/internal/config"
	"phoneadmin_backend/internal/models"
)

var gormDB *gorm.DB

// ConnectGorm initializes GORM with the DSN from config.yaml.
// TranslateError maps driver duplicate-key errors onto
// gorm.ErrDuplicatedKey, which the repositories rely on.
func ConnectGorm() (*gorm.DB, error) {
	if gormDB != nil {
		return gormDB, nil
	}

	cfg := config.GetConfig()
	dsn := cfg.Database.DSN

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to GORM: %w", err)
	}

	gormDB = db
	return db, nil
}

// AutoMigrate migrates every model.
func AutoMigrate() error {
	db, err := ConnectGorm()
	if err != nil {
		return err
	}
	return Migrate(db)
}

// Migrate runs the schema migration on an existing connection.
func Migrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return fmt.Errorf("failed to create uuid extension: %w", err)
	}

	return db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.ActivityLog{},
		&models.Notification{},
		&models.PaymentSettings{},
		&models.PaymentTransaction{},
		&models.AuditLog{},
		&models.SystemSetting{},
		&models.Report{},
		&models.CheckAPIConfig{},
	)
}
