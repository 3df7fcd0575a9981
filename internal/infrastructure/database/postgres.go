package database

import (
	"context"
	"fmt"

	"github.com/sangkips/selfcheckout-kiosk/internal/config"
	"github.com/sangkips/selfcheckout-kiosk/internal/domain/entity"
	"github.com/sangkips/selfcheckout-kiosk/internal/infrastructure/repository"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	logLevel := logger.Warn
	if cfg.Debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// A single kiosk issues a handful of catalog reads at a time.
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetMaxOpenConns(10)

	log.Info("connected to PostgreSQL", zap.String("host", cfg.Host), zap.String("database", cfg.Name))
	return db, nil
}

// AutoMigrate runs GORM auto-migration for the catalog tables
func AutoMigrate(db *gorm.DB, log *zap.Logger) error {
	log.Info("running database migrations")

	if err := db.AutoMigrate(
		&entity.Product{},
		&entity.DiscountCode{},
	); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("database migrations completed")
	return nil
}

// SeedDefaultData inserts the demo products and discount codes that are missing
func SeedDefaultData(db *gorm.DB, log *zap.Logger) error {
	ctx := context.Background()
	log.Info("seeding default catalog")

	for _, p := range repository.DefaultProducts() {
		var existing entity.Product
		if err := db.WithContext(ctx).Where("barcode = ?", p.Barcode).First(&existing).Error; err == nil {
			continue
		}
		product := p
		if err := db.WithContext(ctx).Create(&product).Error; err != nil {
			log.Warn("failed to seed product", zap.String("barcode", p.Barcode), zap.Error(err))
		}
	}

	for _, c := range repository.DefaultDiscountCodes() {
		var existing entity.DiscountCode
		if err := db.WithContext(ctx).Where("code = ?", c.Code).First(&existing).Error; err == nil {
			continue
		}
		code := c
		if err := db.WithContext(ctx).Create(&code).Error; err != nil {
			log.Warn("failed to seed discount code", zap.String("code", c.Code), zap.Error(err))
		}
	}

	log.Info("default catalog seeding completed")
	return nil
}
