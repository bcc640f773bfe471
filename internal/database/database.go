package database

import (
	"fmt"
	"log/slog"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/stylecloset/wardrobe-service/internal/domain"
)

// Open connects to postgres and migrates the schema. TranslateError turns
// driver unique-violation errors into gorm.ErrDuplicatedKey, which the user
// repository relies on for duplicate-email detection.
func Open(dsn string, logger *slog.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	logger.Info("database ready")
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Session{},
		&domain.WardrobeItem{},
		&domain.StyleProfile{},
	); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}
