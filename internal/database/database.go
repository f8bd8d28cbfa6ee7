// Package database handles PostgreSQL connection and schema migration.
package database

import (
	"fmt"

	"gatherly/internal/config"
	"gatherly/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open establishes a PostgreSQL connection without migrating anything.
// Callers that own a schema run their own migration on top.
func Open(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBName,
		cfg.DBSSLMode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	return db, nil
}

// Connect opens the database and migrates the events API schema.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	db, err := Open(cfg)
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Location{},
		&models.Event{},
		&models.Request{},
		&models.Comment{},
		&models.Compilation{},
	)
	if err != nil {
		return nil, fmt.Errorf("database migration failed: %w", err)
	}

	return db, nil
}
