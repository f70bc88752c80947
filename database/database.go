package database

import (
	"context"
	"fmt"
	"time"

	"storefront_backend/internal/config"
	"storefront_backend/internal/logger"
	"storefront_backend/internal/repositories"
	"storefront_backend/internal/repositories/gormstore"
	"storefront_backend/internal/repositories/memstore"
	"storefront_backend/internal/repositories/mongostore"

	gormlogger "gorm.io/gorm/logger"

	"gorm.io/gorm"
)

const connectTimeout = 10 * time.Second

// Open connects to the backend named by cfg.Database.Driver.
func Open(ctx context.Context, cfg *config.Config) (repositories.Store, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	driver := cfg.Database.Driver
	logger.DBLog("connect", "driver", driver)

	switch driver {
	case "", "mongo", "mongodb":
		return mongostore.Open(ctx, cfg.Database.DSN, cfg.Database.Name)
	case "postgres", "mysql":
		level := gormlogger.Warn
		if !cfg.IsProduction() {
			level = gormlogger.Info
		}
		return gormstore.Open(driver, cfg.Database.DSN, &gorm.Config{
			Logger: gormlogger.Default.LogMode(level),
		})
	case "memory":
		return memstore.New(), nil
	}
	return nil, fmt.Errorf("unknown database driver %q", driver)
}

// AutoMigrate creates the tables or indexes of the configured backend.
func AutoMigrate(ctx context.Context, store repositories.Store) error {
	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.DBLog("migrate", "status", "ok")
	return nil
}
