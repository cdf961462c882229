package db

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/spinshelf/spinshelf-backend/internal/domain"
	"github.com/spinshelf/spinshelf-backend/internal/platform/envutil"
	"github.com/spinshelf/spinshelf-backend/internal/platform/logger"
)

// Open connects to postgres using DATABASE_URL and runs migrations.
func Open(log *logger.Logger) (*gorm.DB, error) {
	dsn := envutil.Str("DATABASE_URL", "")
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("unwrap sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(envutil.Int("DB_MAX_OPEN_CONNS", 25))
	sqlDB.SetMaxIdleConns(envutil.Int("DB_MAX_IDLE_CONNS", 5))
	sqlDB.SetConnMaxLifetime(time.Duration(envutil.Int("DB_CONN_MAX_LIFETIME_MINUTES", 30)) * time.Minute)

	if err := Migrate(gdb); err != nil {
		return nil, err
	}
	log.Info("database connected")
	return gdb, nil
}

// Migrate applies the schema. Separate from Open so tests can run it
// against sqlite.
func Migrate(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(&domain.User{}, &domain.Subscription{}); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
