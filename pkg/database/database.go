package database

import (
	"fmt"
	"time"

	"project-service/internal/model"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DBConfig holds the database configuration
type DBConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	LogLevel        logger.LogLevel
}

// Open connects to PostgreSQL with the provided configuration and applies the pool settings
func Open(config DBConfig, log *zap.Logger) (*gorm.DB, error) {
	logLevel := config.LogLevel
	if logLevel == 0 {
		logLevel = logger.Warn
	}

	// PreferSimpleProtocol avoids "prepared statement already exists" behind poolers
	pgConfig := postgres.Config{
		DSN:                  config.DSN,
		PreferSimpleProtocol: true,
	}

	db, err := gorm.Open(postgres.New(pgConfig), GormConfig(logLevel))
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get database connection: %w", err)
	}

	if config.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(config.MaxIdleConns)
	}

	if config.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(config.MaxOpenConns)
	}

	if config.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(config.ConnMaxLifetime)
	}

	log.Info("Database connected",
		zap.Int("max_idle_conns", config.MaxIdleConns),
		zap.Int("max_open_conns", config.MaxOpenConns))
	return db, nil
}

// GormConfig is the gorm configuration shared by every dialector the service runs on.
// TranslateError makes drivers report unique violations as gorm.ErrDuplicatedKey.
func GormConfig(level logger.LogLevel) *gorm.Config {
	return &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
	}
}

// Migrate creates or updates the schema for every model
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(model.All()...); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
