package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm/logger"
)

// DefaultSigningKey is the development fallback for JWT_SIGNING_KEY.
const DefaultSigningKey = "projectservicesecretkey"

// DBConfig holds database configuration
type DBConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	LogLevel        logger.LogLevel
}

// GetDSN returns the PostgreSQL connection string
func (c *DBConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port         string
	Env          string
	AllowOrigins []string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	SigningKey        string
	Algorithm         string
	ExpirationMinutes int
}

// Expiration returns the token lifetime.
func (c JWTConfig) Expiration() time.Duration {
	return time.Duration(c.ExpirationMinutes) * time.Minute
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string
}

// Config holds all configuration
type Config struct {
	ServiceName string
	DB          DBConfig
	Server      ServerConfig
	JWT         JWTConfig
	Log         LogConfig
}

// Load loads configuration from the .env file (if any) and environment variables
func Load() (*Config, error) {
	// .env is optional
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: .env file not found, using environment variables\n")
	}

	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv builds the configuration from the current environment, applying defaults.
func FromEnv() *Config {
	return &Config{
		ServiceName: "project-service",
		DB: DBConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "password"),
			DBName:          getEnv("DB_NAME", "project_service"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 1*time.Hour),
			LogLevel:        getEnvAsLogLevel("DB_LOG_LEVEL", logger.Warn),
		},
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8000"),
			Env:          getEnv("APP_ENV", "development"),
			AllowOrigins: getEnvAsList("CORS_ALLOW_ORIGINS", []string{"http://localhost:3000"}),
		},
		JWT: JWTConfig{
			SigningKey:        getEnv("JWT_SIGNING_KEY", DefaultSigningKey),
			Algorithm:         getEnv("JWT_ALGORITHM", "HS256"),
			ExpirationMinutes: getEnvAsInt("JWT_EXPIRATION_MINUTES", 30),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}
}

// Validate rejects configurations the service cannot run with.
func (c *Config) Validate() error {
	if c.JWT.SigningKey == "" {
		return errors.New("JWT_SIGNING_KEY must not be empty")
	}
	switch c.JWT.Algorithm {
	case "HS256", "HS384", "HS512":
	default:
		return fmt.Errorf("JWT_ALGORITHM %q is not an HMAC algorithm", c.JWT.Algorithm)
	}
	if c.JWT.ExpirationMinutes <= 0 {
		return errors.New("JWT_EXPIRATION_MINUTES must be positive")
	}
	if c.IsProduction() && c.JWT.SigningKey == DefaultSigningKey {
		return errors.New("JWT_SIGNING_KEY must be set in production")
	}
	return nil
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// LogConfig returns the configuration as a zap logger-friendly format
func (c *Config) LogConfig() []zap.Field {
	return []zap.Field{
		zap.String("service", c.ServiceName),
		zap.String("environment", c.Server.Env),
		zap.String("db_host", c.DB.Host),
		zap.String("db_port", c.DB.Port),
		zap.String("db_user", c.DB.User),
		zap.String("db_name", c.DB.DBName),
		zap.String("server_port", c.Server.Port),
		zap.String("jwt_algorithm", c.JWT.Algorithm),
		zap.Int("jwt_expiration_minutes", c.JWT.ExpirationMinutes),
	}
}

// Helper function to get environment variables with defaults
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// Helper function to get environment variables as integers
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// Helper function to get environment variables as durations
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// Helper function to get comma separated environment variables
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var values []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	if len(values) == 0 {
		return defaultValue
	}
	return values
}

// Helper function to get environment variables as log levels
func getEnvAsLogLevel(key string, defaultValue logger.LogLevel) logger.LogLevel {
	valueStr := getEnv(key, "")
	switch valueStr {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "warn":
		return logger.Warn
	case "info":
		return logger.Info
	default:
		return defaultValue
	}
}
