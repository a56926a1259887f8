package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/felixgeelhaar/dosewise/internal/shared/infrastructure/convert"
	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv   string
	LogLevel string
	Timezone string

	// Storage
	StorageDriver string
	SQLitePath    string
	RedisURL      string
	DatabaseURL   string

	// RabbitMQ; empty keeps events in process
	RabbitMQURL string

	// Scheduling
	SettleWindow       time.Duration
	ManualStickyWindow time.Duration
	HorizonYears       int

	// Reminders
	ReminderChannel  string
	ReminderLanguage string

	// Circuit breaker around the reminder facility
	BreakerMaxRequests      int
	BreakerInterval         time.Duration
	BreakerTimeout          time.Duration
	BreakerFailureThreshold int
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Timezone: getEnv("DOSEWISE_TIMEZONE", "Local"),

		StorageDriver: getEnv("STORAGE_DRIVER", "sqlite"),
		SQLitePath:    getEnv("SQLITE_PATH", defaultSQLitePath()),
		RedisURL:      getEnv("REDIS_URL", "redis://localhost:6379/0"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		RabbitMQURL:   getEnv("RABBITMQ_URL", ""),

		SettleWindow:       getDurationEnv("RECONCILER_SETTLE_WINDOW", 600*time.Millisecond),
		ManualStickyWindow: getDurationEnv("RECONCILER_MANUAL_STICKY_WINDOW", 800*time.Millisecond),
		HorizonYears:       getIntEnv("SCHEDULE_HORIZON_YEARS", 100),

		ReminderChannel:  getEnv("REMINDER_CHANNEL", "medication"),
		ReminderLanguage: getEnv("REMINDER_LANGUAGE", "en"),

		BreakerMaxRequests:      getIntEnv("BREAKER_MAX_REQUESTS", 1),
		BreakerInterval:         getDurationEnv("BREAKER_INTERVAL", time.Minute),
		BreakerTimeout:          getDurationEnv("BREAKER_TIMEOUT", 30*time.Second),
		BreakerFailureThreshold: getIntEnv("BREAKER_FAILURE_THRESHOLD", 5),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the application cannot start with.
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case "memory", "sqlite", "redis", "postgres":
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.StorageDriver)
	}
	if c.StorageDriver == "postgres" && c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required for the postgres storage driver")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := convert.IntToUint32(c.BreakerMaxRequests); err != nil {
		return fmt.Errorf("BREAKER_MAX_REQUESTS: %w", err)
	}
	if n, err := convert.IntToUint32(c.BreakerFailureThreshold); err != nil || n == 0 {
		return fmt.Errorf("BREAKER_FAILURE_THRESHOLD must be positive, got %d", c.BreakerFailureThreshold)
	}
	if c.HorizonYears <= 0 {
		return fmt.Errorf("SCHEDULE_HORIZON_YEARS must be positive, got %d", c.HorizonYears)
	}
	return nil
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid DOSEWISE_TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func defaultSQLitePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".dosewise", "data.db")
	}
	return filepath.Join(home, ".dosewise", "data.db")
}
