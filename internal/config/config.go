// Package config содержит загрузку и валидацию конфигурации.
package config

import (
	"botrouter/pkg/logger"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// DefaultCleanupSchedule расписание очистки по умолчанию
const DefaultCleanupSchedule = "@every 5m"

// Config представляет конфигурацию приложения
type Config struct {
	// Telegram
	BotToken      string
	AdminUsername string
	PollTimeout   int // seconds
	Debug         bool

	// Database, пустое значение включает хранение в памяти
	DatabaseURL string

	// Health
	HealthPort         int
	HealthCheckEnabled bool

	// Worker pool
	WorkerCount     int
	WorkerQueueSize int
	UpdateTimeout   time.Duration

	// Rate limit
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Расписание очистки состояния middleware в формате cron
	CleanupSchedule string

	// Logging
	Log logger.Config
}

// Load загружает конфигурацию из .env файлов и переменных окружения.
// Без аргументов читается .env из текущей директории, если он есть.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && len(envFiles) > 0 {
		return nil, fmt.Errorf("failed to load env files: %w", err)
	}

	defaults := logger.DefaultConfig()
	config := &Config{
		BotToken:           getEnv("BOT_TOKEN", ""),
		AdminUsername:      getEnv("ADMIN_USERNAME", ""),
		PollTimeout:        getEnvInt("POLL_TIMEOUT", 60),
		Debug:              getEnvBool("BOT_DEBUG", false),
		DatabaseURL:        getEnv("DB_DSN", ""),
		HealthPort:         getEnvInt("HEALTH_PORT", 8080),
		HealthCheckEnabled: getEnvBool("HEALTH_CHECK_ENABLED", true),
		WorkerCount:        getEnvInt("WORKER_COUNT", 4),
		WorkerQueueSize:    getEnvInt("WORKER_QUEUE_SIZE", 100),
		UpdateTimeout:      getEnvDuration("UPDATE_TIMEOUT", 30*time.Second),
		RateLimitEnabled:   getEnvBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests:  getEnvInt("RATE_LIMIT_REQUESTS", 10),
		RateLimitWindow:    getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
		CleanupSchedule:    getEnv("CLEANUP_SCHEDULE", DefaultCleanupSchedule),
		Log: logger.Config{
			Level:      getEnv("LOG_LEVEL", defaults.Level),
			Format:     getEnv("LOG_FORMAT", defaults.Format),
			Output:     getEnv("LOG_OUTPUT", defaults.Output),
			FilePath:   getEnv("LOG_FILE_PATH", defaults.FilePath),
			MaxSize:    getEnvInt("LOG_MAX_SIZE", defaults.MaxSize),
			MaxBackups: getEnvInt("LOG_MAX_BACKUPS", defaults.MaxBackups),
			MaxAge:     getEnvInt("LOG_MAX_AGE", defaults.MaxAge),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// Validate проверяет конфигурацию
func (c *Config) Validate() error {
	if c.BotToken == "" {
		return fmt.Errorf("BOT_TOKEN is required")
	}

	if c.HealthCheckEnabled && (c.HealthPort <= 0 || c.HealthPort > 65535) {
		return fmt.Errorf("HEALTH_PORT must be between 1 and 65535, got %d", c.HealthPort)
	}

	if c.WorkerCount <= 0 {
		return fmt.Errorf("WORKER_COUNT must be positive, got %d", c.WorkerCount)
	}

	if c.WorkerQueueSize <= 0 {
		return fmt.Errorf("WORKER_QUEUE_SIZE must be positive, got %d", c.WorkerQueueSize)
	}

	if c.UpdateTimeout <= 0 {
		return fmt.Errorf("UPDATE_TIMEOUT must be positive, got %s", c.UpdateTimeout)
	}

	if c.PollTimeout < 0 {
		return fmt.Errorf("POLL_TIMEOUT must not be negative, got %d", c.PollTimeout)
	}

	if c.RateLimitEnabled {
		if c.RateLimitRequests <= 0 {
			return fmt.Errorf("RATE_LIMIT_REQUESTS must be positive, got %d", c.RateLimitRequests)
		}
		if c.RateLimitWindow <= 0 {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %s", c.RateLimitWindow)
		}
	}

	return nil
}

// HealthAddr возвращает адрес health check сервера
func (c *Config) HealthAddr() string {
	return ":" + strconv.Itoa(c.HealthPort)
}

// getEnv получает переменную окружения с значением по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt получает переменную окружения как int
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvDuration получает переменную окружения как time.Duration
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvBool получает переменную окружения как bool
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
