// ==============================================================================
// CONFIG PACKAGE - pkg/config/config.go
// ==============================================================================
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server       ServerConfig
	Log          LogConfig
	Notification NotificationConfig
	Redis        RedisConfig
	HTTP         HTTPConfig
	Retention    RetentionConfig
	Statistics   StatisticsConfig
}

type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

type LogConfig struct {
	Level string
}

// NotificationConfig points at the external service receiving manager and customer messages.
// An empty Host switches delivery to log-only.
type NotificationConfig struct {
	Host          string
	ManagersPath  string
	CustomersPath string
	Timeout       time.Duration
	QueueSize     int
	Workers       int
}

// RedisConfig is optional; an empty URL disables idempotency and rate limiting.
type RedisConfig struct {
	URL      string
	Password string
	DB       int
}

type HTTPConfig struct {
	IdempotencyTTL     time.Duration
	RateLimitPerMinute int
}

// RetentionConfig controls pruning of archived request logs. Zero MaxAge keeps everything.
type RetentionConfig struct {
	MaxAge   time.Duration
	Schedule string
}

type StatisticsConfig struct {
	Timezone string
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnv("SERVER_PORT", "8080"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:     getDurationEnv("SERVER_IDLE_TIMEOUT", 120*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Notification: NotificationConfig{
			Host:          strings.TrimRight(getEnv("NOTIFICATION_HOST", ""), "/"),
			ManagersPath:  getEnv("NOTIFICATION_MANAGERS_PATH", "/managers"),
			CustomersPath: getEnv("NOTIFICATION_CUSTOMERS_PATH", "/customers"),
			Timeout:       getDurationEnv("NOTIFICATION_TIMEOUT", 10*time.Second),
			QueueSize:     getIntEnv("NOTIFICATION_QUEUE_SIZE", 1024),
			Workers:       getIntEnv("NOTIFICATION_WORKERS", 4),
		},
		Redis: RedisConfig{
			URL:      normalizeRedisURL(getEnv("REDIS_URL", "")),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		HTTP: HTTPConfig{
			IdempotencyTTL:     getDurationEnv("IDEMPOTENCY_TTL", 24*time.Hour),
			RateLimitPerMinute: getIntEnv("RATE_LIMIT_PER_MINUTE", 0),
		},
		Retention: RetentionConfig{
			MaxAge:   getDurationEnv("LOG_RETENTION", 0),
			Schedule: getEnv("LOG_PRUNE_SCHEDULE", "@hourly"),
		},
		Statistics: StatisticsConfig{
			Timezone: getEnv("PERIOD_TIMEZONE", "Local"),
		},
	}
}

// Location resolves the statistics timezone.
func (c StatisticsConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func normalizeRedisURL(url string) string {
	// Strip redis:// or redis+tls:// scheme if present
	if strings.HasPrefix(url, "redis+tls://") {
		return url[len("redis+tls://"):]
	}
	if strings.HasPrefix(url, "redis://") {
		return url[len("redis://"):]
	}
	return url
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
