package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "/managers", cfg.Notification.ManagersPath)
	assert.Equal(t, "/customers", cfg.Notification.CustomersPath)
	assert.Equal(t, 4, cfg.Notification.Workers)
	assert.Empty(t, cfg.Redis.URL)
	assert.Equal(t, time.Duration(0), cfg.Retention.MaxAge)
	require.NoError(t, cfg.ValidateCore())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("NOTIFICATION_HOST", "http://notify.internal/")
	t.Setenv("NOTIFICATION_WORKERS", "8")
	t.Setenv("REDIS_URL", "redis://cache:6379")
	t.Setenv("LOG_RETENTION", "72h")
	t.Setenv("PERIOD_TIMEZONE", "UTC")

	cfg := Load()

	assert.Equal(t, "http://notify.internal", cfg.Notification.Host)
	assert.Equal(t, 8, cfg.Notification.Workers)
	assert.Equal(t, "cache:6379", cfg.Redis.URL)
	assert.Equal(t, 72*time.Hour, cfg.Retention.MaxAge)

	loc, err := cfg.Statistics.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestValidateCore_CollectsProblems(t *testing.T) {
	cfg := Load()
	cfg.Server.Port = ""
	cfg.Notification.Workers = 0
	cfg.Statistics.Timezone = "Mars/Olympus"
	cfg.Retention.MaxAge = time.Hour
	cfg.Retention.Schedule = "whenever"

	err := cfg.ValidateCore()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SERVER_PORT")
	assert.Contains(t, err.Error(), "NOTIFICATION_WORKERS")
	assert.Contains(t, err.Error(), "PERIOD_TIMEZONE")
	assert.Contains(t, err.Error(), "LOG_PRUNE_SCHEDULE")
}
