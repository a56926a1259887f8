package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnvVars clears all dosewise-related environment variables.
func clearEnvVars() {
	envVars := []string{
		"APP_ENV", "LOG_LEVEL", "DOSEWISE_TIMEZONE",
		"STORAGE_DRIVER", "SQLITE_PATH", "REDIS_URL", "DATABASE_URL", "RABBITMQ_URL",
		"RECONCILER_SETTLE_WINDOW", "RECONCILER_MANUAL_STICKY_WINDOW", "SCHEDULE_HORIZON_YEARS",
		"REMINDER_CHANNEL", "REMINDER_LANGUAGE",
		"BREAKER_MAX_REQUESTS", "BREAKER_INTERVAL", "BREAKER_TIMEOUT", "BREAKER_FAILURE_THRESHOLD",
	}
	for _, v := range envVars {
		os.Unsetenv(v)
	}
}

func TestLoad_DefaultValues(t *testing.T) {
	clearEnvVars()
	defer clearEnvVars()

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "sqlite", cfg.StorageDriver)
	assert.Contains(t, cfg.SQLitePath, "data.db")
	assert.Empty(t, cfg.RabbitMQURL)

	assert.Equal(t, 600*time.Millisecond, cfg.SettleWindow)
	assert.Equal(t, 800*time.Millisecond, cfg.ManualStickyWindow)
	assert.Equal(t, 100, cfg.HorizonYears)

	assert.Equal(t, "medication", cfg.ReminderChannel)
	assert.Equal(t, "en", cfg.ReminderLanguage)

	assert.Equal(t, 5, cfg.BreakerFailureThreshold)
	assert.Equal(t, 30*time.Second, cfg.BreakerTimeout)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_CustomValues(t *testing.T) {
	clearEnvVars()
	defer clearEnvVars()

	os.Setenv("APP_ENV", "production")
	os.Setenv("DOSEWISE_TIMEZONE", "Europe/Berlin")
	os.Setenv("STORAGE_DRIVER", "redis")
	os.Setenv("RECONCILER_SETTLE_WINDOW", "1s")
	os.Setenv("SCHEDULE_HORIZON_YEARS", "5")
	os.Setenv("REMINDER_LANGUAGE", "de")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "redis", cfg.StorageDriver)
	assert.Equal(t, time.Second, cfg.SettleWindow)
	assert.Equal(t, 5, cfg.HorizonYears)
	assert.Equal(t, "de", cfg.ReminderLanguage)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", loc.String())
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	clearEnvVars()
	defer clearEnvVars()

	os.Setenv("RECONCILER_SETTLE_WINDOW", "soon")
	os.Setenv("SCHEDULE_HORIZON_YEARS", "many")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 600*time.Millisecond, cfg.SettleWindow)
	assert.Equal(t, 100, cfg.HorizonYears)
}

func TestLoad_Rejects(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown driver", map[string]string{"STORAGE_DRIVER": "etcd"}},
		{"postgres without url", map[string]string{"STORAGE_DRIVER": "postgres"}},
		{"bad timezone", map[string]string{"DOSEWISE_TIMEZONE": "Mars/Olympus"}},
		{"negative horizon", map[string]string{"SCHEDULE_HORIZON_YEARS": "-1"}},
		{"zero failure threshold", map[string]string{"BREAKER_FAILURE_THRESHOLD": "0"}},
		{"negative max requests", map[string]string{"BREAKER_MAX_REQUESTS": "-3"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			clearEnvVars()
			defer clearEnvVars()
			for k, v := range tc.env {
				os.Setenv(k, v)
			}

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
