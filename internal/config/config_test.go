package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, 5, cfg.ReminderConcurrency)
	assert.Equal(t, 7, cfg.ReminderLookbackDays)
	assert.Equal(t, "0 0 9 * * MON-FRI", cfg.ReminderSchedule)
	assert.False(t, cfg.ReminderSchedulerEnabled, "scheduler is opt-in per instance")
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("REMINDER_CONCURRENCY", "12")
	t.Setenv("IS_LOCAL_DEV", "true")
	t.Setenv("EXPORT_TEMP_DIR", "/var/tmp/exports")
	t.Setenv("REMINDER_SCHEDULER_ENABLED", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, 12, cfg.ReminderConcurrency)
	assert.True(t, cfg.IsLocalDev)
	assert.Equal(t, "/var/tmp/exports", cfg.ExportTempDir)
	assert.True(t, cfg.ReminderSchedulerEnabled)
}
