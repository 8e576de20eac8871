package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultThresholds(t *testing.T) {
	th := DefaultThresholds()

	assert.Equal(t, 30, th.WindowDays)
	assert.Equal(t, 5, th.MinSample)
	assert.Equal(t, 7, th.InterventionSample)
	assert.Equal(t, 3, th.CooldownDays)
	assert.Equal(t, 0.3, th.CriticalRate)
	assert.Equal(t, 0.5, th.HighRate)
	assert.Equal(t, 0.7, th.MediumRate)
	assert.Equal(t, 0.6, th.BelowAvgRate)
	assert.Equal(t, 5, th.BlockerLimit)
	assert.Equal(t, 21, th.ChronicDays)
	assert.Equal(t, 14, th.PlanBExtendDays)
}

func TestLoad(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "postgres://localhost/stride")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("PORT", "9090")

	cfg := Load()

	assert.Equal(t, "postgres://localhost/stride", cfg.PostgresDSN)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, "9090", cfg.Port)
}
