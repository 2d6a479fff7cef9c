package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInit(t *testing.T) {
	t.Setenv("UVC_DEVICE_NAME", "logitech")
	t.Setenv("UVC_STRICT_VALUES", "true")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Init()
	assert.NoError(t, err)
	assert.NotNil(t, cfg)

	assert.Equal(t, "logitech", cfg.Device.Name)
	assert.True(t, cfg.Controller.StrictValues)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestInit_DefaultValues(t *testing.T) {
	cfg, err := Init()
	assert.NoError(t, err)
	assert.NotNil(t, cfg)

	// App defaults
	assert.Equal(t, "uvcctl", cfg.App.ServiceName)

	// Device defaults
	assert.Equal(t, 0, cfg.Device.Index)
	assert.Empty(t, cfg.Device.Name)

	// Controller defaults
	assert.False(t, cfg.Controller.StrictValues)
	assert.False(t, cfg.Controller.StrictStep)
	assert.Equal(t, uint(3), cfg.Controller.BusyRetries)
	assert.Equal(t, 100*time.Millisecond, cfg.Controller.BusyInterval)

	// Breaker defaults
	assert.False(t, cfg.Breaker.Enabled)
	assert.Equal(t, uint(1), cfg.Breaker.MaxRequests)
	assert.Equal(t, 5*time.Second, cfg.Breaker.Timeout)
	assert.Equal(t, uint(5), cfg.Breaker.FailureThreshold)

	// Logging defaults
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestInit_VersionOverrides(t *testing.T) {
	ServiceVersion = "1.2.3"
	CommitSHA = "abc1234"

	t.Cleanup(func() {
		ServiceVersion = ""
		CommitSHA = ""
	})

	cfg, err := Init()
	assert.NoError(t, err)
	assert.Equal(t, "1.2.3", cfg.App.ServiceVersion)
	assert.Equal(t, "abc1234", cfg.App.CommitSHA)
}
