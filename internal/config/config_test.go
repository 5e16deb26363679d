package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Server config
	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)

	// Ingest config
	assert.Equal(t, ":4317", cfg.Ingest.Address)
	assert.True(t, cfg.Ingest.Enabled)

	// Stream config
	assert.Equal(t, "telemetry-container", cfg.Stream.ContainerID)
	assert.Equal(t, 64, cfg.Stream.BufferSize)
	assert.Equal(t, 1000, cfg.Stream.HeartbeatMS)

	// Logging config
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Development)

	// Demo config
	assert.True(t, cfg.Demo.Enabled)
	assert.Equal(t, 3000, cfg.Demo.IntervalMS)
}

func TestLoadOrDefault(t *testing.T) {
	// Should return default when no env vars set
	cfg := LoadOrDefault()

	assert.NotNil(t, cfg)
	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadWithEnvironmentVariables(t *testing.T) {
	envVars := map[string]string{
		"PORT":                "9000",
		"HOST":                "127.0.0.1",
		"OTLP_ADDR":           ":4318",
		"OTLP_ENABLED":        "false",
		"CONTAINER_ID":        "trace-view",
		"STREAM_BUFFER":       "128",
		"STREAM_HEARTBEAT_MS": "500",
		"LOG_LEVEL":           "debug",
		"LOG_DEV":             "true",
		"DEMO_ENABLED":        "false",
		"DEMO_INTERVAL_MS":    "100",
	}

	for key, value := range envVars {
		err := os.Setenv(key, value)
		require.NoError(t, err)
		defer os.Unsetenv(key)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, ":4318", cfg.Ingest.Address)
	assert.False(t, cfg.Ingest.Enabled)
	assert.Equal(t, "trace-view", cfg.Stream.ContainerID)
	assert.Equal(t, 128, cfg.Stream.BufferSize)
	assert.Equal(t, 500, cfg.Stream.HeartbeatMS)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Development)
	assert.False(t, cfg.Demo.Enabled)
	assert.Equal(t, 100, cfg.Demo.IntervalMS)
}
