package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	Ingest  IngestConfig
	Stream  StreamConfig
	Logging LogConfig
	Demo    DemoConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8000"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
}

// IngestConfig holds OTLP gRPC ingest configuration.
type IngestConfig struct {
	Address string `envconfig:"OTLP_ADDR" default:":4317"`
	Enabled bool   `envconfig:"OTLP_ENABLED" default:"true"`
}

// StreamConfig holds viewer streaming configuration.
type StreamConfig struct {
	ContainerID string `envconfig:"CONTAINER_ID" default:"telemetry-container"`
	BufferSize  int    `envconfig:"STREAM_BUFFER" default:"64"`
	HeartbeatMS int    `envconfig:"STREAM_HEARTBEAT_MS" default:"1000"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// DemoConfig holds synthetic workload configuration.
type DemoConfig struct {
	Enabled    bool `envconfig:"DEMO_ENABLED" default:"true"`
	IntervalMS int  `envconfig:"DEMO_INTERVAL_MS" default:"3000"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8000",
			Host: "0.0.0.0",
		},
		Ingest: IngestConfig{
			Address: ":4317",
			Enabled: true,
		},
		Stream: StreamConfig{
			ContainerID: "telemetry-container",
			BufferSize:  64,
			HeartbeatMS: 1000,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		Demo: DemoConfig{
			Enabled:    true,
			IntervalMS: 3000,
		},
	}
}
