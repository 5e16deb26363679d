// Package config provides 12-factor configuration management for the telemetry server.
//
// Configuration is loaded from environment variables with sensible defaults.
//
// Configuration Sections:
//   - Server: HTTP server settings (port, host)
//   - Ingest: OTLP gRPC ingest listener settings
//   - Stream: live-view container id, per-viewer buffering, heartbeat cadence
//   - Logging: log level and output format
//   - Demo: built-in synthetic workload toggle and cadence
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("Server running on %s:%s\n", cfg.Server.Host, cfg.Server.Port)
//
// Environment Variables:
//   - PORT, HOST
//   - OTLP_ADDR, OTLP_ENABLED
//   - CONTAINER_ID, STREAM_BUFFER, STREAM_HEARTBEAT_MS
//   - LOG_LEVEL, LOG_DEV
//   - DEMO_ENABLED, DEMO_INTERVAL_MS
package config
