// Package server exposes the live trace view over HTTP.
//
// Routes:
//   - GET /           Demo page embedding the telemetry container
//   - GET /telemetry  SSE delta stream (one-way, text-based)
//   - GET /stream     WebSocket delta stream for non-SSE clients
//   - GET /health     Liveness and pipeline stats
//   - GET /metrics    Prometheus metrics
//
// Each viewer connection runs the container bootstrap flow: a full
// snapshot of the current tree is pushed first, then incremental
// deltas. Reconnection simply re-issues the same flow; there is no
// incremental resume.
//
// Example Usage:
//
//	srv := server.New(cfg, processor, broadcaster, store, logger, metrics)
//	if err := srv.Run(); err != nil { ... }
package server
