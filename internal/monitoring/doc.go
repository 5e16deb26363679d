// Package monitoring provides Prometheus metrics for the span pipeline.
//
// Components:
//   - Metrics: Counters and gauges for spans, deltas, and viewers
//   - Middleware: Gin middleware recording HTTP request metrics
//
// Metrics:
//   - telemetry_spans_started_total / telemetry_spans_ended_total
//   - telemetry_spans_open
//   - telemetry_deltas_published_total (by op)
//   - telemetry_deltas_dropped_total
//   - telemetry_viewers_connected
//   - telemetry_render_failures_total
//   - telemetry_http_requests_total / request duration histogram
//
// Example Usage:
//
//	metrics := monitoring.New(prometheus.DefaultRegisterer)
//	router.Use(monitoring.Middleware(metrics))
//	metrics.RecordSpanStarted()
package monitoring
