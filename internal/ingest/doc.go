// Package ingest receives OTLP trace exports over gRPC and feeds them
// into the span pipeline.
//
// Applications instrumented with any OpenTelemetry SDK can point their
// OTLP exporter at this endpoint and have their spans appear on the
// live view. OTLP delivers spans already completed, so each exported
// span becomes a start event followed by an end event; the span store
// tolerates this collapsed lifecycle by design.
//
// Components:
//   - TraceServiceServer: OTLP collector trace service implementation
//   - Server: gRPC listener wrapper with graceful shutdown
//
// Example Usage:
//
//	srv := ingest.NewServer(processor, logger)
//	go srv.Serve(":4317")
//	defer srv.Stop()
package ingest
