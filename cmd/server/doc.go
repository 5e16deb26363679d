// Command server runs the live trace streaming service.
//
// It wires the span store, renderer registry, broadcaster, and
// processor together, serves the viewer endpoints over HTTP, accepts
// OTLP trace exports over gRPC, and optionally generates a synthetic
// workload so the view has something to show out of the box.
//
// Configuration is environment-based; see internal/config.
package main
