// Package trace wires span events to the store, renderers, and the
// broadcaster.
//
// The Processor is the single integration point for instrumentation
// layers: every start event becomes a store insert plus a "created"
// delta, every end event a store close plus an "updated" delta. It is
// the only component that touches both the span store and the renderer
// registry, keeping the two decoupled from each other.
//
// Components:
//   - Processor: span.Sink implementation driving the pipeline
//   - Bootstrap: Snapshot render plus subscription for new viewers
//
// Locking:
//   - The processor serializes mutate-render-publish so a span's
//     created delta always precedes its updated deltas
//   - Lock order is fixed: processor, then store or broadcaster; the
//     store and broadcaster locks are never held together
//
// Example Usage:
//
//	p := trace.NewProcessor(store, registry, broadcaster, trace.Options{ContainerID: "telemetry-container"})
//	p.OnStart(span.StartEvent{ID: "a1", Name: "handle request", Start: time.Now()})
//	initial, conn := p.Bootstrap("telemetry-container")
package trace
