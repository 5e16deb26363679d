// Package stream fans out render deltas to connected viewers.
//
// The Broadcaster owns the set of live viewer connections, grouped by
// the container they render into. Each connection carries a bounded
// delta queue; when a viewer cannot keep up, its oldest queued delta is
// dropped so one slow client never stalls publication to the others.
//
// Components:
//   - Delta: One incremental render update for a single span
//   - Connection: Per-viewer handle with an outbound delta channel
//   - Broadcaster: Subscription registry and fan-out
//
// Guarantees:
//   - Publish never blocks on a slow or dead viewer
//   - Per-connection delivery is FIFO, preserving the created-before-
//     updated order for any single span
//   - Unsubscribe is idempotent and never disturbs other viewers
//
// Example Usage:
//
//	b := stream.NewBroadcaster(64, logger, metrics)
//	conn := b.Subscribe("telemetry-container")
//	defer b.Unsubscribe(conn)
//	for delta := range conn.Deltas() {
//		send(delta.Payload)
//	}
package stream
