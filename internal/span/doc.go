// Package span provides the span data model and the in-memory span store.
//
// The store is the single shared registry of spans for the process. It
// receives start and end events from instrumentation layers, reconstructs
// parent/child relationships as events arrive in arbitrary order, and
// serves consistent snapshots of the full tree to readers.
//
// Components:
//   - Span: A single traced operation with lifecycle state
//   - Store: Thread-safe registry keyed by span id
//   - Snapshot: Immutable tree view for initial renders
//   - Sink: Interface consumed by instrumentation layers
//
// Guarantees:
//   - Mutations are mutually exclusive; reads may run concurrently
//   - Duplicate starts and unknown ends are logged no-ops, never errors
//   - Orphaned spans (parent never seen) surface as roots
//   - Children are always ordered by start time
//
// Example Usage:
//
//	store := span.NewStore(logger)
//	store.OnStart("a1", "", "handle request", time.Now(), nil)
//	store.OnEnd("a1", time.Now(), span.StatusOK, nil)
//	snap := store.Snapshot()
//	roots := snap.Roots()
package span
