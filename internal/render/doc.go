// Package render converts spans into markup fragments.
//
// A Renderer turns one span into header, body, and status fragments;
// the Registry picks a renderer per span by inspecting its attribute
// keys, falling back to a default renderer when nothing matches. The
// rest of the system treats fragments as opaque strings and never
// depends on their serialization.
//
// Components:
//   - Renderer: Capability set {header, body, status}
//   - Registry: Attribute-key dispatch with overwrite semantics
//   - Default: Collapsible tree renderer
//   - Compact: Single-line renderer
//   - GenAI: Rich display for gen_ai.* instrumented spans
//
// Failure Model:
//   - A panicking renderer degrades that span to the default renderer
//   - One broken span type never blanks the rest of the tree
//
// Example Usage:
//
//	registry := render.NewRegistry(render.NewDefault(), logger)
//	registry.Register("gen_ai.operation.name", render.NewGenAI())
//	r := registry.ResolveSafe(s)
//	frag := render.Complete(r, s, render.TreeOptions{Expanded: s.Root()})
package render
