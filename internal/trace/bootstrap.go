package trace

import (
	"github.com/Novia-RDI-Seafaring/ft-otel/internal/render"
	"github.com/Novia-RDI-Seafaring/ft-otel/internal/span"
	"github.com/Novia-RDI-Seafaring/ft-otel/internal/stream"
)

// Bootstrap produces the initial markup for a newly connected viewer
// and subscribes it to future deltas. Snapshot and subscription happen
// under the processor lock, so no delta published in between can be
// lost; anything after the snapshot lands in the new connection's
// queue.
func (p *Processor) Bootstrap(containerID string) (render.Fragment, *stream.Connection) {
	if containerID == "" {
		containerID = p.containerID
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	snap := p.store.Snapshot()
	conn := p.broadcaster.Subscribe(containerID)

	var frags []render.Fragment
	for _, root := range snap.Roots() {
		frags = append(frags, p.renderTree(snap, root))
	}
	return render.Join(frags...), conn
}

// renderTree renders a span and its descendants depth-first, children
// ordered by start time.
func (p *Processor) renderTree(snap *span.Snapshot, s *span.Span) render.Fragment {
	var children []render.Fragment
	for _, c := range snap.ChildrenOf(s.ID) {
		children = append(children, p.renderTree(snap, c))
	}

	r := p.registry.ResolveSafe(s)
	return render.Complete(r, s, render.TreeOptions{
		Expanded: p.shouldExpand(s),
		Children: render.Join(children...),
	})
}
