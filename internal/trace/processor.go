package trace

import (
	"sync"

	"github.com/Novia-RDI-Seafaring/ft-otel/internal/logging"
	"github.com/Novia-RDI-Seafaring/ft-otel/internal/monitoring"
	"github.com/Novia-RDI-Seafaring/ft-otel/internal/render"
	"github.com/Novia-RDI-Seafaring/ft-otel/internal/span"
	"github.com/Novia-RDI-Seafaring/ft-otel/internal/stream"
	"go.uber.org/zap"
)

// DefaultContainerID is the client-side element root spans append into.
const DefaultContainerID = "telemetry-container"

// Options configures a Processor.
type Options struct {
	// ContainerID addresses root-level created deltas. Defaults to
	// DefaultContainerID.
	ContainerID string
	Logger      *logging.Logger
	// Metrics may be nil.
	Metrics *monitoring.Metrics
}

// Processor implements span.Sink: it mutates the store, renders the
// affected span, and publishes the resulting delta. It performs no
// other business logic.
type Processor struct {
	mu          sync.Mutex
	store       *span.Store
	registry    *render.Registry
	broadcaster *stream.Broadcaster
	containerID string
	logger      *logging.Logger
	metrics     *monitoring.Metrics
}

// NewProcessor creates a processor bound to one container.
func NewProcessor(store *span.Store, registry *render.Registry, broadcaster *stream.Broadcaster, opts Options) *Processor {
	if opts.ContainerID == "" {
		opts.ContainerID = DefaultContainerID
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewDefault()
	}
	p := &Processor{
		store:       store,
		registry:    registry,
		broadcaster: broadcaster,
		containerID: opts.ContainerID,
		logger:      opts.Logger,
		metrics:     opts.Metrics,
	}
	if opts.Metrics != nil && registry.OnFailure == nil {
		registry.OnFailure = opts.Metrics.RecordRenderFailure
	}
	return p
}

// ContainerID returns the container this processor publishes to.
func (p *Processor) ContainerID() string {
	return p.containerID
}

// OnStart records a started span and publishes its created delta,
// appended under its parent's children container when the parent is
// already known, at the root otherwise. Invalid events are logged by
// the store and dropped; the instrumentation caller never sees a
// failure.
func (p *Processor) OnStart(ev span.StartEvent) {
	defer p.recovered("start", ev.ID)

	p.mu.Lock()
	defer p.mu.Unlock()

	s, ok := p.store.OnStart(ev.ID, ev.ParentID, ev.Name, ev.Start, ev.Attributes)
	if !ok {
		return
	}
	if p.metrics != nil {
		p.metrics.RecordSpanStarted()
	}

	target := p.containerID
	if ev.ParentID != "" && p.store.Has(ev.ParentID) {
		target = render.ChildrenID(ev.ParentID)
	}

	r := p.registry.ResolveSafe(s)
	frag := render.Complete(r, s, render.TreeOptions{Expanded: p.shouldExpand(s)})

	p.broadcaster.Publish(p.containerID, stream.Delta{
		Op:      stream.OpCreated,
		SpanID:  s.ID,
		Payload: render.AppendTo(target, frag),
	})
}

// OnEnd closes a span and publishes updated deltas replacing its
// header, body, and status in place. Events for unknown or already
// closed spans are logged by the store and dropped, which also keeps
// the created-before-updated ordering: no update is ever published for
// a span whose created delta was not.
func (p *Processor) OnEnd(ev span.EndEvent) {
	defer p.recovered("end", ev.ID)

	p.mu.Lock()
	defer p.mu.Unlock()

	s, ok := p.store.OnEnd(ev.ID, ev.End, ev.Status, ev.Attributes)
	if !ok {
		return
	}
	if p.metrics != nil {
		p.metrics.RecordSpanEnded()
	}

	r := p.registry.ResolveSafe(s)
	payload := render.Join(
		render.ReplaceIn(render.HeaderID(s.ID), r.RenderHeader(s)),
		render.ReplaceIn(render.BodyID(s.ID), r.RenderBody(s)),
		render.ReplaceIn(render.StatusID(s.ID), r.RenderStatus(s)),
	)

	p.broadcaster.Publish(p.containerID, stream.Delta{
		Op:      stream.OpUpdated,
		SpanID:  s.ID,
		Payload: payload,
	})
}

func (p *Processor) shouldExpand(s *span.Span) bool {
	if d, ok := p.registry.Default().(*render.Default); ok {
		return d.ShouldExpand(s)
	}
	return s.Root()
}

// recovered keeps telemetry faults from destabilizing the traced
// application: the instrumentation layer must never observe a panic.
func (p *Processor) recovered(phase, spanID string) {
	if r := recover(); r != nil {
		p.logger.Error("panic while processing span event",
			zap.String("phase", phase),
			zap.String("span_id", spanID),
			zap.Any("panic", r),
		)
	}
}
