package tracer

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"github.com/Novia-RDI-Seafaring/ft-otel/internal/span"
)

// spanKeyType is a private type for context keys to avoid collisions.
type spanKeyType struct{}

var spanKey spanKeyType

// Tracer starts spans and forwards their lifecycle events to a sink.
// Safe for concurrent use by multiple goroutines.
type Tracer struct {
	sink span.Sink
}

// New creates a tracer feeding the given sink.
func New(sink span.Sink) *Tracer {
	return &Tracer{sink: sink}
}

// StartSpan opens a span, inheriting its parent from the context when
// one is present. The returned context carries the new span so nested
// calls become children.
func (t *Tracer) StartSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, *ActiveSpan) {
	parentID := ""
	if parent := fromContext(ctx); parent != nil {
		parentID = parent.id
	}

	a := &ActiveSpan{
		tracer:   t,
		id:       newSpanID(),
		parentID: parentID,
		name:     name,
		start:    time.Now(),
	}
	if len(attrs) > 0 {
		a.attrs = make(map[string]string, len(attrs))
		for k, v := range attrs {
			a.attrs[k] = v
		}
	}

	t.sink.OnStart(span.StartEvent{
		ID:         a.id,
		ParentID:   a.parentID,
		Name:       a.name,
		Start:      a.start,
		Attributes: a.attrs,
	})

	return context.WithValue(ctx, spanKey, a), a
}

// ActiveSpan is an open span owned by the code that started it.
// Safe for concurrent use.
type ActiveSpan struct {
	tracer   *Tracer
	id       string
	parentID string
	name     string
	start    time.Time

	mu    sync.Mutex
	attrs map[string]string
	ended bool
}

// ID returns the span id.
func (a *ActiveSpan) ID() string { return a.id }

// SetAttribute attaches a key-value pair. No-op once the span ended.
func (a *ActiveSpan) SetAttribute(key, value string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.ended {
		return
	}
	if a.attrs == nil {
		a.attrs = make(map[string]string)
	}
	a.attrs[key] = value
}

// End closes the span with the given status and forwards the end event.
// Safe to call multiple times; only the first call takes effect.
func (a *ActiveSpan) End(status span.Status) {
	a.mu.Lock()
	if a.ended {
		a.mu.Unlock()
		return
	}
	a.ended = true

	attrs := make(map[string]string, len(a.attrs))
	for k, v := range a.attrs {
		attrs[k] = v
	}
	a.mu.Unlock()

	a.tracer.sink.OnEnd(span.EndEvent{
		ID:         a.id,
		End:        time.Now(),
		Status:     status,
		Attributes: attrs,
	})
}

// Fail records the error message and closes the span with error status.
func (a *ActiveSpan) Fail(err error) {
	if err != nil {
		a.SetAttribute("error.message", err.Error())
	}
	a.End(span.StatusError)
}

// FromContext returns the active span carried by the context, or nil.
func FromContext(ctx context.Context) *ActiveSpan {
	return fromContext(ctx)
}

func fromContext(ctx context.Context) *ActiveSpan {
	if ctx == nil {
		return nil
	}
	a, _ := ctx.Value(spanKey).(*ActiveSpan)
	return a
}

// newSpanID returns a random 8-byte hex id, matching the wire format
// used by tracing SDKs.
func newSpanID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		// Fallback to a time-based id if crypto/rand fails.
		return hex.EncodeToString([]byte(time.Now().Format("15:04:05.000000")))
	}
	return hex.EncodeToString(b)
}
