package span

import (
	"time"
)

// Status represents the outcome of a span, finalized when the span ends.
type Status int

const (
	StatusUnset Status = iota
	StatusOK
	StatusError
)

// String returns the display name of the status.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusError:
		return "ERROR"
	default:
		return "UNSET"
	}
}

// Span is a single traced operation. IDs are assigned by the
// instrumentation layer and never change. A span is open while EndTime
// is zero and closed exactly once when its end event arrives.
type Span struct {
	ID         string
	ParentID   string
	Name       string
	StartTime  time.Time
	EndTime    time.Time
	Status     Status
	Attributes map[string]string
}

// Root reports whether the span has no parent.
func (s *Span) Root() bool {
	return s.ParentID == ""
}

// Open reports whether the span has not yet ended.
func (s *Span) Open() bool {
	return s.EndTime.IsZero()
}

// Duration returns the elapsed time of a closed span, or zero while open.
func (s *Span) Duration() time.Duration {
	if s.Open() {
		return 0
	}
	return s.EndTime.Sub(s.StartTime)
}

// Attribute returns the value for a key and whether it is present.
func (s *Span) Attribute(key string) (string, bool) {
	v, ok := s.Attributes[key]
	return v, ok
}

// clone returns a deep copy so callers never alias store-owned state.
func (s *Span) clone() *Span {
	c := *s
	if s.Attributes != nil {
		c.Attributes = make(map[string]string, len(s.Attributes))
		for k, v := range s.Attributes {
			c.Attributes[k] = v
		}
	}
	return &c
}

// StartEvent carries the fields of a span-started callback.
type StartEvent struct {
	ID         string
	ParentID   string
	Name       string
	Start      time.Time
	Attributes map[string]string
}

// EndEvent carries the fields of a span-ended callback.
type EndEvent struct {
	ID         string
	End        time.Time
	Status     Status
	Attributes map[string]string
}

// Sink receives span lifecycle events from an instrumentation layer.
// Implementations must tolerate out-of-order, duplicate, and orphaned
// events and must never panic into the caller.
type Sink interface {
	OnStart(ev StartEvent)
	OnEnd(ev EndEvent)
}
