package span

import (
	"sort"
	"sync"
	"time"

	"github.com/Novia-RDI-Seafaring/ft-otel/internal/logging"
	"go.uber.org/zap"
)

// Store is the process-wide in-memory span registry. All mutations are
// serialized; reads may run concurrently with each other.
type Store struct {
	mu       sync.RWMutex
	spans    map[string]*Span
	children map[string][]string
	logger   *logging.Logger
}

// NewStore creates an empty store.
func NewStore(logger *logging.Logger) *Store {
	if logger == nil {
		logger = logging.NewDefault()
	}
	return &Store{
		spans:    make(map[string]*Span),
		children: make(map[string][]string),
		logger:   logger,
	}
}

// OnStart inserts a new open span. A duplicate id is a logged no-op so a
// misbehaving instrumentation layer cannot corrupt existing state. The
// returned span is a copy of the inserted record; ok is false when the
// event was ignored.
func (st *Store) OnStart(id, parentID, name string, start time.Time, attrs map[string]string) (*Span, bool) {
	if id == "" {
		st.logger.Warn("dropping start event without span id", zap.String("name", name))
		return nil, false
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	if _, exists := st.spans[id]; exists {
		st.logger.Warn("duplicate start event ignored", zap.String("span_id", id), zap.String("name", name))
		return nil, false
	}

	s := &Span{
		ID:        id,
		ParentID:  parentID,
		Name:      name,
		StartTime: start,
		Status:    StatusUnset,
	}
	if len(attrs) > 0 {
		s.Attributes = make(map[string]string, len(attrs))
		for k, v := range attrs {
			s.Attributes[k] = v
		}
	}

	st.spans[id] = s
	if parentID != "" {
		st.children[parentID] = append(st.children[parentID], id)
	}
	return s.clone(), true
}

// OnEnd marks a span closed and merges its final attributes, end-time
// values winning over values set at start. Unknown or already-closed ids
// are logged no-ops; the instrumentation caller never sees an error. The
// returned span is a copy of the closed record; ok is false when the
// event was ignored.
func (st *Store) OnEnd(id string, end time.Time, status Status, attrs map[string]string) (*Span, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, exists := st.spans[id]
	if !exists {
		st.logger.Warn("end event for unknown span ignored", zap.String("span_id", id))
		return nil, false
	}
	if !s.Open() {
		st.logger.Warn("end event for closed span ignored", zap.String("span_id", id), zap.String("name", s.Name))
		return nil, false
	}

	s.EndTime = end
	s.Status = status
	if len(attrs) > 0 {
		if s.Attributes == nil {
			s.Attributes = make(map[string]string, len(attrs))
		}
		for k, v := range attrs {
			s.Attributes[k] = v
		}
	}
	return s.clone(), true
}

// Get returns a copy of the span with the given id.
func (st *Store) Get(id string) (*Span, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	s, ok := st.spans[id]
	if !ok {
		return nil, false
	}
	return s.clone(), true
}

// Has reports whether a span with the given id exists.
func (st *Store) Has(id string) bool {
	st.mu.RLock()
	defer st.mu.RUnlock()
	_, ok := st.spans[id]
	return ok
}

// ChildrenOf returns copies of the direct children of a span, ordered by
// start time.
func (st *Store) ChildrenOf(id string) []*Span {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.childrenLocked(id)
}

func (st *Store) childrenLocked(id string) []*Span {
	ids := st.children[id]
	if len(ids) == 0 {
		return nil
	}
	out := make([]*Span, 0, len(ids))
	for _, childID := range ids {
		if c, ok := st.spans[childID]; ok {
			out = append(out, c.clone())
		}
	}
	sortByStart(out)
	return out
}

// Len returns the number of spans in the store.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.spans)
}

// Snapshot returns an immutable, consistent view of the full tree. The
// copy is taken under the write-excluding read lock, so no span is ever
// observed mid-mutation.
func (st *Store) Snapshot() *Snapshot {
	st.mu.RLock()
	defer st.mu.RUnlock()

	snap := &Snapshot{
		byID:     make(map[string]*Span, len(st.spans)),
		children: make(map[string][]*Span, len(st.children)),
	}
	for id, s := range st.spans {
		snap.byID[id] = s.clone()
	}
	for _, c := range snap.byID {
		// Spans whose parent was never seen surface as roots so that
		// rendering never blocks on event ordering.
		if c.ParentID == "" || snap.byID[c.ParentID] == nil {
			snap.roots = append(snap.roots, c)
			continue
		}
		snap.children[c.ParentID] = append(snap.children[c.ParentID], c)
	}
	sortByStart(snap.roots)
	for _, kids := range snap.children {
		sortByStart(kids)
	}
	return snap
}

// Snapshot is a point-in-time copy of the span tree. It is detached from
// the store and safe for concurrent use.
type Snapshot struct {
	byID     map[string]*Span
	children map[string][]*Span
	roots    []*Span
}

// Len returns the number of spans in the snapshot.
func (sn *Snapshot) Len() int {
	return len(sn.byID)
}

// Get returns the span with the given id.
func (sn *Snapshot) Get(id string) (*Span, bool) {
	s, ok := sn.byID[id]
	return s, ok
}

// Roots returns top-level spans ordered by start time, including spans
// whose parent is not present in the snapshot.
func (sn *Snapshot) Roots() []*Span {
	return sn.roots
}

// ChildrenOf returns the direct children of a span ordered by start time.
func (sn *Snapshot) ChildrenOf(id string) []*Span {
	return sn.children[id]
}

func sortByStart(spans []*Span) {
	sort.SliceStable(spans, func(i, j int) bool {
		return spans[i].StartTime.Before(spans[j].StartTime)
	})
}
