package stream

import (
	"sync"

	"github.com/Novia-RDI-Seafaring/ft-otel/internal/logging"
	"github.com/Novia-RDI-Seafaring/ft-otel/internal/monitoring"
	"github.com/Novia-RDI-Seafaring/ft-otel/internal/render"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Op identifies the kind of render update a delta carries.
type Op string

const (
	OpCreated Op = "created"
	OpUpdated Op = "updated"
)

// Delta is one incremental render update for a single span. The payload
// already addresses its position in the client-side tree; the
// broadcaster treats it as opaque.
type Delta struct {
	Op      Op
	SpanID  string
	Payload render.Fragment
}

// Connection is a live viewer subscription. The caller drains Deltas
// until it is closed by Unsubscribe.
type Connection struct {
	id          string
	containerID string
	deltas      chan Delta
}

// ID returns the unique connection id.
func (c *Connection) ID() string { return c.id }

// ContainerID returns the id of the container this viewer renders into.
func (c *Connection) ContainerID() string { return c.containerID }

// Deltas returns the outbound delta stream. The channel is closed when
// the connection is unsubscribed.
func (c *Connection) Deltas() <-chan Delta { return c.deltas }

// DefaultBufferSize is the per-connection delta queue size used when no
// explicit size is configured.
const DefaultBufferSize = 64

// Broadcaster maintains the set of connected viewers and fans out
// deltas. Safe for concurrent use; its lock is independent from the
// span store's so a slow store operation never stalls publication.
type Broadcaster struct {
	mu         sync.RWMutex
	conns      map[string]map[string]*Connection
	bufferSize int
	logger     *logging.Logger
	metrics    *monitoring.Metrics
}

// NewBroadcaster creates a broadcaster with the given per-connection
// queue size. Metrics may be nil.
func NewBroadcaster(bufferSize int, logger *logging.Logger, metrics *monitoring.Metrics) *Broadcaster {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	if logger == nil {
		logger = logging.NewDefault()
	}
	return &Broadcaster{
		conns:      make(map[string]map[string]*Connection),
		bufferSize: bufferSize,
		logger:     logger,
		metrics:    metrics,
	}
}

// Subscribe registers a new viewer for a container and returns its
// connection handle.
func (b *Broadcaster) Subscribe(containerID string) *Connection {
	conn := &Connection{
		id:          uuid.NewString(),
		containerID: containerID,
		deltas:      make(chan Delta, b.bufferSize),
	}

	b.mu.Lock()
	if b.conns[containerID] == nil {
		b.conns[containerID] = make(map[string]*Connection)
	}
	b.conns[containerID][conn.id] = conn
	b.mu.Unlock()

	if b.metrics != nil {
		b.metrics.RecordViewerConnected()
	}
	b.logger.Debug("viewer subscribed",
		zap.String("connection_id", conn.id),
		zap.String("container_id", containerID),
	)
	return conn
}

// Unsubscribe removes a viewer and closes its delta channel. Safe to
// call more than once.
func (b *Broadcaster) Unsubscribe(conn *Connection) {
	if conn == nil {
		return
	}

	b.mu.Lock()
	group, ok := b.conns[conn.containerID]
	if ok {
		if _, live := group[conn.id]; live {
			delete(group, conn.id)
			if len(group) == 0 {
				delete(b.conns, conn.containerID)
			}
			// Closing under the write lock excludes in-flight sends.
			close(conn.deltas)
			ok = true
		} else {
			ok = false
		}
	}
	b.mu.Unlock()

	if ok {
		if b.metrics != nil {
			b.metrics.RecordViewerDisconnected()
		}
		b.logger.Debug("viewer unsubscribed", zap.String("connection_id", conn.id))
	}
}

// Publish sends a delta to every viewer subscribed to the container.
// When a viewer's queue is full its oldest delta is dropped to make
// room, so publication stays bounded-time regardless of consumption
// rates.
func (b *Broadcaster) Publish(containerID string, delta Delta) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, conn := range b.conns[containerID] {
		if b.metrics != nil {
			b.metrics.RecordDeltaPublished(string(delta.Op))
		}
		select {
		case conn.deltas <- delta:
			continue
		default:
		}

		// Queue full: drop the oldest entry, then retry once. The
		// consumer may have drained concurrently, so both selects stay
		// non-blocking.
		select {
		case <-conn.deltas:
			b.recordDrop(conn)
		default:
		}
		select {
		case conn.deltas <- delta:
		default:
			b.recordDrop(conn)
		}
	}
}

// ViewerCount returns the number of live connections for a container.
func (b *Broadcaster) ViewerCount(containerID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.conns[containerID])
}

func (b *Broadcaster) recordDrop(conn *Connection) {
	if b.metrics != nil {
		b.metrics.RecordDeltaDropped()
	}
	b.logger.Debug("delta dropped on slow viewer", zap.String("connection_id", conn.id))
}
