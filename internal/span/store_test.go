package span

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Novia-RDI-Seafaring/ft-otel/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreLifecycle(t *testing.T) {
	base := time.Now()

	t.Run("Start and end a root span", func(t *testing.T) {
		store := NewStore(logging.Nop())

		s, ok := store.OnStart("root", "", "handle request", base, map[string]string{"http.method": "GET"})
		require.True(t, ok)
		assert.True(t, s.Open())
		assert.True(t, s.Root())

		snap := store.Snapshot()
		require.Equal(t, 1, snap.Len())
		require.Len(t, snap.Roots(), 1)
		assert.True(t, snap.Roots()[0].Open())

		closed, ok := store.OnEnd("root", base.Add(50*time.Millisecond), StatusOK, nil)
		require.True(t, ok)
		assert.False(t, closed.Open())
		assert.Equal(t, StatusOK, closed.Status)
		assert.Equal(t, 50*time.Millisecond, closed.Duration())

		snap = store.Snapshot()
		require.Len(t, snap.Roots(), 1)
		assert.False(t, snap.Roots()[0].Open())
		assert.Equal(t, StatusOK, snap.Roots()[0].Status)
	})

	t.Run("Nesting preserved across end events", func(t *testing.T) {
		store := NewStore(logging.Nop())

		_, ok := store.OnStart("root", "", "parent", base, nil)
		require.True(t, ok)
		_, ok = store.OnStart("child", "root", "child", base.Add(time.Millisecond), nil)
		require.True(t, ok)

		snap := store.Snapshot()
		require.Len(t, snap.Roots(), 1)
		kids := snap.ChildrenOf("root")
		require.Len(t, kids, 1)
		assert.Equal(t, "child", kids[0].ID)

		_, ok = store.OnEnd("child", base.Add(2*time.Millisecond), StatusOK, nil)
		require.True(t, ok)
		_, ok = store.OnEnd("root", base.Add(3*time.Millisecond), StatusOK, nil)
		require.True(t, ok)

		snap = store.Snapshot()
		require.Len(t, snap.Roots(), 1)
		require.Len(t, snap.ChildrenOf("root"), 1)
		assert.False(t, snap.ChildrenOf("root")[0].Open())
	})

	t.Run("Duplicate start is a no-op", func(t *testing.T) {
		store := NewStore(logging.Nop())

		_, ok := store.OnStart("dup", "", "first", base, map[string]string{"k": "v"})
		require.True(t, ok)
		_, ok = store.OnStart("dup", "", "second", base.Add(time.Second), nil)
		assert.False(t, ok)

		s, found := store.Get("dup")
		require.True(t, found)
		assert.Equal(t, "first", s.Name)
		assert.Equal(t, 1, store.Len())
	})

	t.Run("End before start is a no-op", func(t *testing.T) {
		store := NewStore(logging.Nop())

		_, ok := store.OnEnd("ghost", base, StatusOK, nil)
		assert.False(t, ok)
		assert.Equal(t, 0, store.Len())
	})

	t.Run("Double end is idempotent", func(t *testing.T) {
		store := NewStore(logging.Nop())

		_, ok := store.OnStart("once", "", "op", base, nil)
		require.True(t, ok)
		first, ok := store.OnEnd("once", base.Add(time.Millisecond), StatusError, map[string]string{"error.message": "boom"})
		require.True(t, ok)

		_, ok = store.OnEnd("once", base.Add(time.Second), StatusOK, map[string]string{"error.message": "later"})
		assert.False(t, ok)

		s, found := store.Get("once")
		require.True(t, found)
		assert.Equal(t, first.EndTime, s.EndTime)
		assert.Equal(t, StatusError, s.Status)
		assert.Equal(t, "boom", s.Attributes["error.message"])
	})

	t.Run("Missing id is dropped", func(t *testing.T) {
		store := NewStore(logging.Nop())

		_, ok := store.OnStart("", "", "anonymous", base, nil)
		assert.False(t, ok)
		assert.Equal(t, 0, store.Len())
	})

	t.Run("End attributes win over start attributes", func(t *testing.T) {
		store := NewStore(logging.Nop())

		_, ok := store.OnStart("merge", "", "op", base, map[string]string{"a": "start", "b": "start"})
		require.True(t, ok)
		_, ok = store.OnEnd("merge", base.Add(time.Millisecond), StatusOK, map[string]string{"b": "end", "c": "end"})
		require.True(t, ok)

		s, found := store.Get("merge")
		require.True(t, found)
		assert.Equal(t, "start", s.Attributes["a"])
		assert.Equal(t, "end", s.Attributes["b"])
		assert.Equal(t, "end", s.Attributes["c"])
	})
}

func TestStoreOrphans(t *testing.T) {
	base := time.Now()
	store := NewStore(logging.Nop())

	// Child arrives before its parent is ever seen.
	_, ok := store.OnStart("orphan", "missing-parent", "orphaned", base, nil)
	require.True(t, ok)

	snap := store.Snapshot()
	require.Len(t, snap.Roots(), 1)
	assert.Equal(t, "orphan", snap.Roots()[0].ID)

	// Parent shows up later; the orphan is re-homed on the next snapshot.
	_, ok = store.OnStart("missing-parent", "", "parent", base.Add(-time.Second), nil)
	require.True(t, ok)

	snap = store.Snapshot()
	require.Len(t, snap.Roots(), 1)
	assert.Equal(t, "missing-parent", snap.Roots()[0].ID)
	kids := snap.ChildrenOf("missing-parent")
	require.Len(t, kids, 1)
	assert.Equal(t, "orphan", kids[0].ID)
}

func TestStoreChildOrdering(t *testing.T) {
	base := time.Now()
	store := NewStore(logging.Nop())

	_, ok := store.OnStart("root", "", "parent", base, nil)
	require.True(t, ok)

	// Insert children out of start-time order.
	_, _ = store.OnStart("late", "root", "late", base.Add(30*time.Millisecond), nil)
	_, _ = store.OnStart("early", "root", "early", base.Add(10*time.Millisecond), nil)
	_, _ = store.OnStart("middle", "root", "middle", base.Add(20*time.Millisecond), nil)

	kids := store.ChildrenOf("root")
	require.Len(t, kids, 3)
	assert.Equal(t, "early", kids[0].ID)
	assert.Equal(t, "middle", kids[1].ID)
	assert.Equal(t, "late", kids[2].ID)
}

func TestStoreSnapshotIsolation(t *testing.T) {
	base := time.Now()
	store := NewStore(logging.Nop())

	_, ok := store.OnStart("a", "", "op", base, map[string]string{"k": "v"})
	require.True(t, ok)

	snap := store.Snapshot()
	s, found := snap.Get("a")
	require.True(t, found)
	s.Attributes["k"] = "mutated"
	s.Name = "mutated"

	fresh, found := store.Get("a")
	require.True(t, found)
	assert.Equal(t, "op", fresh.Name)
	assert.Equal(t, "v", fresh.Attributes["k"])
}

func TestStoreTreeInvariant(t *testing.T) {
	base := time.Now()
	store := NewStore(logging.Nop())

	const n = 40
	for i := 0; i < n; i++ {
		parent := ""
		if i > 0 {
			parent = fmt.Sprintf("s%d", (i-1)/2)
		}
		_, ok := store.OnStart(fmt.Sprintf("s%d", i), parent, "op", base.Add(time.Duration(i)*time.Millisecond), nil)
		require.True(t, ok)
	}
	for i := 0; i < n; i += 2 {
		_, ok := store.OnEnd(fmt.Sprintf("s%d", i), base.Add(time.Hour), StatusOK, nil)
		require.True(t, ok)
	}

	snap := store.Snapshot()
	assert.Equal(t, n, snap.Len())

	// Every span appears exactly once across roots and child lists.
	seen := make(map[string]int)
	var walk func(s *Span)
	walk = func(s *Span) {
		seen[s.ID]++
		for _, c := range snap.ChildrenOf(s.ID) {
			assert.Equal(t, s.ID, c.ParentID)
			walk(c)
		}
	}
	for _, r := range snap.Roots() {
		walk(r)
	}
	assert.Len(t, seen, n)
	for id, count := range seen {
		assert.Equalf(t, 1, count, "span %s appears %d times", id, count)
	}

	closed := 0
	for i := 0; i < n; i++ {
		s, found := snap.Get(fmt.Sprintf("s%d", i))
		require.True(t, found)
		if !s.Open() {
			closed++
		}
	}
	assert.Equal(t, n/2, closed)
}

func TestStoreConcurrentEvents(t *testing.T) {
	base := time.Now()
	store := NewStore(logging.Nop())

	const workers = 8
	const perWorker = 50

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				id := fmt.Sprintf("w%d-s%d", w, i)
				store.OnStart(id, "", "op", base, nil)
				store.OnEnd(id, base.Add(time.Millisecond), StatusOK, nil)
				// Duplicate and unknown events interleaved with reads.
				store.OnStart(id, "", "dup", base, nil)
				store.OnEnd(fmt.Sprintf("unknown-%d-%d", w, i), base, StatusError, nil)
				_ = store.Snapshot()
				_ = store.ChildrenOf(id)
			}
		}(w)
	}
	wg.Wait()

	snap := store.Snapshot()
	assert.Equal(t, workers*perWorker, snap.Len())
	for _, r := range snap.Roots() {
		assert.False(t, r.Open())
	}
}
