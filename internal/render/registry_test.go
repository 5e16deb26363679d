package render

import (
	"testing"
	"time"

	"github.com/Novia-RDI-Seafaring/ft-otel/internal/logging"
	"github.com/Novia-RDI-Seafaring/ft-otel/internal/span"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRenderer struct {
	tag string
}

func (s *stubRenderer) RenderHeader(*span.Span) Fragment { return Fragment(s.tag + "-header") }
func (s *stubRenderer) RenderBody(*span.Span) Fragment   { return Fragment(s.tag + "-body") }
func (s *stubRenderer) RenderStatus(*span.Span) Fragment { return Fragment(s.tag + "-status") }

type panicRenderer struct{}

func (panicRenderer) RenderHeader(*span.Span) Fragment { panic("broken header") }
func (panicRenderer) RenderBody(*span.Span) Fragment   { panic("broken body") }
func (panicRenderer) RenderStatus(*span.Span) Fragment { panic("broken status") }

func testSpan(attrs map[string]string) *span.Span {
	return &span.Span{
		ID:         "s1",
		Name:       "op",
		StartTime:  time.Now(),
		Attributes: attrs,
	}
}

func TestRegistryResolve(t *testing.T) {
	t.Run("Falls back to default with no registrations", func(t *testing.T) {
		fallback := &stubRenderer{tag: "default"}
		registry := NewRegistry(fallback, logging.Nop())

		r := registry.Resolve(testSpan(map[string]string{"anything": "v"}))
		assert.Same(t, Renderer(fallback), r)
	})

	t.Run("Matches attribute key", func(t *testing.T) {
		registry := NewRegistry(&stubRenderer{tag: "default"}, logging.Nop())
		ai := &stubRenderer{tag: "ai"}
		registry.Register("gen_ai.operation.name", ai)

		matched := registry.Resolve(testSpan(map[string]string{"gen_ai.operation.name": "chat"}))
		assert.Same(t, Renderer(ai), matched)

		unmatched := registry.Resolve(testSpan(map[string]string{"db.system": "postgres"}))
		assert.Equal(t, Fragment("default-header"), unmatched.RenderHeader(testSpan(nil)))
	})

	t.Run("Registration order decides between matches", func(t *testing.T) {
		registry := NewRegistry(&stubRenderer{tag: "default"}, logging.Nop())
		first := &stubRenderer{tag: "first"}
		second := &stubRenderer{tag: "second"}
		registry.Register("a.key", first)
		registry.Register("b.key", second)

		r := registry.Resolve(testSpan(map[string]string{"a.key": "1", "b.key": "2"}))
		assert.Same(t, Renderer(first), r)
	})

	t.Run("Last registration for a key wins", func(t *testing.T) {
		registry := NewRegistry(&stubRenderer{tag: "default"}, logging.Nop())
		registry.Register("k", &stubRenderer{tag: "old"})
		replacement := &stubRenderer{tag: "new"}
		registry.Register("k", replacement)

		r := registry.Resolve(testSpan(map[string]string{"k": "v"}))
		assert.Same(t, Renderer(replacement), r)
	})

	t.Run("Resolution sees registrations made after spans existed", func(t *testing.T) {
		registry := NewRegistry(&stubRenderer{tag: "default"}, logging.Nop())
		s := testSpan(map[string]string{"late.key": "v"})

		before := registry.Resolve(s)
		assert.Equal(t, Fragment("default-header"), before.RenderHeader(s))

		late := &stubRenderer{tag: "late"}
		registry.Register("late.key", late)
		assert.Same(t, Renderer(late), registry.Resolve(s))
	})
}

func TestRegistryPanicFallback(t *testing.T) {
	fallback := &stubRenderer{tag: "default"}
	registry := NewRegistry(fallback, logging.Nop())
	registry.Register("broken", panicRenderer{})

	failures := 0
	registry.OnFailure = func() { failures++ }

	s := testSpan(map[string]string{"broken": "v"})
	r := registry.ResolveSafe(s)

	assert.Equal(t, Fragment("default-header"), r.RenderHeader(s))
	assert.Equal(t, Fragment("default-body"), r.RenderBody(s))
	assert.Equal(t, Fragment("default-status"), r.RenderStatus(s))
	assert.Equal(t, 3, failures)
}

func TestRegistryResolveSafeHealthy(t *testing.T) {
	registry := NewRegistry(&stubRenderer{tag: "default"}, logging.Nop())
	ai := &stubRenderer{tag: "ai"}
	registry.Register("ai.key", ai)

	s := testSpan(map[string]string{"ai.key": "v"})
	r := registry.ResolveSafe(s)
	require.NotNil(t, r)
	assert.Equal(t, Fragment("ai-header"), r.RenderHeader(s))
}
