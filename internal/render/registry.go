package render

import (
	"sync"

	"github.com/Novia-RDI-Seafaring/ft-otel/internal/logging"
	"github.com/Novia-RDI-Seafaring/ft-otel/internal/span"
	"go.uber.org/zap"
)

// Registry maps attribute keys to renderers. Resolution walks keys in
// registration order and picks the first one present on the span,
// falling back to the default renderer. Safe for concurrent use;
// renderers may be registered at any time, and resolution always uses
// the registry state current at render time.
type Registry struct {
	mu       sync.RWMutex
	order    []string
	byKey    map[string]Renderer
	fallback Renderer
	logger   *logging.Logger

	// OnFailure, when set, is invoked once per recovered render panic.
	OnFailure func()
}

// NewRegistry creates a registry with the given fallback renderer.
func NewRegistry(fallback Renderer, logger *logging.Logger) *Registry {
	if fallback == nil {
		fallback = NewDefault()
	}
	if logger == nil {
		logger = logging.NewDefault()
	}
	return &Registry{
		byKey:    make(map[string]Renderer),
		fallback: fallback,
		logger:   logger,
	}
}

// Register associates an attribute key with a renderer. Registering the
// same key again overwrites the previous renderer but keeps the key's
// original position in resolution order.
func (rg *Registry) Register(attributeKey string, r Renderer) {
	if attributeKey == "" || r == nil {
		return
	}

	rg.mu.Lock()
	defer rg.mu.Unlock()

	if _, exists := rg.byKey[attributeKey]; !exists {
		rg.order = append(rg.order, attributeKey)
	}
	rg.byKey[attributeKey] = r
}

// Default returns the fallback renderer.
func (rg *Registry) Default() Renderer {
	return rg.fallback
}

// Resolve returns the renderer for the first registered attribute key
// present on the span, or the fallback renderer.
func (rg *Registry) Resolve(s *span.Span) Renderer {
	rg.mu.RLock()
	defer rg.mu.RUnlock()

	for _, key := range rg.order {
		if _, ok := s.Attribute(key); ok {
			return rg.byKey[key]
		}
	}
	return rg.fallback
}

// ResolveSafe resolves a renderer and wraps it so a panic while
// rendering degrades that span to the fallback renderer instead of
// taking down the caller.
func (rg *Registry) ResolveSafe(s *span.Span) Renderer {
	r := rg.Resolve(s)
	if r == rg.fallback {
		return r
	}
	return &guarded{primary: r, fallback: rg.fallback, registry: rg}
}

// guarded shields callers from panicking renderers.
type guarded struct {
	primary  Renderer
	fallback Renderer
	registry *Registry
}

func (g *guarded) RenderHeader(s *span.Span) Fragment {
	return g.recovered(s, "header", g.primary.RenderHeader, g.fallback.RenderHeader)
}

func (g *guarded) RenderBody(s *span.Span) Fragment {
	return g.recovered(s, "body", g.primary.RenderBody, g.fallback.RenderBody)
}

func (g *guarded) RenderStatus(s *span.Span) Fragment {
	return g.recovered(s, "status", g.primary.RenderStatus, g.fallback.RenderStatus)
}

func (g *guarded) recovered(s *span.Span, part string, primary, fallback func(*span.Span) Fragment) (f Fragment) {
	defer func() {
		if r := recover(); r != nil {
			g.registry.logger.Error("renderer panicked, falling back to default",
				zap.String("span_id", s.ID),
				zap.String("span_name", s.Name),
				zap.String("part", part),
				zap.Any("panic", r),
			)
			if g.registry.OnFailure != nil {
				g.registry.OnFailure()
			}
			f = fallback(s)
		}
	}()
	return primary(s)
}
