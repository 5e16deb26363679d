package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Novia-RDI-Seafaring/ft-otel/internal/span"
)

// Renderer converts a span into displayable fragments. Variants share
// the capability set so new renderers plug in without touching the
// store, broadcaster, or processor.
type Renderer interface {
	RenderHeader(s *span.Span) Fragment
	RenderBody(s *span.Span) Fragment
	RenderStatus(s *span.Span) Fragment
}

// TreeOptions controls how a complete span fragment is composed.
type TreeOptions struct {
	// Expanded opens the collapsible section on first paint.
	Expanded bool
	// Children is pre-rendered markup placed in the children container.
	Children Fragment
}

// Complete composes a full span element: collapsible header, body and
// status sections, and an (initially empty) container that created
// deltas for child spans append into.
func Complete(r Renderer, s *span.Span, opts TreeOptions) Fragment {
	checked := ""
	if opts.Expanded {
		checked = " checked"
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<div id=%q class="my-1">`, ElementID(s.ID))
	b.WriteString(`<div class="collapse collapse-arrow bg-base-100 border border-base-300 rounded-lg my-1">`)
	fmt.Fprintf(&b, `<input type="checkbox" class="collapse-checkbox" id=%q%s>`, "span-toggle-"+s.ID, checked)
	fmt.Fprintf(&b, `<label for=%q class="collapse-title text-sm font-medium p-2 hover:bg-base-200 transition-colors cursor-pointer">`, "span-toggle-"+s.ID)
	fmt.Fprintf(&b, `<div id=%q>%s</div>`, HeaderID(s.ID), r.RenderHeader(s))
	b.WriteString(`</label>`)
	b.WriteString(`<div class="collapse-content pl-4 space-y-2">`)
	fmt.Fprintf(&b, `<div id=%q>%s</div>`, BodyID(s.ID), r.RenderBody(s))
	fmt.Fprintf(&b, `<div id=%q>%s</div>`, StatusID(s.ID), r.RenderStatus(s))
	b.WriteString(`</div></div>`)
	fmt.Fprintf(&b, `<div id=%q class="pl-4 space-y-1 border-l border-base-300">%s</div>`, ChildrenID(s.ID), opts.Children)
	b.WriteString(`</div>`)
	return Fragment(b.String())
}

// Default renders spans as collapsible entries with attribute lists.
type Default struct {
	// AutoExpand lists case-insensitive name substrings whose spans are
	// expanded on first paint in addition to roots.
	AutoExpand []string
}

// NewDefault creates the default renderer.
func NewDefault(autoExpand ...string) *Default {
	return &Default{AutoExpand: autoExpand}
}

// ShouldExpand reports whether a span matches the auto-expand patterns.
func (d *Default) ShouldExpand(s *span.Span) bool {
	if s.Root() {
		return true
	}
	name := strings.ToLower(s.Name)
	for _, pattern := range d.AutoExpand {
		if strings.Contains(name, strings.ToLower(pattern)) {
			return true
		}
	}
	return false
}

// RenderHeader renders the span name, status, and duration.
func (d *Default) RenderHeader(s *span.Span) Fragment {
	var b strings.Builder
	b.WriteString(`<div class="flex justify-between items-center">`)
	fmt.Fprintf(&b, `<span class="font-semibold %s">%s</span>`, statusColor(s), escape(s.Name))
	fmt.Fprintf(&b, `<span class="text-xs opacity-70 ml-1"> %s</span>`, s.Status)
	fmt.Fprintf(&b, `<span class="ml-auto text-xs text-neutral-content/60">%s</span>`, durationText(s))
	b.WriteString(`</div>`)
	return Fragment(b.String())
}

// RenderBody renders the attribute list, or nothing when empty.
func (d *Default) RenderBody(s *span.Span) Fragment {
	if len(s.Attributes) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(`<ul class="pl-1 space-y-[1px]">`)
	for _, k := range sortedKeys(s.Attributes) {
		fmt.Fprintf(&b,
			`<li class="flex text-xs py-[1px]"><span class="text-neutral-content/70 mr-1">%s</span><span class="font-mono text-xs text-base-content/80 break-all">%s</span></li>`,
			escape(k), escape(s.Attributes[k]))
	}
	b.WriteString(`</ul>`)
	return Fragment(b.String())
}

// RenderStatus renders a one-line lifecycle indicator. Open spans are
// shown as in flight, never as errors.
func (d *Default) RenderStatus(s *span.Span) Fragment {
	if s.Open() {
		return Fragment(`<span class="text-xs text-warning">● running</span>`)
	}
	return Fragment(fmt.Sprintf(`<span class="text-xs %s">● %s in %s</span>`, statusColor(s), s.Status, durationText(s)))
}

// Compact renders spans as bare one-line entries for minimal UIs.
type Compact struct{}

// NewCompact creates the compact renderer.
func NewCompact() *Compact {
	return &Compact{}
}

// RenderHeader renders a status dot and the span name.
func (c *Compact) RenderHeader(s *span.Span) Fragment {
	return Fragment(fmt.Sprintf(
		`<div class="flex items-center"><span class="%s mr-2">●</span><span class="font-medium text-sm">%s</span></div>`,
		statusColor(s), escape(s.Name)))
}

// RenderBody renders nothing in compact mode.
func (c *Compact) RenderBody(*span.Span) Fragment {
	return ""
}

// RenderStatus renders nothing in compact mode.
func (c *Compact) RenderStatus(*span.Span) Fragment {
	return ""
}

func statusColor(s *span.Span) string {
	if s.Open() {
		return "text-warning"
	}
	switch s.Status {
	case span.StatusOK:
		return "text-success"
	case span.StatusError:
		return "text-error"
	default:
		return "text-warning"
	}
}

func durationText(s *span.Span) string {
	if s.Open() {
		return "..."
	}
	return fmt.Sprintf("%.1f ms", float64(s.Duration().Microseconds())/1000.0)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	// Stable attribute order keeps re-renders diff-friendly.
	sort.Strings(keys)
	return keys
}
