package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Novia-RDI-Seafaring/ft-otel/internal/span"
)

// GenAIOperationKey is the attribute that marks a span as an AI call.
// Registering the GenAI renderer under this key routes matching spans
// to the rich display.
const GenAIOperationKey = "gen_ai.operation.name"

// GenAI renders AI/LLM-shaped spans with model, operation, and token
// usage called out instead of a flat attribute dump.
type GenAI struct{}

// NewGenAI creates the GenAI renderer.
func NewGenAI() *GenAI {
	return &GenAI{}
}

// RenderHeader shows the operation and model in place of the raw name.
func (g *GenAI) RenderHeader(s *span.Span) Fragment {
	operation := s.Name
	if op, ok := s.Attribute(GenAIOperationKey); ok {
		operation = op
	}
	display := operation
	if model, ok := s.Attribute("gen_ai.request.model"); ok {
		display = fmt.Sprintf("%s (%s)", operation, model)
	}
	system := ""
	if sys, ok := s.Attribute("gen_ai.system"); ok {
		system = fmt.Sprintf(`<span class="text-xs opacity-70 ml-1"> %s</span>`, escape(sys))
	}

	var b strings.Builder
	b.WriteString(`<div class="flex justify-between items-center">`)
	fmt.Fprintf(&b, `<span class="font-semibold %s">%s</span>`, statusColor(s), escape(display))
	b.WriteString(system)
	fmt.Fprintf(&b, `<span class="ml-auto text-xs text-neutral-content/60">%s</span>`, durationText(s))
	b.WriteString(`</div>`)
	return Fragment(b.String())
}

// RenderBody separates gen_ai.* attributes into a formatted metrics
// block and lists the rest below it.
func (g *GenAI) RenderBody(s *span.Span) Fragment {
	if len(s.Attributes) == 0 {
		return ""
	}

	var ai, other []string
	for _, k := range sortedKeys(s.Attributes) {
		if strings.HasPrefix(k, "gen_ai.") {
			ai = append(ai, k)
		} else {
			other = append(other, k)
		}
	}

	var b strings.Builder
	b.WriteString(`<ul class="pl-1 space-y-[1px]">`)
	if len(ai) > 0 {
		b.WriteString(`<div class="mb-2"><span class="font-medium text-sm text-primary">AI Metrics</span></div>`)
		for _, k := range ai {
			fmt.Fprintf(&b,
				`<li class="flex text-xs py-[1px]"><span class="text-primary/70 mr-2 text-xs">%s</span><span class="font-mono text-xs text-base-content/80">%s</span></li>`,
				escape(genAILabel(k)), escape(genAIValue(k, s.Attributes[k])))
		}
	}
	for _, k := range other {
		fmt.Fprintf(&b,
			`<li class="flex text-xs py-[1px]"><span class="text-neutral-content/70 mr-1">%s</span><span class="font-mono text-xs text-base-content/80 break-all">%s</span></li>`,
			escape(k), escape(s.Attributes[k]))
	}
	b.WriteString(`</ul>`)
	return Fragment(b.String())
}

// RenderStatus matches the default lifecycle indicator.
func (g *GenAI) RenderStatus(s *span.Span) Fragment {
	return NewDefault().RenderStatus(s)
}

// genAILabel turns "gen_ai.usage.input_tokens" into "Usage Input Tokens".
func genAILabel(key string) string {
	trimmed := strings.TrimPrefix(key, "gen_ai.")
	trimmed = strings.NewReplacer(".", " ", "_", " ").Replace(trimmed)
	words := strings.Fields(trimmed)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func genAIValue(key, value string) string {
	switch key {
	case "gen_ai.usage.input_tokens", "gen_ai.usage.output_tokens":
		return value + " tokens"
	case "gen_ai.usage.cost":
		if cost, err := strconv.ParseFloat(value, 64); err == nil {
			return fmt.Sprintf("$%.6f", cost)
		}
	}
	return value
}
