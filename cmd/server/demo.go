package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/Novia-RDI-Seafaring/ft-otel/internal/render"
	"github.com/Novia-RDI-Seafaring/ft-otel/internal/span"
	"github.com/Novia-RDI-Seafaring/ft-otel/internal/tracer"
)

// runDemoWorkload produces a continuous stream of nested spans so the
// live view has traffic without an instrumented application attached.
func runDemoWorkload(ctx context.Context, tr *tracer.Tracer, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for i := 1; ; i++ {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			go simulateRequest(ctx, tr, i)
		}
	}
}

func simulateRequest(ctx context.Context, tr *tracer.Tracer, seq int) {
	ctx, root := tr.StartSpan(ctx, fmt.Sprintf("GET /orders/%d", seq), map[string]string{
		"http.method": "GET",
		"http.route":  "/orders/:id",
	})

	authCtx, auth := tr.StartSpan(ctx, "check auth", nil)
	pause(authCtx, 2, 8)
	auth.SetAttribute("auth.user", fmt.Sprintf("user-%d", seq%7))
	auth.End(span.StatusOK)

	queryCtx, query := tr.StartSpan(ctx, "db query", map[string]string{
		"db.system":    "postgres",
		"db.operation": "SELECT",
	})
	pause(queryCtx, 5, 30)
	failed := seq%9 == 0
	if failed {
		query.Fail(fmt.Errorf("connection reset by peer"))
	} else {
		query.SetAttribute("db.rows", strconv.Itoa(rand.IntN(40)+1))
		query.End(span.StatusOK)
	}

	// Every few requests include an AI-shaped span so the GenAI
	// renderer has something to show.
	if seq%3 == 0 {
		llmCtx, llm := tr.StartSpan(ctx, "summarize order", map[string]string{
			render.GenAIOperationKey:    "chat",
			"gen_ai.system":             "openai",
			"gen_ai.request.model":      "gpt-4o-mini",
			"gen_ai.usage.input_tokens": strconv.Itoa(rand.IntN(800) + 100),
		})
		pause(llmCtx, 20, 120)
		llm.SetAttribute("gen_ai.usage.output_tokens", strconv.Itoa(rand.IntN(300)+20))
		llm.SetAttribute("gen_ai.usage.cost", fmt.Sprintf("%.6f", rand.Float64()*0.01))
		llm.End(span.StatusOK)
	}

	if failed {
		root.SetAttribute("http.status_code", "500")
		root.End(span.StatusError)
		return
	}
	root.SetAttribute("http.status_code", "200")
	root.End(span.StatusOK)
}

// pause sleeps a random duration between min and max milliseconds,
// returning early on cancellation.
func pause(ctx context.Context, min, max int) {
	d := time.Duration(min+rand.IntN(max-min+1)) * time.Millisecond
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
