// Package tracer provides a minimal in-process instrumentation layer.
//
// It exists for applications that want spans on the live view without
// pulling in a full tracing SDK: StartSpan opens a span, attributes can
// be attached while it is open, and End closes it. Parent/child
// relationships propagate through context.Context.
//
// Every lifecycle transition is forwarded to a span.Sink (normally the
// trace.Processor), which does the actual bookkeeping and streaming.
//
// Example Usage:
//
//	tr := tracer.New(processor)
//	ctx, s := tr.StartSpan(ctx, "handle request")
//	defer s.End(span.StatusOK)
//	s.SetAttribute("http.method", "GET")
//	_, child := tr.StartSpan(ctx, "db query")
//	child.End(span.StatusOK)
package tracer
