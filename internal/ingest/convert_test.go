package ingest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Novia-RDI-Seafaring/ft-otel/internal/logging"
	"github.com/Novia-RDI-Seafaring/ft-otel/internal/span"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	collectortrace "go.opentelemetry.io/proto/otlp/collector/trace/v1"
	commonv1 "go.opentelemetry.io/proto/otlp/common/v1"
	resourcev1 "go.opentelemetry.io/proto/otlp/resource/v1"
	tracev1 "go.opentelemetry.io/proto/otlp/trace/v1"
)

type recordingSink struct {
	mu     sync.Mutex
	starts []span.StartEvent
	ends   []span.EndEvent
}

func (r *recordingSink) OnStart(ev span.StartEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.starts = append(r.starts, ev)
}

func (r *recordingSink) OnEnd(ev span.EndEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ends = append(r.ends, ev)
}

func stringValue(s string) *commonv1.AnyValue {
	return &commonv1.AnyValue{Value: &commonv1.AnyValue_StringValue{StringValue: s}}
}

func TestConvertSpan(t *testing.T) {
	startNano := uint64(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC).UnixNano())
	endNano := startNano + uint64(25*time.Millisecond)

	otlpSpan := &tracev1.Span{
		SpanId:            []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08},
		ParentSpanId:      []byte{0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f, 0x10, 0x11},
		Name:              "GET /users",
		StartTimeUnixNano: startNano,
		EndTimeUnixNano:   endNano,
		Status:            &tracev1.Status{Code: tracev1.Status_STATUS_CODE_OK},
		Attributes: []*commonv1.KeyValue{
			{Key: "http.method", Value: stringValue("GET")},
			{Key: "http.status_code", Value: &commonv1.AnyValue{Value: &commonv1.AnyValue_IntValue{IntValue: 200}}},
			{Key: "cache.hit", Value: &commonv1.AnyValue{Value: &commonv1.AnyValue_BoolValue{BoolValue: true}}},
			{Key: "duration.ratio", Value: &commonv1.AnyValue{Value: &commonv1.AnyValue_DoubleValue{DoubleValue: 0.5}}},
		},
	}

	start, end := convertSpan(otlpSpan)

	assert.Equal(t, "0102030405060708", start.ID)
	assert.Equal(t, "0a0b0c0d0e0f1011", start.ParentID)
	assert.Equal(t, "GET /users", start.Name)
	assert.Equal(t, int64(startNano), start.Start.UnixNano())
	assert.Equal(t, "GET", start.Attributes["http.method"])
	assert.Equal(t, "200", start.Attributes["http.status_code"])
	assert.Equal(t, "true", start.Attributes["cache.hit"])
	assert.Equal(t, "0.5", start.Attributes["duration.ratio"])

	assert.Equal(t, start.ID, end.ID)
	assert.Equal(t, int64(endNano), end.End.UnixNano())
	assert.Equal(t, span.StatusOK, end.Status)
}

func TestConvertStatus(t *testing.T) {
	assert.Equal(t, span.StatusUnset, convertStatus(nil))
	assert.Equal(t, span.StatusUnset, convertStatus(&tracev1.Status{Code: tracev1.Status_STATUS_CODE_UNSET}))
	assert.Equal(t, span.StatusOK, convertStatus(&tracev1.Status{Code: tracev1.Status_STATUS_CODE_OK}))
	assert.Equal(t, span.StatusError, convertStatus(&tracev1.Status{Code: tracev1.Status_STATUS_CODE_ERROR}))
}

func TestConvertSpanRoot(t *testing.T) {
	start, _ := convertSpan(&tracev1.Span{
		SpanId:            []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08},
		Name:              "root",
		StartTimeUnixNano: uint64(time.Now().UnixNano()),
	})
	assert.Empty(t, start.ParentID)
}

func TestExport(t *testing.T) {
	sink := &recordingSink{}
	server := NewTraceServiceServer(sink, logging.Nop())

	now := uint64(time.Now().UnixNano())
	req := &collectortrace.ExportTraceServiceRequest{
		ResourceSpans: []*tracev1.ResourceSpans{
			{
				Resource: &resourcev1.Resource{
					Attributes: []*commonv1.KeyValue{
						{Key: "service.name", Value: stringValue("checkout")},
					},
				},
				ScopeSpans: []*tracev1.ScopeSpans{
					{
						Spans: []*tracev1.Span{
							{
								SpanId:            []byte{1, 2, 3, 4, 5, 6, 7, 8},
								Name:              "charge card",
								StartTimeUnixNano: now,
								EndTimeUnixNano:   now + uint64(time.Millisecond),
								Status:            &tracev1.Status{Code: tracev1.Status_STATUS_CODE_OK},
							},
							{
								// Missing id: skipped, not fatal.
								Name:              "broken",
								StartTimeUnixNano: now,
							},
						},
					},
				},
			},
		},
	}

	resp, err := server.Export(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, resp)

	require.Len(t, sink.starts, 1)
	require.Len(t, sink.ends, 1)
	assert.Equal(t, "charge card", sink.starts[0].Name)
	assert.Equal(t, "checkout", sink.starts[0].Attributes["service.name"])
	assert.Equal(t, sink.starts[0].ID, sink.ends[0].ID)
	assert.Equal(t, span.StatusOK, sink.ends[0].Status)
}
