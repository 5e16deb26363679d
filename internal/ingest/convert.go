package ingest

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/Novia-RDI-Seafaring/ft-otel/internal/span"
	commonv1 "go.opentelemetry.io/proto/otlp/common/v1"
	tracev1 "go.opentelemetry.io/proto/otlp/trace/v1"
)

// convertSpan translates one exported OTLP span into a start event and
// an end event for the pipeline.
func convertSpan(s *tracev1.Span) (span.StartEvent, span.EndEvent) {
	id := hex.EncodeToString(s.SpanId)
	parentID := ""
	if len(s.ParentSpanId) > 0 {
		parentID = hex.EncodeToString(s.ParentSpanId)
	}

	start := span.StartEvent{
		ID:         id,
		ParentID:   parentID,
		Name:       s.Name,
		Start:      time.Unix(0, int64(s.StartTimeUnixNano)),
		Attributes: convertAttributes(s.Attributes),
	}
	end := span.EndEvent{
		ID:     id,
		End:    time.Unix(0, int64(s.EndTimeUnixNano)),
		Status: convertStatus(s.Status),
	}
	return start, end
}

func convertStatus(st *tracev1.Status) span.Status {
	if st == nil {
		return span.StatusUnset
	}
	switch st.Code {
	case tracev1.Status_STATUS_CODE_OK:
		return span.StatusOK
	case tracev1.Status_STATUS_CODE_ERROR:
		return span.StatusError
	default:
		return span.StatusUnset
	}
}

func convertAttributes(kvs []*commonv1.KeyValue) map[string]string {
	if len(kvs) == 0 {
		return nil
	}
	attrs := make(map[string]string, len(kvs))
	for _, kv := range kvs {
		attrs[kv.Key] = anyValueString(kv.Value)
	}
	return attrs
}

func anyValueString(v *commonv1.AnyValue) string {
	if v == nil {
		return ""
	}
	switch val := v.Value.(type) {
	case *commonv1.AnyValue_StringValue:
		return val.StringValue
	case *commonv1.AnyValue_BoolValue:
		return strconv.FormatBool(val.BoolValue)
	case *commonv1.AnyValue_IntValue:
		return strconv.FormatInt(val.IntValue, 10)
	case *commonv1.AnyValue_DoubleValue:
		return strconv.FormatFloat(val.DoubleValue, 'g', -1, 64)
	case *commonv1.AnyValue_ArrayValue:
		return fmt.Sprintf("%d items", len(val.ArrayValue.Values))
	case *commonv1.AnyValue_KvlistValue:
		return fmt.Sprintf("%d entries", len(val.KvlistValue.Values))
	case *commonv1.AnyValue_BytesValue:
		return hex.EncodeToString(val.BytesValue)
	default:
		return ""
	}
}

// serviceName extracts service.name from the resource attributes.
func serviceName(rs *tracev1.ResourceSpans) string {
	if rs.Resource == nil {
		return ""
	}
	for _, attr := range rs.Resource.Attributes {
		if attr.Key == "service.name" {
			return anyValueString(attr.Value)
		}
	}
	return ""
}
