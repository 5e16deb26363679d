package ingest

import (
	"context"
	"net"

	"github.com/Novia-RDI-Seafaring/ft-otel/internal/logging"
	"github.com/Novia-RDI-Seafaring/ft-otel/internal/span"
	collectortrace "go.opentelemetry.io/proto/otlp/collector/trace/v1"
	"go.uber.org/zap"
	"google.golang.org/grpc"
)

// TraceServiceServer implements the OTLP collector trace service,
// forwarding exported spans into a span.Sink.
type TraceServiceServer struct {
	collectortrace.UnimplementedTraceServiceServer
	sink   span.Sink
	logger *logging.Logger
}

// NewTraceServiceServer creates the OTLP trace service.
func NewTraceServiceServer(sink span.Sink, logger *logging.Logger) *TraceServiceServer {
	if logger == nil {
		logger = logging.NewDefault()
	}
	return &TraceServiceServer{sink: sink, logger: logger}
}

// Export receives a batch of spans from an OTLP exporter. Conversion
// faults are logged and skipped; the exporter always gets a success
// response so a display problem never backpressures the traced
// application.
func (t *TraceServiceServer) Export(
	ctx context.Context,
	req *collectortrace.ExportTraceServiceRequest,
) (*collectortrace.ExportTraceServiceResponse, error) {
	for _, resourceSpans := range req.ResourceSpans {
		service := serviceName(resourceSpans)
		for _, scopeSpans := range resourceSpans.ScopeSpans {
			for _, otlpSpan := range scopeSpans.Spans {
				start, end := convertSpan(otlpSpan)
				if start.ID == "" {
					t.logger.Warn("exported span without id skipped",
						zap.String("name", otlpSpan.Name),
						zap.String("service", service),
					)
					continue
				}
				if service != "" {
					if start.Attributes == nil {
						start.Attributes = make(map[string]string, 1)
					}
					start.Attributes["service.name"] = service
				}
				t.sink.OnStart(start)
				t.sink.OnEnd(end)
			}
		}
	}
	return &collectortrace.ExportTraceServiceResponse{}, nil
}

// Server wraps a gRPC listener serving the OTLP trace service.
type Server struct {
	grpcServer *grpc.Server
	logger     *logging.Logger
}

// NewServer creates an OTLP ingest server feeding the given sink.
func NewServer(sink span.Sink, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.NewDefault()
	}
	grpcServer := grpc.NewServer()
	collectortrace.RegisterTraceServiceServer(grpcServer, NewTraceServiceServer(sink, logger))
	return &Server{grpcServer: grpcServer, logger: logger}
}

// Serve listens on the given address and blocks until Stop is called
// or the listener fails.
func (s *Server) Serve(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.logger.Info("OTLP ingest listening", zap.String("addr", addr))
	return s.grpcServer.Serve(listener)
}

// Stop shuts the server down gracefully.
func (s *Server) Stop() {
	s.grpcServer.GracefulStop()
}
