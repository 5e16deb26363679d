package server

import (
	"context"
	"net/http"
	"time"

	"github.com/Novia-RDI-Seafaring/ft-otel/internal/config"
	"github.com/Novia-RDI-Seafaring/ft-otel/internal/logging"
	"github.com/Novia-RDI-Seafaring/ft-otel/internal/middleware"
	"github.com/Novia-RDI-Seafaring/ft-otel/internal/monitoring"
	"github.com/Novia-RDI-Seafaring/ft-otel/internal/span"
	"github.com/Novia-RDI-Seafaring/ft-otel/internal/stream"
	"github.com/Novia-RDI-Seafaring/ft-otel/internal/trace"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Server wraps the HTTP server and its dependencies.
type Server struct {
	router      *gin.Engine
	httpServer  *http.Server
	processor   *trace.Processor
	broadcaster *stream.Broadcaster
	store       *span.Store
	cfg         *config.Config
	logger      *logging.Logger
	metrics     *monitoring.Metrics
}

// New creates a server instance. Metrics may be nil.
func New(
	cfg *config.Config,
	processor *trace.Processor,
	broadcaster *stream.Broadcaster,
	store *span.Store,
	logger *logging.Logger,
	metrics *monitoring.Metrics,
) *Server {
	if logger == nil {
		logger = logging.NewDefault()
	}
	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if metrics != nil {
		router.Use(monitoring.Middleware(metrics))
	}

	s := &Server{
		router:      router,
		processor:   processor,
		broadcaster: broadcaster,
		store:       store,
		cfg:         cfg,
		logger:      logger,
		metrics:     metrics,
	}

	router.GET("/", s.handleIndex)
	router.GET("/telemetry", s.handleTelemetry)
	router.GET("/stream", s.handleStream)
	router.GET("/health", s.handleHealth)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return s
}

// Run starts the HTTP server and blocks until it stops.
func (s *Server) Run() error {
	addr := s.cfg.Server.Host + ":" + s.cfg.Server.Port
	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.router,
	}
	s.logger.Info("HTTP server listening", zap.String("addr", addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close shuts the HTTP server down gracefully.
func (s *Server) Close() error {
	if s.httpServer == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

// Router exposes the gin engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	if s.metrics != nil {
		s.metrics.UpdateUptime()
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"spans":   s.store.Len(),
		"viewers": s.broadcaster.ViewerCount(s.processor.ContainerID()),
	})
}

func (s *Server) heartbeatInterval() time.Duration {
	ms := s.cfg.Stream.HeartbeatMS
	if ms <= 0 {
		ms = 1000
	}
	return time.Duration(ms) * time.Millisecond
}
