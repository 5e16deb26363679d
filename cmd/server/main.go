package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Novia-RDI-Seafaring/ft-otel/internal/config"
	"github.com/Novia-RDI-Seafaring/ft-otel/internal/ingest"
	"github.com/Novia-RDI-Seafaring/ft-otel/internal/logging"
	"github.com/Novia-RDI-Seafaring/ft-otel/internal/monitoring"
	"github.com/Novia-RDI-Seafaring/ft-otel/internal/render"
	"github.com/Novia-RDI-Seafaring/ft-otel/internal/server"
	"github.com/Novia-RDI-Seafaring/ft-otel/internal/span"
	"github.com/Novia-RDI-Seafaring/ft-otel/internal/stream"
	"github.com/Novia-RDI-Seafaring/ft-otel/internal/trace"
	"github.com/Novia-RDI-Seafaring/ft-otel/internal/tracer"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadOrDefault()

	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
		OutputPaths: []string{"stdout"},
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	metrics := monitoring.New(prometheus.DefaultRegisterer)

	// One store, registry, and broadcaster per process; everything
	// receives them by reference.
	store := span.NewStore(logger)
	registry := render.NewRegistry(render.NewDefault("Tool:", "agent run"), logger)
	registry.Register(render.GenAIOperationKey, render.NewGenAI())

	broadcaster := stream.NewBroadcaster(cfg.Stream.BufferSize, logger, metrics)
	processor := trace.NewProcessor(store, registry, broadcaster, trace.Options{
		ContainerID: cfg.Stream.ContainerID,
		Logger:      logger,
		Metrics:     metrics,
	})

	var ingestServer *ingest.Server
	if cfg.Ingest.Enabled {
		ingestServer = ingest.NewServer(processor, logger)
		go func() {
			if err := ingestServer.Serve(cfg.Ingest.Address); err != nil {
				logger.Error("OTLP ingest server failed", zap.Error(err))
			}
		}()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Demo.Enabled {
		interval := time.Duration(cfg.Demo.IntervalMS) * time.Millisecond
		go runDemoWorkload(ctx, tracer.New(processor), interval)
		logger.Info("demo workload enabled", zap.Duration("interval", interval))
	}

	srv := server.New(cfg, processor, broadcaster, store, logger, metrics)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Run()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
		logger.Info("shutting down gracefully")
		cancel()
		if ingestServer != nil {
			ingestServer.Stop()
		}
		if err := srv.Close(); err != nil {
			logger.Error("error during shutdown", zap.Error(err))
		}
	case err := <-errChan:
		if err != nil {
			logger.Fatal("server error", zap.Error(err))
		}
	}
}
