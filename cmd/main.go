// Package main is the entry point for the UniFi search service.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/unifi-search-tool/unifi-search/internal/api"
	"github.com/unifi-search-tool/unifi-search/internal/callback"
	"github.com/unifi-search-tool/unifi-search/internal/config"
	"github.com/unifi-search-tool/unifi-search/internal/metrics"
	"github.com/unifi-search-tool/unifi-search/internal/publisher"
	"github.com/unifi-search-tool/unifi-search/internal/search"
	"github.com/unifi-search-tool/unifi-search/internal/unifi"
	"github.com/unifi-search-tool/unifi-search/internal/worker"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := newLogger(cfg.Logging)
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	sugar := logger.Sugar()
	sugar.Info("Starting UniFi search service")

	sugar.Infow("Configuration loaded",
		"port", cfg.Server.Port,
		"search_mode", cfg.Search.Mode,
		"concurrency", cfg.Search.Concurrency,
		"controller_timeout", cfg.Controller.Timeout,
	)

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	// Search orchestrator
	factory := search.NewClientFactory(unifi.Options{
		Timeout:            config.Seconds(cfg.Controller.Timeout),
		AcceptInvalidCerts: cfg.Controller.AcceptInvalidCerts,
		ProxyURL:           cfg.Controller.ProxyURL,
		CAFile:             cfg.Controller.CAFile,
		RequestsPerSecond:  cfg.Controller.RequestsPerSecond,
		UserAgent:          cfg.Controller.UserAgent,
		Logger:             sugar,
	})

	orch, err := search.New(factory, search.Config{
		Mode:        cfg.Search.Mode,
		Concurrency: cfg.Search.Concurrency,
	}, m, sugar)
	if err != nil {
		sugar.Fatalf("Failed to initialize search: %v", err)
	}

	// Completion notifiers
	var notifiers []worker.Notifier

	if cfg.Callback.Enabled {
		notifiers = append(notifiers, callback.NewReporter(
			cfg.Callback.CompleteURL,
			cfg.Callback.APIKey,
			config.Seconds(cfg.Callback.Timeout),
			sugar,
		))
	}

	if cfg.RabbitMQ.Enabled {
		pub, err := publisher.New(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, sugar)
		if err != nil {
			sugar.Fatalf("Failed to initialize publisher: %v", err)
		}
		defer func() { _ = pub.Close() }()

		notifiers = append(notifiers, pub)
	}

	// Initialize worker
	w := worker.New(orch, worker.Config{
		NotifyTimeout: config.Seconds(cfg.Search.NotifyTimeout),
	}, m, sugar, notifiers...)

	workerCtx, stopWorker := context.WithCancel(context.Background())
	workerDone := make(chan struct{})

	go func() {
		defer close(workerDone)
		_ = w.Run(workerCtx)
	}()

	// Initialize API server
	server := api.New(cfg.Server, cfg.Metrics, w, reg, sugar)

	// Create HTTP server
	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      server.Router(),
		ReadTimeout:  config.Seconds(cfg.Server.ReadTimeout),
		WriteTimeout: config.Seconds(cfg.Server.WriteTimeout),
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		sugar.Infof("HTTP server listening on port %d", cfg.Server.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Fatalf("HTTP server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	sugar.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), config.Seconds(cfg.Server.ShutdownTimeout))
	defer cancel()

	// Shutdown HTTP server
	if err := httpServer.Shutdown(ctx); err != nil {
		sugar.Errorf("Server forced to shutdown: %v", err)
	}

	// A running search is abandoned
	stopWorker()
	<-workerDone

	sugar.Info("Server stopped")
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	zc := zap.NewProductionConfig()
	if cfg.Format == "console" {
		zc = zap.NewDevelopmentConfig()
	}

	zc.Level = zap.NewAtomicLevelAt(level)

	return zc.Build()
}
