package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/light-bringer/advert-catalog/internal/config"
	"github.com/light-bringer/advert-catalog/internal/pkg/logger"
	"github.com/light-bringer/advert-catalog/internal/pkg/metrics"
	"github.com/light-bringer/advert-catalog/internal/pkg/tracer"
	"github.com/light-bringer/advert-catalog/internal/services"
)

func main() {
	envFile := flag.String("env-file", ".env", "optional dotenv file")
	flag.Parse()

	if err := run(*envFile); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}

func run(envFile string) error {
	// 1. Load configuration
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}

	appLogger, err := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting advert catalog",
		zap.String("store_driver", cfg.StoreDriver),
		zap.String("http_port", cfg.HTTPPort),
		zap.String("metrics_port", cfg.MetricsPort),
	)

	// 2. Observability
	tp := tracer.Init(cfg.ServiceName, cfg.OTLPEndpoint, appLogger)
	m := metrics.NewMetricsManager(strings.ReplaceAll(cfg.ServiceName, "-", "_"))
	var metricsServer *http.Server
	if cfg.MetricsPort != "" {
		metricsServer = metrics.StartMetricsServer(":"+cfg.MetricsPort, m, appLogger)
	}

	// 3. Initialize service dependencies (DI container)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serviceOpts, err := services.NewServiceOptions(ctx, cfg, m, appLogger)
	if err != nil {
		return fmt.Errorf("failed to initialize service: %w", err)
	}
	defer serviceOpts.Close()

	// 4. Outbox relay
	relayCtx, stopRelay := context.WithCancel(context.Background())
	relayDone := make(chan struct{})
	go func() {
		defer close(relayDone)
		serviceOpts.Relay.Run(relayCtx, cfg.OutboxPollInterval)
	}()

	// 5. HTTP server
	httpServer := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: otelhttp.NewHandler(serviceOpts.Router, cfg.ServiceName),
	}
	serveErr := make(chan error, 1)
	go func() {
		appLogger.Info("HTTP server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// 6. Graceful shutdown
	select {
	case <-ctx.Done():
		appLogger.Info("Shutting down gracefully...")
	case err := <-serveErr:
		if err != nil {
			appLogger.Error("HTTP server error", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("HTTP server shutdown error", zap.Error(err))
	}
	if err := serviceOpts.Runner.Wait(shutdownCtx); err != nil {
		appLogger.Warn("Image release tasks did not finish", zap.Error(err))
	}
	stopRelay()
	<-relayDone
	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			appLogger.Error("Metrics server shutdown error", zap.Error(err))
		}
	}
	if err := tp.Shutdown(shutdownCtx); err != nil {
		appLogger.Warn("Tracer shutdown error", zap.Error(err))
	}

	return nil
}
