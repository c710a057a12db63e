// Command server runs the matching engine as a standalone HTTP/WebSocket
// process: POST /orders and GET /book for request/response access, two
// WebSocket endpoints for streaming, and /metrics for Prometheus scraping.
// It is an external collaborator of the core per SPEC_FULL.md §1 — it has
// no access to engine internals beyond Submit and Snapshot.
package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/tsolander/matchbook/internal/config"
	"github.com/tsolander/matchbook/internal/engine"
	"github.com/tsolander/matchbook/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	hubPub := engine.NewHubPublisher()
	publisher := engine.Publisher(hubPub)

	natsConn, err := nats.Connect(cfg.NATSURL)
	if err != nil {
		logger.Warn("nats unavailable, running with in-process publishing only", zap.Error(err))
	} else {
		defer natsConn.Close()
		publisher = engine.NewMultiPublisher(hubPub, engine.NewNATSPublisher(natsConn, logger))
	}

	registry := prometheus.NewRegistry()
	metrics := engine.NewMetrics(registry)

	mgr := engine.NewManager(engine.ManagerConfig{
		PublishThrottle: cfg.PublishThrottle,
		RequestBuffer:   cfg.RequestBuffer,
		Publisher:       publisher,
		Logger:          logger,
		Metrics:         metrics,
	})
	defer mgr.Stop()

	srv := newServer(mgr, hubPub, registry, logger)

	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: srv.routes(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("listening", zap.String("addr", cfg.ListenAddr), zap.Strings("symbols", cfg.Symbols))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(shutdownCtx)
	logger.Info("shutdown complete")
}
