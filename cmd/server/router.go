package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/tsolander/matchbook/internal/engine"
)

// server holds the HTTP/WebSocket front end's dependencies. It never
// touches engine state directly — only through mgr.Submit/mgr.Snapshot and
// the publisher's subscribe calls, per SPEC_FULL.md §3 "Ownership".
type server struct {
	mgr      *engine.Manager
	pub      *engine.HubPublisher
	registry *prometheus.Registry
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

func newServer(mgr *engine.Manager, pub *engine.HubPublisher, registry *prometheus.Registry, logger *zap.Logger) *server {
	return &server{
		mgr:      mgr,
		pub:      pub,
		registry: registry,
		logger:   logger,
		upgrader: websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
	}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.requestLogging)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	r.Post("/orders", s.handleSubmit)
	r.Get("/book/{symbol}", s.handleSnapshot)
	r.Get("/ws/trades/{symbol}", s.handleTradeStream)
	r.Get("/ws/book/{symbol}", s.handleBookStream)

	return r
}

func (s *server) requestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}
