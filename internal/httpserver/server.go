package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"repomd-proxy/internal/adapters/muxrouter"
	"repomd-proxy/internal/interfaces"
	"repomd-proxy/internal/proxy"
	"repomd-proxy/internal/urlgen"
)

// Server represents the asset proxy HTTP server
type Server struct {
	forwarder *proxy.Forwarder
	caches    interfaces.Cache
	urls      *urlgen.Generator
	logger    *zap.Logger
	server    *http.Server
}

// NewServer creates a new asset proxy HTTP server
func NewServer(forwarder *proxy.Forwarder, caches interfaces.Cache, urls *urlgen.Generator, logger *zap.Logger) *Server {
	return &Server{
		forwarder: forwarder,
		caches:    caches,
		urls:      urls,
		logger:    logger,
	}
}

// Start starts the HTTP server on a TCP address
func (s *Server) Start(addr string) error {
	router := s.createRouter()

	s.server = &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("Starting asset proxy HTTP server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping asset proxy HTTP server")
	return s.server.Shutdown(ctx)
}

// createRouter creates and configures the HTTP router
func (s *Server) createRouter() *mux.Router {
	router := mux.NewRouter()

	// Health check
	router.HandleFunc("/health", s.handleHealth).Methods("GET")

	// Cache and resolver diagnostics
	router.HandleFunc("/internal/stats", s.handleStats).Methods("GET")

	// Prometheus metrics endpoint
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Proxied media assets, mounted under the configured prefix
	muxrouter.Register(router, s.forwarder, s.logger)

	return router
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeResponse(w, map[string]interface{}{
		"status": "healthy",
		"time":   time.Now().UTC(),
	})
}

// handleStats reports cache occupancy and the revision cache state
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	resolver := s.urls.Resolver()

	stats := StatsResponse{
		Namespaces: s.caches.Stats(),
		Revision:   resolver.CacheStats(),
		URLs: SampleURLs{
			Media:  s.urls.MediaURL("example.png"),
			Shared: s.urls.SharedFolderURL(""),
		},
	}
	if rev, ok := resolver.ActiveRev(); ok {
		stats.ActiveRev = rev
	}

	s.writeResponse(w, stats)
}

// writeResponse writes JSON response
func (s *Server) writeResponse(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to write response", zap.Error(err))
	}
}
