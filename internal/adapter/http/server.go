package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const serviceName = "clickstream-processor"

const (
	readTimeout  = 5 * time.Second
	writeTimeout = 10 * time.Second
	idleTimeout  = 120 * time.Second
)

// ReadinessChecker reports whether the worker has completed at least one
// read-transform-write cycle.
type ReadinessChecker interface {
	Ready() bool
}

// statusResponse is the body of the liveness and readiness endpoints.
type statusResponse struct {
	Service string `json:"service"`
	Status  string `json:"status"`
}

// Server exposes the worker's operational endpoints: liveness, readiness,
// and Prometheus metrics. It serves no data-plane traffic; the worker is
// driven entirely by notifications.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer creates the operational HTTP server.
func NewServer(addr string, ready ReadinessChecker, logger *slog.Logger) *Server {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", liveHandler)
	mux.HandleFunc("GET /readyz", readyHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
			IdleTimeout:  idleTimeout,
		},
		logger: logger,
	}
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func liveHandler(w http.ResponseWriter, _ *http.Request) {
	respond(w, http.StatusOK, statusResponse{Service: serviceName, Status: "alive"})
}

// readyHandler answers 503 until the pipeline has processed its first
// notification, keeping the worker out of rotation while its adapters are
// still warming up.
func readyHandler(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		if !checker.Ready() {
			respond(w, http.StatusServiceUnavailable, statusResponse{Service: serviceName, Status: "waiting for first processed object"})
			return
		}
		respond(w, http.StatusOK, statusResponse{Service: serviceName, Status: "ready"})
	}
}

func respond(w http.ResponseWriter, code int, body statusResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}
