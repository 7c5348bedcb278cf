package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/polly-transit/tracker/cache"
	"github.com/polly-transit/tracker/config"
)

// Server exposes the tracker's interpolated vehicle positions over HTTP for
// the rendering layer to poll.
type Server struct {
	httpServer *http.Server
	tracker    *Tracker
	log        *zap.Logger
}

// NewServer creates an HTTP server for the given tracker.
func NewServer(cfg config.ServerConfig, t *Tracker, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{tracker: t, log: log}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/vehicles.json", s.handleVehicles)

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Start begins serving in a background goroutine.
func (s *Server) Start() {
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Fatal("server error", zap.Error(err))
		}
	}()
	s.log.Info("server listening", zap.String("addr", s.httpServer.Addr))
}

// Shutdown drains connections and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

type healthResponse struct {
	Status   string                 `json:"status"`
	Route    string                 `json:"route"`
	Vehicles int                    `json:"vehicles"`
	Caches   map[string]cache.Stats `json:"caches"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	resp := healthResponse{
		Status:   "ok",
		Route:    s.tracker.Route(),
		Vehicles: len(s.tracker.Snapshot()),
		Caches:   s.tracker.CacheStats(),
	}
	_ = json.NewEncoder(w).Encode(resp)
}

func (s *Server) handleVehicles(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.tracker.Snapshot())
}
