package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dgallion1/statflat/internal/collector"
	"github.com/dgallion1/statflat/internal/config"
)

// Server is the HTTP API server for statflat.
type Server struct {
	router    chi.Router
	collector *collector.Collector
	log       *slog.Logger
	cfg       config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(coll *collector.Collector, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		collector: coll,
		log:       log,
		cfg:       cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)
	r.Get("/report", s.handleReport)

	// API endpoints, token-protected when a key is configured.
	r.Group(func(r chi.Router) {
		if s.cfg.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
		}

		r.Get("/api/stats", s.handleStats)
		r.Get("/api/stats/csv", s.handleStatsCSV)
		r.Get("/api/stats/tree", s.handleStatsTree)
		r.Get("/api/stats/fetch", s.handleFetchLatency)
		r.Post("/api/stats/refresh", s.handleRefresh)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
