package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"coding-profile-api/internal/api/handlers"
	"coding-profile-api/internal/api/middleware"
	"coding-profile-api/internal/config"
	"coding-profile-api/internal/repository"

	"github.com/gorilla/mux"
)

// Server is the read-only HTTP API over the persisted records.
type Server struct {
	config     *config.Config
	httpServer *http.Server
	router     *mux.Router

	healthHandler  *handlers.HealthHandler
	statsHandler   *handlers.StatsHandler
	heatmapHandler *handlers.HeatmapHandler
}

func NewServer(
	cfg *config.Config,
	statsRepo repository.PlatformStatsRepository,
	activityRepo repository.DailyActivityRepository,
) *Server {
	s := &Server{config: cfg}

	cacheTTL := time.Duration(cfg.Server.CacheTTL) * time.Second

	s.healthHandler = handlers.NewHealthHandler(statsRepo)
	s.statsHandler = handlers.NewStatsHandler(statsRepo, cacheTTL)
	s.heatmapHandler = handlers.NewHeatmapHandler(
		activityRepo, cacheTTL, cfg.Server.HeatmapMinYear, cfg.Server.HeatmapMaxYear)

	s.setupRouter()

	return s
}

func (s *Server) setupRouter() {
	r := mux.NewRouter()

	// Global middleware
	r.Use(middleware.LoggingMiddleware)
	r.Use(middleware.RecoveryMiddleware)
	r.Use(middleware.CORSMiddleware(s.config.Server.AllowedOrigins))

	r.HandleFunc("/", s.healthHandler.Root).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", s.healthHandler.Health).Methods("GET")
	api.HandleFunc("/stats", s.statsHandler.AllStats).Methods("GET")
	api.HandleFunc("/stats/{platform}", s.statsHandler.PlatformStats).Methods("GET")
	api.HandleFunc("/heatmap", s.heatmapHandler.Heatmap).Methods("GET")
	api.HandleFunc("/heatmap/{year}", s.heatmapHandler.HeatmapYear).Methods("GET")

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"success":false,"message":"Endpoint not found"}`))
	})

	s.router = r
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%s", s.config.Server.Host, s.config.Server.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("🚀 API server starting on %s", addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	log.Println("🛑 Shutting down API server...")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Println("✅ API server stopped")
	return nil
}

// Router exposes the router for tests.
func (s *Server) Router() *mux.Router {
	return s.router
}
