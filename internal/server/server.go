// Package server provides the HTTP server and routing for the portfolio
// dashboard API.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/DorianoDrzajic/portfolio-metrics-dashboard/internal/events"
	"github.com/DorianoDrzajic/portfolio-metrics-dashboard/internal/modules/holdings"
	"github.com/DorianoDrzajic/portfolio-metrics-dashboard/internal/modules/metrics"
	"github.com/DorianoDrzajic/portfolio-metrics-dashboard/internal/modules/performance"
)

// Config holds server configuration
type Config struct {
	Port     int
	Log      zerolog.Logger
	Cache    *holdings.Cache
	Metrics  *metrics.Service
	Builder  *performance.Builder
	EventBus *events.Bus
}

// Server represents the HTTP server
type Server struct {
	router *chi.Mux
	server *http.Server
	log    zerolog.Logger
}

// New creates a new HTTP server with all routes registered
func New(cfg Config) *Server {
	log := cfg.Log.With().Str("component", "server").Logger()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	holdingsHandler := holdings.NewHandler(cfg.Cache, cfg.Log)
	metricsHandler := metrics.NewHandler(cfg.Cache, cfg.Metrics, cfg.Builder, cfg.Log)
	performanceHandler := performance.NewHandler(cfg.Cache, cfg.Builder, cfg.Log)
	streamHandler := NewStreamHandler(cfg.EventBus, cfg.Cache, cfg.Metrics, cfg.Builder, cfg.Log)
	systemHandlers := NewSystemHandlers(cfg.Log)

	r.Route("/api", func(r chi.Router) {
		r.Route("/portfolio", func(r chi.Router) {
			r.Get("/", holdingsHandler.HandleGetPortfolio)
			r.Get("/metrics", metricsHandler.HandleGetMetrics)
			r.Get("/allocation", metricsHandler.HandleGetAllocation)
			r.Get("/allocation/sectors", metricsHandler.HandleGetSectorAllocation)
			r.Get("/performance", performanceHandler.HandleGetPerformance)
		})
		r.Get("/stream", streamHandler.ServeHTTP)
		r.Get("/system/health", systemHandlers.HandleHealth)
	})

	return &Server{
		router: r,
		server: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      r,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 0, // streaming endpoint manages its own deadlines
		},
		log: log,
	}
}

// Router exposes the chi router, mainly for tests
func (s *Server) Router() http.Handler {
	return s.router
}

// Start begins listening for HTTP requests
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("HTTP server listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}
