package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/markdave123-py/PhotoAlbum/internal/api/handlers"
	appMiddleware "github.com/markdave123-py/PhotoAlbum/internal/api/middlewares"
	"github.com/markdave123-py/PhotoAlbum/internal/config"
)

// Server wraps the HTTP server instance and its handlers.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer builds and wires all routes.
func NewServer(cfg *config.Config, photoHandler *handlers.PhotoHandler, logger *slog.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           NewRouter(photoHandler, logger),
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// NewRouter mounts the page, the two workflows and the operational endpoints.
func NewRouter(photoHandler *handlers.PhotoHandler, logger *slog.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(appMiddleware.RequestLogging(logger))
	r.Use(appMiddleware.PrometheusMetrics)
	r.Use(middleware.Timeout(5 * time.Minute))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:5173", "http://localhost:8888"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", appMiddleware.RequestIDHeader},
		ExposedHeaders: []string{appMiddleware.RequestIDHeader},
	}))

	r.Get("/", photoHandler.Index)
	r.Post("/upload", photoHandler.UploadPhoto)
	r.Get("/search", photoHandler.SearchPhotos)

	r.Get("/health", photoHandler.Health)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// Start runs the HTTP server until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("HTTP server listening", slog.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}
