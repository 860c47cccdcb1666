// Package httpserver provides the HTTP REST API server for the catalog service.
package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/openshelf/catalog-service/internal/database"
	"github.com/openshelf/catalog-service/internal/importer"
	"github.com/openshelf/catalog-service/internal/observability"
	"github.com/openshelf/catalog-service/internal/repository"
)

// BookImporter defines the import operation used by the HTTP server.
// Satisfied by *importer.Service.
type BookImporter interface {
	ImportByQuery(ctx context.Context, query string) (*importer.Result, error)
}

// Server is the HTTP REST API server.
type Server struct {
	router       chi.Router
	httpServer   *http.Server
	categoryRepo repository.CategoryRepository
	itemRepo     repository.ItemRepository
	relationRepo repository.RelationRepository
	bookImporter BookImporter
	db           *database.DB
	logger       zerolog.Logger
	metrics      *observability.Metrics
}

// Config holds HTTP server configuration.
type Config struct {
	Address         string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// NewServer creates a new HTTP server with all dependencies.
// Metrics may be nil, in which case no request metrics are recorded.
func NewServer(
	cfg Config,
	categoryRepo repository.CategoryRepository,
	itemRepo repository.ItemRepository,
	relationRepo repository.RelationRepository,
	bookImporter BookImporter,
	db *database.DB,
	logger zerolog.Logger,
	metrics *observability.Metrics,
) *Server {
	s := &Server{
		categoryRepo: categoryRepo,
		itemRepo:     itemRepo,
		relationRepo: relationRepo,
		bookImporter: bookImporter,
		db:           db,
		logger:       logger.With().Str("component", "http-server").Logger(),
		metrics:      metrics,
	}

	s.router = s.buildRouter()

	s.httpServer = &http.Server{
		Addr:         cfg.Address,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

// buildRouter creates the chi router with all middleware and routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(correlationIDMiddleware)
	r.Use(s.requestLogMiddleware)
	r.Use(jsonContentTypeMiddleware)

	// Health endpoints
	r.Get("/healthz", s.healthHandler)
	r.Get("/readyz", s.readinessHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/categories", s.listCategories)
		r.Post("/categories", s.createCategory)
		r.Get("/categories/{categoryID}", s.getCategory)
		r.Put("/categories/{categoryID}", s.replaceCategory)
		r.Patch("/categories/{categoryID}", s.patchCategory)
		r.Delete("/categories/{categoryID}", s.deleteCategory)
		r.Get("/categories/{categoryID}/items", s.listCategoryItems)

		r.Get("/items", s.listItems)
		r.Post("/items", s.createItem)
		r.Get("/items/{itemID}", s.getItem)
		r.Put("/items/{itemID}", s.replaceItem)
		r.Patch("/items/{itemID}", s.patchItem)
		r.Delete("/items/{itemID}", s.deleteItem)
		r.Get("/items/{itemID}/categories", s.listItemCategories)

		r.Post("/import/book", s.importBook)
	})

	return r
}

// Router exposes the configured router, mainly for tests.
func (s *Server) Router() chi.Router {
	return s.router
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.Info().Str("address", s.httpServer.Addr).Msg("HTTP server starting")
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listen on HTTP address: %w", err)
	}
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// healthHandler returns basic liveness status.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	health := s.db.Health(r.Context())
	if health.Status == "healthy" {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "database": health.Status})
		return
	}
	writeJSON(w, http.StatusServiceUnavailable, map[string]string{
		"status":   "unhealthy",
		"database": health.Status,
		"error":    health.Error,
	})
}

// readinessHandler returns readiness status.
func (s *Server) readinessHandler(w http.ResponseWriter, r *http.Request) {
	health := s.db.Health(r.Context())
	if health.Status != "healthy" {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":   "not_ready",
			"database": health.Status,
			"error":    health.Error,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "ready",
		"database": "healthy",
	})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Best-effort log; headers already sent.
		_ = err
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{
		"error": message,
	})
}
