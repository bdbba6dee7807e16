// Package server sets up the HTTP server, router, and all route definitions.
//
// SERVER ARCHITECTURE:
// This package is the "wiring" layer. It connects repositories, services,
// handlers and middleware, and decides:
// - Which URL patterns map to which handler functions
// - What middleware runs on which routes
// - How the server starts and stops gracefully
//
// DEPENDENCY INJECTION FLOW:
// main.go opens the two external resources (SQL database, blob store) and
// hands them to New(). New() then builds:
//
//	sqlstore.DB ─┬─ BucketItems() → BucketItemService → BucketItemHandler
//	             ├─ Events()      → EventService      → EventHandler
//	             ├─ Memories()    → MemoryService ─┐  → MemoryHandler
//	             └─ Poems()       → PoemService     │  → PoemHandler
//	BlobStore ──── AssetService ────────────────────┘  → UploadHandler
//
// This is the "composition root" pattern: all dependencies are wired in one
// place (New/setupRoutes), rather than scattered across the codebase.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sakif/memories/internal/handler"
	"github.com/sakif/memories/internal/middleware"
	"github.com/sakif/memories/internal/repository/sqlstore"
	"github.com/sakif/memories/internal/service"
	"github.com/sakif/memories/internal/storage"
)

// Config holds server configuration.
type Config struct {
	Port int
	// MaxUploadBytes caps the body of any request that may carry an image.
	MaxUploadBytes int64
	// RelationshipStart anchors the /api/stats counters.
	RelationshipStart time.Time
	// PublicURL is the prefix every stored image URL starts with.
	PublicURL string
}

// Server represents the HTTP server and all its dependencies.
//
// RESOURCE MANAGEMENT:
// The Server owns the database connection. When the server shuts down, Start()
// closes it so pending writes are flushed and the SQLite file lock is released.
// The blob store is stateless HTTP and needs no closing.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqlstore.DB
	blobs  storage.BlobStore
}

// New creates a new Server around an open database and blob store.
//
// Each layer only receives what it needs:
// - Services get repository interfaces (not the concrete sqlstore.DB)
// - Handlers get small service interfaces (not the repository or DB)
func New(cfg Config, db *sqlstore.DB, blobs storage.BlobStore, logger *slog.Logger) *Server {
	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
		blobs:  blobs,
	}
	s.setupRoutes()
	return s
}

// Handler exposes the router, mainly so tests can drive it with httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
// GET    /healthz                    → liveness + DB ping
// GET    /metrics                    → Prometheus scrape endpoint
// GET    /api/stats                  → days/sunsets/months/hours together
// POST   /api/upload                 → store a standalone image, return its URL
// *      /api/bucket-list[/{id}]     → bucket list CRUD (+ GET /summary)
// *      /api/events[/{id}]          → event CRUD (+ GET /calendar?year=&month=)
// *      /api/memories[/{id}]        → memory CRUD (JSON or multipart with image)
// *      /api/poems[/{id}]           → poem CRUD (GET ?author= filter)
//
// MIDDLEWARE ORDER MATTERS:
// 1. RequestID: assigns a unique ID to each request (for tracing)
// 2. RealIP: extracts real client IP from proxy headers
// 3. Logger: logs each request with timing info
// 4. Metrics: counts requests per route pattern
// 5. Recoverer: catches panics and returns 500 instead of crashing.
// It sits innermost so Logger and Metrics still see the 500 it writes.
func (s *Server) setupRoutes() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(middleware.Metrics)
	s.router.Use(chimiddleware.Recoverer)

	// === Operational endpoints ===
	s.router.Get("/healthz", handler.HandleHealth(s.db, s.logger))
	s.router.Handle("/metrics", promhttp.Handler())

	// === Services ===
	// AssetService is shared: memories use it for their images and
	// /api/upload exposes it directly.
	assets := service.NewAssetService(s.blobs, storage.NewNamespace(s.config.PublicURL), s.logger)

	bucketHandler := handler.NewBucketItemHandler(service.NewBucketItemService(s.db.BucketItems(), s.logger), s.logger)
	eventHandler := handler.NewEventHandler(service.NewEventService(s.db.Events(), s.logger), s.logger)
	memoryHandler := handler.NewMemoryHandler(service.NewMemoryService(s.db.Memories(), assets, s.logger), s.config.MaxUploadBytes, s.logger)
	poemHandler := handler.NewPoemHandler(service.NewPoemService(s.db.Poems(), s.logger), s.logger)
	uploadHandler := handler.NewUploadHandler(assets, s.config.MaxUploadBytes, s.logger)
	stats := service.NewStatsService(s.config.RelationshipStart)

	// === API Routes ===
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/stats", handler.HandleStats(stats))
		r.Post("/upload", uploadHandler.HandleUpload)

		r.Route("/bucket-list", bucketHandler.Routes)
		r.Route("/events", eventHandler.Routes)
		r.Route("/memories", memoryHandler.Routes)
		r.Route("/poems", poemHandler.Routes)
	})
}

// Start starts the HTTP server and handles graceful shutdown.
//
// GRACEFUL SHUTDOWN:
// 1. Stop accepting new HTTP connections
// 2. Wait for in-flight requests to finish (30s timeout)
// 3. Close the database connection
//
// WriteTimeout is generous because image uploads stream through this
// process on their way to the bucket.
func (s *Server) Start() error {
	defer func() {
		if err := s.db.Close(); err != nil {
			s.logger.Error("closing database", slog.String("error", err.Error()))
		}
	}()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.String("public_url", s.config.PublicURL),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
