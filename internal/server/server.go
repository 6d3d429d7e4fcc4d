// Package server provides the HTTP API for naosu.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/oritsune/naosu/internal/config"
	"github.com/oritsune/naosu/internal/engine"
	"github.com/oritsune/naosu/internal/storage"
	"github.com/oritsune/naosu/internal/vector"
)

// Server is the HTTP server for the diagnostic API.
type Server struct {
	engine      *engine.Engine
	storage     storage.Storage
	vectorIndex vector.Index
	config      *config.Config
	logger      *zap.Logger
	server      *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(
	eng *engine.Engine,
	store storage.Storage,
	vectorIndex vector.Index,
	cfg *config.Config,
	logger *zap.Logger,
) *Server {
	return &Server{
		engine:      eng,
		storage:     store,
		vectorIndex: vectorIndex,
		config:      cfg,
		logger:      logger,
	}
}

// Router builds the chi router with all routes and middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(150 * time.Second))
	r.Use(middleware.Compress(5))

	r.Get("/health", s.handleHealth)
	r.Post("/query", s.handleQuery)
	r.Get("/status", s.handleStatus)

	// Cited manuals are served so file_url citations resolve to the
	// original document.
	fileServer := http.StripPrefix("/docs/", http.FileServer(http.Dir(s.config.Storage.DataDir)))
	r.Get("/docs/*", fileServer.ServeHTTP)

	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
