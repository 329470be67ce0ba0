// Package web serves the travel tracker over HTTP.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/ersonp/travel-tracker/internal/application/handlers"
	"github.com/ersonp/travel-tracker/internal/infrastructure/config"
)

//go:embed static
var staticFS embed.FS

// healthTimeout bounds the storage ping behind /health.
const healthTimeout = 2 * time.Second

// Pinger reports whether storage is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server routes HTTP requests to the application handlers.
type Server struct {
	cfg       config.ServerConfig
	visited   *handlers.VisitedHandler
	countries *handlers.CountryHandler
	health    Pinger
	renderer  *Renderer
	logger    *slog.Logger
	router    *mux.Router
}

// NewServer creates a server with all routes registered.
func NewServer(
	cfg config.ServerConfig,
	visited *handlers.VisitedHandler,
	countries *handlers.CountryHandler,
	health Pinger,
	logger *slog.Logger,
) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}

	renderer, err := NewRenderer()
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:       cfg,
		visited:   visited,
		countries: countries,
		health:    health,
		renderer:  renderer,
		logger:    logger,
		router:    mux.NewRouter(),
	}
	if err := s.setupRoutes(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Server) setupRoutes() error {
	assets, err := fs.Sub(staticFS, "static")
	if err != nil {
		return fmt.Errorf("loading static assets: %w", err)
	}

	s.router.Use(requestIDMiddleware, loggingMiddleware(s.logger), recoverMiddleware(s.logger))

	s.router.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	s.router.HandleFunc("/api/visited", s.handleAPIVisited).Methods(http.MethodGet)
	s.router.HandleFunc("/add", s.handleAdd).Methods(http.MethodPost)
	s.router.HandleFunc("/remove", s.handleRemove).Methods(http.MethodPost)
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	s.router.PathPrefix("/static/").
		Handler(http.StripPrefix("/static/", http.FileServerFS(assets))).
		Methods(http.MethodGet)
	return nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on the configured port and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.cfg.Port))
	if err != nil {
		return fmt.Errorf("listening on port %d: %w", s.cfg.Port, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done, then shuts down
// gracefully within the configured timeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  120 * time.Second,
		BaseContext:  func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", ln.Addr().String())
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
		close(serverErrors)
	}()

	select {
	case err := <-serverErrors:
		if err != nil {
			return fmt.Errorf("serving http: %w", err)
		}
		return nil
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}
