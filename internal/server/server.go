// Package server sets up the HTTP server, router, and all route definitions.
//
// This package is the "wiring" layer — the composition root that decides:
// - Which URL patterns map to which handler functions
// - What middleware runs on which routes
// - How the server starts and stops gracefully
//
// DEPENDENCY INJECTION FLOW:
//
//	main.go reads config → server.New() creates:
//	  sqlite.DB → repositories → services → handlers → routes
//
// Each layer only receives what it needs: services get repository
// interfaces (not the concrete *sqlite.DB), handlers get services.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/LOUBNATANASSA/project-tasks/internal/auth"
	"github.com/LOUBNATANASSA/project-tasks/internal/handler"
	"github.com/LOUBNATANASSA/project-tasks/internal/middleware"
	sqliteRepo "github.com/LOUBNATANASSA/project-tasks/internal/repository/sqlite"
	"github.com/LOUBNATANASSA/project-tasks/internal/service"
)

// Config holds server configuration, assembled in main.go from env vars.
type Config struct {
	Port      int
	DBPath    string        // path to the SQLite database file
	JWTSecret string        // HMAC key for session tokens; required
	TokenTTL  time.Duration // session token lifetime; 0 means the default
}

// Server represents the HTTP server and all its dependencies.
//
// The Server owns the database connection; it is closed during graceful
// shutdown so pending writes are flushed and the file lock released.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a new Server with the given config and wires the entire
// dependency chain.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close() // clean up DB if route setup fails
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
//
//	POST   /api/auth/signup               → register
//	POST   /api/auth/signin               → login, returns Bearer token
//	GET    /api/projects                  → caller's projects
//	POST   /api/projects                  → create project
//	GET    /api/projects/{id}             → get project
//	PUT    /api/projects/{id}             → update project
//	PATCH  /api/projects/{id}             → partial update
//	DELETE /api/projects/{id}             → delete project
//	POST   /api/tasks                     → create task
//	GET    /api/tasks/project/{projectId} → tasks of a project
//	PUT    /api/tasks/{id}                → update task
//	PUT    /api/tasks/{id}/toggle         → toggle completion
//	DELETE /api/tasks/{id}                → delete task
//
// MIDDLEWARE ORDER MATTERS — our order:
// 1. RequestID — assigns a unique ID to each request (for tracing)
// 2. RealIP — extracts the real client IP from proxy headers
// 3. Recoverer — catches panics and returns 500 instead of crashing
// 4. Logger — logs each request with timing info
// 5. ResolveIdentity (project/task routes only) — attaches the caller's
//    identity when a valid Bearer token is present; never rejects by
//    itself, handlers do that.
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	tokens, err := auth.NewTokenServiceWithTTL(s.config.JWTSecret, s.tokenTTL())
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	users := s.db.Users()
	projects := s.db.Projects()
	tasks := s.db.Tasks()

	authService := service.NewAuthService(users, tokens, passwords, s.logger)
	projectService := service.NewProjectService(projects, tasks, s.logger)
	taskService := service.NewTaskService(tasks, projects, s.logger)

	authHandler := handler.NewAuthHandler(authService, s.logger)
	projectHandler := handler.NewProjectHandler(projectService, s.logger)
	taskHandler := handler.NewTaskHandler(taskService, s.logger)

	s.router.Route("/api", func(r chi.Router) {
		// Sign-up and sign-in sit outside the identity middleware — a
		// caller has no token yet.
		r.Post("/auth/signup", authHandler.HandleSignup)
		r.Post("/auth/signin", authHandler.HandleSignin)

		r.Group(func(r chi.Router) {
			r.Use(auth.ResolveIdentity(tokens, users, s.logger))

			r.Get("/projects", projectHandler.HandleList)
			r.Post("/projects", projectHandler.HandleCreate)
			r.Get("/projects/{id}", projectHandler.HandleGetByID)
			r.Put("/projects/{id}", projectHandler.HandleUpdate)
			r.Patch("/projects/{id}", projectHandler.HandleUpdate)
			r.Delete("/projects/{id}", projectHandler.HandleDelete)

			r.Post("/tasks", taskHandler.HandleCreate)
			r.Get("/tasks/project/{projectId}", taskHandler.HandleListByProject)
			r.Put("/tasks/{id}", taskHandler.HandleUpdate)
			r.Put("/tasks/{id}/toggle", taskHandler.HandleToggle)
			r.Delete("/tasks/{id}", taskHandler.HandleDelete)
		})
	})

	return nil
}

func (s *Server) tokenTTL() time.Duration {
	if s.config.TokenTTL > 0 {
		return s.config.TokenTTL
	}
	return auth.DefaultTokenTTL
}

// Handler exposes the assembled router, mainly so tests can drive the
// full middleware + routing stack through httptest without opening a
// listener.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the server's resources (the database connection)
// without going through Start's signal loop. Used by tests.
func (s *Server) Close() error {
	return s.db.Close()
}

// Start starts the HTTP server and handles graceful shutdown:
// 1. Stop accepting new HTTP connections
// 2. Wait for in-flight requests to finish (30s timeout)
// 3. Close the database connection (flushes WAL, releases the file lock)
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
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
