// Package server wires the application together: router, middleware, routes,
// and the dependency graph from database up to handlers. This is the
// composition root — main.go only reads config and calls New/Start.
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

	"github.com/sakif/repohub/internal/auth"
	"github.com/sakif/repohub/internal/github"
	"github.com/sakif/repohub/internal/handler"
	"github.com/sakif/repohub/internal/middleware"
	sqliteRepo "github.com/sakif/repohub/internal/repository/sqlite"
	"github.com/sakif/repohub/internal/service"
)

// Config holds server configuration, loaded from the environment in main.
type Config struct {
	Port               int
	DBPath             string
	BaseURL            string // application root for OAuth redirects
	JWTSecret          string
	GitHubClientID     string
	GitHubClientSecret string
	GitHubCallbackURL  string
	SecureCookies      bool // true in production (HTTPS-only session cookies)
}

// Server owns the router and the database connection; the connection is
// closed during graceful shutdown.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a Server and assembles the whole dependency chain:
// sqlite.DB → services → handlers → routes. Each layer receives only the
// interfaces it needs.
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
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures middleware, builds the handlers, and mounts the
// route table.
//
// ROUTE STRUCTURE:
//
//	GET    /auth/github/login     → redirect to GitHub
//	GET    /auth/github/callback  → complete OAuth, set session cookies
//	POST   /auth/logout           → clear session cookies
//	GET    /api/ , /api/root      → liveness message
//	GET    /api/submissions       → list submissions (public)
//	POST   /api/submissions       → create submission (auth)
//	GET    /api/comments          → list comments for repoId|repoUrl (public)
//	POST   /api/comments          → create comment (auth)
//	PUT    /api/comments/{id}     → edit own comment (auth)
//	DELETE /api/comments/{id}     → delete own comment (auth)
//	GET    /api/user              → fetch profile by userId (public)
//	POST   /api/user              → update profile (public, by userId)
//	GET    /api/me                → current identity (auth)
//	GET    /api/search            → GitHub repository search proxy (public)
//	everything else               → 404 {"error":"Route ... not found"}
func (s *Server) setupRoutes() error {
	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}

	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	// OptionalAuth runs before the logger so public-route requests that carry
	// a valid session get their userID into the request log.
	s.router.Use(auth.OptionalAuth(tokens))
	s.router.Use(middleware.Logger(s.logger))
	// CORS wraps every route so error responses carry the headers too.
	s.router.Use(middleware.CORS)

	provider := auth.NewGitHubProvider(
		s.config.GitHubClientID,
		s.config.GitHubClientSecret,
		s.config.GitHubCallbackURL,
	)

	authService := service.NewAuthService(s.db, s.db, tokens, s.logger)
	submissionService := service.NewSubmissionService(s.db, s.logger)
	commentService := service.NewCommentService(s.db, s.logger)
	profileService := service.NewProfileService(s.db, s.logger)

	authHandler := handler.NewAuthHandler(provider, authService, s.logger, s.config.BaseURL, s.config.SecureCookies)
	submissionHandler := handler.NewSubmissionHandler(submissionService, s.logger)
	commentHandler := handler.NewCommentHandler(commentService, s.logger)
	profileHandler := handler.NewProfileHandler(profileService, s.logger)
	searchHandler := handler.NewSearchHandler(github.NewClient(nil), s.logger)

	s.router.NotFound(handler.HandleNotFound)
	s.router.MethodNotAllowed(handler.HandleNotFound)

	s.router.Get("/auth/github/login", authHandler.HandleGitHubLogin)
	s.router.Get("/auth/github/callback", authHandler.HandleGitHubCallback)
	s.router.Post("/auth/logout", authHandler.HandleLogout)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/", handler.HandleRoot)
		r.Get("/root", handler.HandleRoot)

		r.Get("/submissions", submissionHandler.HandleList)
		r.Get("/comments", commentHandler.HandleList)
		r.Get("/search", searchHandler.HandleSearch)
		r.Get("/user", profileHandler.HandleGet)
		r.Post("/user", profileHandler.HandleUpdate)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))
			r.Post("/submissions", submissionHandler.HandleCreate)
			r.Post("/comments", commentHandler.HandleCreate)
			r.Put("/comments/{id}", commentHandler.HandleUpdate)
			r.Delete("/comments/{id}", commentHandler.HandleDelete)
			r.Get("/me", authHandler.HandleMe)
		})
	})

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, give in-flight requests 30 seconds,
// close the database.
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
			slog.String("baseURL", s.config.BaseURL),
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
