// Package server wires repositories, services and handlers into the HTTP router
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/deepsyllabus/backend/internal/completion"
	"github.com/deepsyllabus/backend/internal/config"
	"github.com/deepsyllabus/backend/internal/database"
	"github.com/deepsyllabus/backend/internal/handlers"
	"github.com/deepsyllabus/backend/internal/middleware"
	"github.com/deepsyllabus/backend/internal/repositories"
	"github.com/deepsyllabus/backend/internal/services"
	"github.com/deepsyllabus/backend/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// Collaborators are the mode dependent parts of the service
type Collaborators struct {
	Repository services.SyllabusRepository
	Generator  services.Generator
	Storage    services.BlobStorage
}

// App is a fully wired service
type App struct {
	Handler http.Handler
	closers []func() error
}

// Close releases the database pool and the storage client
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// New builds the collaborators selected by cfg.Mode and wires the router around them
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	app := &App{}

	var deps Collaborators
	switch cfg.Mode {
	case config.ModeLive:
		db, err := database.Connect(ctx, cfg.DSN())
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, db.Close)

		repo := repositories.NewSyllabusRepository(db, database.NewMigrator(db, logger), logger)
		if err := repo.Init(ctx); err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}

		blobs, err := storage.NewGCSStorage(ctx, cfg.Storage, logger)
		if err != nil {
			app.Close()
			return nil, err
		}
		app.closers = append(app.closers, blobs.Close)

		deps = Collaborators{
			Repository: repo,
			Generator:  completion.NewOpenAIGenerator(cfg.OpenAI, logger),
			Storage:    blobs,
		}
	case config.ModeMock:
		logger.Warn("running in mock mode: data is kept in memory and completions are canned")
		deps = Collaborators{
			Repository: repositories.NewMemoryRepository(logger),
			Generator:  completion.NewCannedGenerator(logger),
			Storage:    storage.NewMockStorage(cfg.Storage.MockBaseURL, logger),
		}
	default:
		return nil, fmt.Errorf("unknown mode %q", cfg.Mode)
	}

	app.Handler = NewRouter(cfg, deps, logger)
	return app, nil
}

// NewRouter creates the router with every middleware and route of the API
func NewRouter(cfg *config.Config, deps Collaborators, logger *zap.Logger) http.Handler {
	// Initialize services
	fileService := services.NewFileService(deps.Repository, deps.Storage, logger)
	syllabusService := services.NewSyllabusService(deps.Repository, deps.Generator, fileService, logger)

	// Initialize handlers
	syllabusHandler := handlers.NewSyllabusHandler(syllabusService, logger)
	componentHandler := handlers.NewComponentHandler(syllabusService, logger)
	fileHandler := handlers.NewFileHandler(fileService, logger)
	adminHandler := handlers.NewAdminHandler(
		syllabusService,
		cfg.Mode,
		logger,
		middleware.APIKeyMiddleware(cfg.AdminAPIKey, logger),
	)

	r := chi.NewRouter()

	// Apply middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.LoggerMiddleware(logger))
	r.Use(middleware.RecoveryMiddleware(logger))
	r.Use(middleware.CORSMiddleware(cfg.CORS.AllowedOrigins))
	r.Use(httprate.LimitByIP(cfg.RateLimit.Global, time.Minute))
	r.Use(middleware.RequestSizeLimitMiddleware(middleware.DefaultMaxRequestSize))

	r.Get("/health", adminHandler.Health)

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://localhost:%d/swagger/doc.json", cfg.Server.Port)),
	))

	r.Route("/api", func(r chi.Router) {
		// Model calls are slow and billed, they get a stricter limit
		r.Group(func(r chi.Router) {
			r.Use(httprate.LimitByIP(cfg.RateLimit.Generation, time.Minute))
			syllabusHandler.RegisterGenerationRoutes(r)
			componentHandler.RegisterGenerationRoutes(r)
		})

		syllabusHandler.RegisterRoutes(r)
		componentHandler.RegisterRoutes(r)
		fileHandler.RegisterRoutes(r)
		adminHandler.RegisterRoutes(r)
	})

	return r
}
