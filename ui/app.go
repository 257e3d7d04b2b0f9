// Package ui serves the comparison API and report pages over HTTP.
package ui

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"valuerank/app"
	"valuerank/internal"
	"valuerank/ports"
)

// App represents the HTTP application
type App struct {
	router  *chi.Mux
	service *app.ComparisonService
	reader  ports.AnalysisReader
	logger  *internal.Logger
}

// NewApp creates the HTTP application around the comparison service
func NewApp(service *app.ComparisonService, reader ports.AnalysisReader, logger *internal.Logger) *App {
	a := &App{
		router:  chi.NewRouter(),
		service: service,
		reader:  reader,
		logger:  logger,
	}
	a.setupMiddleware()
	a.setupRoutes()
	return a
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Get("/healthz", a.handleHealth)

	// API endpoints
	a.router.Get("/api/runs", a.handleListRuns)
	a.router.Get("/api/comparisons", a.handleCompare)
	a.router.Get("/api/comparisons/values", a.handleCompareValues)
	a.router.Get("/api/comparisons/timeline", a.handleTimeline)

	// Rendered report
	a.router.Get("/comparisons/report", a.handleReport)
}

// Router exposes the configured router for serving and tests
func (a *App) Router() http.Handler {
	return a.router
}

// Start runs the HTTP server on the given port
func (a *App) Start(port string) error {
	a.logger.Info("server listening on :%s", port)
	return http.ListenAndServe(":"+port, a.router)
}
