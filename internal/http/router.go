package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"cryptoscholar/internal/handlers"
	"cryptoscholar/internal/metrics"
	"cryptoscholar/internal/service"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Reader       service.ReaderService
	Metrics      *metrics.Metrics
	HealthChecks []handlers.HealthCheck
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(Metrics(deps.Metrics))

	// Add CORS middleware
	r.Use(CORS)

	articles := handlers.NewArticleHandler(deps.Reader)
	highlights := handlers.NewHighlightHandler(deps.Reader)
	progress := handlers.NewProgressHandler(deps.Reader)
	preferences := handlers.NewPreferenceHandler(deps.Reader)
	pages := handlers.NewPageHandler(deps.Reader)

	// Register API routes
	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodGet, "/health", handlers.NewHealthHandler(deps.HealthChecks...))

		r.Get("/articles", articles.List)
		r.Route("/articles/{slug}", func(r chi.Router) {
			r.Get("/", articles.Get)
			r.Get("/view", articles.View)

			r.Get("/highlights", highlights.List)
			r.Post("/highlights", highlights.Create)
			r.Get("/highlights/check", highlights.Check)
			r.Delete("/highlights", highlights.Clear)
			r.Delete("/highlights/{id}", highlights.Delete)

			r.Get("/progress", progress.Get)
			r.Post("/progress", progress.Toggle)
			r.Post("/sections/{sectionID}/progress", progress.ToggleSection)
		})

		r.Get("/preferences/reading-mode", preferences.Get)
		r.Put("/preferences/reading-mode", preferences.Put)
	})

	r.Get("/", pages.Index)
	r.Get("/products/{slug}", pages.Article)
	r.Get("/static/reader.js", pages.Script)
	r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())

	return r
}
