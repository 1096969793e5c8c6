// Package app wires the reader's collaborators from configuration. It is
// shared by the API server and the operator CLI so both see the same
// articles and the same stored annotations.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"cryptoscholar/internal/annotations"
	"cryptoscholar/internal/config"
	"cryptoscholar/internal/content"
	"cryptoscholar/internal/handlers"
	"cryptoscholar/internal/metrics"
	"cryptoscholar/internal/render"
	"cryptoscholar/internal/service"
	"cryptoscholar/internal/storage"
)

// Namespace is the KV namespace of the single local reader.
const Namespace = "reader"

// App holds the wired collaborators.
type App struct {
	DB          *sql.DB
	KV          *storage.KVRepo
	Metrics     *metrics.Metrics
	Renderer    *render.Renderer
	Cache       *content.RenderCache
	Library     *content.Library
	Annotations *annotations.Store
	Progress    *annotations.ProgressStore
	Preferences *annotations.PreferenceStore
	Reader      service.ReaderService
}

// New opens the database, runs migrations and builds the reader service.
// m may be nil when metrics are not exported.
func New(cfg *config.Config, m *metrics.Metrics) (*App, error) {
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := storage.Migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	renderer := render.New()
	cache, err := content.NewRenderCache(cfg.RenderCacheSize, m)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	library, err := content.NewLibrary(content.NewSections(cfg.ContentDir, cfg.ContentSections), renderer, cache)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	kv := storage.NewKVRepo(db, Namespace)
	a := &App{
		DB:          db,
		KV:          kv,
		Metrics:     m,
		Renderer:    renderer,
		Cache:       cache,
		Library:     library,
		Annotations: annotations.NewStore(kv),
		Progress:    annotations.NewProgressStore(kv),
		Preferences: annotations.NewPreferenceStore(kv),
	}
	a.Reader = service.NewReaderService(service.ReaderDeps{
		Articles:    library,
		Renderer:    renderer,
		Annotations: a.Annotations,
		Progress:    a.Progress,
		Preferences: a.Preferences,
		Metrics:     m,
	})
	return a, nil
}

// Watcher returns a watcher that invalidates this app's render cache.
func (a *App) Watcher() *content.Watcher {
	return content.NewWatcher(a.Library.Sections(), a.Cache)
}

// HealthChecks reports database reachability and content availability.
func (a *App) HealthChecks() []handlers.HealthCheck {
	return []handlers.HealthCheck{
		{
			Name:     "database",
			Critical: true,
			Check:    a.DB.PingContext,
		},
		{
			Name: "content",
			Check: func(ctx context.Context) error {
				for _, s := range a.Library.Sections() {
					if _, err := os.Stat(s.Dir); err == nil {
						return nil
					}
				}
				return fmt.Errorf("no content section directory is readable")
			},
		},
	}
}

// Close releases the database.
func (a *App) Close() error {
	return a.DB.Close()
}
