package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"cryptoscholar/internal/app"
	"cryptoscholar/internal/config"
	"cryptoscholar/internal/contextutil"
	"cryptoscholar/internal/http"
	"cryptoscholar/internal/metrics"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := cfg.NewLogger(os.Stdout)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel, "format", cfg.LogFormat)

	m := metrics.New()
	a, err := app.New(cfg, m)
	if err != nil {
		log.Fatalf("Failed to initialize reader: %v", err)
	}
	defer func() {
		_ = a.Close()
	}()
	slog.Info("Database initialized", "path", cfg.DBPath)
	slog.Info("Content library ready", "dir", cfg.ContentDir, "sections", cfg.ContentSections)

	router := http.NewRouter(&http.Deps{
		Reader:       a.Reader,
		Metrics:      m,
		HealthChecks: a.HealthChecks(),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = contextutil.WithLogger(ctx, logger)

	server := &nethttp.Server{
		Addr:              ":" + cfg.APIPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("Starting API server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		slog.Info("Shutting down API server")
		return server.Shutdown(shutdownCtx)
	})

	if cfg.WatchContent {
		watcher := a.Watcher()
		g.Go(func() error {
			return watcher.Run(gctx)
		})
	}

	if err := g.Wait(); err != nil {
		slog.Error("API server stopped with error", "error", err)
		_ = a.Close()
		os.Exit(1)
	}
	slog.Info("API server stopped")
}
