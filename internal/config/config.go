package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	ContentDir      string
	ContentSections []string
	DBPath          string
	APIPort         string
	LogLevel        string
	LogFormat       string
	RenderCacheSize int
	WatchContent    bool
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates required fields.
// If a .env file exists in the current directory or project root, it will be loaded automatically.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	// Check current directory first, then walk up to find project root
	_ = godotenv.Load() // Try current directory

	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ { // Limit search depth
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break // Reached filesystem root
			}
			dir = parent
		}
	}

	cfg := &Config{
		ContentDir:      getEnv("CONTENT_DIR", "./_content"),
		ContentSections: splitList(getEnv("CONTENT_SECTIONS", "products,concepts")),
		DBPath:          getEnv("DB_PATH", "./data/cryptoscholar.db"),
		APIPort:         getEnv("API_PORT", "9000"),
		LogLevel:        strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat:       strings.ToLower(getEnv("LOG_FORMAT", "text")),
	}

	cacheSize, err := strconv.Atoi(getEnv("RENDER_CACHE_SIZE", "128"))
	if err != nil {
		return nil, fmt.Errorf("RENDER_CACHE_SIZE must be a valid integer: %w", err)
	}
	if cacheSize <= 0 {
		return nil, fmt.Errorf("RENDER_CACHE_SIZE must be greater than 0")
	}
	cfg.RenderCacheSize = cacheSize

	watch, err := strconv.ParseBool(getEnv("WATCH_CONTENT", "true"))
	if err != nil {
		return nil, fmt.Errorf("WATCH_CONTENT must be a boolean: %w", err)
	}
	cfg.WatchContent = watch

	// Validate required fields
	if len(cfg.ContentSections) == 0 {
		return nil, fmt.Errorf("CONTENT_SECTIONS must name at least one section")
	}
	info, err := os.Stat(cfg.ContentDir)
	if err != nil {
		return nil, fmt.Errorf("CONTENT_DIR %q is not accessible: %w", cfg.ContentDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("CONTENT_DIR %q is not a directory", cfg.ContentDir)
	}
	if _, err := parseLevel(cfg.LogLevel); err != nil {
		return nil, err
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}

	// Create the data directory for the database file
	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// NewLogger builds the logger described by LogLevel and LogFormat.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("LOG_LEVEL must be debug, info, warn or error: %w", err)
	}
	return level, nil
}

// splitList splits a comma separated list, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
