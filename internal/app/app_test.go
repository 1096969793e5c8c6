package app

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cryptoscholar/internal/config"
	"cryptoscholar/internal/metrics"
	"cryptoscholar/internal/service"
)

func init() {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "products"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "products", "foxes.md"),
		[]byte("# Foxes\n\nThe quick brown fox jumps over the lazy fox.\n"), 0644))

	return &config.Config{
		ContentDir:      root,
		ContentSections: []string{"products", "concepts"},
		DBPath:          filepath.Join(t.TempDir(), "reader.db"),
		RenderCacheSize: 8,
	}
}

func TestNew_PersistsAcrossRestarts(t *testing.T) {
	cfg := newConfig(t)
	ctx := context.Background()

	first, err := New(cfg, metrics.New())
	require.NoError(t, err)

	res, err := first.Reader.AddHighlight(ctx, "foxes", service.HighlightRequest{Text: "lazy fox"})
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.True(t, res.Persisted)
	require.NoError(t, first.Close())

	second, err := New(cfg, nil)
	require.NoError(t, err)
	defer second.Close()

	view, err := second.Reader.ViewArticle(ctx, "foxes")
	require.NoError(t, err)
	require.Len(t, view.Highlights, 1)
	assert.Equal(t, res.Anchor.ID, view.Highlights[0].ID)
	assert.Contains(t, view.HTML, `data-annotation-id="`+res.Anchor.ID+`"`)
}

func TestHealthChecks(t *testing.T) {
	cfg := newConfig(t)
	a, err := New(cfg, nil)
	require.NoError(t, err)
	defer a.Close()

	checks := a.HealthChecks()
	require.Len(t, checks, 2)
	for _, c := range checks {
		assert.NoError(t, c.Check(context.Background()), c.Name)
	}

	require.NoError(t, os.RemoveAll(filepath.Join(cfg.ContentDir, "products")))
	assert.Error(t, checks[1].Check(context.Background()))
}

func TestNew_BadDatabasePath(t *testing.T) {
	cfg := newConfig(t)
	cfg.DBPath = filepath.Join(t.TempDir(), "missing", "dir", "reader.db")

	_, err := New(cfg, nil)
	assert.Error(t, err)
}
