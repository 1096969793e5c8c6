package content

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"cryptoscholar/internal/contextutil"
)

// Watcher drops cached renders when article files change on disk.
type Watcher struct {
	sections []Section
	cache    *RenderCache
	ready    chan struct{}
}

// NewWatcher creates a Watcher for the directories of sections.
func NewWatcher(sections []Section, cache *RenderCache) *Watcher {
	return &Watcher{sections: sections, cache: cache, ready: make(chan struct{})}
}

// Ready is closed once the section directories are being watched.
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

// Run watches until ctx is done. Sections whose directory cannot be
// watched are skipped with a warning.
func (w *Watcher) Run(ctx context.Context) error {
	logger := contextutil.LoggerFromContext(ctx)

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create content watcher: %w", err)
	}
	defer func() {
		_ = fsw.Close()
	}()

	for _, s := range w.sections {
		if err := fsw.Add(s.Dir); err != nil {
			logger.WarnContext(ctx, "content section not watched", "section", s.Name, "dir", s.Dir, "error", err)
			continue
		}
		logger.InfoContext(ctx, "watching content section", "section", s.Name, "dir", s.Dir)
	}
	close(w.ready)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if slug, changed := changedSlug(event); changed && w.cache != nil {
				if w.cache.Invalidate(slug) {
					logger.DebugContext(ctx, "dropped cached render", "slug", slug, "op", event.Op.String())
				}
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.WarnContext(ctx, "content watcher error", "error", err)
		}
	}
}

// changedSlug returns the article slug an event refers to, if the event
// can change the article's content.
func changedSlug(event fsnotify.Event) (string, bool) {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return "", false
	}
	name := filepath.Base(event.Name)
	if filepath.Ext(name) != articleExt {
		return "", false
	}
	return strings.TrimSuffix(name, articleExt), true
}
