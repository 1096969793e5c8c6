package content

import (
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"cryptoscholar/internal/metrics"
)

// DefaultCacheSize is the number of rendered articles kept when no size is
// configured.
const DefaultCacheSize = 128

type cachedRender struct {
	modTime time.Time
	html    string
}

// RenderCache keeps rendered article HTML keyed by slug. Entries are only
// served while the source modification time matches.
type RenderCache struct {
	cache   *lru.Cache[string, cachedRender]
	metrics *metrics.Metrics
}

// NewRenderCache creates a cache holding up to size articles. m may be nil.
func NewRenderCache(size int, m *metrics.Metrics) (*RenderCache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, cachedRender](size)
	if err != nil {
		return nil, fmt.Errorf("create render cache: %w", err)
	}
	return &RenderCache{cache: cache, metrics: m}, nil
}

// Get returns the cached HTML of slug if it was rendered from a file with
// modification time modTime.
func (c *RenderCache) Get(slug string, modTime time.Time) (string, bool) {
	entry, ok := c.cache.Get(slug)
	if ok && !entry.modTime.Equal(modTime) {
		c.cache.Remove(slug)
		ok = false
	}
	c.metrics.ObserveCacheLookup(ok)
	if !ok {
		return "", false
	}
	return entry.html, true
}

// Add stores html for slug.
func (c *RenderCache) Add(slug string, modTime time.Time, html string) {
	c.cache.Add(slug, cachedRender{modTime: modTime, html: html})
}

// Invalidate drops slug. It reports whether an entry was present.
func (c *RenderCache) Invalidate(slug string) bool {
	if c.cache.Remove(slug) {
		c.metrics.IncrementContentInvalidations()
		return true
	}
	return false
}

// Purge drops every entry.
func (c *RenderCache) Purge() {
	c.cache.Purge()
}

// Len returns the number of cached articles.
func (c *RenderCache) Len() int {
	return c.cache.Len()
}
