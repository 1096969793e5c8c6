package annotations

import (
	"context"
	"slices"
	"sync"

	"cryptoscholar/internal/storage"
)

// PageProgress is the reading progress of one article.
type PageProgress struct {
	PageCompleted     bool     `json:"pageCompleted"`
	CompletedSections []string `json:"completedSections"`
}

// SectionCompleted reports whether sectionID is marked read.
func (p PageProgress) SectionCompleted(sectionID string) bool {
	return slices.Contains(p.CompletedSections, sectionID)
}

// ProgressStore tracks page and section completion per article slug.
// Page and section flags are independent.
type ProgressStore struct {
	kv storage.KVStore

	mu     sync.Mutex
	loaded bool
	pages  map[string]PageProgress
}

// NewProgressStore creates a ProgressStore backed by kv.
func NewProgressStore(kv storage.KVStore) *ProgressStore {
	return &ProgressStore{kv: kv}
}

// Get returns the progress of slug. Unknown slugs have zero progress.
func (p *ProgressStore) Get(ctx context.Context, slug string) PageProgress {
	p.mu.Lock()
	defer p.mu.Unlock()
	_ = p.load(ctx)

	pp := p.pages[slug]
	pp.CompletedSections = slices.Clone(pp.CompletedSections)
	return pp
}

// All returns the progress of every article that has any.
func (p *ProgressStore) All(ctx context.Context) map[string]PageProgress {
	p.mu.Lock()
	defer p.mu.Unlock()
	_ = p.load(ctx)

	out := make(map[string]PageProgress, len(p.pages))
	for slug, pp := range p.pages {
		pp.CompletedSections = slices.Clone(pp.CompletedSections)
		out[slug] = pp
	}
	return out
}

// IsCompleted reports whether slug is marked read.
func (p *ProgressStore) IsCompleted(ctx context.Context, slug string) bool {
	return p.Get(ctx, slug).PageCompleted
}

// ToggleCompleted flips the read flag of slug and returns the new value.
func (p *ProgressStore) ToggleCompleted(ctx context.Context, slug string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.load(ctx); err != nil {
		return false, err
	}

	pp := p.pages[slug]
	pp.PageCompleted = !pp.PageCompleted
	p.pages[slug] = pp
	return pp.PageCompleted, p.save(ctx)
}

// SetCompleted sets the read flag of slug.
func (p *ProgressStore) SetCompleted(ctx context.Context, slug string, completed bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.load(ctx); err != nil {
		return err
	}

	pp := p.pages[slug]
	if pp.PageCompleted == completed {
		return nil
	}
	pp.PageCompleted = completed
	p.pages[slug] = pp
	return p.save(ctx)
}

// ToggleSection flips the read flag of one section of slug and returns the
// new value.
func (p *ProgressStore) ToggleSection(ctx context.Context, slug, sectionID string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.load(ctx); err != nil {
		return false, err
	}

	pp := p.pages[slug]
	sections := slices.Clone(pp.CompletedSections)
	done := false
	if i := slices.Index(sections, sectionID); i >= 0 {
		sections = slices.Delete(sections, i, i+1)
	} else {
		sections = append(sections, sectionID)
		done = true
	}
	pp.CompletedSections = sections
	p.pages[slug] = pp
	return done, p.save(ctx)
}

func (p *ProgressStore) load(ctx context.Context) error {
	if p.loaded {
		return nil
	}

	var stored map[string]PageProgress
	found, err := readJSON(ctx, p.kv, ProgressKey, &stored)
	if err != nil {
		return err
	}
	p.loaded = true
	p.pages = make(map[string]PageProgress)
	if !found {
		return nil
	}
	for slug, pp := range stored {
		if pp.CompletedSections == nil {
			pp.CompletedSections = []string{}
		}
		p.pages[slug] = pp
	}
	return nil
}

func (p *ProgressStore) save(ctx context.Context) error {
	return writeJSON(ctx, p.kv, ProgressKey, p.pages)
}
