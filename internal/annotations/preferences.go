package annotations

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"cryptoscholar/internal/storage"
)

// Color is a highlight color choice.
type Color struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Colors lists the available highlight colors; the first is the default.
var Colors = []Color{
	{Name: "Yellow", Value: "#ffff00"},
	{Name: "Green", Value: "#90ee90"},
	{Name: "Blue", Value: "#add8e6"},
	{Name: "Pink", Value: "#ffb6c1"},
}

// ReadingMode is the reader's highlighting preference.
type ReadingMode struct {
	HighlightMode bool   `json:"highlightMode"`
	Color         string `json:"color"`
}

// DefaultReadingMode has highlighting off with the first color active.
func DefaultReadingMode() ReadingMode {
	return ReadingMode{Color: Colors[0].Value}
}

// ValidColor reports whether value is one of Colors.
func ValidColor(value string) bool {
	return slices.ContainsFunc(Colors, func(c Color) bool { return c.Value == value })
}

// PreferenceStore persists the reading mode.
type PreferenceStore struct {
	kv storage.KVStore

	mu     sync.Mutex
	loaded bool
	mode   ReadingMode
}

// NewPreferenceStore creates a PreferenceStore backed by kv.
func NewPreferenceStore(kv storage.KVStore) *PreferenceStore {
	return &PreferenceStore{kv: kv}
}

// ReadingMode returns the current preference, or the default while the
// stored preference cannot be read.
func (p *PreferenceStore) ReadingMode(ctx context.Context) ReadingMode {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.load(ctx); err != nil {
		return DefaultReadingMode()
	}
	return p.mode
}

// SetReadingMode validates and stores mode. An empty color keeps the
// current one.
func (p *PreferenceStore) SetReadingMode(ctx context.Context, mode ReadingMode) (ReadingMode, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.load(ctx); err != nil {
		return DefaultReadingMode(), err
	}

	if mode.Color == "" {
		mode.Color = p.mode.Color
	}
	if !ValidColor(mode.Color) {
		return p.mode, fmt.Errorf("%w: %q", ErrUnknownColor, mode.Color)
	}
	p.mode = mode
	return p.mode, writeJSON(ctx, p.kv, ReadingModeKey, p.mode)
}

func (p *PreferenceStore) load(ctx context.Context) error {
	if p.loaded {
		return nil
	}

	var stored ReadingMode
	found, err := readJSON(ctx, p.kv, ReadingModeKey, &stored)
	if err != nil {
		return err
	}
	p.loaded = true
	p.mode = DefaultReadingMode()
	if !found {
		return nil
	}
	p.mode.HighlightMode = stored.HighlightMode
	if ValidColor(stored.Color) {
		p.mode.Color = stored.Color
	}
	return nil
}
