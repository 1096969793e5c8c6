// Package annotations keeps per-reader state for articles: highlight
// anchors, reading progress and reading-mode preferences. Each store holds
// its data in memory and writes it through to a storage.KVStore as one
// JSON document per key.
package annotations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"cryptoscholar/internal/contextutil"
	"cryptoscholar/internal/highlight"
	"cryptoscholar/internal/storage"
)

// Keys under which the stores persist their documents.
const (
	AnnotationsKey = "cryptoScholarAnnotations"
	ProgressKey    = "cryptoScholarProgress"
	ReadingModeKey = "cryptoScholarReadingMode"
)

// ErrPersistence is returned when state changed in memory but could not be
// written to the key-value store.
var ErrPersistence = errors.New("failed to persist")

// ErrUnavailable is returned by changes attempted while the stored state
// cannot be read. Nothing is written in that case.
var ErrUnavailable = errors.New("stored state unavailable")

// ErrUnknownColor is returned for a highlight color outside Colors.
var ErrUnknownColor = errors.New("unknown highlight color")

var newID = uuid.NewString

// Store holds highlight anchors grouped by document id, in creation order.
type Store struct {
	kv storage.KVStore

	mu     sync.Mutex
	loaded bool
	sets   map[string][]highlight.Anchor
}

// NewStore creates a Store backed by kv. Nothing is read until first use.
func NewStore(kv storage.KVStore) *Store {
	return &Store{kv: kv}
}

// Add records a highlight of text with its surrounding context under docID.
// If an anchor with the same text and context already exists it is returned
// with added == false and nothing is written.
func (s *Store) Add(ctx context.Context, docID, text, contextBefore, contextAfter string) (highlight.Anchor, bool, error) {
	if strings.TrimSpace(text) == "" {
		return highlight.Anchor{}, false, &highlight.SelectionError{Reason: "only whitespace"}
	}
	return s.AddAnchor(ctx, highlight.Anchor{
		DocID:         docID,
		Text:          text,
		ContextBefore: contextBefore,
		ContextAfter:  contextAfter,
	})
}

// AddAnchor stores a, assigning an id when it has none. Surrounding
// whitespace is trimmed from the text. Duplicates are detected the same way
// as in Add.
func (s *Store) AddAnchor(ctx context.Context, a highlight.Anchor) (highlight.Anchor, bool, error) {
	if a.DocID == "" {
		return highlight.Anchor{}, false, fmt.Errorf("%w: missing document id", highlight.ErrInvalidSelection)
	}
	a.Text = strings.TrimSpace(a.Text)
	if a.Text == "" {
		return highlight.Anchor{}, false, &highlight.SelectionError{Reason: "only whitespace"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(ctx); err != nil {
		return highlight.Anchor{}, false, err
	}

	for _, existing := range s.sets[a.DocID] {
		if existing.SameContent(a) {
			return existing, false, nil
		}
	}

	if a.ID == "" {
		a.ID = newID()
	}
	s.sets[a.DocID] = append(s.sets[a.DocID], a)
	return a, true, s.save(ctx)
}

// Remove deletes the anchor with id from docID. It reports false when no
// such anchor exists. Removing the last anchor drops the document entry.
func (s *Store) Remove(ctx context.Context, docID, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(ctx); err != nil {
		return false, err
	}

	set := s.sets[docID]
	for i, a := range set {
		if a.ID != id {
			continue
		}
		set = append(set[:i:i], set[i+1:]...)
		if len(set) == 0 {
			delete(s.sets, docID)
		} else {
			s.sets[docID] = set
		}
		return true, s.save(ctx)
	}
	return false, nil
}

// List returns a copy of the anchors of docID in creation order. It is
// empty while the stored state cannot be read.
func (s *Store) List(ctx context.Context, docID string) []highlight.Anchor {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.load(ctx)

	set := s.sets[docID]
	out := make([]highlight.Anchor, len(set))
	copy(out, set)
	return out
}

// Clear removes every anchor of docID.
func (s *Store) Clear(ctx context.Context, docID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(ctx); err != nil {
		return err
	}

	if _, ok := s.sets[docID]; !ok {
		return nil
	}
	delete(s.sets, docID)
	return s.save(ctx)
}

// Has reports whether docID already has a highlight of exactly text.
func (s *Store) Has(ctx context.Context, docID, text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.load(ctx)

	for _, a := range s.sets[docID] {
		if a.Text == text {
			return true
		}
	}
	return false
}

// load reads the persisted set. A failed read is retried on the next call;
// absent or malformed data starts an empty set. Callers hold s.mu.
func (s *Store) load(ctx context.Context) error {
	if s.loaded {
		return nil
	}

	var stored map[string][]highlight.Anchor
	found, err := readJSON(ctx, s.kv, AnnotationsKey, &stored)
	if err != nil {
		return err
	}
	s.loaded = true
	s.sets = make(map[string][]highlight.Anchor)
	if !found {
		return nil
	}
	for docID, set := range stored {
		if len(set) == 0 {
			continue
		}
		for i := range set {
			set[i].DocID = docID
		}
		s.sets[docID] = set
	}
	return nil
}

// save writes the whole set. Callers hold s.mu.
func (s *Store) save(ctx context.Context) error {
	return writeJSON(ctx, s.kv, AnnotationsKey, s.sets)
}

// readJSON decodes the value under key into v. It reports false when the
// key is absent or its value cannot be decoded, and an ErrUnavailable error
// when the store could not be read.
func readJSON(ctx context.Context, kv storage.KVStore, key string, v any) (bool, error) {
	logger := contextutil.LoggerFromContext(ctx)

	raw, err := kv.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		logger.WarnContext(ctx, "failed to read stored state", "key", key, "error", err)
		return false, fmt.Errorf("%w: %s: %w", ErrUnavailable, key, err)
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		logger.WarnContext(ctx, "discarding malformed stored state", "key", key, "error", err)
		return false, nil
	}
	return true, nil
}

func writeJSON(ctx context.Context, kv storage.KVStore, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %w", ErrPersistence, key, err)
	}
	if err := kv.Set(ctx, key, string(data)); err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "failed to persist state", "key", key, "error", err)
		return fmt.Errorf("%w: %s: %w", ErrPersistence, key, err)
	}
	return nil
}
