package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_reader_service.go -package=mocks cryptoscholar/internal/service ReaderService

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"golang.org/x/net/html"

	"cryptoscholar/internal/annotations"
	"cryptoscholar/internal/content"
	"cryptoscholar/internal/contextutil"
	"cryptoscholar/internal/highlight"
	"cryptoscholar/internal/metrics"
	"cryptoscholar/internal/render"
)

// ArticleSource is the read side of the content library.
type ArticleSource interface {
	Get(ctx context.Context, slug string) (content.Article, error)
	Rendered(ctx context.Context, slug string) (content.Article, string, error)
	List(ctx context.Context) ([]content.ArticleInfo, error)
}

// ArticleSummary is an index entry with the reader's progress.
type ArticleSummary struct {
	content.ArticleInfo
	Completed      bool `json:"completed"`
	HighlightCount int  `json:"highlightCount"`
}

// HighlightView is a stored highlight and how it fared on the current render.
type HighlightView struct {
	highlight.Anchor
	Outcome highlight.Outcome `json:"outcome"`
}

// ArticleView is an article rendered with the reader's highlights applied.
type ArticleView struct {
	Slug        string                   `json:"slug"`
	Title       string                   `json:"title"`
	Source      string                   `json:"source"`
	HTML        string                   `json:"html"`
	Headings    []render.Heading         `json:"headings"`
	Highlights  []HighlightView          `json:"highlights"`
	Progress    annotations.PageProgress `json:"progress"`
	ReadingMode annotations.ReadingMode  `json:"readingMode"`
}

// HighlightRequest creates a highlight either from character offsets into
// the article's flat text or from text with its surrounding context.
type HighlightRequest struct {
	Start         *int
	End           *int
	Text          string
	ContextBefore string
	ContextAfter  string
}

// HighlightResult reports a created or existing highlight. Range is in
// character offsets of the flat text.
type HighlightResult struct {
	Anchor    highlight.Anchor
	Range     highlight.Range
	Created   bool
	Persisted bool
}

// ProgressResult reports progress after a change.
type ProgressResult struct {
	Progress  annotations.PageProgress
	Completed bool
	Persisted bool
}

// ReaderService provides article reading, highlighting and progress.
type ReaderService interface {
	ListArticles(ctx context.Context) ([]ArticleSummary, error)
	GetArticle(ctx context.Context, slug string) (content.Article, error)
	ViewArticle(ctx context.Context, slug string) (ArticleView, error)

	ListHighlights(ctx context.Context, slug string) ([]highlight.Anchor, error)
	IsHighlighted(ctx context.Context, slug, text string) (bool, error)
	AddHighlight(ctx context.Context, slug string, req HighlightRequest) (HighlightResult, error)
	RemoveHighlight(ctx context.Context, slug, id string) (persisted bool, err error)
	ClearHighlights(ctx context.Context, slug string) (persisted bool, err error)

	GetProgress(ctx context.Context, slug string) (annotations.PageProgress, error)
	ToggleCompleted(ctx context.Context, slug string) (ProgressResult, error)
	ToggleSection(ctx context.Context, slug, sectionID string) (ProgressResult, error)

	ReadingMode(ctx context.Context) annotations.ReadingMode
	SetReadingMode(ctx context.Context, mode annotations.ReadingMode) (annotations.ReadingMode, bool, error)
}

// ReaderDeps are the collaborators of the reader service.
type ReaderDeps struct {
	Articles    ArticleSource
	Renderer    *render.Renderer
	Annotations *annotations.Store
	Progress    *annotations.ProgressStore
	Preferences *annotations.PreferenceStore
	Metrics     *metrics.Metrics
}

type readerService struct {
	articles    ArticleSource
	renderer    *render.Renderer
	annotations *annotations.Store
	progress    *annotations.ProgressStore
	preferences *annotations.PreferenceStore
	metrics     *metrics.Metrics
	logger      *slog.Logger
}

// NewReaderService creates a new ReaderService.
func NewReaderService(deps ReaderDeps) ReaderService {
	return &readerService{
		articles:    deps.Articles,
		renderer:    deps.Renderer,
		annotations: deps.Annotations,
		progress:    deps.Progress,
		preferences: deps.Preferences,
		metrics:     deps.Metrics,
		logger:      slog.Default(),
	}
}

func (s *readerService) ListArticles(ctx context.Context) ([]ArticleSummary, error) {
	infos, err := s.articles.List(ctx)
	if err != nil {
		return nil, WrapError(err, "failed to list articles")
	}

	progress := s.progress.All(ctx)
	out := make([]ArticleSummary, len(infos))
	for i, info := range infos {
		out[i] = ArticleSummary{
			ArticleInfo:    info,
			Completed:      progress[info.Slug].PageCompleted,
			HighlightCount: len(s.annotations.List(ctx, info.Slug)),
		}
	}
	return out, nil
}

func (s *readerService) GetArticle(ctx context.Context, slug string) (content.Article, error) {
	article, err := s.articles.Get(ctx, slug)
	if err != nil {
		return content.Article{}, s.articleError(ctx, slug, err)
	}
	return article, nil
}

// ViewArticle renders slug and applies its stored highlights in creation
// order. Highlights that no longer match the text are kept and reported.
func (s *readerService) ViewArticle(ctx context.Context, slug string) (ArticleView, error) {
	logger := contextutil.LoggerFromContext(ctx)

	article, root, err := s.renderTree(ctx, slug)
	if err != nil {
		return ArticleView{}, err
	}

	anchors := s.annotations.List(ctx, slug)
	report := highlight.Annotate(root, anchors)
	s.observeReport(report)
	if n := report.Count(highlight.OutcomeNotFound) + report.Count(highlight.OutcomeOverlapping); n > 0 {
		logger.InfoContext(ctx, "some highlights could not be applied",
			"slug", slug,
			"not_found", report.IDs(highlight.OutcomeNotFound),
			"overlapping", report.IDs(highlight.OutcomeOverlapping))
	}

	htmlOut, err := render.InnerHTML(root)
	if err != nil {
		return ArticleView{}, WrapError(err, "failed to serialize article")
	}

	views := make([]HighlightView, len(anchors))
	for i, a := range anchors {
		views[i] = HighlightView{Anchor: a, Outcome: report.Results[i].Outcome}
	}

	_, headings := s.renderer.Outline([]byte(article.Content))
	if headings == nil {
		headings = []render.Heading{}
	}

	return ArticleView{
		Slug:        article.Slug,
		Title:       article.Title,
		Source:      article.Source,
		HTML:        htmlOut,
		Headings:    headings,
		Highlights:  views,
		Progress:    s.progress.Get(ctx, slug),
		ReadingMode: s.preferences.ReadingMode(ctx),
	}, nil
}

func (s *readerService) ListHighlights(ctx context.Context, slug string) ([]highlight.Anchor, error) {
	if _, err := s.GetArticle(ctx, slug); err != nil {
		return nil, err
	}
	return s.annotations.List(ctx, slug), nil
}

// IsHighlighted reports whether slug already has a highlight of exactly
// text, ignoring surrounding whitespace.
func (s *readerService) IsHighlighted(ctx context.Context, slug, text string) (bool, error) {
	if _, err := s.GetArticle(ctx, slug); err != nil {
		return false, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return false, &ValidationError{Field: "text", Message: "cannot be empty"}
	}
	return s.annotations.Has(ctx, slug, text), nil
}

// AddHighlight validates and stores a highlight. A highlight identical to a
// stored one is returned unchanged; one that would overlap an applied
// highlight is rejected with ErrConflict.
func (s *readerService) AddHighlight(ctx context.Context, slug string, req HighlightRequest) (HighlightResult, error) {
	logger := contextutil.LoggerFromContext(ctx)

	_, root, err := s.renderTree(ctx, slug)
	if err != nil {
		return HighlightResult{}, err
	}

	var anchor highlight.Anchor
	switch {
	case req.Start != nil || req.End != nil:
		if req.Start == nil || req.End == nil {
			return HighlightResult{}, &ValidationError{Field: "range", Message: "start and end are both required"}
		}
		anchor, err = highlight.BuildAnchorFromRunes(highlight.Extract(root), *req.Start, *req.End, slug)
		if err != nil {
			return HighlightResult{}, selectionError(err)
		}
	default:
		text := strings.TrimSpace(req.Text)
		if text == "" {
			return HighlightResult{}, &ValidationError{Field: "text", Message: "cannot be empty"}
		}
		anchor = highlight.Anchor{
			DocID:         slug,
			Text:          text,
			ContextBefore: req.ContextBefore,
			ContextAfter:  req.ContextAfter,
		}
	}

	existing := s.annotations.List(ctx, slug)
	if i := slices.IndexFunc(existing, anchor.SameContent); i >= 0 {
		idx := highlight.Extract(root)
		rng, _ := highlight.Resolve(idx, existing[i])
		return HighlightResult{Anchor: existing[i], Range: runeRange(idx, rng), Persisted: true}, nil
	}

	// Place the new anchor on a tree carrying the existing highlights so
	// collisions are detected before anything is stored.
	s.observeReport(highlight.Annotate(root, existing))
	idx := highlight.Extract(root)
	rng, ok := highlight.Resolve(idx, anchor)
	if !ok {
		return HighlightResult{}, &ValidationError{Field: "text", Message: "not found in article"}
	}
	if err := highlight.ApplyHighlight(idx, rng, "pending"); err != nil {
		if errors.Is(err, highlight.ErrOverlappingHighlight) {
			return HighlightResult{}, fmt.Errorf("%w: %w", ErrConflict, err)
		}
		return HighlightResult{}, WrapError(err, "failed to place highlight")
	}

	stored, created, err := s.annotations.AddAnchor(ctx, anchor)
	persisted := true
	if err != nil {
		if !errors.Is(err, annotations.ErrPersistence) {
			return HighlightResult{}, storeError(selectionError(err))
		}
		persisted = false
	}

	logger.InfoContext(ctx, "highlight added", "slug", slug, "id", stored.ID, "length", len(stored.Text), "persisted", persisted)
	return HighlightResult{
		Anchor:    stored,
		Range:     runeRange(idx, rng),
		Created:   created,
		Persisted: persisted,
	}, nil
}

func (s *readerService) RemoveHighlight(ctx context.Context, slug, id string) (bool, error) {
	if _, err := s.GetArticle(ctx, slug); err != nil {
		return false, err
	}

	removed, err := s.annotations.Remove(ctx, slug, id)
	if !removed && err == nil {
		return false, fmt.Errorf("%w: highlight %s", ErrNotFound, id)
	}
	return persistedOrError(err)
}

func (s *readerService) ClearHighlights(ctx context.Context, slug string) (bool, error) {
	if _, err := s.GetArticle(ctx, slug); err != nil {
		return false, err
	}
	return persistedOrError(s.annotations.Clear(ctx, slug))
}

func (s *readerService) GetProgress(ctx context.Context, slug string) (annotations.PageProgress, error) {
	if _, err := s.GetArticle(ctx, slug); err != nil {
		return annotations.PageProgress{}, err
	}
	return s.progress.Get(ctx, slug), nil
}

func (s *readerService) ToggleCompleted(ctx context.Context, slug string) (ProgressResult, error) {
	if _, err := s.GetArticle(ctx, slug); err != nil {
		return ProgressResult{}, err
	}

	done, err := s.progress.ToggleCompleted(ctx, slug)
	persisted, err := persistedOrError(err)
	if err != nil {
		return ProgressResult{}, err
	}
	return ProgressResult{Progress: s.progress.Get(ctx, slug), Completed: done, Persisted: persisted}, nil
}

// ToggleSection flips the read flag of a section. sectionID must be the id
// of one of the article's level 2 or 3 headings.
func (s *readerService) ToggleSection(ctx context.Context, slug, sectionID string) (ProgressResult, error) {
	article, err := s.GetArticle(ctx, slug)
	if err != nil {
		return ProgressResult{}, err
	}

	_, headings := s.renderer.Outline([]byte(article.Content))
	if !slices.ContainsFunc(headings, func(h render.Heading) bool { return h.ID == sectionID }) {
		return ProgressResult{}, &ValidationError{Field: "sectionId", Message: "no such section"}
	}

	done, err := s.progress.ToggleSection(ctx, slug, sectionID)
	persisted, err := persistedOrError(err)
	if err != nil {
		return ProgressResult{}, err
	}
	return ProgressResult{Progress: s.progress.Get(ctx, slug), Completed: done, Persisted: persisted}, nil
}

func (s *readerService) ReadingMode(ctx context.Context) annotations.ReadingMode {
	return s.preferences.ReadingMode(ctx)
}

func (s *readerService) SetReadingMode(ctx context.Context, mode annotations.ReadingMode) (annotations.ReadingMode, bool, error) {
	stored, err := s.preferences.SetReadingMode(ctx, mode)
	if errors.Is(err, annotations.ErrUnknownColor) {
		return stored, false, &ValidationError{Field: "color", Message: "unknown highlight color"}
	}
	persisted, err := persistedOrError(err)
	return stored, persisted, err
}

// renderTree loads slug and parses a fresh tree of its rendered HTML.
func (s *readerService) renderTree(ctx context.Context, slug string) (content.Article, *html.Node, error) {
	article, fragment, err := s.articles.Rendered(ctx, slug)
	if err != nil {
		return content.Article{}, nil, s.articleError(ctx, slug, err)
	}
	root, err := render.ParseFragment(fragment)
	if err != nil {
		return content.Article{}, nil, WrapError(err, "failed to parse article")
	}
	return article, root, nil
}

func (s *readerService) articleError(ctx context.Context, slug string, err error) error {
	logger := contextutil.LoggerFromContext(ctx)
	switch {
	case errors.Is(err, content.ErrInvalidSlug):
		logger.WarnContext(ctx, "invalid article slug", "slug", slug)
		return &ValidationError{Field: "slug", Message: "invalid article slug"}
	case errors.Is(err, content.ErrNotFound):
		logger.WarnContext(ctx, "article not found", "slug", slug)
		return fmt.Errorf("%w: article %s", ErrNotFound, slug)
	default:
		logger.ErrorContext(ctx, "failed to load article", "slug", slug, "error", err)
		return WrapError(err, "failed to load article")
	}
}

func (s *readerService) observeReport(report highlight.Report) {
	for _, o := range []highlight.Outcome{
		highlight.OutcomeApplied,
		highlight.OutcomeNotFound,
		highlight.OutcomeOverlapping,
		highlight.OutcomeFailed,
	} {
		s.metrics.ObserveHighlightOutcome(string(o), report.Count(o))
	}
}

// selectionError converts highlight selection failures into validation errors.
func selectionError(err error) error {
	var selErr *highlight.SelectionError
	if errors.As(err, &selErr) {
		return &ValidationError{Field: "selection", Message: selErr.Reason}
	}
	if errors.Is(err, highlight.ErrInvalidSelection) {
		return &ValidationError{Field: "selection", Message: err.Error()}
	}
	return err
}

// persistedOrError turns a persistence failure into persisted == false.
// The in-memory state has already changed in that case.
func persistedOrError(err error) (bool, error) {
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, annotations.ErrPersistence):
		return false, nil
	default:
		return false, storeError(err)
	}
}

func runeRange(idx *highlight.TextIndex, rng highlight.Range) highlight.Range {
	return highlight.Range{Start: idx.RuneOffset(rng.Start), End: idx.RuneOffset(rng.End)}
}

// storeError marks a refused change on unreadable stored state.
func storeError(err error) error {
	if errors.Is(err, annotations.ErrUnavailable) {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return err
}
