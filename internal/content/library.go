// Package content serves the markdown articles of the knowledge base.
package content

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"cryptoscholar/internal/contextutil"
	"cryptoscholar/internal/render"
)

var (
	// ErrNotFound is returned when no section holds the requested article.
	ErrNotFound = errors.New("article not found")
	// ErrInvalidSlug is returned for slugs that cannot name an article file.
	ErrInvalidSlug = errors.New("invalid article slug")
)

const articleExt = ".md"

// Section is one content directory. Articles in later sections are only
// found if no earlier section has the same slug.
type Section struct {
	Name        string
	Dir         string
	TitlePrefix string
}

// Article is the source of one article.
type Article struct {
	Slug    string `json:"slug"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Source  string `json:"source"`
	Path    string `json:"-"`
}

// ArticleInfo describes an article for listings.
type ArticleInfo struct {
	Slug     string           `json:"slug"`
	Title    string           `json:"title"`
	Source   string           `json:"source"`
	Headings []render.Heading `json:"headings"`
}

// Library finds, reads and renders articles from a set of sections.
type Library struct {
	sections []Section
	renderer *render.Renderer
	cache    *RenderCache
}

// NewSections builds sections for the named subdirectories of root. The
// "concepts" section prefixes its titles with "Concept: ".
func NewSections(root string, names []string) []Section {
	sections := make([]Section, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		s := Section{Name: name, Dir: filepath.Join(root, name)}
		if name == "concepts" {
			s.TitlePrefix = "Concept: "
		}
		sections = append(sections, s)
	}
	return sections
}

// NewLibrary creates a Library. cache may be nil to render on every request.
func NewLibrary(sections []Section, renderer *render.Renderer, cache *RenderCache) (*Library, error) {
	if len(sections) == 0 {
		return nil, fmt.Errorf("at least one content section is required")
	}
	if renderer == nil {
		return nil, fmt.Errorf("renderer is required")
	}
	return &Library{sections: sections, renderer: renderer, cache: cache}, nil
}

// Sections returns the configured sections.
func (l *Library) Sections() []Section {
	return slices.Clone(l.sections)
}

// Get reads the article named slug from the first section that has it.
func (l *Library) Get(ctx context.Context, slug string) (Article, error) {
	if err := ValidateSlug(slug); err != nil {
		return Article{}, err
	}
	logger := contextutil.LoggerFromContext(ctx)

	for _, s := range l.sections {
		path := filepath.Join(s.Dir, slug+articleExt)
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			logger.WarnContext(ctx, "failed to read article", "path", path, "error", err)
			continue
		}

		title, _ := l.renderer.Outline(data)
		return Article{
			Slug:    slug,
			Title:   articleTitle(s, slug, title),
			Content: string(data),
			Source:  s.Name,
			Path:    path,
		}, nil
	}
	return Article{}, fmt.Errorf("%w: %s", ErrNotFound, slug)
}

// Rendered returns the article with its rendered HTML, from the cache when
// the file has not changed since it was rendered.
func (l *Library) Rendered(ctx context.Context, slug string) (Article, string, error) {
	article, err := l.Get(ctx, slug)
	if err != nil {
		return Article{}, "", err
	}

	info, statErr := os.Stat(article.Path)
	if l.cache != nil && statErr == nil {
		if html, ok := l.cache.Get(slug, info.ModTime()); ok {
			return article, html, nil
		}
	}

	html, err := l.renderer.RenderHTML([]byte(article.Content))
	if err != nil {
		return Article{}, "", err
	}
	if l.cache != nil && statErr == nil {
		l.cache.Add(slug, info.ModTime(), html)
	}
	return article, html, nil
}

// List returns every article of every section sorted by title. A section
// whose directory cannot be read is skipped.
func (l *Library) List(ctx context.Context) ([]ArticleInfo, error) {
	logger := contextutil.LoggerFromContext(ctx)
	var infos []ArticleInfo
	seen := make(map[string]bool)

	for _, s := range l.sections {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		entries, err := os.ReadDir(s.Dir)
		if err != nil {
			logger.WarnContext(ctx, "failed to read content section", "section", s.Name, "dir", s.Dir, "error", err)
			continue
		}

		for _, e := range entries {
			if e.IsDir() || filepath.Ext(e.Name()) != articleExt {
				continue
			}
			slug := strings.TrimSuffix(e.Name(), articleExt)
			if seen[slug] || ValidateSlug(slug) != nil {
				continue
			}

			data, err := os.ReadFile(filepath.Join(s.Dir, e.Name()))
			if err != nil {
				logger.WarnContext(ctx, "failed to read article", "section", s.Name, "file", e.Name(), "error", err)
				continue
			}
			seen[slug] = true

			title, headings := l.renderer.Outline(data)
			if headings == nil {
				headings = []render.Heading{}
			}
			infos = append(infos, ArticleInfo{
				Slug:     slug,
				Title:    articleTitle(s, slug, title),
				Source:   s.Name,
				Headings: headings,
			})
		}
	}

	sortByTitle(infos)
	logger.DebugContext(ctx, "listed articles", "count", len(infos))
	return infos, nil
}

// sortByTitle orders infos by title using locale-aware collation, then slug.
func sortByTitle(infos []ArticleInfo) {
	c := collate.New(language.English, collate.IgnoreCase)
	slices.SortStableFunc(infos, func(a, b ArticleInfo) int {
		if n := c.CompareString(a.Title, b.Title); n != 0 {
			return n
		}
		return strings.Compare(a.Slug, b.Slug)
	})
}

// articleTitle uses the first level-1 heading, falling back to the slug
// with underscores read as spaces.
func articleTitle(s Section, slug, heading string) string {
	title := strings.TrimSpace(heading)
	if title == "" {
		title = strings.ReplaceAll(slug, "_", " ")
	}
	return s.TitlePrefix + title
}

// ValidateSlug rejects slugs that are empty or could escape a section
// directory.
func ValidateSlug(slug string) error {
	switch {
	case slug == "", slug == ".", slug == "..":
		return fmt.Errorf("%w: %q", ErrInvalidSlug, slug)
	case strings.ContainsAny(slug, `/\`), strings.Contains(slug, ".."), strings.HasPrefix(slug, "."):
		return fmt.Errorf("%w: %q", ErrInvalidSlug, slug)
	case strings.ContainsRune(slug, 0):
		return fmt.Errorf("%w: %q", ErrInvalidSlug, slug)
	}
	return nil
}
