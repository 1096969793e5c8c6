package handlers

import (
	_ "embed"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"

	"cryptoscholar/internal/annotations"
	"cryptoscholar/internal/contextutil"
	"cryptoscholar/internal/service"
)

//go:embed assets/reader.js
var readerJS []byte

const pageStyle = `{{define "style"}}
  <style>
    :root {
      color-scheme: dark;
      --highlight-color: #ffff00;
    }
    body {
      font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif;
      margin: 0 auto;
      padding: 2rem;
      max-width: 900px;
      line-height: 1.7;
      background: #050b18;
      color: #e4ecff;
    }
    header {
      margin-bottom: 2rem;
      border-bottom: 1px solid rgba(148, 163, 184, 0.2);
      padding-bottom: 1.5rem;
    }
    h1 {
      margin-top: 0;
      color: #fff;
      font-size: 2rem;
    }
    article, aside {
      background: rgba(12, 19, 35, 0.85);
      border: 1px solid rgba(99, 102, 241, 0.2);
      border-radius: 16px;
      padding: 2rem;
      margin-bottom: 1.5rem;
    }
    article h2, article h3 {
      color: #c7d2fe;
      margin-top: 1.5rem;
    }
    pre {
      background: #0f172a;
      padding: 1rem;
      overflow-x: auto;
      border-radius: 10px;
    }
    code {
      font-family: 'SFMono-Regular', Consolas, 'Liberation Mono', Menlo, monospace;
    }
    a {
      color: #60a5fa;
      text-decoration: none;
    }
    mark.highlighted-text {
      background: var(--highlight-color);
      color: #050b18;
      cursor: pointer;
    }
    figure.payoff-chart svg {
      width: 100%;
      background: #0f172a;
      border-radius: 10px;
    }
    figure.payoff-chart polyline {
      fill: none;
      stroke: #60a5fa;
      stroke-width: 2;
    }
    figure.payoff-chart line {
      stroke: rgba(148, 163, 184, 0.5);
      stroke-dasharray: 4 4;
    }
    .meta, .outcome {
      color: #94a3b8;
      font-size: 0.95rem;
    }
    .completed {
      color: #86efac;
    }
    ul.plain {
      list-style: none;
      padding-left: 0;
    }
  </style>
{{end}}`

const indexPage = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>Crypto Scholar</title>
  {{template "style"}}
</head>
<body>
  <header>
    <h1>Crypto Scholar</h1>
    <p class="meta">{{len .Articles}} articles &middot; {{.Completed}} read</p>
  </header>
  <article>
    <ul class="plain">
    {{range .Articles}}
      <li>
        <a href="/products/{{.Slug}}">{{.Title}}</a>
        {{if .Completed}}<span class="completed">&#10003; read</span>{{end}}
        {{if .HighlightCount}}<span class="meta">{{.HighlightCount}} highlights</span>{{end}}
      </li>
    {{else}}
      <li class="meta">No articles found.</li>
    {{end}}
    </ul>
  </article>
</body>
</html>`

const articlePage = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.View.Title}}</title>
  {{template "style"}}
</head>
<body>
  <main data-slug="{{.View.Slug}}" data-highlight-mode="{{.View.ReadingMode.HighlightMode}}" data-color="{{.View.ReadingMode.Color}}">
    <header>
      <p class="meta"><a href="/">&larr; All articles</a> &middot; {{.View.Source}}</p>
      <h1>{{.View.Title}}</h1>
      <p>
        <button type="button" data-action="toggle-complete">{{if .View.Progress.PageCompleted}}Mark as unread{{else}}Mark as read{{end}}</button>
        <button type="button" data-action="toggle-mode">{{if .View.ReadingMode.HighlightMode}}Stop highlighting{{else}}Start highlighting{{end}}</button>
        <select data-action="pick-color">
        {{range .Colors}}
          <option value="{{.Value}}"{{if eq .Value $.View.ReadingMode.Color}} selected{{end}}>{{.Name}}</option>
        {{end}}
        </select>
        {{if .View.ReadingMode.HighlightMode}}<button type="button" data-commit-highlight disabled title="Select text to highlight">Highlight selection</button>{{end}}
      </p>
    </header>
    {{if .View.Headings}}
    <aside>
      <ul class="plain">
      {{range .View.Headings}}
        <li>
          <label>
            <input type="checkbox" data-action="toggle-section" data-section="{{.ID}}"{{if $.View.Progress.SectionCompleted .ID}} checked{{end}}>
            <a href="#{{.ID}}">{{.Text}}</a>
          </label>
        </li>
      {{end}}
      </ul>
    </aside>
    {{end}}
    <article>{{.Content}}</article>
    <aside>
      <h2>Highlights</h2>
      <ul class="plain">
      {{range .View.Highlights}}
        <li>
          &ldquo;{{.Text}}&rdquo;
          {{if ne .Outcome "applied"}}<span class="outcome">({{.Outcome}})</span>{{end}}
          <button type="button" data-remove-highlight="{{.ID}}">Remove</button>
        </li>
      {{else}}
        <li class="meta">Select text while highlighting is on, then press Highlight selection.</li>
      {{end}}
      </ul>
      {{if .View.Highlights}}<button type="button" data-action="clear-highlights">Clear all</button>{{end}}
    </aside>
  </main>
  <script src="/static/reader.js"></script>
</body>
</html>`

// PageHandler serves the reader's HTML pages.
type PageHandler struct {
	reader  service.ReaderService
	index   *template.Template
	article *template.Template
}

type indexPageData struct {
	Articles  []service.ArticleSummary
	Completed int
}

type articlePageData struct {
	View    service.ArticleView
	Content template.HTML
	Colors  []annotations.Color
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(reader service.ReaderService) *PageHandler {
	style := template.Must(template.New("style").Parse(pageStyle))
	return &PageHandler{
		reader:  reader,
		index:   template.Must(template.Must(style.Clone()).New("index").Parse(indexPage)),
		article: template.Must(template.Must(style.Clone()).New("article").Parse(articlePage)),
	}
}

// Index handles GET /.
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	articles, err := h.reader.ListArticles(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "failed to list articles", "error", err)
		http.Error(w, "failed to list articles", http.StatusInternalServerError)
		return
	}

	data := indexPageData{Articles: articles}
	for _, a := range articles {
		if a.Completed {
			data.Completed++
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.index.Execute(w, data); err != nil {
		logger.ErrorContext(ctx, "failed to execute index template", "error", err)
	}
}

// Article handles GET /products/{slug}.
func (h *PageHandler) Article(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	view, err := h.reader.ViewArticle(ctx, chi.URLParam(r, "slug"))
	if err != nil {
		status, msg := pageError(err)
		if status == http.StatusInternalServerError {
			logger.ErrorContext(ctx, "failed to render article", "error", err)
		}
		http.Error(w, msg, status)
		return
	}

	data := articlePageData{
		View:    view,
		Content: template.HTML(view.HTML),
		Colors:  annotations.Colors,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.article.Execute(w, data); err != nil {
		logger.ErrorContext(ctx, "failed to execute article template", "slug", view.Slug, "error", err)
	}
}

// Script handles GET /static/reader.js.
func (h *PageHandler) Script(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	_, _ = w.Write(readerJS)
}

func pageError(err error) (int, string) {
	switch {
	case isValidation(err):
		return http.StatusBadRequest, "invalid article"
	case isNotFound(err):
		return http.StatusNotFound, "article not found"
	default:
		return http.StatusInternalServerError, "failed to render article"
	}
}
