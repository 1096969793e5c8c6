package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"cryptoscholar/internal/service"
)

// ArticleHandler serves the article JSON API.
type ArticleHandler struct {
	reader service.ReaderService
}

// NewArticleHandler creates a new ArticleHandler.
func NewArticleHandler(reader service.ReaderService) *ArticleHandler {
	return &ArticleHandler{reader: reader}
}

// ArticleResponse is the raw markdown of one article.
type ArticleResponse struct {
	Slug    string `json:"slug"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// List handles GET /api/articles.
func (h *ArticleHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	articles, err := h.reader.ListArticles(ctx)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to list articles")
		return
	}
	if articles == nil {
		articles = []service.ArticleSummary{}
	}
	writeJSON(ctx, w, http.StatusOK, articles)
}

// Get handles GET /api/articles/{slug}.
func (h *ArticleHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	article, err := h.reader.GetArticle(ctx, chi.URLParam(r, "slug"))
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to load article")
		return
	}
	writeJSON(ctx, w, http.StatusOK, ArticleResponse{
		Slug:    article.Slug,
		Title:   article.Title,
		Content: article.Content,
	})
}

// View handles GET /api/articles/{slug}/view. It returns the rendered
// article with stored highlights applied.
func (h *ArticleHandler) View(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	view, err := h.reader.ViewArticle(ctx, chi.URLParam(r, "slug"))
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to render article")
		return
	}
	writeJSON(ctx, w, http.StatusOK, view)
}
