package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"cryptoscholar/internal/annotations"
	"cryptoscholar/internal/service"
)

// ProgressHandler serves reading progress of articles.
type ProgressHandler struct {
	reader service.ReaderService
}

// NewProgressHandler creates a new ProgressHandler.
func NewProgressHandler(reader service.ReaderService) *ProgressHandler {
	return &ProgressHandler{reader: reader}
}

// ProgressResponse is the progress of one article after a change.
type ProgressResponse struct {
	Progress  annotations.PageProgress `json:"progress"`
	Completed bool                     `json:"completed"`
	Persisted bool                     `json:"persisted"`
}

// Get handles GET /api/articles/{slug}/progress.
func (h *ProgressHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	progress, err := h.reader.GetProgress(ctx, chi.URLParam(r, "slug"))
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to load progress")
		return
	}
	writeJSON(ctx, w, http.StatusOK, ProgressResponse{
		Progress:  progress,
		Completed: progress.PageCompleted,
		Persisted: true,
	})
}

// Toggle handles POST /api/articles/{slug}/progress.
func (h *ProgressHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	res, err := h.reader.ToggleCompleted(ctx, chi.URLParam(r, "slug"))
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to update progress")
		return
	}
	writeJSON(ctx, w, http.StatusOK, ProgressResponse{
		Progress:  res.Progress,
		Completed: res.Completed,
		Persisted: res.Persisted,
	})
}

// ToggleSection handles POST /api/articles/{slug}/sections/{sectionID}/progress.
func (h *ProgressHandler) ToggleSection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	res, err := h.reader.ToggleSection(ctx, chi.URLParam(r, "slug"), chi.URLParam(r, "sectionID"))
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to update section progress")
		return
	}
	writeJSON(ctx, w, http.StatusOK, ProgressResponse{
		Progress:  res.Progress,
		Completed: res.Completed,
		Persisted: res.Persisted,
	})
}
