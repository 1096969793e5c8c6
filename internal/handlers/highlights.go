package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"cryptoscholar/internal/contextutil"
	"cryptoscholar/internal/highlight"
	"cryptoscholar/internal/service"
)

// HighlightHandler serves the highlight API of an article.
type HighlightHandler struct {
	reader service.ReaderService
}

// NewHighlightHandler creates a new HighlightHandler.
func NewHighlightHandler(reader service.ReaderService) *HighlightHandler {
	return &HighlightHandler{reader: reader}
}

// CreateHighlightRequest selects text either by character offsets into the
// article's flat text or by the text and its surrounding context.
type CreateHighlightRequest struct {
	Start         *int   `json:"start,omitempty"`
	End           *int   `json:"end,omitempty"`
	Text          string `json:"text,omitempty"`
	ContextBefore string `json:"contextBefore,omitempty"`
	ContextAfter  string `json:"contextAfter,omitempty"`
}

// HighlightResponse describes a created or existing highlight.
type HighlightResponse struct {
	Highlight highlight.Anchor `json:"highlight"`
	Range     highlight.Range  `json:"range"`
	Created   bool             `json:"created"`
	Persisted bool             `json:"persisted"`
}

// HighlightListResponse lists the highlights of an article.
type HighlightListResponse struct {
	Highlights []highlight.Anchor `json:"highlights"`
}

// CheckResponse tells whether a selection is already highlighted.
type CheckResponse struct {
	Text        string `json:"text"`
	Highlighted bool   `json:"highlighted"`
}

// MutationResponse reports the result of a delete or clear.
type MutationResponse struct {
	Removed   bool `json:"removed"`
	Persisted bool `json:"persisted"`
}

// List handles GET /api/articles/{slug}/highlights.
func (h *HighlightHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	anchors, err := h.reader.ListHighlights(ctx, chi.URLParam(r, "slug"))
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to list highlights")
		return
	}
	if anchors == nil {
		anchors = []highlight.Anchor{}
	}
	writeJSON(ctx, w, http.StatusOK, HighlightListResponse{Highlights: anchors})
}

// Check handles GET /api/articles/{slug}/highlights/check?text=...
func (h *HighlightHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	text := strings.TrimSpace(r.URL.Query().Get("text"))
	highlighted, err := h.reader.IsHighlighted(ctx, chi.URLParam(r, "slug"), text)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to check highlight")
		return
	}
	writeJSON(ctx, w, http.StatusOK, CheckResponse{Text: text, Highlighted: highlighted})
}

// Create handles POST /api/articles/{slug}/highlights. It answers 201 for
// a new highlight and 200 when an identical one already exists.
func (h *HighlightHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req CreateHighlightRequest
	if err := decodeJSON(w, r, &req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	res, err := h.reader.AddHighlight(ctx, chi.URLParam(r, "slug"), service.HighlightRequest{
		Start:         req.Start,
		End:           req.End,
		Text:          req.Text,
		ContextBefore: req.ContextBefore,
		ContextAfter:  req.ContextAfter,
	})
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to add highlight")
		return
	}

	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	writeJSON(ctx, w, status, HighlightResponse{
		Highlight: res.Anchor,
		Range:     res.Range,
		Created:   res.Created,
		Persisted: res.Persisted,
	})
}

// Delete handles DELETE /api/articles/{slug}/highlights/{id}.
func (h *HighlightHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	persisted, err := h.reader.RemoveHighlight(ctx, chi.URLParam(r, "slug"), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to remove highlight")
		return
	}
	writeJSON(ctx, w, http.StatusOK, MutationResponse{Removed: true, Persisted: persisted})
}

// Clear handles DELETE /api/articles/{slug}/highlights.
func (h *HighlightHandler) Clear(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	persisted, err := h.reader.ClearHighlights(ctx, chi.URLParam(r, "slug"))
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to clear highlights")
		return
	}
	writeJSON(ctx, w, http.StatusOK, MutationResponse{Removed: true, Persisted: persisted})
}
