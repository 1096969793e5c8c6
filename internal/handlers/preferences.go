package handlers

import (
	"net/http"

	"cryptoscholar/internal/annotations"
	"cryptoscholar/internal/contextutil"
	"cryptoscholar/internal/service"
)

// PreferenceHandler serves the reading-mode preference.
type PreferenceHandler struct {
	reader service.ReaderService
}

// NewPreferenceHandler creates a new PreferenceHandler.
func NewPreferenceHandler(reader service.ReaderService) *PreferenceHandler {
	return &PreferenceHandler{reader: reader}
}

// ReadingModeResponse is the current reading mode and the colors to pick from.
type ReadingModeResponse struct {
	ReadingMode annotations.ReadingMode `json:"readingMode"`
	Colors      []annotations.Color     `json:"colors"`
	Persisted   bool                    `json:"persisted"`
}

// Get handles GET /api/preferences/reading-mode.
func (h *PreferenceHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	writeJSON(ctx, w, http.StatusOK, ReadingModeResponse{
		ReadingMode: h.reader.ReadingMode(ctx),
		Colors:      annotations.Colors,
		Persisted:   true,
	})
}

// Put handles PUT /api/preferences/reading-mode.
func (h *PreferenceHandler) Put(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req annotations.ReadingMode
	if err := decodeJSON(w, r, &req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	mode, persisted, err := h.reader.SetReadingMode(ctx, req)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to update reading mode")
		return
	}
	writeJSON(ctx, w, http.StatusOK, ReadingModeResponse{
		ReadingMode: mode,
		Colors:      annotations.Colors,
		Persisted:   persisted,
	})
}
