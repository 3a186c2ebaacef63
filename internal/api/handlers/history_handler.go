package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/discoverly/discoverly/backend/internal/application/services"
)

// HistoryHandler records profile view events that feed the recents mode and
// the view counters
type HistoryHandler struct {
	history *services.ViewHistoryService
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(history *services.ViewHistoryService) *HistoryHandler {
	return &HistoryHandler{history: history}
}

type recordViewRequest struct {
	BusinessID string `json:"businessId"`
}

// RecordView handles POST /api/history/views
func (h *HistoryHandler) RecordView(w http.ResponseWriter, r *http.Request) {
	var req recordViewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	event, err := h.history.RecordView(r.Context(), userID(r), req.BusinessID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithSuccess(w, http.StatusCreated, map[string]interface{}{
		"view": event,
	})
}
