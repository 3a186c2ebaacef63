package handlers

import (
	"net/http"

	"github.com/discoverly/discoverly/backend/internal/domain/entities"
	"github.com/discoverly/discoverly/backend/internal/domain/repositories"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// BusinessHandler serves direct business lookups outside the discovery modes
type BusinessHandler struct {
	businesses repositories.BusinessRepository
}

// NewBusinessHandler creates a new business handler
func NewBusinessHandler(businesses repositories.BusinessRepository) *BusinessHandler {
	return &BusinessHandler{businesses: businesses}
}

// GetBusiness handles GET /api/businesses/{id}
func (h *BusinessHandler) GetBusiness(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "business id is required")
		return
	}

	business, err := h.businesses.GetByID(r.Context(), id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithSuccess(w, http.StatusOK, map[string]interface{}{
		"business": business,
	})
}

// ListBusinesses handles GET /api/businesses, newest first
func (h *BusinessHandler) ListBusinesses(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := parseInt(q, "limit")
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	page := parseInt(q, "page")
	if page <= 0 {
		page = 1
	}

	businesses, total, err := h.businesses.ListNewest(r.Context(), limit, (page-1)*limit)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithSuccess(w, http.StatusOK, map[string]interface{}{
		"businesses": businesses,
		"pagination": entities.NewPagination(total, page, limit),
	})
}
