package handlers

import (
	"net/http"

	"github.com/discoverly/discoverly/backend/internal/domain/entities"
	"github.com/discoverly/discoverly/backend/internal/domain/repositories"
)

// TaxonomyHandler resolves free-text categories against the industry catalog
type TaxonomyHandler struct {
	taxonomy repositories.TaxonomyRepository
}

// NewTaxonomyHandler creates a new taxonomy handler
func NewTaxonomyHandler(taxonomy repositories.TaxonomyRepository) *TaxonomyHandler {
	return &TaxonomyHandler{taxonomy: taxonomy}
}

// ResolveCategory handles GET /api/taxonomy/resolve?q=
func (h *TaxonomyHandler) ResolveCategory(w http.ResponseWriter, r *http.Request) {
	text := r.URL.Query().Get("q")
	if text == "" {
		respondWithError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}

	ids, err := h.taxonomy.ResolveCategory(r.Context(), text)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	entries := []*entities.Industry{}
	if len(ids) > 0 {
		entries, err = h.taxonomy.GetByIDs(r.Context(), ids)
		if err != nil {
			respondWithAppError(w, err)
			return
		}
	}

	respondWithSuccess(w, http.StatusOK, map[string]interface{}{
		"query":   text,
		"matches": entries,
	})
}
