package handlers

import (
	"net/http"

	"github.com/discoverly/discoverly/backend/internal/application/services"
)

// DiscoveryHandler serves the discovery surface. Every mode shares the same
// request shape and response envelope; they differ only in which service
// operation runs.
type DiscoveryHandler struct {
	discovery *services.DiscoveryService
}

// NewDiscoveryHandler creates a new discovery handler
func NewDiscoveryHandler(discovery *services.DiscoveryService) *DiscoveryHandler {
	return &DiscoveryHandler{discovery: discovery}
}

type discoveryCall func(r *http.Request, filters services.DiscoveryFilters) (*services.DiscoveryPage, error)

func (h *DiscoveryHandler) serve(w http.ResponseWriter, r *http.Request, call discoveryCall) {
	filters, err := parseDiscoveryFilters(r)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	page, err := call(r, filters)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithSuccess(w, http.StatusOK, map[string]interface{}{
		"businesses":     page.Results,
		"pagination":     page.Pagination,
		"searchCenter":   page.SearchCenter,
		"appliedFilters": appliedFilters(filters),
		"sortedBy":       page.SortedBy,
	})
}

// Nearby handles GET /api/discovery/nearby
func (h *DiscoveryHandler) Nearby(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, func(r *http.Request, filters services.DiscoveryFilters) (*services.DiscoveryPage, error) {
		return h.discovery.Nearby(r.Context(), userID(r), filters)
	})
}

// TopPicks handles GET /api/discovery/top-picks
func (h *DiscoveryHandler) TopPicks(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, func(r *http.Request, filters services.DiscoveryFilters) (*services.DiscoveryPage, error) {
		return h.discovery.TopPicks(r.Context(), userID(r), filters)
	})
}

// OnTheRise handles GET /api/discovery/on-the-rise
func (h *DiscoveryHandler) OnTheRise(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, func(r *http.Request, filters services.DiscoveryFilters) (*services.DiscoveryPage, error) {
		return h.discovery.OnTheRise(r.Context(), filters)
	})
}

// NewlyAdded handles GET /api/discovery/newly-added
func (h *DiscoveryHandler) NewlyAdded(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, func(r *http.Request, filters services.DiscoveryFilters) (*services.DiscoveryPage, error) {
		return h.discovery.NewlyAdded(r.Context(), filters)
	})
}

// Recents handles GET /api/discovery/recents
func (h *DiscoveryHandler) Recents(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, func(r *http.Request, filters services.DiscoveryFilters) (*services.DiscoveryPage, error) {
		return h.discovery.Recents(r.Context(), userID(r), filters)
	})
}

// Explore handles GET /api/discovery/explore
func (h *DiscoveryHandler) Explore(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, func(r *http.Request, filters services.DiscoveryFilters) (*services.DiscoveryPage, error) {
		return h.discovery.Explore(r.Context(), filters)
	})
}
