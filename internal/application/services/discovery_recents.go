package services

import (
	"context"

	"github.com/discoverly/discoverly/backend/internal/domain/entities"
	apperrors "github.com/discoverly/discoverly/backend/pkg/errors"
)

// recentsTargetCap bounds how much of the caller's view history the recents
// mode aggregates over
const recentsTargetCap = 50

// Recents returns the businesses the caller viewed, most recently viewed
// first. The aggregated view history is authoritative for ordering; store
// lookup order never leaks through.
func (s *DiscoveryService) Recents(ctx context.Context, userID string, filters DiscoveryFilters) (*DiscoveryPage, error) {
	if userID == "" {
		return nil, apperrors.NewUnauthorizedError("user identity required")
	}

	normalizeFilters(&filters)
	if err := validateFilters(&filters); err != nil {
		return nil, err
	}

	aggregates, err := s.history.RecentTargets(ctx, userID, recentsTargetCap)
	if err != nil {
		return nil, apperrors.NewUnavailableError("view history query failed", err)
	}

	ids := make([]string, len(aggregates))
	for i, aggregate := range aggregates {
		ids[i] = aggregate.BusinessID
	}

	businesses, err := s.businesses.GetByIDs(ctx, ids)
	if err != nil {
		return nil, apperrors.NewUnavailableError("business lookup failed", err)
	}

	// Re-sort to history recency; targets that no longer resolve drop out
	byID := make(map[string]*entities.Business, len(businesses))
	for _, business := range businesses {
		byID[business.ID] = business
	}
	candidates := make([]*entities.Business, 0, len(ids))
	for _, id := range ids {
		if business, ok := byID[id]; ok {
			candidates = append(candidates, business)
		}
	}

	candidates, _ = s.applyGates(ctx, candidates, &filters)

	// The pool is the caller's entire capped history, so the in-memory count
	// is always the real total
	page, pagination := paginate(candidates, &filters, true, len(candidates))
	center := filters.center()

	return &DiscoveryPage{
		Results:      s.enrich(page, center),
		Pagination:   pagination,
		SearchCenter: center,
		SortedBy:     "recency",
	}, nil
}
