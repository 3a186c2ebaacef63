package services

import (
	"context"

	apperrors "github.com/discoverly/discoverly/backend/pkg/errors"
)

// NewlyAdded returns businesses ordered purely by creation time, newest
// first. Completeness and open-now act only as post-filters, never as sort
// keys.
func (s *DiscoveryService) NewlyAdded(ctx context.Context, filters DiscoveryFilters) (*DiscoveryPage, error) {
	normalizeFilters(&filters)
	if err := validateFilters(&filters); err != nil {
		return nil, err
	}

	candidates, total, err := s.businesses.ListNewest(ctx, candidatePoolSize(filters.Page, filters.Limit), 0)
	if err != nil {
		return nil, apperrors.NewUnavailableError("business listing query failed", err)
	}

	candidates, gated := s.applyGates(ctx, candidates, &filters)

	page, pagination := paginate(candidates, &filters, gated, total)
	center := filters.center()

	return &DiscoveryPage{
		Results:      s.enrich(page, center),
		Pagination:   pagination,
		SearchCenter: center,
		SortedBy:     SortByNewest,
	}, nil
}
