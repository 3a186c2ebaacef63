package services

import (
	"context"

	"github.com/discoverly/discoverly/backend/internal/domain/entities"
	"github.com/discoverly/discoverly/backend/internal/domain/repositories"
	"github.com/discoverly/discoverly/backend/internal/infrastructure/observability"
	"github.com/discoverly/discoverly/backend/internal/query"
)

// Nearby returns businesses around the caller. Missing coordinates fall
// back to the caller's stored profile location; with no location at all the
// mode degrades to popularity ordering with no distances.
func (s *DiscoveryService) Nearby(ctx context.Context, userID string, filters DiscoveryFilters) (*DiscoveryPage, error) {
	normalizeFilters(&filters)
	if err := validateFilters(&filters); err != nil {
		return nil, err
	}

	center := filters.center()
	if center == nil {
		center = s.profileLocation(ctx, userID)
	}

	sortPolicy := repositories.SortPopularity
	sortedBy := SortByPopularity
	if center != nil {
		sortPolicy = repositories.SortNearest
		sortedBy = SortByDistance
	}

	result, err := s.runLadder(ctx, "nearby", query.Input{
		Center:        center,
		MaxDistanceKm: filters.MaxDistanceM / 1000,
		Filters:       s.contentFilters(ctx, &filters),
		Sort:          sortPolicy,
		PoolSize:      candidatePoolSize(filters.Page, filters.Limit),
	})
	if err != nil {
		return nil, err
	}

	candidates, gated := s.applyGates(ctx, result.Businesses, &filters)

	// Authoritative in-memory ordering, independent of which rung answered
	if center != nil {
		sortByDistance(candidates, center)
	} else {
		sortByPopularity(candidates)
	}

	page, pagination := paginate(candidates, &filters, gated, result.TotalCount)

	return &DiscoveryPage{
		Results:      s.enrich(page, center),
		Pagination:   pagination,
		SearchCenter: center,
		SortedBy:     sortedBy,
		Rung:         result.Rung,
	}, nil
}

// profileLocation resolves the caller's stored location, nil when the user
// is unknown or parked at the no-location sentinel
func (s *DiscoveryService) profileLocation(ctx context.Context, userID string) *entities.GeoPoint {
	if userID == "" {
		return nil
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		observability.LoggerFromContext(ctx).Debug().
			Err(err).
			Str("user_id", userID).
			Msg("no profile location for nearby fallback")
		return nil
	}
	if !user.Location.IsSet() {
		return nil
	}
	location := user.Location
	return &location
}
