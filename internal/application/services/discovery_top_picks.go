package services

import (
	"context"
	"sort"

	"github.com/discoverly/discoverly/backend/internal/domain/entities"
	"github.com/discoverly/discoverly/backend/internal/domain/repositories"
	"github.com/discoverly/discoverly/backend/internal/query"
)

// TopPicks returns the caller's personalized quality ranking: preference
// matches first, broken by the fixed top-pick quality score. New users with
// an empty preference profile fall through to pure quality ordering. This is
// the only mode whose ladder also drops quality thresholds on a second empty
// result.
func (s *DiscoveryService) TopPicks(ctx context.Context, userID string, filters DiscoveryFilters) (*DiscoveryPage, error) {
	normalizeFilters(&filters)
	if err := validateFilters(&filters); err != nil {
		return nil, err
	}

	prefs := s.preferences.BuildProfile(ctx, userID)
	center := filters.center()

	result, err := s.runLadder(ctx, "top_picks", query.Input{
		Center:              center,
		MaxDistanceKm:       filters.MaxDistanceM / 1000,
		Filters:             s.contentFilters(ctx, &filters),
		Sort:                repositories.SortRating,
		PoolSize:            candidatePoolSize(filters.Page, filters.Limit),
		WithQualityFallback: true,
	})
	if err != nil {
		return nil, err
	}

	candidates, gated := s.applyGates(ctx, result.Businesses, &filters)

	type scored struct {
		business        *entities.Business
		personalization float64
		topPick         float64
	}
	ranked := make([]scored, len(candidates))
	for i, b := range candidates {
		ranked[i] = scored{
			business:        b,
			personalization: s.scoring.PersonalizationScore(b, prefs),
			topPick:         s.scoring.TopPickScore(b),
		}
	}

	// Personalization first, quality second; geo only breaks remaining ties
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].personalization != ranked[j].personalization {
			return ranked[i].personalization > ranked[j].personalization
		}
		if ranked[i].topPick != ranked[j].topPick {
			return ranked[i].topPick > ranked[j].topPick
		}
		return rawDistance(center, ranked[i].business) < rawDistance(center, ranked[j].business)
	})

	ordered := make([]*entities.Business, len(ranked))
	scores := make(map[string]scored, len(ranked))
	for i, r := range ranked {
		ordered[i] = r.business
		scores[r.business.ID] = r
	}

	page, pagination := paginate(ordered, &filters, gated, result.TotalCount)

	results := s.enrich(page, center)
	for _, r := range results {
		if sc, ok := scores[r.Business.ID]; ok {
			personalization, topPick := sc.personalization, sc.topPick
			r.PersonalizationScore = &personalization
			r.TopPickScore = &topPick
		}
	}

	return &DiscoveryPage{
		Results:      results,
		Pagination:   pagination,
		SearchCenter: center,
		SortedBy:     "topPickScore",
		Rung:         result.Rung,
	}, nil
}
