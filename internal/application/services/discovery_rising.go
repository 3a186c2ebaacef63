package services

import (
	"context"
	"sort"

	"github.com/discoverly/discoverly/backend/internal/domain/entities"
	"github.com/discoverly/discoverly/backend/internal/domain/repositories"
	"github.com/discoverly/discoverly/backend/internal/query"
)

// OnTheRise ranks businesses by the fixed engagement score. Candidates with
// zero recorded engagement never surface here, whatever else they match;
// the engagement floor runs before scoring.
func (s *DiscoveryService) OnTheRise(ctx context.Context, filters DiscoveryFilters) (*DiscoveryPage, error) {
	normalizeFilters(&filters)
	if err := validateFilters(&filters); err != nil {
		return nil, err
	}

	center := filters.center()

	result, err := s.runLadder(ctx, "on_the_rise", query.Input{
		Center:        center,
		MaxDistanceKm: filters.MaxDistanceM / 1000,
		Filters:       s.contentFilters(ctx, &filters),
		Sort:          repositories.SortPopularity,
		PoolSize:      candidatePoolSize(filters.Page, filters.Limit),
	})
	if err != nil {
		return nil, err
	}

	// Engagement floor
	eligible := make([]*entities.Business, 0, len(result.Businesses))
	for _, b := range result.Businesses {
		if b.HasEngagement() {
			eligible = append(eligible, b)
		}
	}
	floored := len(eligible) != len(result.Businesses)

	candidates, gated := s.applyGates(ctx, eligible, &filters)
	gated = gated || floored

	scores := make(map[string]float64, len(candidates))
	for _, b := range candidates {
		scores[b.ID] = s.scoring.EngagementScore(b)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return scores[candidates[i].ID] > scores[candidates[j].ID]
	})

	page, pagination := paginate(candidates, &filters, gated, result.TotalCount)

	results := s.enrich(page, center)
	for _, r := range results {
		score := scores[r.Business.ID]
		r.EngagementScore = &score
	}

	return &DiscoveryPage{
		Results:      results,
		Pagination:   pagination,
		SearchCenter: center,
		SortedBy:     "engagementScore",
		Rung:         result.Rung,
	}, nil
}
