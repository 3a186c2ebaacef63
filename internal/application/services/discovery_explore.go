package services

import (
	"context"
	"sort"

	"github.com/discoverly/discoverly/backend/internal/domain/entities"
	"github.com/discoverly/discoverly/backend/internal/domain/repositories"
	"github.com/discoverly/discoverly/backend/internal/query"
)

// Explore is the general mode: every filter type combines, the sort mode is
// caller-selectable, and the only fallback is a single geo-free retry on
// zero results. Pagination counts reflect the gated set, not the raw store
// match count, whenever a gate ran.
func (s *DiscoveryService) Explore(ctx context.Context, filters DiscoveryFilters) (*DiscoveryPage, error) {
	normalizeFilters(&filters)
	if err := validateFilters(&filters); err != nil {
		return nil, err
	}

	center := filters.center()
	if !filters.Nearby && filters.SortBy != SortByDistance {
		// Coordinates only order results when the caller asked for proximity;
		// otherwise they merely feed distance enrichment
		center = nil
	}
	sortedBy := exploreSort(&filters, center)

	result, err := s.runLadder(ctx, "explore", query.Input{
		Center:        center,
		MaxDistanceKm: filters.MaxDistanceM / 1000,
		Filters:       s.contentFilters(ctx, &filters),
		Sort:          exploreStorePolicy(sortedBy),
		PoolSize:      candidatePoolSize(filters.Page, filters.Limit),
	})
	if err != nil {
		return nil, err
	}

	candidates, gated := s.applyGates(ctx, result.Businesses, &filters)
	applyExploreOrder(candidates, sortedBy, center)

	page, pagination := paginate(candidates, &filters, gated, result.TotalCount)

	enrichCenter := filters.center()
	return &DiscoveryPage{
		Results:      s.enrich(page, enrichCenter),
		Pagination:   pagination,
		SearchCenter: enrichCenter,
		SortedBy:     sortedBy,
		Rung:         result.Rung,
	}, nil
}

// exploreSort resolves the effective sort mode from the explicit sortBy and
// the boolean filter shortcuts
func exploreSort(f *DiscoveryFilters, center *entities.GeoPoint) string {
	switch f.SortBy {
	case SortByRating, SortByDistance, SortByPopularity, SortByNewest, SortByAlphabetical, SortByRelevance:
		if f.SortBy == SortByDistance && center == nil {
			return SortByPopularity
		}
		return f.SortBy
	}

	switch {
	case f.TopRated:
		return SortByRating
	case f.MostLiked:
		return "mostLiked"
	case f.Nearby && center != nil:
		return SortByDistance
	case f.Search != "":
		return SortByRelevance
	default:
		return SortByPopularity
	}
}

func exploreStorePolicy(sortedBy string) repositories.SortPolicy {
	switch sortedBy {
	case SortByRating:
		return repositories.SortRating
	case SortByDistance:
		return repositories.SortNearest
	case "mostLiked":
		return repositories.SortMostLiked
	case SortByNewest:
		return repositories.SortNewest
	case SortByAlphabetical:
		return repositories.SortAlphabetical
	case SortByRelevance:
		return repositories.SortRelevance
	default:
		return repositories.SortPopularity
	}
}

// applyExploreOrder reimposes the selected ordering in memory so fallback
// rungs and gate filtering cannot perturb it. Relevance keeps the engine's
// text-match order.
func applyExploreOrder(candidates []*entities.Business, sortedBy string, center *entities.GeoPoint) {
	switch sortedBy {
	case SortByDistance:
		sortByDistance(candidates, center)
	case SortByRating:
		sort.SliceStable(candidates, func(i, j int) bool {
			if candidates[i].RatingAverage != candidates[j].RatingAverage {
				return candidates[i].RatingAverage > candidates[j].RatingAverage
			}
			return candidates[i].RatingCount > candidates[j].RatingCount
		})
	case "mostLiked":
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].FavoriteCount > candidates[j].FavoriteCount
		})
	case SortByNewest:
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].CreatedAt.After(candidates[j].CreatedAt)
		})
	case SortByAlphabetical:
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].Name < candidates[j].Name
		})
	case SortByRelevance:
		// Engine order is the relevance order
	default:
		sortByPopularity(candidates)
	}
}
