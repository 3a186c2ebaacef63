// Package query builds candidate queries as an explicit ladder of
// progressively looser rungs: the full query, a retry without the geo
// clause, and (where a mode opts in) a retry that also drops quality
// thresholds. Each rung is an immutable value, so the ladder is testable
// rung by rung and a failed geo clause is never re-applied.
package query

import (
	"context"

	"github.com/discoverly/discoverly/backend/internal/domain/entities"
	"github.com/discoverly/discoverly/backend/internal/domain/repositories"
)

// Rung names, reported back to orchestrators for logging
const (
	RungFull      = "full"
	RungNoGeo     = "no_geo"
	RungNoQuality = "no_quality"
)

// Filters are the content filters shared by every rung of a ladder
type Filters struct {
	Text               string
	IndustryIDs        []string
	LegacyIndustryText string
	MinRating          float64
	PriceTiers         []string
	FeatureTags        []string
}

// Input describes the candidate query a discovery mode wants
type Input struct {
	Center        *entities.GeoPoint
	MaxDistanceKm float64
	Filters       Filters
	Sort          repositories.SortPolicy
	PoolSize      int

	// WithQualityFallback adds the final rung that drops quality
	// thresholds when even the geo-free query comes back empty
	WithQualityFallback bool
}

// Rung is one immutable step of the ladder
type Rung struct {
	Name  string
	Query repositories.SearchQuery
}

// Searcher is the slice of the store the ladder needs
type Searcher interface {
	Search(ctx context.Context, query repositories.SearchQuery) ([]*entities.Business, int, error)
}

// Result is the outcome of running a ladder
type Result struct {
	Businesses []*entities.Business
	TotalCount int
	Rung       string
}

// BuildLadder compiles the input into its ordered rungs. A center at the
// [0,0] sentinel is treated as absent, so sentinel coordinates never reach
// proximity math.
func BuildLadder(in Input) []Rung {
	base := repositories.SearchQuery{
		Text:               in.Filters.Text,
		IndustryIDs:        in.Filters.IndustryIDs,
		LegacyIndustryText: in.Filters.LegacyIndustryText,
		MinRating:          in.Filters.MinRating,
		PriceTiers:         in.Filters.PriceTiers,
		FeatureTags:        in.Filters.FeatureTags,
		Sort:               in.Sort,
		Limit:              in.PoolSize,
	}

	hasGeo := in.Center != nil && in.Center.IsSet()

	var rungs []Rung

	if hasGeo {
		geo := base
		geo.Center = in.Center
		geo.MaxDistanceKm = in.MaxDistanceKm
		rungs = append(rungs, Rung{Name: RungFull, Query: geo})
		rungs = append(rungs, Rung{Name: RungNoGeo, Query: base})
	} else {
		rungs = append(rungs, Rung{Name: RungFull, Query: base})
	}

	if in.WithQualityFallback && base.MinRating > 0 {
		loose := base
		loose.MinRating = 0
		rungs = append(rungs, Rung{Name: RungNoQuality, Query: loose})
	}

	return rungs
}

// Run tries each rung in order until one yields more than floor results.
// Store failures abort the ladder; emptiness is an expected degraded state
// and moves to the next rung. The last rung's result is returned even when
// it is empty.
func Run(ctx context.Context, store Searcher, rungs []Rung, floor int) (*Result, error) {
	var last *Result
	for _, rung := range rungs {
		businesses, total, err := store.Search(ctx, rung.Query)
		if err != nil {
			return nil, err
		}

		last = &Result{Businesses: businesses, TotalCount: total, Rung: rung.Name}
		if len(businesses) > floor {
			return last, nil
		}
	}
	return last, nil
}
