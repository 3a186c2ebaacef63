package services

import (
	"github.com/discoverly/discoverly/backend/internal/domain/entities"
)

// Scoring weights. These are empirical business constants carried over
// unchanged for behavioral compatibility; they are not configurable.
const (
	personalizationIndustryPoints    = 3.0
	personalizationSubIndustryPoints = 2.0

	topPickRatingWeight     = 0.4
	topPickViewWeight       = 0.3
	topPickFavoriteWeight   = 0.2
	topPickCompletionWeight = 0.1

	engagementViewWeight        = 0.4
	engagementFavoriteWeight    = 0.3
	engagementRatingWeight      = 0.2
	engagementRatingCountWeight = 0.1
)

// Normalization caps. Raw metrics are clamped into [0,1] before weighting so
// outlier counts cannot dominate a score.
const (
	topPickViewCap        = 1000.0
	topPickFavoriteCap    = 100.0
	engagementViewCap     = 1000.0
	engagementFavoriteCap = 50.0
	engagementRatingCap   = 100.0
	maxRating             = 5.0
	maxCompletionPercent  = 100.0
)

// ScoringService computes the deterministic discovery scores from a
// business's stored metrics and the caller's preference profile
type ScoringService struct{}

// NewScoringService creates a new scoring service
func NewScoringService() *ScoringService {
	return &ScoringService{}
}

// PersonalizationScore awards flat points per preferred industry and
// sub-industry match. Set membership only; no weighting of match counts.
func (s *ScoringService) PersonalizationScore(b *entities.Business, prefs *entities.PreferenceProfile) float64 {
	if b == nil || prefs.IsEmpty() {
		return 0
	}

	score := 0.0
	if b.IndustryID != "" {
		if _, ok := prefs.IndustryIDs[b.IndustryID]; ok {
			score += personalizationIndustryPoints
		}
	}
	if b.SubIndustryID != "" {
		if _, ok := prefs.SubIndustryIDs[b.SubIndustryID]; ok {
			score += personalizationSubIndustryPoints
		}
	}
	return score
}

// TopPickScore is the weighted quality score in [0,1]
func (s *ScoringService) TopPickScore(b *entities.Business) float64 {
	return topPickRatingWeight*clamp01(b.RatingAverage/maxRating) +
		topPickViewWeight*clamp01(float64(b.ViewCount)/topPickViewCap) +
		topPickFavoriteWeight*clamp01(float64(b.FavoriteCount)/topPickFavoriteCap) +
		topPickCompletionWeight*clamp01(b.CompletionPercent/maxCompletionPercent)
}

// EngagementScore is the weighted "on the rise" score in [0,1]
func (s *ScoringService) EngagementScore(b *entities.Business) float64 {
	return engagementViewWeight*clamp01(float64(b.ViewCount)/engagementViewCap) +
		engagementFavoriteWeight*clamp01(float64(b.FavoriteCount)/engagementFavoriteCap) +
		engagementRatingWeight*clamp01(b.RatingAverage/maxRating) +
		engagementRatingCountWeight*clamp01(float64(b.RatingCount)/engagementRatingCap)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
