package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/discoverly/discoverly/backend/internal/application/services"
	"github.com/discoverly/discoverly/backend/internal/domain/entities"
)

func TestPersonalizationScore(t *testing.T) {
	svc := services.NewScoringService()

	prefs := entities.NewPreferenceProfile()
	prefs.IndustryIDs["ind-1"] = struct{}{}
	prefs.SubIndustryIDs["sub-1"] = struct{}{}

	tests := []struct {
		name     string
		business *entities.Business
		expected float64
	}{
		{"industry match", &entities.Business{IndustryID: "ind-1"}, 3},
		{"sub-industry match", &entities.Business{SubIndustryID: "sub-1"}, 2},
		{"both match", &entities.Business{IndustryID: "ind-1", SubIndustryID: "sub-1"}, 5},
		{"no match", &entities.Business{IndustryID: "ind-2", SubIndustryID: "sub-2"}, 0},
		{"no taxonomy ids", &entities.Business{LegacyIndustry: "bakery"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, svc.PersonalizationScore(tt.business, prefs))
		})
	}

	t.Run("empty profile scores zero", func(t *testing.T) {
		b := &entities.Business{IndustryID: "ind-1"}
		assert.Zero(t, svc.PersonalizationScore(b, entities.NewPreferenceProfile()))
		assert.Zero(t, svc.PersonalizationScore(b, nil))
	})
}

func TestTopPickScore(t *testing.T) {
	svc := services.NewScoringService()

	t.Run("exact weighted sum", func(t *testing.T) {
		b := &entities.Business{
			RatingAverage:     5,
			ViewCount:         500,
			FavoriteCount:     50,
			CompletionPercent: 100,
		}
		// 0.4*1 + 0.3*0.5 + 0.2*0.5 + 0.1*1
		assert.InDelta(t, 0.75, svc.TopPickScore(b), 1e-9)
	})

	t.Run("bounded for zero metrics", func(t *testing.T) {
		assert.Equal(t, 0.0, svc.TopPickScore(&entities.Business{}))
	})

	t.Run("bounded for huge metrics", func(t *testing.T) {
		b := &entities.Business{
			RatingAverage:     5,
			ViewCount:         1_000_000,
			FavoriteCount:     1_000_000,
			CompletionPercent: 100,
		}
		assert.InDelta(t, 1.0, svc.TopPickScore(b), 1e-9)
	})
}

func TestEngagementScore(t *testing.T) {
	svc := services.NewScoringService()

	t.Run("exact weighted sum", func(t *testing.T) {
		b := &entities.Business{
			ViewCount:     1000,
			FavoriteCount: 25,
			RatingAverage: 2.5,
			RatingCount:   100,
		}
		// 0.4*1 + 0.3*0.5 + 0.2*0.5 + 0.1*1
		assert.InDelta(t, 0.75, svc.EngagementScore(b), 1e-9)
	})

	t.Run("bounds hold across metric ranges", func(t *testing.T) {
		cases := []*entities.Business{
			{},
			{ViewCount: 1, FavoriteCount: 1, RatingCount: 1, RatingAverage: 0.5},
			{ViewCount: 1 << 30, FavoriteCount: 1 << 30, RatingCount: 1 << 30, RatingAverage: 5},
		}
		for _, b := range cases {
			score := svc.EngagementScore(b)
			assert.GreaterOrEqual(t, score, 0.0)
			assert.LessOrEqual(t, score, 1.0)
		}
	})

	t.Run("monotonic in views under the cap", func(t *testing.T) {
		low := svc.EngagementScore(&entities.Business{ViewCount: 100})
		high := svc.EngagementScore(&entities.Business{ViewCount: 900})
		assert.Greater(t, high, low)
	})
}
