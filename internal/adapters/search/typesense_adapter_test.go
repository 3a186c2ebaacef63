package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/discoverly/discoverly/backend/internal/domain/entities"
	"github.com/discoverly/discoverly/backend/internal/domain/repositories"
)

func TestBuildFilterBy(t *testing.T) {
	t.Run("active only by default", func(t *testing.T) {
		assert.Equal(t, "is_active:=true", buildFilterBy(repositories.SearchQuery{}))
	})

	t.Run("geo query requires real coordinates", func(t *testing.T) {
		q := repositories.SearchQuery{
			Center:        &entities.GeoPoint{Latitude: 6.5244, Longitude: 3.3792},
			MaxDistanceKm: 10,
		}
		filter := buildFilterBy(q)
		assert.Contains(t, filter, "has_location:=true")
		assert.Contains(t, filter, "location:(6.524400, 3.379200, 10.000000 km)")
	})

	t.Run("placeholder center adds no geo clause", func(t *testing.T) {
		q := repositories.SearchQuery{
			Center:        &entities.GeoPoint{Latitude: 0, Longitude: 0},
			MaxDistanceKm: 10,
		}
		assert.Equal(t, "is_active:=true", buildFilterBy(q))
	})

	t.Run("taxonomy ids match industry or sub-industry", func(t *testing.T) {
		q := repositories.SearchQuery{IndustryIDs: []string{"ind-1", "sub-2"}}
		assert.Contains(t, buildFilterBy(q), "(industry_id:=[ind-1,sub-2] || sub_industry_id:=[ind-1,sub-2])")
	})

	t.Run("legacy category text matches either free-text industry field", func(t *testing.T) {
		q := repositories.SearchQuery{LegacyIndustryText: "bakery"}
		filter := buildFilterBy(q)
		assert.Contains(t, filter, "(industry:`bakery` || sub_industry:`bakery`)")
	})

	t.Run("multi-word legacy category stays one filter value", func(t *testing.T) {
		q := repositories.SearchQuery{LegacyIndustryText: "health and wellness"}
		assert.Contains(t, buildFilterBy(q), "industry:`health and wellness`")
	})

	t.Run("content filters combine", func(t *testing.T) {
		q := repositories.SearchQuery{
			MinRating:   4,
			PriceTiers:  []string{"budget", "premium"},
			FeatureTags: []string{"delivery"},
		}
		filter := buildFilterBy(q)
		assert.Contains(t, filter, "rating:>=4")
		assert.Contains(t, filter, "price_tier:=[budget,premium]")
		assert.Contains(t, filter, "feature_tags:=[delivery]")
	})
}

func TestBuildSortBy(t *testing.T) {
	center := &entities.GeoPoint{Latitude: 6.5244, Longitude: 3.3792}

	tests := []struct {
		name     string
		query    repositories.SearchQuery
		expected string
	}{
		{"nearest with center", repositories.SearchQuery{Sort: repositories.SortNearest, Center: center, MaxDistanceKm: 5}, "location(6.524400, 3.379200):asc"},
		{"nearest without center degrades to popularity", repositories.SearchQuery{Sort: repositories.SortNearest}, "view_count:desc"},
		{"popularity", repositories.SearchQuery{Sort: repositories.SortPopularity}, "view_count:desc,rating:desc"},
		{"rating breaks ties on count", repositories.SearchQuery{Sort: repositories.SortRating}, "rating:desc,rating_count:desc"},
		{"most liked", repositories.SearchQuery{Sort: repositories.SortMostLiked}, "favorite_count:desc"},
		{"newest", repositories.SearchQuery{Sort: repositories.SortNewest}, "created_at:desc"},
		{"alphabetical", repositories.SearchQuery{Sort: repositories.SortAlphabetical}, "name:asc"},
		{"relevance uses engine default", repositories.SearchQuery{Sort: repositories.SortRelevance}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, buildSortBy(tt.query))
		})
	}
}

func TestDocumentToBusiness(t *testing.T) {
	doc := map[string]interface{}{
		"id":                 "biz-1",
		"name":               "Mama Cass Bakery",
		"industry_id":        "ind-1",
		"rating":             4.5,
		"rating_count":       float64(12),
		"view_count":         float64(340),
		"favorite_count":     float64(8),
		"completion_percent": 80.0,
		"is_active":          true,
		"location":           []interface{}{6.5244, 3.3792},
	}

	business := documentToBusiness(doc)

	assert.Equal(t, "biz-1", business.ID)
	assert.Equal(t, "Mama Cass Bakery", business.Name)
	assert.Equal(t, "ind-1", business.IndustryID)
	assert.Equal(t, 4.5, business.RatingAverage)
	assert.Equal(t, 12, business.RatingCount)
	assert.Equal(t, 340, business.ViewCount)
	assert.Equal(t, 8, business.FavoriteCount)
	assert.True(t, business.Location.IsSet())
}
