package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"

	"github.com/discoverly/discoverly/backend/internal/domain/entities"
	"github.com/discoverly/discoverly/backend/internal/domain/repositories"
	tsclient "github.com/discoverly/discoverly/backend/internal/infrastructure/clients/typesense"
)

// TypesenseAdapter implements candidate search using Typesense. Hits carry
// only the indexed projection; callers hydrate full records from the primary
// store by id.
type TypesenseAdapter struct {
	client *tsclient.Client
}

// Ensure TypesenseAdapter implements BusinessSearchRepository
var _ repositories.BusinessSearchRepository = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client *tsclient.Client) *TypesenseAdapter {
	return &TypesenseAdapter{client: client}
}

// Index indexes a business. Records without real coordinates are indexed
// with has_location:=false and no geopoint, so proximity queries never see
// them.
func (a *TypesenseAdapter) Index(ctx context.Context, business *entities.Business) error {
	document := map[string]interface{}{
		"id":                 business.ID,
		"name":               business.Name,
		"address":            strings.TrimSpace(business.Address.Street + " " + business.Address.City),
		"industry_id":        business.IndustryID,
		"sub_industry_id":    business.SubIndustryID,
		"industry":           business.LegacyIndustry,
		"sub_industry":       business.LegacySubIndustry,
		"has_location":       business.Location.IsSet(),
		"price_tier":         business.PriceTier,
		"feature_tags":       business.FeatureTags,
		"rating":             business.RatingAverage,
		"rating_count":       business.RatingCount,
		"view_count":         business.ViewCount,
		"favorite_count":     business.FavoriteCount,
		"completion_percent": business.CompletionPercent,
		"created_at":         business.CreatedAt.Unix(),
		"is_active":          business.IsActive,
	}
	if business.Location.IsSet() {
		document["location"] = []float64{business.Location.Latitude, business.Location.Longitude}
	}

	_, err := a.client.Client().Collection(tsclient.BusinessesCollection).Documents().Upsert(ctx, document)
	if err != nil {
		return fmt.Errorf("failed to index business: %w", err)
	}

	return nil
}

// Delete removes a business from the index
func (a *TypesenseAdapter) Delete(ctx context.Context, id string) error {
	_, err := a.client.Client().Collection(tsclient.BusinessesCollection).Document(id).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete business from index: %w", err)
	}
	return nil
}

// Search executes one candidate query and returns matches plus the total
// match count before pagination
func (a *TypesenseAdapter) Search(ctx context.Context, q repositories.SearchQuery) ([]*entities.Business, int, error) {
	text := q.Text
	queryBy := "name,industry,sub_industry,address"
	if text == "" {
		text = "*"
	}

	perPage := q.Limit
	if perPage <= 0 {
		perPage = 20
	}

	searchParams := &api.SearchCollectionParams{
		Q:        pointer.String(text),
		QueryBy:  pointer.String(queryBy),
		FilterBy: pointer.String(buildFilterBy(q)),
		Page:     pointer.Int(q.Offset/perPage + 1),
		PerPage:  pointer.Int(perPage),
	}
	if sortBy := buildSortBy(q); sortBy != "" {
		searchParams.SortBy = pointer.String(sortBy)
	}

	result, err := a.client.Client().Collection(tsclient.BusinessesCollection).Documents().Search(ctx, searchParams)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search businesses: %w", err)
	}

	total := 0
	if result.Found != nil {
		total = *result.Found
	}

	businesses := []*entities.Business{}
	if result.Hits == nil {
		return businesses, total, nil
	}
	for _, hit := range *result.Hits {
		if hit.Document == nil {
			continue
		}
		businesses = append(businesses, documentToBusiness(*hit.Document))
	}

	return businesses, total, nil
}

// buildFilterBy renders the query's content and proximity filters as a
// Typesense filter_by expression
func buildFilterBy(q repositories.SearchQuery) string {
	clauses := []string{"is_active:=true"}

	if q.HasGeo() {
		clauses = append(clauses,
			"has_location:=true",
			fmt.Sprintf("location:(%f, %f, %f km)", q.Center.Latitude, q.Center.Longitude, q.MaxDistanceKm),
		)
	}

	if len(q.IndustryIDs) > 0 {
		ids := strings.Join(q.IndustryIDs, ",")
		clauses = append(clauses, fmt.Sprintf("(industry_id:=[%s] || sub_industry_id:=[%s])", ids, ids))
	}

	if q.LegacyIndustryText != "" {
		// Word-level match on the free-text industry fields; backticks keep
		// multi-word categories as one filter value
		text := "`" + q.LegacyIndustryText + "`"
		clauses = append(clauses, fmt.Sprintf("(industry:%s || sub_industry:%s)", text, text))
	}

	if q.MinRating > 0 {
		clauses = append(clauses, fmt.Sprintf("rating:>=%g", q.MinRating))
	}

	if len(q.PriceTiers) > 0 {
		clauses = append(clauses, fmt.Sprintf("price_tier:=[%s]", strings.Join(q.PriceTiers, ",")))
	}

	if len(q.FeatureTags) > 0 {
		clauses = append(clauses, fmt.Sprintf("feature_tags:=[%s]", strings.Join(q.FeatureTags, ",")))
	}

	return strings.Join(clauses, " && ")
}

// buildSortBy maps the query's sort policy to a Typesense sort_by string.
// Typesense accepts at most three sort keys, so the authoritative ordering
// for score-driven modes is reapplied in memory after hydration.
func buildSortBy(q repositories.SearchQuery) string {
	switch q.Sort {
	case repositories.SortNearest:
		if q.HasGeo() {
			return fmt.Sprintf("location(%f, %f):asc", q.Center.Latitude, q.Center.Longitude)
		}
		return "view_count:desc"
	case repositories.SortPopularity:
		return "view_count:desc,rating:desc"
	case repositories.SortRating:
		return "rating:desc,rating_count:desc"
	case repositories.SortMostLiked:
		return "favorite_count:desc"
	case repositories.SortNewest:
		return "created_at:desc"
	case repositories.SortAlphabetical:
		return "name:asc"
	case repositories.SortRelevance:
		// Text match score is the engine default
		return ""
	default:
		return "view_count:desc,rating:desc"
	}
}

func documentToBusiness(doc map[string]interface{}) *entities.Business {
	business := &entities.Business{}

	if v, ok := doc["id"].(string); ok {
		business.ID = v
	}
	if v, ok := doc["name"].(string); ok {
		business.Name = v
	}
	if v, ok := doc["industry_id"].(string); ok {
		business.IndustryID = v
	}
	if v, ok := doc["sub_industry_id"].(string); ok {
		business.SubIndustryID = v
	}
	if v, ok := doc["industry"].(string); ok {
		business.LegacyIndustry = v
	}
	if v, ok := doc["sub_industry"].(string); ok {
		business.LegacySubIndustry = v
	}
	if v, ok := doc["price_tier"].(string); ok {
		business.PriceTier = v
	}
	if v, ok := doc["is_active"].(bool); ok {
		business.IsActive = v
	}
	if v, ok := doc["rating"].(float64); ok {
		business.RatingAverage = v
	}
	if v, ok := doc["rating_count"].(float64); ok {
		business.RatingCount = int(v)
	}
	if v, ok := doc["view_count"].(float64); ok {
		business.ViewCount = int(v)
	}
	if v, ok := doc["favorite_count"].(float64); ok {
		business.FavoriteCount = int(v)
	}
	if v, ok := doc["completion_percent"].(float64); ok {
		business.CompletionPercent = v
	}

	if loc, ok := doc["location"].([]interface{}); ok && len(loc) == 2 {
		if lat, ok := loc[0].(float64); ok {
			business.Location.Latitude = lat
		}
		if lon, ok := loc[1].(float64); ok {
			business.Location.Longitude = lon
		}
	}

	return business
}
