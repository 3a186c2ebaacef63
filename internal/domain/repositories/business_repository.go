package repositories

import (
	"context"

	"github.com/discoverly/discoverly/backend/internal/domain/entities"
)

// BusinessRepository defines the interface for business data operations
type BusinessRepository interface {
	// GetByID retrieves a business by ID
	GetByID(ctx context.Context, id string) (*entities.Business, error)

	// GetByIDs retrieves multiple businesses by their IDs
	GetByIDs(ctx context.Context, ids []string) ([]*entities.Business, error)

	// GetByOwnerID retrieves the business owned by a user
	GetByOwnerID(ctx context.Context, ownerID string) (*entities.Business, error)

	// ListNewest retrieves active businesses ordered by creation time descending
	ListNewest(ctx context.Context, limit, offset int) ([]*entities.Business, int, error)

	// Search executes a candidate query against the database. Used directly
	// when no search engine is configured.
	Search(ctx context.Context, query SearchQuery) ([]*entities.Business, int, error)
}

// BusinessSearchRepository defines the interface for the search-engine side
// of candidate retrieval (e.g. Typesense)
type BusinessSearchRepository interface {
	// Search executes one candidate query and returns matches plus the total
	// match count before pagination
	Search(ctx context.Context, query SearchQuery) ([]*entities.Business, int, error)

	// Index indexes a business
	Index(ctx context.Context, business *entities.Business) error

	// Delete removes a business from the index
	Delete(ctx context.Context, id string) error
}

// SortPolicy fixes the store-level ordering of a candidate query
type SortPolicy string

const (
	SortNearest      SortPolicy = "nearest"
	SortPopularity   SortPolicy = "popularity"
	SortRating       SortPolicy = "rating"
	SortMostLiked    SortPolicy = "most_liked"
	SortNewest       SortPolicy = "newest"
	SortAlphabetical SortPolicy = "alphabetical"
	SortRelevance    SortPolicy = "relevance"
)

// SearchQuery is one rung of a candidate query: content filters plus an
// optional proximity clause. A nil Center means no geo filtering; records at
// the [0,0] sentinel are excluded from geo-filtered queries by the adapters.
type SearchQuery struct {
	Text               string
	Center             *entities.GeoPoint
	MaxDistanceKm      float64
	IndustryIDs        []string
	LegacyIndustryText string
	MinRating          float64
	PriceTiers         []string
	FeatureTags        []string
	Sort               SortPolicy
	Limit              int
	Offset             int
}

// HasGeo reports whether the query carries a proximity clause
func (q SearchQuery) HasGeo() bool {
	return q.Center != nil && q.Center.IsSet()
}
