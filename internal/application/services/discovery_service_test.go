package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/discoverly/discoverly/backend/internal/application/services"
	"github.com/discoverly/discoverly/backend/internal/domain/entities"
	"github.com/discoverly/discoverly/backend/internal/domain/repositories"
	apperrors "github.com/discoverly/discoverly/backend/pkg/errors"
	"github.com/discoverly/discoverly/backend/tests/mocks"
)

type discoveryFixture struct {
	businesses *mocks.MockBusinessRepository
	users      *mocks.MockUserRepository
	history    *mocks.MockViewHistoryRepository
	taxonomy   *mocks.MockTaxonomyRepository
	favorites  *mocks.MockFavoriteRepository
	blocks     *mocks.MockContentBlockRepository
	service    *services.DiscoveryService
}

// newDiscoveryFixture wires a discovery service against mocks, querying the
// database path directly and evaluating open status at the given instant
func newDiscoveryFixture(at time.Time) *discoveryFixture {
	f := &discoveryFixture{
		businesses: &mocks.MockBusinessRepository{},
		users:      &mocks.MockUserRepository{},
		history:    &mocks.MockViewHistoryRepository{},
		taxonomy:   &mocks.MockTaxonomyRepository{},
		favorites:  &mocks.MockFavoriteRepository{},
		blocks:     &mocks.MockContentBlockRepository{},
	}

	f.service = services.NewDiscoveryService(
		f.businesses,
		nil,
		f.users,
		f.history,
		f.taxonomy,
		services.NewPreferenceService(f.users, f.businesses, f.favorites),
		services.NewCompletenessService(f.blocks),
		services.NewOpenStatusServiceAt(func() time.Time { return at }),
		services.NewScoringService(),
		nil,
	)
	return f
}

func ptr(v float64) *float64 { return &v }

func completeBusiness(id string) *entities.Business {
	return &entities.Business{
		ID:               id,
		Name:             "Business " + id,
		CoverImageURL:    "https://cdn.example.com/" + id + "/cover.jpg",
		LogoURL:          "https://cdn.example.com/" + id + "/logo.png",
		IndustryID:       "ind-1",
		ShortDescription: "A place worth visiting",
		Address:          entities.Address{Street: "1 Main St", City: "Lagos"},
		PageID:           "page-" + id,
		IsActive:         true,
	}
}

func TestNearbyEnrichesDistance(t *testing.T) {
	f := newDiscoveryFixture(time.Now())
	ctx := context.Background()

	near := completeBusiness("near")
	near.Location = entities.GeoPoint{Latitude: 40.01, Longitude: -73.01}

	f.businesses.On("Search", mock.Anything, mock.MatchedBy(func(q repositories.SearchQuery) bool {
		return q.HasGeo() && q.MaxDistanceKm == 25
	})).Return([]*entities.Business{near}, 1, nil)

	page, err := f.service.Nearby(ctx, "", services.DiscoveryFilters{
		Latitude:     ptr(40.0),
		Longitude:    ptr(-73.0),
		MaxDistanceM: 25000,
	})

	require.NoError(t, err)
	require.Len(t, page.Results, 1)

	result := page.Results[0]
	assert.Equal(t, "near", result.Business.ID)
	assert.Equal(t, "km", result.DistanceUnit)
	require.NotNil(t, result.Distance)
	assert.InDelta(t, 1.3, *result.Distance, 0.2)
	assert.Equal(t, "full", page.Rung)
	f.businesses.AssertNumberOfCalls(t, "Search", 1)
}

func TestNearbyFallsBackWithoutGeoExactlyOnce(t *testing.T) {
	f := newDiscoveryFixture(time.Now())
	ctx := context.Background()

	fallback := completeBusiness("far")

	f.businesses.On("Search", mock.Anything, mock.MatchedBy(func(q repositories.SearchQuery) bool {
		return q.HasGeo()
	})).Return([]*entities.Business{}, 0, nil)
	f.businesses.On("Search", mock.Anything, mock.MatchedBy(func(q repositories.SearchQuery) bool {
		return !q.HasGeo()
	})).Return([]*entities.Business{fallback}, 1, nil)

	page, err := f.service.Nearby(ctx, "", services.DiscoveryFilters{
		Latitude:  ptr(6.5244),
		Longitude: ptr(3.3792),
	})

	require.NoError(t, err)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "no_geo", page.Rung)
	// One geo attempt plus one geo-free retry, never a third
	f.businesses.AssertNumberOfCalls(t, "Search", 2)
}

func TestNearbyUsesProfileLocationWhenCoordinatesOmitted(t *testing.T) {
	f := newDiscoveryFixture(time.Now())
	ctx := context.Background()

	f.users.On("GetByID", mock.Anything, "user-1").Return(&entities.User{
		ID:       "user-1",
		Location: entities.GeoPoint{Latitude: 6.5244, Longitude: 3.3792},
	}, nil)
	f.businesses.On("Search", mock.Anything, mock.MatchedBy(func(q repositories.SearchQuery) bool {
		return q.HasGeo() && q.Center.Latitude == 6.5244
	})).Return([]*entities.Business{completeBusiness("b1")}, 1, nil)

	page, err := f.service.Nearby(ctx, "user-1", services.DiscoveryFilters{})

	require.NoError(t, err)
	require.NotNil(t, page.SearchCenter)
	assert.Equal(t, 6.5244, page.SearchCenter.Latitude)
}

func TestNearbyWithoutAnyLocationOrdersByPopularity(t *testing.T) {
	f := newDiscoveryFixture(time.Now())
	ctx := context.Background()

	quiet := completeBusiness("quiet")
	busy := completeBusiness("busy")
	busy.ViewCount = 900

	f.users.On("GetByID", mock.Anything, "user-1").Return(nil, apperrors.NewNotFoundError("user not found"))
	f.businesses.On("Search", mock.Anything, mock.MatchedBy(func(q repositories.SearchQuery) bool {
		return !q.HasGeo()
	})).Return([]*entities.Business{quiet, busy}, 2, nil)

	page, err := f.service.Nearby(ctx, "user-1", services.DiscoveryFilters{})

	require.NoError(t, err)
	require.Len(t, page.Results, 2)
	assert.Equal(t, "busy", page.Results[0].Business.ID)
	assert.Nil(t, page.Results[0].Distance)
	assert.Nil(t, page.SearchCenter)
}

func TestTopPicksEmptyProfileOrdersByQuality(t *testing.T) {
	f := newDiscoveryFixture(time.Now())
	ctx := context.Background()

	modest := completeBusiness("modest")
	modest.RatingAverage = 3

	standout := completeBusiness("standout")
	standout.RatingAverage = 5
	standout.ViewCount = 1000
	standout.FavoriteCount = 100
	standout.CompletionPercent = 100

	f.businesses.On("Search", mock.Anything, mock.Anything).
		Return([]*entities.Business{modest, standout}, 2, nil)

	page, err := f.service.TopPicks(ctx, "", services.DiscoveryFilters{})

	require.NoError(t, err)
	require.Len(t, page.Results, 2)
	assert.Equal(t, "standout", page.Results[0].Business.ID)
	require.NotNil(t, page.Results[0].TopPickScore)
	assert.InDelta(t, 1.0, *page.Results[0].TopPickScore, 1e-9)
	require.NotNil(t, page.Results[0].PersonalizationScore)
	assert.Zero(t, *page.Results[0].PersonalizationScore)
}

func TestTopPicksPersonalizationOutranksQuality(t *testing.T) {
	f := newDiscoveryFixture(time.Now())
	ctx := context.Background()

	f.businesses.On("GetByOwnerID", mock.Anything, "user-1").
		Return(&entities.Business{ID: "own", IndustryID: "ind-7"}, nil)
	f.favorites.On("BusinessIDsByUser", mock.Anything, "user-1").
		Return([]string{}, nil)

	matched := completeBusiness("matched")
	matched.IndustryID = "ind-7"

	polished := completeBusiness("polished")
	polished.RatingAverage = 5
	polished.ViewCount = 1000
	polished.FavoriteCount = 100
	polished.CompletionPercent = 100

	f.businesses.On("Search", mock.Anything, mock.Anything).
		Return([]*entities.Business{polished, matched}, 2, nil)

	page, err := f.service.TopPicks(ctx, "user-1", services.DiscoveryFilters{})

	require.NoError(t, err)
	require.Len(t, page.Results, 2)
	assert.Equal(t, "matched", page.Results[0].Business.ID)
	require.NotNil(t, page.Results[0].PersonalizationScore)
	assert.Equal(t, 3.0, *page.Results[0].PersonalizationScore)
}

func TestTopPicksQualityFallbackDropsMinRating(t *testing.T) {
	f := newDiscoveryFixture(time.Now())
	ctx := context.Background()

	f.businesses.On("Search", mock.Anything, mock.MatchedBy(func(q repositories.SearchQuery) bool {
		return q.MinRating == 4
	})).Return([]*entities.Business{}, 0, nil)
	f.businesses.On("Search", mock.Anything, mock.MatchedBy(func(q repositories.SearchQuery) bool {
		return q.MinRating == 0
	})).Return([]*entities.Business{completeBusiness("unrated")}, 1, nil)

	page, err := f.service.TopPicks(ctx, "", services.DiscoveryFilters{MinRating: 4})

	require.NoError(t, err)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "no_quality", page.Rung)
}

func TestOnTheRiseExcludesZeroEngagement(t *testing.T) {
	f := newDiscoveryFixture(time.Now())
	ctx := context.Background()

	silent := completeBusiness("silent") // zero views, favorites, ratings

	rising := completeBusiness("rising")
	rising.ViewCount = 120
	rising.FavoriteCount = 4

	f.businesses.On("Search", mock.Anything, mock.Anything).
		Return([]*entities.Business{silent, rising}, 2, nil)

	page, err := f.service.OnTheRise(ctx, services.DiscoveryFilters{})

	require.NoError(t, err)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "rising", page.Results[0].Business.ID)
	require.NotNil(t, page.Results[0].EngagementScore)
	assert.Greater(t, *page.Results[0].EngagementScore, 0.0)
}

func TestNewlyAddedPagination(t *testing.T) {
	f := newDiscoveryFixture(time.Now())
	ctx := context.Background()

	pool := make([]*entities.Business, 25)
	for i := range pool {
		pool[i] = completeBusiness(fmt.Sprintf("b%02d", i))
	}

	f.businesses.On("ListNewest", mock.Anything, 60, 0).Return(pool, 25, nil)

	page, err := f.service.NewlyAdded(ctx, services.DiscoveryFilters{Limit: 10, Page: 2})

	require.NoError(t, err)
	assert.Len(t, page.Results, 10)
	assert.Equal(t, "b10", page.Results[0].Business.ID)

	p := page.Pagination
	assert.Equal(t, 25, p.TotalCount)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, p.CurrentPage < p.TotalPages, p.HasNextPage)
	assert.True(t, p.HasPrevPage)
}

func TestRecentsHistoryOrderIsAuthoritative(t *testing.T) {
	f := newDiscoveryFixture(time.Now())
	ctx := context.Background()

	f.history.On("RecentTargets", mock.Anything, "user-1", 50).Return([]*entities.ViewAggregate{
		{BusinessID: "latest", LastViewedAt: time.Now(), ViewCount: 1},
		{BusinessID: "earlier", LastViewedAt: time.Now().Add(-time.Hour), ViewCount: 4},
	}, nil)

	// Store returns them in the opposite order
	f.businesses.On("GetByIDs", mock.Anything, []string{"latest", "earlier"}).
		Return([]*entities.Business{completeBusiness("earlier"), completeBusiness("latest")}, nil)

	page, err := f.service.Recents(ctx, "user-1", services.DiscoveryFilters{})

	require.NoError(t, err)
	require.Len(t, page.Results, 2)
	assert.Equal(t, "latest", page.Results[0].Business.ID)
	assert.Equal(t, "earlier", page.Results[1].Business.ID)
	assert.Equal(t, "recency", page.SortedBy)
}

func TestRecentsRequiresUserIdentity(t *testing.T) {
	f := newDiscoveryFixture(time.Now())

	_, err := f.service.Recents(context.Background(), "", services.DiscoveryFilters{})

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeUnauthorized, appErr.Type)
}

func TestExploreOpenNowFiltersClosed(t *testing.T) {
	// Monday 12:00 UTC
	at := time.Date(2026, time.March, 2, 12, 0, 0, 0, time.UTC)
	f := newDiscoveryFixture(at)
	ctx := context.Background()

	open := completeBusiness("open")
	open.Hours = &entities.WeeklyServiceHours{
		Days: map[string]entities.DayHours{
			"Monday": {Start: "09:00", End: "17:00"},
		},
	}
	closed := completeBusiness("closed") // no schedule at all

	f.businesses.On("Search", mock.Anything, mock.Anything).
		Return([]*entities.Business{open, closed}, 2, nil)

	page, err := f.service.Explore(ctx, services.DiscoveryFilters{OpenedStatus: "open"})

	require.NoError(t, err)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "open", page.Results[0].Business.ID)
	assert.True(t, page.Results[0].IsCurrentlyOpen)
	// Gated in memory, so the total reflects the filtered set
	assert.Equal(t, 1, page.Pagination.TotalCount)
}

func TestExploreAlphabeticalSort(t *testing.T) {
	f := newDiscoveryFixture(time.Now())
	ctx := context.Background()

	zulu := completeBusiness("z")
	zulu.Name = "Zulu Cafe"
	alpha := completeBusiness("a")
	alpha.Name = "Alpha Cafe"

	f.businesses.On("Search", mock.Anything, mock.Anything).
		Return([]*entities.Business{zulu, alpha}, 2, nil)

	page, err := f.service.Explore(ctx, services.DiscoveryFilters{SortBy: "alphabetical"})

	require.NoError(t, err)
	require.Len(t, page.Results, 2)
	assert.Equal(t, "Alpha Cafe", page.Results[0].Business.Name)
	assert.Equal(t, "alphabetical", page.SortedBy)
}

func TestExploreCompleteProfileGate(t *testing.T) {
	f := newDiscoveryFixture(time.Now())
	ctx := context.Background()

	bare := completeBusiness("bare")
	bare.LogoURL = ""
	kept := completeBusiness("kept")

	f.businesses.On("Search", mock.Anything, mock.Anything).
		Return([]*entities.Business{bare, kept}, 2, nil)
	f.blocks.On("CountVisibleBatch", mock.Anything, mock.Anything).
		Return(map[entities.BlockOwner]int{
			{PageID: "page-kept", BusinessID: "kept"}: 2,
		}, nil)

	page, err := f.service.Explore(ctx, services.DiscoveryFilters{CompleteProfile: true})

	require.NoError(t, err)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "kept", page.Results[0].Business.ID)
	assert.Equal(t, 1, page.Pagination.TotalCount)
}

func TestExploreCategoryFallsBackToLegacyText(t *testing.T) {
	f := newDiscoveryFixture(time.Now())
	ctx := context.Background()

	f.taxonomy.On("ResolveCategory", mock.Anything, "bakery").Return([]string{}, nil)
	f.businesses.On("Search", mock.Anything, mock.MatchedBy(func(q repositories.SearchQuery) bool {
		return q.LegacyIndustryText == "bakery" && len(q.IndustryIDs) == 0
	})).Return([]*entities.Business{completeBusiness("b1")}, 1, nil)

	_, err := f.service.Explore(ctx, services.DiscoveryFilters{Category: "bakery"})

	require.NoError(t, err)
	f.businesses.AssertExpectations(t)
}

func TestValidationFailuresReportPerField(t *testing.T) {
	f := newDiscoveryFixture(time.Now())
	ctx := context.Background()

	_, err := f.service.Explore(ctx, services.DiscoveryFilters{
		Latitude:  ptr(200),
		Longitude: ptr(3.3),
		Limit:     500,
		MinRating: 9,
	})

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
	assert.Len(t, appErr.Fields, 3)
}

func TestStoreFailureSurfacesAsUnavailable(t *testing.T) {
	f := newDiscoveryFixture(time.Now())
	ctx := context.Background()

	f.businesses.On("Search", mock.Anything, mock.Anything).
		Return(nil, 0, errors.New("connection refused"))

	_, err := f.service.Explore(ctx, services.DiscoveryFilters{})

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeUnavailable, appErr.Type)
}
