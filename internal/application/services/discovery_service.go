package services

import (
	"context"
	"math"
	"sort"

	"github.com/discoverly/discoverly/backend/internal/domain/entities"
	"github.com/discoverly/discoverly/backend/internal/domain/repositories"
	"github.com/discoverly/discoverly/backend/internal/infrastructure/observability"
	"github.com/discoverly/discoverly/backend/internal/query"
	apperrors "github.com/discoverly/discoverly/backend/pkg/errors"
	"github.com/discoverly/discoverly/backend/pkg/geoutil"
)

// Candidate pool sizing. Every mode over-fetches a bounded superset, filters
// and scores it in memory, then slices the requested page. The pool covers
// all pages up to the requested one so late pages stay reachable after
// in-memory filtering.
const candidatePoolMultiplier = 3

// Pagination bounds
const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// defaultMaxDistanceKm applies when a caller supplies coordinates without a
// radius
const defaultMaxDistanceKm = 25.0

// Caller-selectable sort modes for general explore
const (
	SortByRating       = "rating"
	SortByDistance     = "distance"
	SortByPopularity   = "popularity"
	SortByNewest       = "newest"
	SortByAlphabetical = "alphabetical"
	SortByRelevance    = "relevance"
)

// Open-status filter values
const (
	OpenedStatusOpen = "open"
	OpenedStatusAny  = "any"
)

// DiscoveryFilters is the recognized filter set shared by all discovery
// modes. Handlers parse the transport query into this struct; validation
// happens here, before any store access.
type DiscoveryFilters struct {
	Latitude        *float64
	Longitude       *float64
	MaxDistanceM    float64
	Limit           int
	Page            int
	Category        string
	MinRating       float64
	PriceTiers      []string
	OpenedStatus    string
	FeatureTags     []string
	Search          string
	SortBy          string
	TopRated        bool
	MostLiked       bool
	OpenNow         bool
	Nearby          bool
	CompleteProfile bool
}

// wantsOpenNow reports whether the caller restricted results to currently
// open businesses through either filter spelling
func (f *DiscoveryFilters) wantsOpenNow() bool {
	return f.OpenNow || f.OpenedStatus == OpenedStatusOpen
}

// DiscoveryPage is one mode's ranked, enriched, paginated answer
type DiscoveryPage struct {
	Results      []*entities.DiscoveryResult
	Pagination   *entities.Pagination
	SearchCenter *entities.GeoPoint
	SortedBy     string
	Rung         string
}

// DiscoveryService orchestrates the discovery modes: validate, query with
// the fallback ladder, gate, score, sort, paginate, enrich
type DiscoveryService struct {
	businesses   repositories.BusinessRepository
	searchEngine repositories.BusinessSearchRepository
	users        repositories.UserRepository
	history      repositories.ViewHistoryRepository
	taxonomy     repositories.TaxonomyRepository
	preferences  *PreferenceService
	completeness *CompletenessService
	openStatus   *OpenStatusService
	scoring      *ScoringService
	metrics      *observability.Metrics
}

// NewDiscoveryService creates a new discovery service. searchEngine may be
// nil, in which case candidate queries run directly against the database.
func NewDiscoveryService(
	businesses repositories.BusinessRepository,
	searchEngine repositories.BusinessSearchRepository,
	users repositories.UserRepository,
	history repositories.ViewHistoryRepository,
	taxonomy repositories.TaxonomyRepository,
	preferences *PreferenceService,
	completeness *CompletenessService,
	openStatus *OpenStatusService,
	scoring *ScoringService,
	metrics *observability.Metrics,
) *DiscoveryService {
	return &DiscoveryService{
		businesses:   businesses,
		searchEngine: searchEngine,
		users:        users,
		history:      history,
		taxonomy:     taxonomy,
		preferences:  preferences,
		completeness: completeness,
		openStatus:   openStatus,
		scoring:      scoring,
		metrics:      metrics,
	}
}

// normalizeFilters applies defaults for absent paging and radius values
func normalizeFilters(f *DiscoveryFilters) {
	if f.Limit <= 0 {
		f.Limit = defaultPageLimit
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.MaxDistanceM <= 0 {
		f.MaxDistanceM = defaultMaxDistanceKm * 1000
	}
}

// validateFilters rejects malformed input before it reaches the query
// builder, one message per invalid field
func validateFilters(f *DiscoveryFilters) error {
	var fields []apperrors.FieldError

	if (f.Latitude == nil) != (f.Longitude == nil) {
		fields = append(fields, apperrors.FieldError{
			Field:   "location",
			Message: "latitude and longitude must be provided together",
		})
	}
	if f.Latitude != nil && f.Longitude != nil {
		if !geoutil.ValidCoordinates(*f.Latitude, *f.Longitude) {
			fields = append(fields, apperrors.FieldError{
				Field:   "location",
				Message: "coordinates must be finite and within [-90,90] latitude, [-180,180] longitude",
			})
		}
	}
	if f.Limit > maxPageLimit {
		fields = append(fields, apperrors.FieldError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}
	if f.MinRating < 0 || f.MinRating > 5 {
		fields = append(fields, apperrors.FieldError{
			Field:   "rating",
			Message: "rating must be between 0 and 5",
		})
	}
	if f.OpenedStatus != "" && f.OpenedStatus != OpenedStatusOpen && f.OpenedStatus != OpenedStatusAny {
		fields = append(fields, apperrors.FieldError{
			Field:   "openedStatus",
			Message: "openedStatus must be 'open' or 'any'",
		})
	}

	if len(fields) > 0 {
		return apperrors.NewFieldValidationError(fields)
	}
	return nil
}

// center resolves the caller-supplied coordinates, nil when absent or at the
// no-location sentinel
func (f *DiscoveryFilters) center() *entities.GeoPoint {
	if f.Latitude == nil || f.Longitude == nil {
		return nil
	}
	p := &entities.GeoPoint{Latitude: *f.Latitude, Longitude: *f.Longitude}
	if !p.IsSet() {
		return nil
	}
	return p
}

func candidatePoolSize(page, limit int) int {
	return page * limit * candidatePoolMultiplier
}

// contentFilters resolves the request's category and content filters into
// one ladder filter set. Category text resolves against the taxonomy
// catalog first; zero hits fall back to legacy free-text industry matching
// on the business records themselves.
func (s *DiscoveryService) contentFilters(ctx context.Context, f *DiscoveryFilters) query.Filters {
	filters := query.Filters{
		Text:        f.Search,
		MinRating:   f.MinRating,
		PriceTiers:  f.PriceTiers,
		FeatureTags: f.FeatureTags,
	}

	if f.Category == "" {
		return filters
	}

	ids, err := s.taxonomy.ResolveCategory(ctx, f.Category)
	if err != nil {
		// Degraded, not fatal: discovery should prefer showing something
		observability.LoggerFromContext(ctx).Warn().
			Err(err).
			Str("category", f.Category).
			Msg("category resolution failed, matching legacy industry text")
		filters.LegacyIndustryText = f.Category
		return filters
	}
	if len(ids) == 0 {
		filters.LegacyIndustryText = f.Category
		return filters
	}

	filters.IndustryIDs = ids
	return filters
}

// candidateSearcher picks the query target: the search engine with id
// hydration from the primary store when configured, the database directly
// otherwise
func (s *DiscoveryService) candidateSearcher() query.Searcher {
	if s.searchEngine != nil {
		return &hydratingSearcher{engine: s.searchEngine, store: s.businesses}
	}
	return s.businesses
}

// hydratingSearcher runs candidate queries against the search engine and
// rehydrates full records from the primary store, preserving hit order
type hydratingSearcher struct {
	engine repositories.BusinessSearchRepository
	store  repositories.BusinessRepository
}

func (h *hydratingSearcher) Search(ctx context.Context, q repositories.SearchQuery) ([]*entities.Business, int, error) {
	hits, total, err := h.engine.Search(ctx, q)
	if err != nil {
		return nil, 0, err
	}
	if len(hits) == 0 {
		return hits, total, nil
	}

	ids := make([]string, len(hits))
	for i, hit := range hits {
		ids[i] = hit.ID
	}

	full, err := h.store.GetByIDs(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	byID := make(map[string]*entities.Business, len(full))
	for _, business := range full {
		byID[business.ID] = business
	}

	ordered := make([]*entities.Business, 0, len(ids))
	for _, id := range ids {
		if business, ok := byID[id]; ok {
			ordered = append(ordered, business)
		}
	}
	return ordered, total, nil
}

// runLadder executes the fallback ladder and translates store failures into
// the upstream-unavailable taxonomy
func (s *DiscoveryService) runLadder(ctx context.Context, mode string, in query.Input) (*query.Result, error) {
	rungs := query.BuildLadder(in)
	result, err := query.Run(ctx, s.candidateSearcher(), rungs, 0)
	if err != nil {
		return nil, apperrors.NewUnavailableError("business candidate query failed", err)
	}

	if result.Rung != query.RungFull {
		observability.LoggerFromContext(ctx).Info().
			Str("mode", mode).
			Str("rung", result.Rung).
			Int("count", len(result.Businesses)).
			Msg("discovery served from fallback rung")
		observability.RecordFallback(ctx, s.metrics, mode, result.Rung)
	}

	return result, nil
}

// applyGates runs the caller-controlled in-memory post-filters: the
// completeness gate, then the open-now filter. Returns the surviving
// candidates and whether any gate ran (which makes the in-memory count the
// authoritative pagination total).
func (s *DiscoveryService) applyGates(ctx context.Context, candidates []*entities.Business, f *DiscoveryFilters) ([]*entities.Business, bool) {
	gated := false

	if f.CompleteProfile {
		candidates = s.completeness.FilterComplete(ctx, candidates)
		gated = true
	}

	if f.wantsOpenNow() {
		open := make([]*entities.Business, 0, len(candidates))
		for _, b := range candidates {
			if s.openStatus.IsOpen(b.Hours) {
				open = append(open, b)
			}
		}
		candidates = open
		gated = true
	}

	return candidates, gated
}

// paginate slices one page out of the in-memory candidate set. storeTotal is
// the store-reported match count, used only when no in-memory gate ran.
func paginate(candidates []*entities.Business, f *DiscoveryFilters, gated bool, storeTotal int) ([]*entities.Business, *entities.Pagination) {
	total := storeTotal
	if gated || len(candidates) > storeTotal {
		total = len(candidates)
	}

	offset := (f.Page - 1) * f.Limit
	if offset >= len(candidates) {
		return []*entities.Business{}, entities.NewPagination(total, f.Page, f.Limit)
	}
	end := offset + f.Limit
	if end > len(candidates) {
		end = len(candidates)
	}
	return candidates[offset:end], entities.NewPagination(total, f.Page, f.Limit)
}

// enrich wraps a page of candidates in their response projection: distance
// from the search center (km, 2-decimal) and live open status
func (s *DiscoveryService) enrich(page []*entities.Business, center *entities.GeoPoint) []*entities.DiscoveryResult {
	results := make([]*entities.DiscoveryResult, len(page))
	for i, b := range page {
		result := &entities.DiscoveryResult{
			Business:        b,
			DistanceUnit:    "km",
			IsCurrentlyOpen: s.openStatus.IsOpen(b.Hours),
		}
		if d := distanceFrom(center, b); d != nil {
			result.Distance = d
		}
		results[i] = result
	}
	return results
}

// distanceFrom computes the rounded distance, nil when either end lacks a
// real coordinate
func distanceFrom(center *entities.GeoPoint, b *entities.Business) *float64 {
	if center == nil || !center.IsSet() || !b.Location.IsSet() {
		return nil
	}
	d := geoutil.RoundKm(geoutil.DistanceKm(
		center.Latitude, center.Longitude,
		b.Location.Latitude, b.Location.Longitude,
	))
	return &d
}

// sortByDistance orders candidates nearest first. Candidates without a real
// coordinate sink to the end, ordered by popularity among themselves.
func sortByDistance(candidates []*entities.Business, center *entities.GeoPoint) {
	sort.SliceStable(candidates, func(i, j int) bool {
		di, dj := rawDistance(center, candidates[i]), rawDistance(center, candidates[j])
		if di != dj {
			return di < dj
		}
		return candidates[i].ViewCount > candidates[j].ViewCount
	})
}

func rawDistance(center *entities.GeoPoint, b *entities.Business) float64 {
	if center == nil || !b.Location.IsSet() {
		return math.MaxFloat64
	}
	return geoutil.DistanceKm(center.Latitude, center.Longitude, b.Location.Latitude, b.Location.Longitude)
}

// sortByPopularity is the fixed engagement tie-break ladder: views, then
// favorites, then rating average, then rating count, all descending
func sortByPopularity(candidates []*entities.Business) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.ViewCount != b.ViewCount {
			return a.ViewCount > b.ViewCount
		}
		if a.FavoriteCount != b.FavoriteCount {
			return a.FavoriteCount > b.FavoriteCount
		}
		if a.RatingAverage != b.RatingAverage {
			return a.RatingAverage > b.RatingAverage
		}
		return a.RatingCount > b.RatingCount
	})
}
