package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/discoverly/discoverly/backend/internal/domain/entities"
	"github.com/discoverly/discoverly/backend/internal/domain/repositories"
	"github.com/discoverly/discoverly/backend/internal/infrastructure/observability"
)

// PreferenceService derives the caller's per-request preference profile from
// their own business and their favorites. The profile is an enrichment
// input, so every lookup degrades to "no preference" instead of failing the
// discovery request.
type PreferenceService struct {
	users      repositories.UserRepository
	businesses repositories.BusinessRepository
	favorites  repositories.FavoriteRepository
}

// NewPreferenceService creates a new preference service
func NewPreferenceService(
	users repositories.UserRepository,
	businesses repositories.BusinessRepository,
	favorites repositories.FavoriteRepository,
) *PreferenceService {
	return &PreferenceService{
		users:      users,
		businesses: businesses,
		favorites:  favorites,
	}
}

// BuildProfile aggregates taxonomy identifiers from the caller's own
// business and favorited businesses. The two source lookups have no data
// dependency, so they run concurrently and join before folding.
func (s *PreferenceService) BuildProfile(ctx context.Context, userID string) *entities.PreferenceProfile {
	profile := entities.NewPreferenceProfile()
	if userID == "" {
		return profile
	}

	logger := observability.LoggerFromContext(ctx)

	var own *entities.Business
	var favorited []*entities.Business

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		business, err := s.businesses.GetByOwnerID(gctx, userID)
		if err != nil {
			logger.Debug().Err(err).Str("user_id", userID).Msg("no owned business for preference profile")
			return nil
		}
		own = business
		return nil
	})

	g.Go(func() error {
		ids, err := s.favorites.BusinessIDsByUser(gctx, userID)
		if err != nil {
			logger.Warn().Err(err).Str("user_id", userID).Msg("favorites lookup failed, skipping")
			return nil
		}
		if len(ids) == 0 {
			return nil
		}
		businesses, err := s.businesses.GetByIDs(gctx, ids)
		if err != nil {
			logger.Warn().Err(err).Str("user_id", userID).Msg("favorited businesses lookup failed, skipping")
			return nil
		}
		favorited = businesses
		return nil
	})

	// Both goroutines swallow their errors; Wait is a pure join point
	_ = g.Wait()

	profile.AddBusiness(own)
	for _, business := range favorited {
		profile.AddBusiness(business)
	}

	return profile
}
