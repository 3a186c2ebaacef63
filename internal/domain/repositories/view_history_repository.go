package repositories

import (
	"context"

	"github.com/discoverly/discoverly/backend/internal/domain/entities"
)

// ViewHistoryRepository stores append-only view events and serves the
// per-target rollups the recents mode consumes
type ViewHistoryRepository interface {
	// Record appends a view event
	Record(ctx context.Context, event *entities.ViewEvent) error

	// RecentTargets returns the caller's viewed businesses grouped by target,
	// most recent first, capped at limit
	RecentTargets(ctx context.Context, userID string, limit int) ([]*entities.ViewAggregate, error)
}

// FavoriteRepository reads favorite links
type FavoriteRepository interface {
	// BusinessIDsByUser returns the ids of businesses the user favorited
	BusinessIDsByUser(ctx context.Context, userID string) ([]string, error)
}

// UserRepository reads caller profiles
type UserRepository interface {
	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id string) (*entities.User, error)
}
