package database

import (
	"context"

	"github.com/doug-martin/goqu/v9"

	"github.com/discoverly/discoverly/backend/internal/domain/repositories"
	"github.com/discoverly/discoverly/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/discoverly/discoverly/backend/pkg/errors"
)

// FavoriteAdapter implements the FavoriteRepository interface
type FavoriteAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewFavoriteAdapter creates a new favorite adapter
func NewFavoriteAdapter(client *postgres.Client) repositories.FavoriteRepository {
	return &FavoriteAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// BusinessIDsByUser returns the ids of businesses the user favorited
func (a *FavoriteAdapter) BusinessIDsByUser(ctx context.Context, userID string) ([]string, error) {
	query, args, err := a.db.Select("business_id").
		From("favorites").
		Where(goqu.Ex{"user_id": userID}).
		Order(goqu.I("created_at").Desc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build favorites query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get favorites", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, apperrors.NewInternalError("failed to scan favorite", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating favorites", err)
	}

	return ids, nil
}
