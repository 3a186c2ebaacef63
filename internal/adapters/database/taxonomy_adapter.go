package database

import (
	"context"
	"database/sql"

	"github.com/doug-martin/goqu/v9"

	"github.com/discoverly/discoverly/backend/internal/domain/entities"
	"github.com/discoverly/discoverly/backend/internal/domain/repositories"
	"github.com/discoverly/discoverly/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/discoverly/discoverly/backend/pkg/errors"
)

// TaxonomyAdapter implements the TaxonomyRepository interface against the
// industries catalog table
type TaxonomyAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewTaxonomyAdapter creates a new taxonomy adapter
func NewTaxonomyAdapter(client *postgres.Client) repositories.TaxonomyRepository {
	return &TaxonomyAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// ResolveCategory matches a free-text category against taxonomy titles,
// case-insensitive, substring either way. Returns the matching identifiers;
// an empty slice means the text resolved to nothing.
func (a *TaxonomyAdapter) ResolveCategory(ctx context.Context, text string) ([]string, error) {
	if text == "" {
		return []string{}, nil
	}

	query, args, err := a.db.Select("id").
		From("industries").
		Where(
			goqu.Ex{"is_active": true},
			goqu.Or(
				goqu.I("title").ILike("%"+text+"%"),
				goqu.L("? ILIKE '%' || title || '%'", text),
			),
		).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build taxonomy query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to resolve category", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, apperrors.NewInternalError("failed to scan taxonomy id", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating taxonomy ids", err)
	}

	return ids, nil
}

// GetByIDs retrieves catalog entries by identifier
func (a *TaxonomyAdapter) GetByIDs(ctx context.Context, ids []string) ([]*entities.Industry, error) {
	if len(ids) == 0 {
		return []*entities.Industry{}, nil
	}

	query, args, err := a.db.Select("id", "title", "parent_id", "is_active", "created_at").
		From("industries").
		Where(goqu.Ex{"id": ids}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build taxonomy query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get industries", err)
	}
	defer rows.Close()

	industries := []*entities.Industry{}
	for rows.Next() {
		industry := &entities.Industry{}
		var parentID sql.NullString
		if err := rows.Scan(&industry.ID, &industry.Title, &parentID, &industry.IsActive, &industry.CreatedAt); err != nil {
			return nil, apperrors.NewInternalError("failed to scan industry", err)
		}
		industry.ParentID = parentID.String
		industries = append(industries, industry)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating industries", err)
	}

	return industries, nil
}
