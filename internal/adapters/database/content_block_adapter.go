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

// ContentBlockAdapter implements the ContentBlockRepository interface.
// Blocks created before builder pages existed are linked by business id
// instead of page id, so both links are counted.
type ContentBlockAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewContentBlockAdapter creates a new content block adapter
func NewContentBlockAdapter(client *postgres.Client) repositories.ContentBlockRepository {
	return &ContentBlockAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// CountVisible returns the number of active, visible blocks for one owner
func (a *ContentBlockAdapter) CountVisible(ctx context.Context, owner entities.BlockOwner) (int, error) {
	query, args, err := a.db.Select(goqu.COUNT("*")).
		From("content_blocks").
		Where(
			goqu.Ex{"is_active": true, "is_visible": true},
			ownerCondition(owner),
		).
		ToSQL()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to build block count query", err)
	}

	var count int
	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, apperrors.NewInternalError("failed to count content blocks", err)
	}
	return count, nil
}

// CountVisibleBatch returns visible-block counts for a set of owners in one
// round trip. Owners with no blocks get a zero entry.
func (a *ContentBlockAdapter) CountVisibleBatch(ctx context.Context, owners []entities.BlockOwner) (map[entities.BlockOwner]int, error) {
	counts := make(map[entities.BlockOwner]int, len(owners))
	if len(owners) == 0 {
		return counts, nil
	}

	pageIDs := make([]string, 0, len(owners))
	businessIDs := make([]string, 0, len(owners))
	for _, owner := range owners {
		counts[owner] = 0
		if owner.PageID != "" {
			pageIDs = append(pageIDs, owner.PageID)
		}
		if owner.BusinessID != "" {
			businessIDs = append(businessIDs, owner.BusinessID)
		}
	}

	link := []goqu.Expression{}
	if len(pageIDs) > 0 {
		link = append(link, goqu.Ex{"page_id": pageIDs})
	}
	if len(businessIDs) > 0 {
		link = append(link, goqu.Ex{"business_id": businessIDs})
	}
	if len(link) == 0 {
		return counts, nil
	}

	query, args, err := a.db.Select("page_id", "business_id").
		From("content_blocks").
		Where(
			goqu.Ex{"is_active": true, "is_visible": true},
			goqu.Or(link...),
		).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build block batch query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to count content blocks", err)
	}
	defer rows.Close()

	byPage := make(map[string]int)
	byBusiness := make(map[string]int)
	for rows.Next() {
		// Blocks predating builder pages carry a NULL page_id
		var pageID, businessID sql.NullString
		if err := rows.Scan(&pageID, &businessID); err != nil {
			return nil, apperrors.NewInternalError("failed to scan content block", err)
		}
		if pageID.String != "" {
			byPage[pageID.String]++
		}
		if businessID.String != "" {
			byBusiness[businessID.String]++
		}
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating content blocks", err)
	}

	// Page link wins when present so a block with both links is not counted
	// twice for the same owner
	for owner := range counts {
		if owner.PageID != "" {
			if c, ok := byPage[owner.PageID]; ok && c > 0 {
				counts[owner] = c
				continue
			}
		}
		if owner.BusinessID != "" {
			counts[owner] = byBusiness[owner.BusinessID]
		}
	}

	return counts, nil
}

func ownerCondition(owner entities.BlockOwner) goqu.Expression {
	link := []goqu.Expression{}
	if owner.PageID != "" {
		link = append(link, goqu.Ex{"page_id": owner.PageID})
	}
	if owner.BusinessID != "" {
		link = append(link, goqu.Ex{"business_id": owner.BusinessID})
	}
	if len(link) == 0 {
		// No links resolves to no blocks
		return goqu.L("false")
	}
	return goqu.Or(link...)
}
