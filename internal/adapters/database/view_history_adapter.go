package database

import (
	"context"

	"github.com/doug-martin/goqu/v9"

	"github.com/discoverly/discoverly/backend/internal/domain/entities"
	"github.com/discoverly/discoverly/backend/internal/domain/repositories"
	"github.com/discoverly/discoverly/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/discoverly/discoverly/backend/pkg/errors"
)

// ViewHistoryAdapter implements the ViewHistoryRepository interface over the
// append-only view_events table
type ViewHistoryAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewViewHistoryAdapter creates a new view history adapter
func NewViewHistoryAdapter(client *postgres.Client) repositories.ViewHistoryRepository {
	return &ViewHistoryAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Record appends a view event
func (a *ViewHistoryAdapter) Record(ctx context.Context, event *entities.ViewEvent) error {
	record := goqu.Record{
		"id":          event.ID,
		"user_id":     event.UserID,
		"business_id": event.BusinessID,
		"viewed_at":   event.ViewedAt,
	}

	query, args, err := a.db.Insert("view_events").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to record view event", err)
	}

	return nil
}

// RecentTargets rolls the user's raw view events up per business: most
// recent view time and total count, newest first, capped at limit
func (a *ViewHistoryAdapter) RecentTargets(ctx context.Context, userID string, limit int) ([]*entities.ViewAggregate, error) {
	ds := a.db.Select(
		"business_id",
		goqu.MAX("viewed_at").As("last_viewed_at"),
		goqu.COUNT("*").As("view_count"),
	).
		From("view_events").
		Where(goqu.Ex{"user_id": userID}).
		GroupBy("business_id").
		Order(goqu.I("last_viewed_at").Desc())
	if limit > 0 {
		ds = ds.Limit(uint(limit))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build view history query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get view history", err)
	}
	defer rows.Close()

	aggregates := []*entities.ViewAggregate{}
	for rows.Next() {
		aggregate := &entities.ViewAggregate{}
		if err := rows.Scan(&aggregate.BusinessID, &aggregate.LastViewedAt, &aggregate.ViewCount); err != nil {
			return nil, apperrors.NewInternalError("failed to scan view aggregate", err)
		}
		aggregates = append(aggregates, aggregate)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating view aggregates", err)
	}

	return aggregates, nil
}
