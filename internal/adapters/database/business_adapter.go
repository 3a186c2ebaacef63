package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/lib/pq"

	"github.com/discoverly/discoverly/backend/internal/domain/entities"
	"github.com/discoverly/discoverly/backend/internal/domain/repositories"
	"github.com/discoverly/discoverly/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/discoverly/discoverly/backend/pkg/errors"
)

var businessColumns = []interface{}{
	"id", "owner_id", "name", "street", "city", "state", "zip_code", "country",
	"latitude", "longitude", "industry_id", "sub_industry_id",
	"legacy_industry", "legacy_sub_industry", "price_tier", "feature_tags",
	"view_count", "favorite_count", "rating_average", "rating_count",
	"completion_percent", "logo_url", "cover_image_url",
	"short_description", "description", "page_id", "hours",
	"is_active", "created_at", "updated_at",
}

// haversineKm computes great-circle distance in kilometers from the query
// center to each row. Kept as raw SQL; PostGIS is not assumed.
const haversineKm = `(6371 * acos(least(1, cos(radians(?)) * cos(radians(latitude)) * ` +
	`cos(radians(longitude) - radians(?)) + sin(radians(?)) * sin(radians(latitude)))))`

// BusinessAdapter implements the BusinessRepository interface
type BusinessAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewBusinessAdapter creates a new business adapter
func NewBusinessAdapter(client *postgres.Client) repositories.BusinessRepository {
	return &BusinessAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// GetByID retrieves a business by ID
func (a *BusinessAdapter) GetByID(ctx context.Context, id string) (*entities.Business, error) {
	query, args, err := a.db.Select(businessColumns...).
		From("businesses").
		Where(goqu.Ex{"id": id, "is_active": true}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	business, err := scanBusiness(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("business with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get business", err)
	}

	return business, nil
}

// GetByIDs retrieves multiple businesses by their IDs. Missing ids are simply
// absent from the result; callers resolve ordering themselves.
func (a *BusinessAdapter) GetByIDs(ctx context.Context, ids []string) ([]*entities.Business, error) {
	if len(ids) == 0 {
		return []*entities.Business{}, nil
	}

	query, args, err := a.db.Select(businessColumns...).
		From("businesses").
		Where(goqu.Ex{"id": ids, "is_active": true}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	return a.queryBusinesses(ctx, query, args)
}

// GetByOwnerID retrieves the business owned by a user
func (a *BusinessAdapter) GetByOwnerID(ctx context.Context, ownerID string) (*entities.Business, error) {
	query, args, err := a.db.Select(businessColumns...).
		From("businesses").
		Where(goqu.Ex{"owner_id": ownerID, "is_active": true}).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	business, err := scanBusiness(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("no business owned by user %s", ownerID))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get business by owner", err)
	}

	return business, nil
}

// ListNewest retrieves active businesses ordered by creation time descending
func (a *BusinessAdapter) ListNewest(ctx context.Context, limit, offset int) ([]*entities.Business, int, error) {
	base := a.db.From("businesses").Where(goqu.Ex{"is_active": true})

	total, err := a.countRows(ctx, base)
	if err != nil {
		return nil, 0, err
	}

	ds := base.Select(businessColumns...).
		Order(goqu.I("created_at").Desc())
	if limit > 0 {
		ds = ds.Limit(uint(limit))
	}
	if offset > 0 {
		ds = ds.Offset(uint(offset))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, 0, apperrors.NewInternalError("failed to build query", err)
	}

	businesses, err := a.queryBusinesses(ctx, query, args)
	if err != nil {
		return nil, 0, err
	}
	return businesses, total, nil
}

// Search executes a candidate query directly against the database. Geo
// filtering uses a haversine expression and excludes the [0,0] placeholder
// rows that were never geocoded.
func (a *BusinessAdapter) Search(ctx context.Context, q repositories.SearchQuery) ([]*entities.Business, int, error) {
	base := a.db.From("businesses").Where(searchConditions(q)...)

	total, err := a.countRows(ctx, base)
	if err != nil {
		return nil, 0, err
	}

	ds := base.Select(businessColumns...).Order(searchOrder(q)...)
	if q.Limit > 0 {
		ds = ds.Limit(uint(q.Limit))
	}
	if q.Offset > 0 {
		ds = ds.Offset(uint(q.Offset))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, 0, apperrors.NewInternalError("failed to build search query", err)
	}

	businesses, err := a.queryBusinesses(ctx, query, args)
	if err != nil {
		return nil, 0, err
	}
	return businesses, total, nil
}

func searchConditions(q repositories.SearchQuery) []goqu.Expression {
	conds := []goqu.Expression{goqu.Ex{"is_active": true}}

	if q.Text != "" {
		pattern := "%" + q.Text + "%"
		conds = append(conds, goqu.Or(
			goqu.I("name").ILike(pattern),
			goqu.I("short_description").ILike(pattern),
			goqu.I("description").ILike(pattern),
		))
	}

	if len(q.IndustryIDs) > 0 {
		conds = append(conds, goqu.Or(
			goqu.Ex{"industry_id": q.IndustryIDs},
			goqu.Ex{"sub_industry_id": q.IndustryIDs},
		))
	}

	if q.LegacyIndustryText != "" {
		pattern := "%" + q.LegacyIndustryText + "%"
		conds = append(conds, goqu.Or(
			goqu.I("legacy_industry").ILike(pattern),
			goqu.I("legacy_sub_industry").ILike(pattern),
		))
	}

	if q.MinRating > 0 {
		conds = append(conds, goqu.I("rating_average").Gte(q.MinRating))
	}

	if len(q.PriceTiers) > 0 {
		conds = append(conds, goqu.Ex{"price_tier": q.PriceTiers})
	}

	if len(q.FeatureTags) > 0 {
		conds = append(conds, goqu.L("feature_tags && ?", pq.Array(q.FeatureTags)))
	}

	if q.HasGeo() {
		// Rows parked at the [0,0] placeholder have no usable coordinates
		conds = append(conds,
			goqu.L("NOT (latitude = 0 AND longitude = 0)"),
			goqu.L(haversineKm+" <= ?",
				q.Center.Latitude, q.Center.Longitude, q.Center.Latitude, q.MaxDistanceKm),
		)
	}

	return conds
}

func searchOrder(q repositories.SearchQuery) []exp.OrderedExpression {
	switch q.Sort {
	case repositories.SortNearest:
		if q.HasGeo() {
			return []exp.OrderedExpression{
				goqu.L(haversineKm, q.Center.Latitude, q.Center.Longitude, q.Center.Latitude).Asc(),
			}
		}
		return []exp.OrderedExpression{goqu.I("view_count").Desc()}
	case repositories.SortRating:
		return []exp.OrderedExpression{goqu.I("rating_average").Desc(), goqu.I("rating_count").Desc()}
	case repositories.SortMostLiked:
		return []exp.OrderedExpression{goqu.I("favorite_count").Desc()}
	case repositories.SortNewest:
		return []exp.OrderedExpression{goqu.I("created_at").Desc()}
	case repositories.SortAlphabetical:
		return []exp.OrderedExpression{goqu.I("name").Asc()}
	default:
		// popularity and relevance share the engagement ordering here; text
		// relevance proper lives in the search engine adapter
		return []exp.OrderedExpression{goqu.I("view_count").Desc(), goqu.I("rating_average").Desc()}
	}
}

func (a *BusinessAdapter) countRows(ctx context.Context, ds *goqu.SelectDataset) (int, error) {
	query, args, err := ds.Select(goqu.COUNT("*")).ToSQL()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to build count query", err)
	}

	var total int
	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, apperrors.NewInternalError("failed to count businesses", err)
	}
	return total, nil
}

func (a *BusinessAdapter) queryBusinesses(ctx context.Context, query string, args []interface{}) ([]*entities.Business, error) {
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query businesses", err)
	}
	defer rows.Close()

	businesses := []*entities.Business{}
	for rows.Next() {
		business, err := scanBusiness(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan business", err)
		}
		businesses = append(businesses, business)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating businesses", err)
	}

	return businesses, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBusiness(row rowScanner) (*entities.Business, error) {
	business := &entities.Business{}
	var (
		industryID, subIndustryID         sql.NullString
		legacyIndustry, legacySubIndustry sql.NullString
		priceTier, pageID                 sql.NullString
		logoURL, coverImageURL            sql.NullString
		shortDescription, description     sql.NullString
		hoursJSON                         []byte
	)

	err := row.Scan(
		&business.ID,
		&business.OwnerID,
		&business.Name,
		&business.Address.Street,
		&business.Address.City,
		&business.Address.State,
		&business.Address.ZipCode,
		&business.Address.Country,
		&business.Location.Latitude,
		&business.Location.Longitude,
		&industryID,
		&subIndustryID,
		&legacyIndustry,
		&legacySubIndustry,
		&priceTier,
		pq.Array(&business.FeatureTags),
		&business.ViewCount,
		&business.FavoriteCount,
		&business.RatingAverage,
		&business.RatingCount,
		&business.CompletionPercent,
		&logoURL,
		&coverImageURL,
		&shortDescription,
		&description,
		&pageID,
		&hoursJSON,
		&business.IsActive,
		&business.CreatedAt,
		&business.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	business.IndustryID = industryID.String
	business.SubIndustryID = subIndustryID.String
	business.LegacyIndustry = legacyIndustry.String
	business.LegacySubIndustry = legacySubIndustry.String
	business.PriceTier = priceTier.String
	business.LogoURL = logoURL.String
	business.CoverImageURL = coverImageURL.String
	business.ShortDescription = shortDescription.String
	business.Description = description.String
	business.PageID = pageID.String

	if len(hoursJSON) > 0 {
		hours := &entities.WeeklyServiceHours{}
		if err := json.Unmarshal(hoursJSON, hours); err == nil {
			business.Hours = hours
		}
	}

	return business, nil
}
