package database

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/discoverly/discoverly/backend/internal/domain/entities"
	"github.com/discoverly/discoverly/backend/internal/domain/providers"
	"github.com/discoverly/discoverly/backend/internal/domain/repositories"
)

// CachedBusinessAdapter wraps BusinessAdapter with caching. Only the id
// lookups are cached; candidate queries change with every filter combination
// and are left to the store.
type CachedBusinessAdapter struct {
	adapter repositories.BusinessRepository
	cache   providers.CacheProvider
}

// NewCachedBusinessAdapter creates a new cached business adapter
func NewCachedBusinessAdapter(adapter repositories.BusinessRepository, cache providers.CacheProvider) repositories.BusinessRepository {
	return &CachedBusinessAdapter{
		adapter: adapter,
		cache:   cache,
	}
}

// Cache TTLs (in seconds)
const (
	businessByIDTTL = 300 // 5 minutes for single business
)

func businessCacheKey(id string) string {
	return fmt.Sprintf("business:%s", id)
}

// GetByID retrieves a business by ID with caching
func (a *CachedBusinessAdapter) GetByID(ctx context.Context, id string) (*entities.Business, error) {
	cacheKey := businessCacheKey(id)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var business entities.Business
		if err := json.Unmarshal(cached, &business); err == nil {
			return &business, nil
		}
		log.Printf("Failed to unmarshal cached business %s: %v", id, err)
	}

	business, err := a.adapter.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Update cache asynchronously to avoid blocking the response
	go func() {
		bgCtx := context.Background()
		if data, err := json.Marshal(business); err == nil {
			if err := a.cache.Set(bgCtx, cacheKey, data, businessByIDTTL); err != nil {
				log.Printf("Failed to cache business %s: %v", id, err)
			}
		}
	}()

	return business, nil
}

// GetByIDs retrieves multiple businesses by IDs, serving what it can from
// cache and fetching only the misses
func (a *CachedBusinessAdapter) GetByIDs(ctx context.Context, ids []string) ([]*entities.Business, error) {
	if len(ids) == 0 {
		return []*entities.Business{}, nil
	}

	cacheKeys := make([]string, len(ids))
	for i, id := range ids {
		cacheKeys[i] = businessCacheKey(id)
	}

	cached, _ := a.cache.GetMulti(ctx, cacheKeys)

	found := make(map[string]*entities.Business, len(ids))
	missingIDs := make([]string, 0)

	for i, id := range ids {
		if data, ok := cached[cacheKeys[i]]; ok {
			var business entities.Business
			if err := json.Unmarshal(data, &business); err == nil {
				found[id] = &business
				continue
			}
		}
		missingIDs = append(missingIDs, id)
	}

	if len(missingIDs) > 0 {
		fetched, err := a.adapter.GetByIDs(ctx, missingIDs)
		if err != nil {
			return nil, err
		}
		for _, business := range fetched {
			found[business.ID] = business
		}

		go func(toCache []*entities.Business) {
			bgCtx := context.Background()
			for _, business := range toCache {
				if data, err := json.Marshal(business); err == nil {
					if err := a.cache.Set(bgCtx, businessCacheKey(business.ID), data, businessByIDTTL); err != nil {
						log.Printf("Failed to cache business %s: %v", business.ID, err)
					}
				}
			}
		}(fetched)
	}

	// Preserve the requested order, dropping ids that resolved to nothing
	businesses := make([]*entities.Business, 0, len(ids))
	for _, id := range ids {
		if business, ok := found[id]; ok {
			businesses = append(businesses, business)
		}
	}
	return businesses, nil
}

// GetByOwnerID delegates to the underlying adapter
func (a *CachedBusinessAdapter) GetByOwnerID(ctx context.Context, ownerID string) (*entities.Business, error) {
	return a.adapter.GetByOwnerID(ctx, ownerID)
}

// ListNewest delegates to the underlying adapter
func (a *CachedBusinessAdapter) ListNewest(ctx context.Context, limit, offset int) ([]*entities.Business, int, error) {
	return a.adapter.ListNewest(ctx, limit, offset)
}

// Search delegates to the underlying adapter
func (a *CachedBusinessAdapter) Search(ctx context.Context, query repositories.SearchQuery) ([]*entities.Business, int, error) {
	return a.adapter.Search(ctx, query)
}
