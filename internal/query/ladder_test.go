package query_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/discoverly/discoverly/backend/internal/domain/entities"
	"github.com/discoverly/discoverly/backend/internal/domain/repositories"
	"github.com/discoverly/discoverly/backend/internal/query"
)

type fakeStore struct {
	queries []repositories.SearchQuery
	results [][]*entities.Business
	err     error
}

func (f *fakeStore) Search(_ context.Context, q repositories.SearchQuery) ([]*entities.Business, int, error) {
	f.queries = append(f.queries, q)
	if f.err != nil {
		return nil, 0, f.err
	}
	idx := len(f.queries) - 1
	if idx >= len(f.results) {
		return nil, 0, nil
	}
	return f.results[idx], len(f.results[idx]), nil
}

func business(id string) *entities.Business {
	return &entities.Business{ID: id, Name: "Biz " + id, IsActive: true}
}

func TestBuildLadder(t *testing.T) {
	t.Run("geo input yields full then no-geo rung", func(t *testing.T) {
		rungs := query.BuildLadder(query.Input{
			Center:        &entities.GeoPoint{Latitude: 40.0, Longitude: -73.0},
			MaxDistanceKm: 25,
			Filters:       query.Filters{MinRating: 3},
			Sort:          repositories.SortNearest,
			PoolSize:      60,
		})

		require.Len(t, rungs, 2)
		assert.Equal(t, query.RungFull, rungs[0].Name)
		assert.True(t, rungs[0].Query.HasGeo())
		assert.Equal(t, 25.0, rungs[0].Query.MaxDistanceKm)
		assert.Equal(t, query.RungNoGeo, rungs[1].Name)
		assert.False(t, rungs[1].Query.HasGeo())
		// content filters survive the geo drop
		assert.Equal(t, 3.0, rungs[1].Query.MinRating)
	})

	t.Run("sentinel center is treated as no geo", func(t *testing.T) {
		rungs := query.BuildLadder(query.Input{
			Center:   &entities.GeoPoint{Latitude: 0, Longitude: 0},
			PoolSize: 60,
		})

		require.Len(t, rungs, 1)
		assert.False(t, rungs[0].Query.HasGeo())
	})

	t.Run("quality fallback adds a rung without the rating floor", func(t *testing.T) {
		rungs := query.BuildLadder(query.Input{
			Center:              &entities.GeoPoint{Latitude: 40.0, Longitude: -73.0},
			MaxDistanceKm:       10,
			Filters:             query.Filters{MinRating: 4},
			PoolSize:            60,
			WithQualityFallback: true,
		})

		require.Len(t, rungs, 3)
		assert.Equal(t, query.RungNoQuality, rungs[2].Name)
		assert.False(t, rungs[2].Query.HasGeo())
		assert.Zero(t, rungs[2].Query.MinRating)
	})

	t.Run("quality fallback is skipped when no threshold is set", func(t *testing.T) {
		rungs := query.BuildLadder(query.Input{
			PoolSize:            60,
			WithQualityFallback: true,
		})

		require.Len(t, rungs, 1)
	})
}

func TestRun(t *testing.T) {
	ctx := context.Background()

	t.Run("stops at first rung with results", func(t *testing.T) {
		store := &fakeStore{results: [][]*entities.Business{{business("a")}}}
		rungs := query.BuildLadder(query.Input{
			Center:        &entities.GeoPoint{Latitude: 40.0, Longitude: -73.0},
			MaxDistanceKm: 25,
			PoolSize:      60,
		})

		result, err := query.Run(ctx, store, rungs, 0)
		require.NoError(t, err)
		assert.Equal(t, query.RungFull, result.Rung)
		assert.Len(t, store.queries, 1)
	})

	t.Run("empty geo query triggers exactly one geo-free retry", func(t *testing.T) {
		store := &fakeStore{results: [][]*entities.Business{nil, {business("b")}}}
		rungs := query.BuildLadder(query.Input{
			Center:        &entities.GeoPoint{Latitude: 40.0, Longitude: -73.0},
			MaxDistanceKm: 25,
			PoolSize:      60,
		})

		result, err := query.Run(ctx, store, rungs, 0)
		require.NoError(t, err)
		assert.Equal(t, query.RungNoGeo, result.Rung)
		require.Len(t, store.queries, 2)
		assert.True(t, store.queries[0].HasGeo())
		assert.False(t, store.queries[1].HasGeo(), "failed geo clause must not be re-applied")
	})

	t.Run("returns the last rung even when empty", func(t *testing.T) {
		store := &fakeStore{}
		rungs := query.BuildLadder(query.Input{
			Center:        &entities.GeoPoint{Latitude: 40.0, Longitude: -73.0},
			MaxDistanceKm: 25,
			PoolSize:      60,
		})

		result, err := query.Run(ctx, store, rungs, 0)
		require.NoError(t, err)
		assert.Empty(t, result.Businesses)
		assert.Equal(t, query.RungNoGeo, result.Rung)
	})

	t.Run("store failure aborts the ladder", func(t *testing.T) {
		store := &fakeStore{err: assert.AnError}
		rungs := query.BuildLadder(query.Input{PoolSize: 60})

		_, err := query.Run(ctx, store, rungs, 0)
		assert.Error(t, err)
	})
}
