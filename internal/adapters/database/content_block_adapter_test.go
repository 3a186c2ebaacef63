package database

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/discoverly/discoverly/backend/internal/domain/entities"
	"github.com/discoverly/discoverly/backend/internal/infrastructure/clients/postgres"
)

func setupContentBlockAdapter(t *testing.T) (*ContentBlockAdapter, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	adapter := NewContentBlockAdapter(postgres.NewClientWithDB(db)).(*ContentBlockAdapter)
	return adapter, mock
}

func TestCountVisibleBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("counts page and business linked blocks", func(t *testing.T) {
		adapter, mock := setupContentBlockAdapter(t)

		mock.ExpectQuery(`SELECT "page_id", "business_id" FROM "content_blocks"`).
			WillReturnRows(sqlmock.NewRows([]string{"page_id", "business_id"}).
				AddRow("p2", "b2").
				AddRow("p2", "b2").
				AddRow("p2", "b2"))

		owner := entities.BlockOwner{PageID: "p2", BusinessID: "b2"}
		counts, err := adapter.CountVisibleBatch(ctx, []entities.BlockOwner{owner})

		require.NoError(t, err)
		assert.Equal(t, 3, counts[owner])
	})

	t.Run("block without a page link still counts for its business", func(t *testing.T) {
		adapter, mock := setupContentBlockAdapter(t)

		mock.ExpectQuery(`SELECT "page_id", "business_id" FROM "content_blocks"`).
			WillReturnRows(sqlmock.NewRows([]string{"page_id", "business_id"}).
				AddRow(nil, "b1"))

		owner := entities.BlockOwner{BusinessID: "b1"}
		counts, err := adapter.CountVisibleBatch(ctx, []entities.BlockOwner{owner})

		require.NoError(t, err)
		assert.Equal(t, 1, counts[owner])
	})

	t.Run("legacy rows do not fail owners with page links", func(t *testing.T) {
		adapter, mock := setupContentBlockAdapter(t)

		mock.ExpectQuery(`SELECT "page_id", "business_id" FROM "content_blocks"`).
			WillReturnRows(sqlmock.NewRows([]string{"page_id", "business_id"}).
				AddRow(nil, "b1").
				AddRow("p2", nil))

		legacy := entities.BlockOwner{BusinessID: "b1"}
		paged := entities.BlockOwner{PageID: "p2", BusinessID: "b2"}
		counts, err := adapter.CountVisibleBatch(ctx, []entities.BlockOwner{legacy, paged})

		require.NoError(t, err)
		assert.Equal(t, 1, counts[legacy])
		assert.Equal(t, 1, counts[paged])
	})

	t.Run("owners with no blocks get zero entries", func(t *testing.T) {
		adapter, mock := setupContentBlockAdapter(t)

		mock.ExpectQuery(`SELECT "page_id", "business_id" FROM "content_blocks"`).
			WillReturnRows(sqlmock.NewRows([]string{"page_id", "business_id"}))

		owner := entities.BlockOwner{BusinessID: "b9"}
		counts, err := adapter.CountVisibleBatch(ctx, []entities.BlockOwner{owner})

		require.NoError(t, err)
		assert.Equal(t, 0, counts[owner])
	})

	t.Run("no owners skips the query", func(t *testing.T) {
		adapter, _ := setupContentBlockAdapter(t)

		counts, err := adapter.CountVisibleBatch(ctx, nil)

		require.NoError(t, err)
		assert.Empty(t, counts)
	})
}
