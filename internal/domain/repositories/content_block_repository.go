package repositories

import (
	"context"

	"github.com/discoverly/discoverly/backend/internal/domain/entities"
)

// ContentBlockRepository counts the visible content widgets attached to
// businesses. Counting checks the page link first and the business id as a
// fallback for records that predate builder pages.
type ContentBlockRepository interface {
	// CountVisible returns the number of active, visible blocks for one owner
	CountVisible(ctx context.Context, owner entities.BlockOwner) (int, error)

	// CountVisibleBatch returns visible-block counts for a set of owners in
	// one round trip, keyed the same way the owners were passed
	CountVisibleBatch(ctx context.Context, owners []entities.BlockOwner) (map[entities.BlockOwner]int, error)
}
