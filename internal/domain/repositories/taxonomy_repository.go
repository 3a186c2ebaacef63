package repositories

import (
	"context"

	"github.com/discoverly/discoverly/backend/internal/domain/entities"
)

// TaxonomyRepository resolves free-text categories against the
// industry/sub-industry catalog
type TaxonomyRepository interface {
	// ResolveCategory matches a free-text category against taxonomy titles
	// (case-insensitive substring) and returns the matching identifiers.
	// An empty result is not an error; callers fall back to legacy
	// free-text industry matching.
	ResolveCategory(ctx context.Context, text string) ([]string, error)

	// GetByIDs retrieves catalog entries by identifier
	GetByIDs(ctx context.Context, ids []string) ([]*entities.Industry, error)
}
