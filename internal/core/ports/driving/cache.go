package driving

import (
	"context"

	"github.com/custodia-labs/catmatch/internal/core/domain"
)

// CacheService inspects and clears the embedding cache.
type CacheService interface {
	// Stats summarises the cache contents.
	Stats(ctx context.Context) (domain.CacheStats, error)

	// Clear removes every cached vector.
	Clear(ctx context.Context) error
}
