package driven

import (
	"context"

	"github.com/custodia-labs/catmatch/internal/core/domain"
)

// EmbeddingCache persists vectors keyed by embedding model and text digest.
// Vectors from different models are never mixed.
type EmbeddingCache interface {
	// GetMany returns the cached vectors for the given digests.
	// Digests without an entry are absent from the result.
	GetMany(ctx context.Context, model string, digests []string) (map[string][]float32, error)

	// PutMany stores vectors keyed by digest, replacing existing entries.
	PutMany(ctx context.Context, model string, vectors map[string][]float32) error

	// Stats summarises the cache contents.
	Stats(ctx context.Context) (domain.CacheStats, error)

	// Clear removes every entry.
	Clear(ctx context.Context) error

	// Close releases resources.
	Close() error
}
