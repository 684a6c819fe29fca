package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/custodia-labs/catmatch/internal/core/domain"
	"github.com/custodia-labs/catmatch/internal/core/ports/driven"
)

// Ensure EmbeddingCache implements the interface.
var _ driven.EmbeddingCache = (*EmbeddingCache)(nil)

type cacheEntry struct {
	vector  []float32
	written time.Time
}

// EmbeddingCache keeps vectors in process memory for the life of a run.
type EmbeddingCache struct {
	mu      sync.RWMutex
	entries map[string]map[string]cacheEntry // model -> digest -> entry
	now     func() time.Time
}

// NewEmbeddingCache creates an empty in-memory embedding cache.
func NewEmbeddingCache() *EmbeddingCache {
	return &EmbeddingCache{
		entries: make(map[string]map[string]cacheEntry),
		now:     time.Now,
	}
}

// GetMany returns copies of the cached vectors for the given digests.
func (c *EmbeddingCache) GetMany(_ context.Context, model string, digests []string) (map[string][]float32, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	found := make(map[string][]float32)
	byDigest := c.entries[model]
	for _, d := range digests {
		if e, ok := byDigest[d]; ok {
			found[d] = slices.Clone(e.vector)
		}
	}
	return found, nil
}

// PutMany stores copies of the vectors.
func (c *EmbeddingCache) PutMany(_ context.Context, model string, vectors map[string][]float32) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	byDigest, ok := c.entries[model]
	if !ok {
		byDigest = make(map[string]cacheEntry, len(vectors))
		c.entries[model] = byDigest
	}
	now := c.now()
	for d, v := range vectors {
		byDigest[d] = cacheEntry{vector: slices.Clone(v), written: now}
	}
	return nil
}

// Stats summarises the cache contents.
func (c *EmbeddingCache) Stats(_ context.Context) (domain.CacheStats, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var stats domain.CacheStats
	for model, byDigest := range c.entries {
		if len(byDigest) == 0 {
			continue
		}
		stats.Models = append(stats.Models, model)
		stats.Entries += len(byDigest)
		for _, e := range byDigest {
			if stats.OldestAt.IsZero() || e.written.Before(stats.OldestAt) {
				stats.OldestAt = e.written
			}
		}
	}
	slices.Sort(stats.Models)
	return stats, nil
}

// Clear removes every entry.
func (c *EmbeddingCache) Clear(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]map[string]cacheEntry)
	return nil
}

// Close is a no-op.
func (c *EmbeddingCache) Close() error {
	return nil
}
