package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/catmatch/internal/core/domain"
	"github.com/custodia-labs/catmatch/internal/core/ports/driven"
	"github.com/custodia-labs/catmatch/internal/core/ports/driving"
)

// Ensure CacheService implements the interface.
var _ driving.CacheService = (*CacheService)(nil)

// CacheService inspects and clears the embedding cache.
type CacheService struct {
	cache driven.EmbeddingCache
}

// NewCacheService creates a cache service. A nil cache reports
// domain.ErrCacheUnavailable from every call.
func NewCacheService(cache driven.EmbeddingCache) *CacheService {
	return &CacheService{cache: cache}
}

// Stats summarises the cache contents.
func (s *CacheService) Stats(ctx context.Context) (domain.CacheStats, error) {
	if s.cache == nil {
		return domain.CacheStats{}, domain.ErrCacheUnavailable
	}
	stats, err := s.cache.Stats(ctx)
	if err != nil {
		return domain.CacheStats{}, fmt.Errorf("cache stats: %w", err)
	}
	return stats, nil
}

// Clear removes every cached vector.
func (s *CacheService) Clear(ctx context.Context) error {
	if s.cache == nil {
		return domain.ErrCacheUnavailable
	}
	if err := s.cache.Clear(ctx); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	return nil
}
