package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/custodia-labs/catmatch/internal/core/domain"
	"github.com/custodia-labs/catmatch/internal/core/ports/driven"
	"github.com/custodia-labs/catmatch/internal/logger"
)

// embedBatchSize bounds the number of texts sent in one EmbedBatch call.
const embedBatchSize = 64

// TextDigest returns the cache key for a text.
func TextDigest(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// vectorizer turns record texts into embeddings, consulting the cache first.
type vectorizer struct {
	embedder driven.EmbeddingService
	cache    driven.EmbeddingCache // optional
	cacheKey string

	// dims is the expected vector size. Zero accepts any cached size.
	dims int
}

// embed returns one vector per text, index-aligned with texts.
// Duplicate texts are embedded once.
func (v *vectorizer) embed(ctx context.Context, texts []string) ([][]float32, error) {
	if v.embedder == nil {
		return nil, fmt.Errorf("%w: no embedding provider configured", domain.ErrEmbeddingUnavailable)
	}

	digests := make([]string, len(texts))
	unique := make([]string, 0, len(texts))
	uniqueText := make(map[string]string, len(texts))
	for i, t := range texts {
		d := TextDigest(t)
		digests[i] = d
		if _, seen := uniqueText[d]; !seen {
			uniqueText[d] = t
			unique = append(unique, d)
		}
	}

	vectors := make(map[string][]float32, len(unique))
	if v.cache != nil {
		cached, err := v.cache.GetMany(ctx, v.cacheKey, unique)
		if err != nil {
			// A broken cache only costs a re-embed.
			logger.Warn("Embedding cache lookup failed: %v", err)
		} else {
			for d, vec := range cached {
				if v.dims > 0 && len(vec) != v.dims {
					continue
				}
				vectors[d] = vec
			}
		}
	}

	missing := make([]string, 0, len(unique))
	for _, d := range unique {
		if _, ok := vectors[d]; !ok {
			missing = append(missing, d)
		}
	}
	logger.Debug("Embedding %d texts: %d unique, %d cached, %d to embed",
		len(texts), len(unique), len(unique)-len(missing), len(missing))

	fresh := make(map[string][]float32, len(missing))
	for start := 0; start < len(missing); start += embedBatchSize {
		end := min(start+embedBatchSize, len(missing))
		batch := make([]string, 0, end-start)
		for _, d := range missing[start:end] {
			batch = append(batch, uniqueText[d])
		}

		out, err := v.embedder.EmbedBatch(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
		}
		if len(out) != len(batch) {
			return nil, fmt.Errorf("%w: requested %d embeddings, received %d",
				domain.ErrEmbeddingUnavailable, len(batch), len(out))
		}
		for i, d := range missing[start:end] {
			fresh[d] = out[i]
			vectors[d] = out[i]
		}
	}

	if v.cache != nil && len(fresh) > 0 {
		if err := v.cache.PutMany(ctx, v.cacheKey, fresh); err != nil {
			logger.Warn("Embedding cache write failed: %v", err)
		}
	}

	result := make([][]float32, len(texts))
	for i, d := range digests {
		result[i] = vectors[d]
	}
	return result, nil
}
