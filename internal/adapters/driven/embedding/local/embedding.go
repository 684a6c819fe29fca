// Package local provides a deterministic, offline embedding service.
//
// Texts are tokenised into lowercase words; each word and adjacent word pair
// is hashed into a fixed number of buckets with a signed contribution, the
// counts are log-scaled, and the vector is L2-normalised. Similar wording
// yields similar vectors, which is enough for smoke tests and air-gapped runs.
package local

import (
	"context"
	"hash/fnv"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/custodia-labs/catmatch/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// DefaultDimensions is the default bucket count.
const DefaultDimensions = 256

var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {},
	"by": {}, "for": {}, "from": {}, "in": {}, "is": {}, "it": {}, "of": {},
	"on": {}, "or": {}, "that": {}, "the": {}, "to": {}, "with": {},
}

// EmbeddingService implements hashed bag-of-words embeddings.
type EmbeddingService struct {
	dimensions int
}

// NewEmbeddingService creates a local embedder with the given bucket count.
// Zero or negative dimensions select DefaultDimensions.
func NewEmbeddingService(dimensions int) *EmbeddingService {
	if dimensions <= 0 {
		dimensions = DefaultDimensions
	}
	return &EmbeddingService{dimensions: dimensions}
}

// Embed returns the hashed vector for text. Text with no words yields the
// zero vector.
func (s *EmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	counts := make([]float64, s.dimensions)

	words := tokenize(text)
	for i, w := range words {
		s.add(counts, w, 1)
		if i > 0 {
			s.add(counts, words[i-1]+" "+w, 0.5)
		}
	}

	var norm float64
	for i, c := range counts {
		if c != 0 {
			scaled := math.Copysign(1+math.Log(math.Abs(c)+1)-math.Log(2), c)
			counts[i] = scaled
			norm += scaled * scaled
		}
	}

	vec := make([]float32, s.dimensions)
	if norm == 0 {
		return vec, nil
	}
	norm = math.Sqrt(norm)
	for i, c := range counts {
		vec[i] = float32(c / norm)
	}
	return vec, nil
}

func (s *EmbeddingService) add(counts []float64, token string, weight float64) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(token))
	sum := h.Sum64()
	bucket := int(sum % uint64(s.dimensions))
	if sum>>63 == 1 {
		weight = -weight
	}
	counts[bucket] += weight
}

func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	words := fields[:0]
	for _, f := range fields {
		if _, stop := stopWords[f]; stop {
			continue
		}
		words = append(words, f)
	}
	return words
}

// EmbedBatch embeds every text. Results are in input order.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[i], _ = s.Embed(ctx, t)
	}
	return out, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName identifies the hashing scheme and size.
func (s *EmbeddingService) ModelName() string {
	return "hashed-bow-" + strconv.Itoa(s.dimensions)
}

// Ping always succeeds.
func (s *EmbeddingService) Ping(_ context.Context) error {
	return nil
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}
