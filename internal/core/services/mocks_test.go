package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/custodia-labs/catmatch/internal/core/domain"
	"github.com/custodia-labs/catmatch/internal/core/ports/driven"
)

var errMockUnreachable = errors.New("connection refused")

// mockLoader serves catalogs from a map keyed by reference.
type mockLoader struct {
	catalogs map[string]*domain.Catalog
	err      error
}

var _ driven.CatalogLoader = (*mockLoader)(nil)

func (m *mockLoader) Load(_ context.Context, ref string) (*domain.Catalog, error) {
	if m.err != nil {
		return nil, m.err
	}
	c, ok := m.catalogs[ref]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

// mockEmbedder maps texts to vectors by keyword, so tests can reason about
// which records should match.
type mockEmbedder struct {
	mu        sync.Mutex
	keywords  []string
	err       error
	short     bool
	batches   [][]string
	modelName string
}

var _ driven.EmbeddingService = (*mockEmbedder)(nil)

func newMockEmbedder(keywords ...string) *mockEmbedder {
	return &mockEmbedder{keywords: keywords, modelName: "mock-model"}
}

func (m *mockEmbedder) vector(text string) []float32 {
	lower := strings.ToLower(text)
	v := make([]float32, len(m.keywords)+1)
	for i, k := range m.keywords {
		if strings.Contains(lower, k) {
			v[i] = 1
		}
	}
	v[len(m.keywords)] = 0.01
	return v
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	out, err := m.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.batches = append(m.batches, append([]string(nil), texts...))
	out := make([][]float32, 0, len(texts))
	for _, t := range texts {
		out = append(out, m.vector(t))
	}
	if m.short && len(out) > 0 {
		out = out[:len(out)-1]
	}
	return out, nil
}

func (m *mockEmbedder) embedded() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, b := range m.batches {
		n += len(b)
	}
	return n
}

func (m *mockEmbedder) Dimensions() int               { return len(m.keywords) + 1 }
func (m *mockEmbedder) ModelName() string             { return m.modelName }
func (m *mockEmbedder) Ping(_ context.Context) error { return m.err }
func (m *mockEmbedder) Close() error                  { return nil }

// failingCache reports errors from every call.
type failingCache struct{}

var _ driven.EmbeddingCache = failingCache{}

func (failingCache) GetMany(context.Context, string, []string) (map[string][]float32, error) {
	return nil, errors.New("disk I/O error")
}

func (failingCache) PutMany(context.Context, string, map[string][]float32) error {
	return errors.New("disk I/O error")
}

func (failingCache) Stats(context.Context) (domain.CacheStats, error) {
	return domain.CacheStats{}, errors.New("disk I/O error")
}

func (failingCache) Clear(context.Context) error { return errors.New("disk I/O error") }
func (failingCache) Close() error                { return nil }
