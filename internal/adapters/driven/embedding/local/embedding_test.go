package local

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cosine(u, v []float32) float64 {
	var dot, nu, nv float64
	for i := range u {
		dot += float64(u[i]) * float64(v[i])
		nu += float64(u[i]) * float64(u[i])
		nv += float64(v[i]) * float64(v[i])
	}
	return dot / math.Sqrt(nu*nv)
}

func TestEmbed_Deterministic(t *testing.T) {
	s := NewEmbeddingService(0)

	a, err := s.Embed(context.Background(), "Access control policy.")
	require.NoError(t, err)
	b, err := s.Embed(context.Background(), "access CONTROL policy")
	require.NoError(t, err)

	assert.Len(t, a, DefaultDimensions)
	assert.Equal(t, a, b)
	assert.InDelta(t, 1.0, cosine(a, a), 1e-6)
}

func TestEmbed_SimilarTextScoresHigher(t *testing.T) {
	s := NewEmbeddingService(512)
	ctx := context.Background()

	base, _ := s.Embed(ctx, "The organization manages information system accounts.")
	near, _ := s.Embed(ctx, "Manage information system accounts for the organization.")
	far, _ := s.Embed(ctx, "Fire suppression systems are installed in data centers.")

	assert.Greater(t, cosine(base, near), cosine(base, far))
}

func TestEmbed_NoWordsIsZeroVector(t *testing.T) {
	s := NewEmbeddingService(8)

	v, err := s.Embed(context.Background(), " -- the of ")

	require.NoError(t, err)
	assert.Equal(t, make([]float32, 8), v)
}

func TestEmbedBatch(t *testing.T) {
	s := NewEmbeddingService(16)

	out, err := s.EmbedBatch(context.Background(), []string{"one", "two", "one"})

	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, out[0], out[2])
	assert.Equal(t, "hashed-bow-16", s.ModelName())
	assert.Equal(t, 16, s.Dimensions())
	assert.NoError(t, s.Ping(context.Background()))
	assert.NoError(t, s.Close())
}

func TestEmbedBatch_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewEmbeddingService(8).EmbedBatch(ctx, []string{"x"})

	assert.ErrorIs(t, err, context.Canceled)
}
