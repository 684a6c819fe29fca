// Package hosted adapts the hosted embedding APIs that chromem-go ships
// clients for (Mistral, Cohere, Jina) to driven.EmbeddingService.
package hosted

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	chromem "github.com/philippgille/chromem-go"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/catmatch/internal/core/domain"
	"github.com/custodia-labs/catmatch/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default tunables.
const (
	DefaultRequestsPerSecond = 5
	DefaultConcurrency       = 4

	// MistralModel is the only model the Mistral embedding client calls.
	MistralModel = "mistral-embed"
)

// Config holds configuration for a hosted embedding service.
type Config struct {
	// Provider selects the API: mistral, cohere, or jina.
	Provider domain.AIProvider

	// APIKey authenticates with the provider (required).
	APIKey string

	// Model is the embedding model. Mistral accepts only MistralModel.
	Model string

	// Dimensions is the vector size reported to callers.
	Dimensions int

	// RequestsPerSecond throttles calls (default: 5). Negative disables throttling.
	RequestsPerSecond float64

	// Concurrency bounds in-flight requests (default: 4).
	Concurrency int
}

// EmbeddingService embeds texts one request each through a chromem-go
// embedding function, fanning out over a bounded worker group.
type EmbeddingService struct {
	fn          chromem.EmbeddingFunc
	name        string
	model       string
	dimensions  int
	limiter     *rate.Limiter
	concurrency int
}

// NewEmbeddingService creates the chromem-go client for the configured provider.
func NewEmbeddingService(cfg Config) (*EmbeddingService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s: API key is required", cfg.Provider)
	}
	if cfg.Model == "" {
		cfg.Model = domain.DefaultEmbeddingModels()[cfg.Provider]
	}

	var fn chromem.EmbeddingFunc
	switch cfg.Provider {
	case domain.AIProviderMistral:
		if cfg.Model != MistralModel {
			return nil, fmt.Errorf("%w: mistral only serves %s, got model %q",
				domain.ErrInvalidInput, MistralModel, cfg.Model)
		}
		fn = chromem.NewEmbeddingFuncMistral(cfg.APIKey)
	case domain.AIProviderCohere:
		fn = chromem.NewEmbeddingFuncCohere(cfg.APIKey, chromem.EmbeddingModelCohere(cfg.Model))
	case domain.AIProviderJina:
		fn = chromem.NewEmbeddingFuncJina(cfg.APIKey, chromem.EmbeddingModelJina(cfg.Model))
	default:
		return nil, fmt.Errorf("%w: %s is not a hosted embedding provider", domain.ErrUnsupportedType, cfg.Provider)
	}

	return NewWithFunc(cfg, fn), nil
}

// NewWithFunc wraps an arbitrary chromem-go embedding function.
func NewWithFunc(cfg Config, fn chromem.EmbeddingFunc) *EmbeddingService {
	if cfg.Dimensions == 0 {
		cfg.Dimensions = domain.EmbeddingDimensions()[cfg.Model]
	}
	if cfg.RequestsPerSecond == 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = min(DefaultConcurrency, runtime.GOMAXPROCS(0))
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Concurrency)
	}

	name := cfg.Provider.String()
	if name == "" {
		name = "hosted"
	}

	return &EmbeddingService{
		fn:          fn,
		name:        name,
		model:       cfg.Model,
		dimensions:  cfg.Dimensions,
		limiter:     limiter,
		concurrency: cfg.Concurrency,
	}
}

// Embed generates a vector embedding for the given text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", s.name, err)
	}
	v, err := s.fn(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.name, err)
	}
	if len(v) == 0 {
		return nil, fmt.Errorf("%s: empty embedding returned", s.name)
	}
	return v, nil
}

// EmbedBatch embeds every text concurrently. Results are in input order.
// The first failure cancels the remaining requests.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, text := range texts {
		g.Go(func() error {
			v, err := s.Embed(gctx, text)
			if err != nil {
				return fmt.Errorf("embed text %d: %w", i, err)
			}
			out[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping embeds a probe string. The hosted APIs have no cheaper health check.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	_, err := s.Embed(ctx, "ping")
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: ping timed out: %w", s.name, err)
	}
	return err
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}
