// Package ai provides factory functions for creating embedding service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/catmatch/internal/adapters/driven/embedding/gemini"
	"github.com/custodia-labs/catmatch/internal/adapters/driven/embedding/hosted"
	"github.com/custodia-labs/catmatch/internal/adapters/driven/embedding/local"
	ollamaembed "github.com/custodia-labs/catmatch/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/catmatch/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/catmatch/internal/core/domain"
	"github.com/custodia-labs/catmatch/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 10 * time.Second

// CreateAndValidateEmbeddingService creates an embedding service and validates connectivity.
// Unlike CreateEmbeddingService, an unconfigured provider is an error, since
// a comparison cannot run without vectors.
func CreateAndValidateEmbeddingService(
	ctx context.Context, settings *domain.EmbeddingSettings,
) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		provider := domain.AIProvider("")
		if settings != nil {
			provider = settings.Provider
		}
		return nil, fmt.Errorf("%w: provider %q is not configured. Run 'catmatch settings set embedding.api_key KEY' "+
			"or 'catmatch settings set embedding.provider local'", domain.ErrEmbeddingUnavailable, provider)
	}

	svc, err := CreateEmbeddingService(ctx, settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := svc.Ping(pingCtx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: %s unreachable (%w). Check 'catmatch settings show'",
			domain.ErrEmbeddingUnavailable, settings.Provider, err)
	}

	return svc, nil
}

// ValidateEmbeddingConfig validates an embedding configuration by creating a service and pinging it.
func ValidateEmbeddingConfig(ctx context.Context, settings *domain.EmbeddingSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}

	svc, err := CreateEmbeddingService(ctx, settings)
	if err != nil {
		return err
	}
	if svc == nil {
		return nil
	}
	defer svc.Close()

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return svc.Ping(pingCtx)
}

// CreateEmbeddingService creates the appropriate embedding service based on settings.
// Returns nil if the provider is not configured.
func CreateEmbeddingService(ctx context.Context, settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return createOllamaEmbedding(settings), nil

	case domain.AIProviderOpenAI:
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     settings.APIKey,
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: settings.Dimensions,
		})

	case domain.AIProviderGemini:
		return gemini.NewEmbeddingService(ctx, gemini.Config{
			APIKey:     settings.APIKey,
			Model:      settings.Model,
			Dimensions: dimensionsFor(settings),
		})

	case domain.AIProviderMistral, domain.AIProviderCohere, domain.AIProviderJina:
		return hosted.NewEmbeddingService(hosted.Config{
			Provider:   settings.Provider,
			APIKey:     settings.APIKey,
			Model:      settings.Model,
			Dimensions: dimensionsFor(settings),
		})

	case domain.AIProviderLocal:
		return local.NewEmbeddingService(dimensionsFor(settings)), nil

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}
}

// createOllamaEmbedding creates an Ollama embedding service.
func createOllamaEmbedding(settings *domain.EmbeddingSettings) driven.EmbeddingService {
	dimensions := dimensionsFor(settings)
	if dimensions == 0 {
		dimensions = ollamaembed.DefaultDimensions
	}

	return ollamaembed.NewEmbeddingService(ollamaembed.Config{
		BaseURL:    settings.BaseURL,
		Model:      settings.Model,
		Dimensions: dimensions,
	})
}

// dimensionsFor returns the configured override or the known size of the model.
func dimensionsFor(settings *domain.EmbeddingSettings) int {
	if settings.Dimensions > 0 {
		return settings.Dimensions
	}
	return domain.EmbeddingDimensions()[settings.Model]
}
