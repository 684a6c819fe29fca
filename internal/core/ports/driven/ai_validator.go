package driven

import "github.com/custodia-labs/catmatch/internal/core/domain"

// AIConfigValidator validates embedding provider configurations.
// Implementations verify the configuration by testing connectivity to the
// underlying service.
type AIConfigValidator interface {
	// ValidateEmbedding builds the configured embedder and pings it.
	ValidateEmbedding(config *domain.EmbeddingSettings) error
}
