package domain

const unknownDescription = "Unknown"

// AIProvider identifies an embedding service provider.
type AIProvider string

// Available embedding providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI cloud API (or a compatible endpoint).
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderGemini is the Google Generative AI API.
	AIProviderGemini AIProvider = "gemini"

	// AIProviderMistral is the Mistral cloud API.
	AIProviderMistral AIProvider = "mistral"

	// AIProviderCohere is the Cohere cloud API.
	AIProviderCohere AIProvider = "cohere"

	// AIProviderJina is the Jina AI cloud API.
	AIProviderJina AIProvider = "jina"

	// AIProviderLocal is the built-in hashed bag-of-words embedder.
	// It needs no network and is fully deterministic.
	AIProviderLocal AIProvider = "local"
)

// IsValid returns true if the provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderGemini,
		AIProviderMistral, AIProviderCohere, AIProviderJina, AIProviderLocal:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	switch p {
	case AIProviderOpenAI, AIProviderGemini, AIProviderMistral, AIProviderCohere, AIProviderJina:
		return true
	default:
		return false
	}
}

// IsLocal returns true if this provider runs on the local machine.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama || p == AIProviderLocal
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderGemini:
		return "Gemini (cloud)"
	case AIProviderMistral:
		return "Mistral (cloud)"
	case AIProviderCohere:
		return "Cohere (cloud)"
	case AIProviderJina:
		return "Jina AI (cloud)"
	case AIProviderLocal:
		return "Built-in hashed bag-of-words (offline)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama or OpenAI-compatible servers).
	BaseURL string

	// APIKey is the API key for cloud providers.
	APIKey string

	// Dimensions overrides the model's vector size where supported.
	Dimensions int
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// CacheSettings holds embedding cache configuration.
type CacheSettings struct {
	// Enabled turns the persistent embedding cache on.
	Enabled bool

	// Dir is the directory holding the cache database.
	// Empty means the default data directory.
	Dir string
}

// GitHubSettings holds credentials for loading catalogs from GitHub.
type GitHubSettings struct {
	// Token is a personal access token. Optional for public repositories.
	Token string
}

// AppSettings holds all application settings.
type AppSettings struct {
	Embedding EmbeddingSettings
	Match     MatchOptions
	Cache     CacheSettings
	GitHub    GitHubSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// The default embedder is a local Ollama serving all-minilm.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Embedding: EmbeddingSettings{
			Provider: AIProviderOllama,
			Model:    DefaultEmbeddingModels()[AIProviderOllama],
		},
		Match: DefaultMatchOptions(),
		Cache: CacheSettings{
			Enabled: true,
		},
	}
}

// AllEmbeddingProviders returns every provider that supports embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderGemini,
		AIProviderMistral,
		AIProviderCohere,
		AIProviderJina,
		AIProviderLocal,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:  "all-minilm",
		AIProviderOpenAI:  "text-embedding-3-small",
		AIProviderGemini:  "text-embedding-004",
		AIProviderMistral: "mistral-embed",
		AIProviderCohere:  "embed-english-v3.0",
		AIProviderJina:    "jina-embeddings-v2-base-en",
		AIProviderLocal:   "hashed-bow-256",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
		// Gemini
		"text-embedding-004": 768,
		// Mistral
		"mistral-embed": 1024,
		// Cohere
		"embed-english-v3.0":       1024,
		"embed-multilingual-v3.0":  1024,
		"embed-english-light-v3.0": 384,
		// Jina
		"jina-embeddings-v2-base-en": 768,
		// Built-in
		"hashed-bow-256": 256,
	}
}
