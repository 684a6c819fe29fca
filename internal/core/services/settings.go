package services

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/custodia-labs/catmatch/internal/core/domain"
	"github.com/custodia-labs/catmatch/internal/core/ports/driven"
	"github.com/custodia-labs/catmatch/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeyEmbedProvider   = "embedding.provider"
	KeyEmbedModel      = "embedding.model"
	KeyEmbedBaseURL    = "embedding.base_url"
	KeyEmbedAPIKey     = "embedding.api_key"
	KeyEmbedDimensions = "embedding.dimensions"
	KeyMatchThreshold  = "match.threshold"
	KeyMatchTopK       = "match.top_k"
	KeyCacheEnabled    = "cache.enabled"
	KeyCacheDir        = "cache.dir"
	KeyGitHubToken     = "github.token"
)

// Environment variables that override stored secrets.
//
//nolint:gosec // G101: variable names, not credentials.
const (
	EnvEmbedAPIKey = "CATMATCH_EMBEDDING_API_KEY"
	EnvGitHubToken = "CATMATCH_GITHUB_TOKEN"
)

// settingKeys lists the keys accepted by Set, in display order.
var settingKeys = []string{
	KeyEmbedProvider,
	KeyEmbedModel,
	KeyEmbedBaseURL,
	KeyEmbedAPIKey,
	KeyEmbedDimensions,
	KeyMatchThreshold,
	KeyMatchTopK,
	KeyCacheEnabled,
	KeyCacheDir,
	KeyGitHubToken,
}

type storedValue struct {
	key   string
	value any
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
// The aiValidator is optional; without it CheckEmbedding is a no-op.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		getenv:      os.Getenv,
	}
}

// SetEnvLookup replaces the environment lookup used for secret overrides.
func (s *SettingsService) SetEnvLookup(getenv func(string) string) {
	s.getenv = getenv
}

// Get retrieves current application settings.
// Secrets found in the environment take precedence over stored values.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	provider := s.getProvider(KeyEmbedProvider, defaults.Embedding.Provider)
	model := s.configStore.GetString(KeyEmbedModel)
	if model == "" {
		model = domain.DefaultEmbeddingModels()[provider]
	}

	settings := &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider:   provider,
			Model:      model,
			BaseURL:    s.configStore.GetString(KeyEmbedBaseURL),
			APIKey:     s.getSecret(KeyEmbedAPIKey, EnvEmbedAPIKey),
			Dimensions: s.configStore.GetInt(KeyEmbedDimensions),
		},
		Match: domain.MatchOptions{
			TopK:      s.getInt(KeyMatchTopK, defaults.Match.TopK),
			Threshold: s.getFloat(KeyMatchThreshold, defaults.Match.Threshold),
		},
		Cache: domain.CacheSettings{
			Enabled: s.getBool(KeyCacheEnabled, defaults.Cache.Enabled),
			Dir:     s.configStore.GetString(KeyCacheDir),
		},
		GitHub: domain.GitHubSettings{
			Token: s.getSecret(KeyGitHubToken, EnvGitHubToken),
		},
	}

	return settings, nil
}

// Save persists application settings.
// Empty secrets are not written so an existing stored value survives.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []storedValue{
		{KeyEmbedProvider, settings.Embedding.Provider.String()},
		{KeyEmbedModel, settings.Embedding.Model},
		{KeyEmbedBaseURL, settings.Embedding.BaseURL},
		{KeyEmbedDimensions, settings.Embedding.Dimensions},
		{KeyMatchThreshold, settings.Match.Threshold},
		{KeyMatchTopK, settings.Match.TopK},
		{KeyCacheEnabled, settings.Cache.Enabled},
		{KeyCacheDir, settings.Cache.Dir},
	}
	if settings.Embedding.APIKey != "" {
		values = append(values, storedValue{KeyEmbedAPIKey, settings.Embedding.APIKey})
	}
	if settings.GitHub.Token != "" {
		values = append(values, storedValue{KeyGitHubToken, settings.GitHub.Token})
	}

	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// Set parses and stores a single setting.
func (s *SettingsService) Set(key, value string) error {
	value = strings.TrimSpace(value)

	var parsed any
	switch key {
	case KeyEmbedProvider:
		provider := domain.AIProvider(strings.ToLower(value))
		if !provider.IsValid() {
			return fmt.Errorf("%w: unknown embedding provider %q", domain.ErrInvalidInput, value)
		}
		parsed = provider.String()
	case KeyEmbedModel, KeyEmbedBaseURL, KeyEmbedAPIKey, KeyCacheDir, KeyGitHubToken:
		parsed = value
	case KeyEmbedDimensions:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: %s must be a non-negative integer", domain.ErrInvalidInput, key)
		}
		parsed = n
	case KeyMatchTopK:
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return fmt.Errorf("%w: %s must be an integer of at least 1", domain.ErrInvalidInput, key)
		}
		parsed = n
	case KeyMatchThreshold:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%w: %s must be a number", domain.ErrInvalidInput, key)
		}
		if err := ValidateMatchOptions(domain.MatchOptions{TopK: 1, Threshold: f}); err != nil {
			return fmt.Errorf("%w: %s must be within [-1, 1]", domain.ErrInvalidInput, key)
		}
		parsed = f
	case KeyCacheEnabled:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be true or false", domain.ErrInvalidInput, key)
		}
		parsed = b
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys returns every settable key.
func (s *SettingsService) Keys() []string {
	return append([]string(nil), settingKeys...)
}

// Validate checks that current settings can run a comparison.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if !settings.Embedding.Provider.IsValid() {
		return fmt.Errorf("invalid embedding provider: %s", settings.Embedding.Provider)
	}
	if !settings.Embedding.IsConfigured() {
		return fmt.Errorf("%w: %s requires an API key (set %s or %s)",
			domain.ErrEmbeddingUnavailable, settings.Embedding.Provider, KeyEmbedAPIKey, EnvEmbedAPIKey)
	}
	if err := ValidateMatchOptions(settings.Match); err != nil {
		return err
	}
	return nil
}

// CheckEmbedding pings the configured embedding provider.
func (s *SettingsService) CheckEmbedding() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ConfigPath returns where settings are persisted.
func (s *SettingsService) ConfigPath() string {
	return s.configStore.Path()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getSecret(key, env string) string {
	if v := s.getenv(env); v != "" {
		return v
	}
	return s.configStore.GetString(key)
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}
