package driving

import "github.com/custodia-labs/catmatch/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// Set updates a single setting by key, validating the value.
	Set(key, value string) error

	// Keys returns every settable key.
	Keys() []string

	// Validate checks that current settings can run a comparison.
	Validate() error

	// CheckEmbedding pings the configured embedding provider.
	CheckEmbedding() error

	// ConfigPath returns where settings are persisted.
	ConfigPath() string
}
