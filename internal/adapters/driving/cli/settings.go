package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/catmatch/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the embedding provider, match defaults, the embedding
cache, and GitHub access.

Settings are stored in config.toml inside the configuration directory.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Change a setting",
	Long:  "Change a single setting. Valid keys:\n\n" + settingKeysHelp(),
	Example: `  catmatch settings set embedding.provider openai
  catmatch settings set embedding.api_key sk-...
  catmatch settings set match.threshold 0.7`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the embedding provider is reachable",
	RunE:  runSettingsCheck,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsCheckCmd)
	rootCmd.AddCommand(settingsCmd)
}

func settingKeysHelp() string {
	keys := []string{
		"embedding.provider    " + providerList(),
		"embedding.model       model name (provider default when empty)",
		"embedding.base_url    API endpoint for ollama or OpenAI-compatible servers",
		"embedding.api_key     API key for cloud providers",
		"embedding.dimensions  vector size override (0 = model default)",
		"match.threshold       default minimum score, in [-1, 1]",
		"match.top_k           default matches per control part",
		"cache.enabled         true or false",
		"cache.dir             embedding cache directory",
		"github.token          token for github: catalog references",
	}
	return "  " + strings.Join(keys, "\n  ")
}

func providerList() string {
	providers := domain.AllEmbeddingProviders()
	names := make([]string, len(providers))
	for i, p := range providers {
		names[i] = p.String()
	}
	return strings.Join(names, "|")
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNotConfigured("settings")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Embedding]")
	cmd.Printf("  Provider: %s\n", settings.Embedding.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.Embedding.Model)
	if settings.Embedding.BaseURL != "" || settings.Embedding.Provider.IsLocal() {
		baseURL := settings.Embedding.BaseURL
		if baseURL == "" {
			baseURL = "(default)"
		}
		cmd.Printf("  Base URL: %s\n", baseURL)
	}
	if settings.Embedding.Dimensions > 0 {
		cmd.Printf("  Dimensions: %d\n", settings.Embedding.Dimensions)
	}
	if settings.Embedding.Provider.RequiresAPIKey() {
		if settings.Embedding.APIKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(settings.Embedding.APIKey))
		} else {
			cmd.Printf("  API Key: (not set)\n")
		}
	}
	status := "configured"
	if !settings.Embedding.IsConfigured() {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
	cmd.Println()

	cmd.Println("[Match]")
	cmd.Printf("  Threshold: %s\n", formatThreshold(settings.Match.Threshold))
	cmd.Printf("  Top K: %d\n", settings.Match.TopK)
	cmd.Println()

	cmd.Println("[Cache]")
	if settings.Cache.Enabled {
		cmd.Printf("  Enabled: yes\n")
	} else {
		cmd.Printf("  Enabled: no\n")
	}
	if settings.Cache.Dir != "" {
		cmd.Printf("  Directory: %s\n", settings.Cache.Dir)
	}
	cmd.Println()

	cmd.Println("[GitHub]")
	if settings.GitHub.Token != "" {
		cmd.Printf("  Token: %s\n", maskAPIKey(settings.GitHub.Token))
	} else {
		cmd.Printf("  Token: (not set, anonymous access)\n")
	}
	cmd.Println()

	cmd.Printf("Config file: %s\n", settingsService.ConfigPath())

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'catmatch settings set KEY VALUE' to fix configuration issues.")
	} else {
		cmd.Println("Settings are valid.")
	}

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errNotConfigured("settings")
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	shown := value
	if strings.HasSuffix(key, "api_key") || strings.HasSuffix(key, "token") {
		shown = maskAPIKey(value)
	}
	cmd.Printf("Set %s = %s\n", key, shown)
	return nil
}

func runSettingsCheck(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNotConfigured("settings")
	}

	if err := settingsService.Validate(); err != nil {
		return fmt.Errorf("settings invalid: %w", err)
	}
	if err := settingsService.CheckEmbedding(); err != nil {
		return fmt.Errorf("embedding provider check failed: %w", err)
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	cmd.Printf("Embedding provider %s is reachable (model %s).\n",
		settings.Embedding.Provider, settings.Embedding.Model)
	return nil
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
