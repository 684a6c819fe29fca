package cli

import (
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:         "cache",
	Short:       "Inspect or clear the embedding cache",
	Annotations: map[string]string{annotationCacheAdmin: "true"},
	RunE:        runCacheStats,
}

var cacheStatsCmd = &cobra.Command{
	Use:         "stats",
	Short:       "Show how many embeddings are cached",
	Annotations: map[string]string{annotationCacheAdmin: "true"},
	RunE:        runCacheStats,
}

var cacheClearCmd = &cobra.Command{
	Use:         "clear",
	Short:       "Remove every cached embedding",
	Annotations: map[string]string{annotationCacheAdmin: "true"},
	RunE:        runCacheClear,
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheStats(cmd *cobra.Command, _ []string) error {
	if cacheService == nil {
		return errNotConfigured("cache")
	}

	stats, err := cacheService.Stats(cmd.Context())
	if err != nil {
		return err
	}

	cmd.Printf("Entries: %d\n", stats.Entries)
	if len(stats.Models) > 0 {
		cmd.Printf("Models: %s\n", strings.Join(stats.Models, ", "))
	}
	if !stats.OldestAt.IsZero() {
		cmd.Printf("Oldest entry: %s\n", stats.OldestAt.UTC().Format(time.RFC3339))
	}
	return nil
}

func runCacheClear(cmd *cobra.Command, _ []string) error {
	if cacheService == nil {
		return errNotConfigured("cache")
	}

	if err := cacheService.Clear(cmd.Context()); err != nil {
		return err
	}
	cmd.Println("Embedding cache cleared.")
	return nil
}
