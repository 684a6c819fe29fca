package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/catmatch/internal/adapters/driven/ai"
	"github.com/custodia-labs/catmatch/internal/adapters/driven/catalog"
	"github.com/custodia-labs/catmatch/internal/adapters/driven/catalog/file"
	"github.com/custodia-labs/catmatch/internal/adapters/driven/catalog/github"
	configfile "github.com/custodia-labs/catmatch/internal/adapters/driven/config/file"
	"github.com/custodia-labs/catmatch/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/catmatch/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/catmatch/internal/adapters/driving/cli"
	"github.com/custodia-labs/catmatch/internal/core/domain"
	"github.com/custodia-labs/catmatch/internal/core/ports/driven"
	"github.com/custodia-labs/catmatch/internal/core/services"
	"github.com/custodia-labs/catmatch/internal/logger"
)

// memoryConfigDir keeps settings and cache in process memory.
const memoryConfigDir = ":memory:"

// wire builds the services a command needs from stored settings.
func wire(ctx context.Context, opts cli.Options) (*cli.Services, error) {
	configStore, err := openConfigStore(opts.ConfigDir)
	if err != nil {
		return nil, err
	}

	settingsSvc := services.NewSettingsService(configStore, ai.NewConfigValidator())
	settings, err := settingsSvc.Get()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	githubSource, err := github.NewSource(ctx, github.Config{Token: settings.GitHub.Token})
	if err != nil {
		return nil, err
	}
	loader := catalog.NewLoader(githubSource, file.NewSource())

	var closers []func() error

	var embedder driven.EmbeddingService
	if opts.NeedsEmbedder {
		embedder, err = ai.CreateAndValidateEmbeddingService(ctx, &settings.Embedding)
		if err != nil {
			return nil, err
		}
		closers = append(closers, embedder.Close)
		logger.Debug("Embedding provider: %s (%s)", settings.Embedding.Provider, embedder.ModelName())
	}

	var cache driven.EmbeddingCache
	wantCache := opts.CacheAdmin || (opts.NeedsEmbedder && settings.Cache.Enabled && !opts.NoCache)
	if wantCache {
		cache, err = openCache(opts.ConfigDir, settings.Cache)
		switch {
		case err == nil:
			closers = append(closers, cache.Close)
		case opts.CacheAdmin:
			_ = closeAll(closers)
			return nil, err
		default:
			// A comparison still succeeds without the cache, just slower.
			logger.Warn("Embedding cache disabled: %v", err)
			cache = nil
		}
	}

	matchSvc := services.NewMatchService(loader, embedder)
	if cache != nil && opts.NeedsEmbedder {
		matchSvc.SetCache(cache, settings.Embedding.Provider.String())
	}

	return &cli.Services{
		Settings: settingsSvc,
		Match:    matchSvc,
		Cache:    services.NewCacheService(cache),
		Close:    func() error { return closeAll(closers) },
	}, nil
}

func openConfigStore(dir string) (driven.ConfigStore, error) {
	if dir == memoryConfigDir {
		return memory.NewConfigStore(), nil
	}
	store, err := configfile.NewConfigStore(dir)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	return store, nil
}

// openCache opens the persistent cache. Its directory is, in order of
// preference, cache.dir, <config-dir>/cache, or ~/.catmatch/cache.
func openCache(configDir string, cfg domain.CacheSettings) (driven.EmbeddingCache, error) {
	if configDir == memoryConfigDir && cfg.Dir == "" {
		return memory.NewEmbeddingCache(), nil
	}

	dir := cfg.Dir
	if dir == "" && configDir != "" {
		dir = filepath.Join(configDir, "cache")
	}

	store, err := sqlite.NewStore(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrCacheUnavailable, err)
	}
	logger.Debug("Embedding cache: %s", store.Path())
	return store.EmbeddingCache(), nil
}

func closeAll(closers []func() error) error {
	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
