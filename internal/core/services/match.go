package services

import (
	"context"
	"fmt"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/catmatch/internal/core/domain"
	"github.com/custodia-labs/catmatch/internal/core/ports/driven"
	"github.com/custodia-labs/catmatch/internal/core/ports/driving"
	"github.com/custodia-labs/catmatch/internal/logger"
)

// Ensure MatchService implements the interface.
var _ driving.MatchService = (*MatchService)(nil)

// MatchService runs catalog comparisons.
type MatchService struct {
	loader   driven.CatalogLoader
	embedder driven.EmbeddingService
	cache    driven.EmbeddingCache
	cacheNS  string
	now      func() time.Time
	newID    func() string
}

// NewMatchService creates a new match service.
// The embedder may be nil; Flatten still works but Compare fails with
// domain.ErrEmbeddingUnavailable.
func NewMatchService(loader driven.CatalogLoader, embedder driven.EmbeddingService) *MatchService {
	return &MatchService{
		loader:   loader,
		embedder: embedder,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// SetCache enables the embedding cache. Vectors are stored under
// namespace/model@dims so different providers or vector sizes never share
// entries.
func (s *MatchService) SetCache(cache driven.EmbeddingCache, namespace string) {
	s.cache = cache
	s.cacheNS = namespace
}

// Flatten loads a catalog and returns its text records.
func (s *MatchService) Flatten(ctx context.Context, ref string) ([]domain.TextRecord, error) {
	catalog, err := s.load(ctx, ref)
	if err != nil {
		return nil, err
	}
	records := FlattenCatalog(catalog)
	logger.Debug("Flattened %s: %d records", ref, len(records))
	return records, nil
}

// Compare loads both catalogs concurrently, embeds their records, and
// matches every merge record against the base.
func (s *MatchService) Compare(
	ctx context.Context, baseRef, mergeRef string, opts domain.MatchOptions,
) (*domain.Report, error) {
	if err := ValidateMatchOptions(opts); err != nil {
		return nil, err
	}
	if s.embedder == nil {
		return nil, fmt.Errorf("%w: no embedding provider configured", domain.ErrEmbeddingUnavailable)
	}

	logger.Section("Load")
	var (
		baseCatalog, mergeCatalog *domain.Catalog
		base, merge               []domain.TextRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := s.load(gctx, baseRef)
		if err != nil {
			return err
		}
		baseCatalog, base = c, FlattenCatalog(c)
		return nil
	})
	g.Go(func() error {
		c, err := s.load(gctx, mergeRef)
		if err != nil {
			return err
		}
		mergeCatalog, merge = c, FlattenCatalog(c)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	logger.Info("Base %s: %d records", baseRef, len(base))
	logger.Info("Merge %s: %d records", mergeRef, len(merge))

	if len(base) == 0 || len(merge) == 0 {
		return nil, fmt.Errorf("%w: no controls or parts with prose found in one or both catalogs",
			domain.ErrPrecondition)
	}

	logger.Section("Embed")
	logger.Info("Model: %s (%d dimensions)", s.embedder.ModelName(), s.embedder.Dimensions())
	vz := &vectorizer{
		embedder: s.embedder,
		cache:    s.cache,
		cacheKey: s.cacheKey(),
		dims:     s.embedder.Dimensions(),
	}

	stop := logger.Timed("Embedding base")
	baseEmb, err := vz.embed(ctx, domain.Texts(base))
	stop()
	if err != nil {
		return nil, fmt.Errorf("embed base catalog: %w", err)
	}
	stop = logger.Timed("Embedding merge")
	mergeEmb, err := vz.embed(ctx, domain.Texts(merge))
	stop()
	if err != nil {
		return nil, fmt.Errorf("embed merge catalog: %w", err)
	}

	logger.Section("Match")
	logger.Debug("top-k=%d threshold=%.2f", opts.TopK, opts.Threshold)
	results, err := Match(base, baseEmb, merge, mergeEmb, opts)
	if err != nil {
		return nil, err
	}

	report := &domain.Report{
		RunID:     s.newID(),
		Base:      summarize(baseRef, baseCatalog, base),
		Merge:     summarize(mergeRef, mergeCatalog, merge),
		Options:   opts,
		Model:     s.embedder.ModelName(),
		Results:   results,
		CreatedAt: s.now().UTC(),
	}
	logger.Info("Matched %d of %d merge records", report.MatchedCount(), len(results))
	return report, nil
}

func (s *MatchService) load(ctx context.Context, ref string) (*domain.Catalog, error) {
	if s.loader == nil {
		return nil, fmt.Errorf("load %s: %w: no catalog loader", ref, domain.ErrUnsupportedType)
	}
	catalog, err := s.loader.Load(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", ref, err)
	}
	return catalog, nil
}

// cacheKey returns namespace/model@dims, e.g. "openai/text-embedding-3-small@512".
func (s *MatchService) cacheKey() string {
	key := s.embedder.ModelName()
	if s.cacheNS != "" {
		key = s.cacheNS + "/" + key
	}
	if dims := s.embedder.Dimensions(); dims > 0 {
		key += "@" + strconv.Itoa(dims)
	}
	return key
}

func summarize(ref string, catalog *domain.Catalog, records []domain.TextRecord) domain.CatalogSummary {
	return domain.CatalogSummary{
		Ref:     ref,
		Name:    DisplayName(ref),
		Title:   catalog.Title,
		Records: len(records),
	}
}

// DisplayName returns the base name of a catalog reference, dropping any
// source prefix and revision suffix.
func DisplayName(ref string) string {
	name := ref
	if i := strings.Index(name, ":"); i > 1 {
		name = name[i+1:]
		if j := strings.LastIndex(name, "@"); j >= 0 {
			name = name[:j]
		}
	}
	name = strings.ReplaceAll(name, "\\", "/")
	return path.Base(name)
}
