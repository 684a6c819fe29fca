// Package catalog routes catalog references to the source that can load them.
package catalog

import (
	"context"
	"fmt"

	"github.com/custodia-labs/catmatch/internal/core/domain"
	"github.com/custodia-labs/catmatch/internal/core/ports/driven"
	"github.com/custodia-labs/catmatch/internal/logger"
)

// Ensure Loader implements the interface.
var _ driven.CatalogLoader = (*Loader)(nil)

// Loader tries each source in order; the first that supports a reference
// loads it.
type Loader struct {
	sources []driven.CatalogSource
}

// NewLoader creates a loader over the given sources.
func NewLoader(sources ...driven.CatalogSource) *Loader {
	return &Loader{sources: sources}
}

// Load resolves ref to a source and loads the catalog.
func (l *Loader) Load(ctx context.Context, ref string) (*domain.Catalog, error) {
	if ref == "" {
		return nil, fmt.Errorf("%w: empty catalog reference", domain.ErrInvalidInput)
	}
	for _, src := range l.sources {
		if !src.Supports(ref) {
			continue
		}
		logger.Debug("Loading %s via %s source", ref, src.Name())
		return src.Load(ctx, ref)
	}
	return nil, fmt.Errorf("%w: no catalog source accepts %q", domain.ErrUnsupportedType, ref)
}
