package driven

import (
	"context"

	"github.com/custodia-labs/catmatch/internal/core/domain"
)

// CatalogSource loads catalogs from one kind of location.
type CatalogSource interface {
	// Name identifies the source in logs (e.g. "file", "github").
	Name() string

	// Supports reports whether the reference can be loaded by this source.
	Supports(ref string) bool

	// Load fetches and decodes the referenced catalog.
	Load(ctx context.Context, ref string) (*domain.Catalog, error)
}

// CatalogLoader resolves a reference to the right CatalogSource.
type CatalogLoader interface {
	// Load fetches and decodes the referenced catalog.
	// Returns domain.ErrUnsupportedType if no source accepts the reference.
	Load(ctx context.Context, ref string) (*domain.Catalog, error)
}
