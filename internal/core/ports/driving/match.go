package driving

import (
	"context"

	"github.com/custodia-labs/catmatch/internal/core/domain"
)

// MatchService compares two catalogs.
type MatchService interface {
	// Compare loads, flattens, and embeds both catalogs, then reports the best
	// base matches for every merge record.
	Compare(ctx context.Context, baseRef, mergeRef string, opts domain.MatchOptions) (*domain.Report, error)

	// Flatten loads a catalog and returns its records without embedding them.
	Flatten(ctx context.Context, ref string) ([]domain.TextRecord, error)
}
