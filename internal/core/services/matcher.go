package services

import (
	"cmp"
	"fmt"
	"math"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/catmatch/internal/core/domain"
)

// ValidateMatchOptions checks the comparison tunables.
func ValidateMatchOptions(opts domain.MatchOptions) error {
	if opts.TopK < 1 {
		return fmt.Errorf("%w: top-k must be at least 1, got %d", domain.ErrPrecondition, opts.TopK)
	}
	if math.IsNaN(opts.Threshold) || math.IsInf(opts.Threshold, 0) {
		return fmt.Errorf("%w: threshold must be a finite number", domain.ErrPrecondition)
	}
	if opts.Threshold < -1 || opts.Threshold > 1 {
		return fmt.Errorf("%w: threshold must be within [-1, 1], got %g", domain.ErrPrecondition, opts.Threshold)
	}
	return nil
}

// Match finds, for every merge record, the best-scoring base records.
//
// The full |merge|×|base| cosine matrix is computed. Each row keeps its TopK
// highest columns, ties going to the earlier base record, and then drops
// candidates scoring below Threshold. A result with no matches means no base
// record qualified. Results follow merge order.
//
// Records and embeddings must be index-aligned on each side, both sides must
// be non-empty, and every vector must share one dimension; violations return
// domain.ErrPrecondition. TopK larger than the base list is clamped.
func Match(
	base []domain.TextRecord, baseEmb [][]float32,
	merge []domain.TextRecord, mergeEmb [][]float32,
	opts domain.MatchOptions,
) ([]domain.MatchResult, error) {
	if err := ValidateMatchOptions(opts); err != nil {
		return nil, err
	}
	if len(base) != len(baseEmb) {
		return nil, fmt.Errorf("%w: %d base records but %d base embeddings",
			domain.ErrPrecondition, len(base), len(baseEmb))
	}
	if len(merge) != len(mergeEmb) {
		return nil, fmt.Errorf("%w: %d merge records but %d merge embeddings",
			domain.ErrPrecondition, len(merge), len(mergeEmb))
	}
	if len(base) == 0 || len(merge) == 0 {
		return nil, fmt.Errorf("%w: base and merge must both contain records", domain.ErrPrecondition)
	}
	dims := len(baseEmb[0])
	if dims == 0 {
		return nil, fmt.Errorf("%w: embeddings are empty", domain.ErrPrecondition)
	}
	if err := checkVectors("base", baseEmb, dims); err != nil {
		return nil, err
	}
	if err := checkVectors("merge", mergeEmb, dims); err != nil {
		return nil, err
	}

	topK := min(opts.TopK, len(base))

	baseNorms := make([]float64, len(baseEmb))
	for j, v := range baseEmb {
		baseNorms[j] = squaredNorm(v)
	}

	results := make([]domain.MatchResult, len(merge))

	// Rows are independent; each worker owns its slot in results.
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range merge {
		g.Go(func() error {
			results[i] = matchRow(merge[i], mergeEmb[i], base, baseEmb, baseNorms, topK, opts.Threshold)
			return nil
		})
	}
	_ = g.Wait()

	return results, nil
}

// matchRow scores one merge vector against every base vector and keeps the
// qualifying top-k candidates, best first.
func matchRow(
	record domain.TextRecord, vec []float32,
	base []domain.TextRecord, baseEmb [][]float32, baseNorms []float64,
	topK int, threshold float64,
) domain.MatchResult {
	norm := squaredNorm(vec)

	scores := make([]float64, len(baseEmb))
	order := make([]int, len(baseEmb))
	for j, b := range baseEmb {
		scores[j] = cosineFromParts(dot(vec, b), norm*baseNorms[j])
		order[j] = j
	}

	// Stable sort keeps earlier base records ahead on equal scores.
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(scores[b], scores[a])
	})

	matches := make([]domain.Match, 0, topK)
	for _, j := range order[:topK] {
		if scores[j] < threshold {
			break
		}
		matches = append(matches, domain.Match{Record: base[j], Score: scores[j]})
	}

	return domain.MatchResult{Merge: record, Matches: matches}
}

// checkVectors verifies every vector has the expected dimension and only
// finite components.
func checkVectors(side string, vectors [][]float32, dims int) error {
	for i, v := range vectors {
		if len(v) != dims {
			return fmt.Errorf("%w: %s embedding %d has dimension %d, want %d",
				domain.ErrPrecondition, side, i, len(v), dims)
		}
		for _, x := range v {
			f := float64(x)
			if math.IsNaN(f) || math.IsInf(f, 0) {
				return fmt.Errorf("%w: %s embedding %d has a non-finite component",
					domain.ErrPrecondition, side, i)
			}
		}
	}
	return nil
}
