package domain

import "time"

// Default comparison tunables.
const (
	DefaultThreshold = 0.65
	DefaultTopK      = 3
)

// Match pairs a base record with its similarity to a merge record.
type Match struct {
	// Record is the matched base record.
	Record TextRecord

	// Score is the cosine similarity in [-1, 1].
	Score float64
}

// MatchResult holds the qualifying base matches for one merge record.
type MatchResult struct {
	// Merge is the merge record being matched.
	Merge TextRecord

	// Matches are ordered best score first. Empty means no strong match.
	Matches []Match
}

// HasMatch reports whether any base record scored at or above the threshold.
func (r MatchResult) HasMatch() bool {
	return len(r.Matches) > 0
}

// MatchOptions configures a comparison between two catalogs.
type MatchOptions struct {
	// TopK is the maximum number of candidates considered per merge record.
	TopK int

	// Threshold is the minimum score for a candidate to be reported.
	Threshold float64
}

// DefaultMatchOptions returns the stock tunables.
func DefaultMatchOptions() MatchOptions {
	return MatchOptions{
		TopK:      DefaultTopK,
		Threshold: DefaultThreshold,
	}
}

// CatalogSummary describes one side of a comparison.
type CatalogSummary struct {
	// Ref is the reference the catalog was loaded from.
	Ref string

	// Name is a short display name (file base name).
	Name string

	// Title is the catalog title, if present.
	Title string

	// Records is the number of flattened records.
	Records int
}

// Report is the complete outcome of one comparison run.
type Report struct {
	// RunID uniquely identifies the run.
	RunID string

	// Base and Merge describe the compared catalogs.
	Base  CatalogSummary
	Merge CatalogSummary

	// Options are the tunables the run used.
	Options MatchOptions

	// Model is the embedding model that produced the vectors.
	Model string

	// Results holds one entry per merge record, in merge order.
	Results []MatchResult

	// CreatedAt is when the run completed.
	CreatedAt time.Time
}

// MatchedCount returns how many merge records have at least one match.
func (r *Report) MatchedCount() int {
	n := 0
	for i := range r.Results {
		if r.Results[i].HasMatch() {
			n++
		}
	}
	return n
}
