// Package domain defines the core entities for catmatch.
//
// This package is the innermost layer of the hexagon. It has NO external
// dependencies and defines the fundamental types:
//
//   - Catalog, Group, Control, Part: a hierarchical control catalog
//   - TextRecord: a flattened leaf of comparable prose
//   - Match, MatchResult, Report: the outcome of comparing two catalogs
//   - AppSettings: typed configuration
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
