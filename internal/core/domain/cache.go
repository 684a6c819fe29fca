package domain

import "time"

// CacheStats summarises the contents of the embedding cache.
type CacheStats struct {
	// Entries is the number of cached vectors.
	Entries int

	// Models lists the distinct embedding models with cached vectors.
	Models []string

	// OldestAt is when the oldest entry was written. Zero when empty.
	OldestAt time.Time
}
