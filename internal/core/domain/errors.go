package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown catalog format or provider.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrPrecondition indicates the inputs to a comparison violate its contract,
	// such as record/embedding count mismatch or an empty catalog.
	ErrPrecondition = errors.New("precondition violated")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured
	// or could not produce vectors. A comparison cannot run without it.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrCacheUnavailable indicates the embedding cache could not be opened.
	ErrCacheUnavailable = errors.New("embedding cache unavailable")

	// ErrRateLimited indicates a remote API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)
