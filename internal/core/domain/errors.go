package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input, such as
	// empty text passed to chunking, embedding, or search.
	// Callers must not retry with the same input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrProviderUnavailable indicates the embedding provider is
	// unreachable or failing after all retries were exhausted.
	// Callers should degrade gracefully (answer without retrieval
	// context) rather than crash.
	ErrProviderUnavailable = errors.New("embedding provider unavailable")

	// ErrDimensionMismatch indicates vectors of differing length were
	// compared or persisted. This is a data-integrity error: it is
	// surfaced loudly, never papered over with a truncated comparison.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrStorageFailure indicates the persistence layer failed on
	// insert, delete, or list. Ingestion never reports success when any
	// chunk failed to persist.
	ErrStorageFailure = errors.New("storage failure")
)
