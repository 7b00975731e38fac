package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors. Nothing in the core is
// permitted to crash the hosting process: all failures are returned as
// typed errors, never fatal aborts.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedFormat indicates no normaliser can extract text from
	// the declared origin type, or the payload is undecodable.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrEmptyContent indicates normalisation produced no text after
	// trimming. The source is marked error, not indexed.
	ErrEmptyContent = errors.New("empty content")

	// ErrEmbeddingUnavailable indicates the embedding call errored or
	// timed out. Retryable: the pipeline retries with bounded backoff
	// before marking the source error.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrDimensionMismatch indicates a vector's length does not match the
	// index dimension. Never retried: a configuration defect.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrScopeNotFound indicates the notebook scope of a query does not
	// exist. Never retried: a configuration defect.
	ErrScopeNotFound = errors.New("scope not found")

	// ErrGenerationTimeout indicates the generation capability failed or
	// timed out. The accompanying answer is degraded, not absent.
	ErrGenerationTimeout = errors.New("generation timed out")
)
