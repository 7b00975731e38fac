package driven

import "context"

// VectorIndex provides similarity search over chunk vectors.
// The vector dimension is fixed per index instance; every entry must
// match it. Implementations must support concurrent writers and readers:
// a search never observes a partially-written vector, and a search
// started after DeleteBySource returns never includes deleted entries.
type VectorIndex interface {
	// Upsert inserts or replaces the vector for a chunk. Idempotent under
	// identical chunk ID; replacement keeps the original insertion order
	// for tie-breaking. Returns domain.ErrDimensionMismatch when the
	// vector length does not match the index dimension.
	Upsert(ctx context.Context, chunkID, sourceID, notebookID string, vector []float32) error

	// DeleteBySource removes all entries belonging to a source.
	// Used on source deletion and re-ingestion.
	DeleteBySource(ctx context.Context, sourceID string) error

	// DeleteByNotebook removes all entries belonging to a notebook.
	DeleteByNotebook(ctx context.Context, notebookID string) error

	// Search returns up to k nearest entries by cosine similarity within
	// the filter scope, strictly non-increasing by score, ties broken by
	// insertion order (earlier insertion wins).
	Search(ctx context.Context, query []float32, k int, filter VectorFilter) ([]VectorHit, error)

	// Len returns the number of entries currently indexed.
	Len() int

	// Close releases resources.
	Close() error
}

// VectorFilter restricts a search to a scope. Filtering is applied as
// part of the similarity query, before ranking, so results never leak
// across notebooks.
type VectorFilter struct {
	// NotebookID restricts results to one notebook. Empty means no
	// notebook restriction (used by internal maintenance only).
	NotebookID string

	// SourceIDs optionally restricts results to specific sources.
	SourceIDs []string
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// SourceID is the chunk's owning source.
	SourceID string

	// Score is the cosine similarity score.
	Score float64
}
