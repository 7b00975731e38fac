package driven

import (
	"context"

	"github.com/custodia-labs/inkwell/internal/core/domain"
)

// NotebookStore persists notebooks.
type NotebookStore interface {
	// Save stores or updates a notebook.
	Save(ctx context.Context, notebook domain.Notebook) error

	// Get retrieves a notebook by ID.
	Get(ctx context.Context, id string) (*domain.Notebook, error)

	// Delete removes a notebook.
	Delete(ctx context.Context, id string) error

	// List returns all notebooks.
	List(ctx context.Context) ([]domain.Notebook, error)
}

// SourceStore persists sources.
type SourceStore interface {
	// Save stores or updates a source.
	Save(ctx context.Context, source domain.Source) error

	// Get retrieves a source by ID.
	Get(ctx context.Context, id string) (*domain.Source, error)

	// Delete removes a source.
	Delete(ctx context.Context, id string) error

	// ListByNotebook returns all sources within a notebook.
	ListByNotebook(ctx context.Context, notebookID string) ([]domain.Source, error)
}

// ChunkStore persists chunks.
type ChunkStore interface {
	// SaveChunks stores the chunk sequence for a source. The chunks of
	// one source are written together; callers rely on this for the
	// all-or-nothing ingestion contract.
	SaveChunks(ctx context.Context, chunks []domain.Chunk) error

	// GetChunk retrieves a specific chunk by ID.
	GetChunk(ctx context.Context, id string) (*domain.Chunk, error)

	// ListBySource returns a source's chunks in position order.
	ListBySource(ctx context.Context, sourceID string) ([]domain.Chunk, error)

	// DeleteBySource removes all chunks belonging to a source.
	DeleteBySource(ctx context.Context, sourceID string) error
}
