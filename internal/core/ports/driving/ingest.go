package driving

import (
	"context"

	"github.com/custodia-labs/inkwell/internal/core/domain"
)

// Ingestor is the intake boundary: it accepts raw payloads and runs the
// ingestion pipeline (normalise -> chunk -> embed -> index).
type Ingestor interface {
	// Ingest creates a source from the intake and processes it through
	// the full pipeline. The returned source reflects the final status;
	// a pipeline failure is also returned as a typed error. Chunks and
	// vectors are written all-or-nothing per source.
	Ingest(ctx context.Context, intake domain.RawIntake) (*domain.Source, error)

	// IngestAll processes independent intakes concurrently with a bounded
	// worker pool. Per-intake failures are collected, not fatal.
	IngestAll(ctx context.Context, intakes []domain.RawIntake) ([]IngestReport, error)

	// Reingest reprocesses an existing source's raw content under a new
	// version, replacing its chunks and vectors.
	Reingest(ctx context.Context, sourceID string, intake domain.RawIntake) (*domain.Source, error)

	// DeleteSource removes a source and cascades to its chunks and
	// vector entries.
	DeleteSource(ctx context.Context, sourceID string) error
}

// IngestReport is the per-intake outcome of IngestAll.
type IngestReport struct {
	// Source is the created source, nil when creation itself failed.
	Source *domain.Source

	// Err is the pipeline failure for this intake, nil on success.
	Err error
}

// NotebookService manages notebook scopes.
type NotebookService interface {
	// Create creates a new notebook.
	Create(ctx context.Context, title, description string) (*domain.Notebook, error)

	// Get retrieves a notebook by ID.
	Get(ctx context.Context, id string) (*domain.Notebook, error)

	// List returns all notebooks.
	List(ctx context.Context) ([]domain.Notebook, error)

	// ListSources returns all sources within a notebook. An unknown
	// notebook is domain.ErrScopeNotFound.
	ListSources(ctx context.Context, notebookID string) ([]domain.Source, error)

	// Delete removes a notebook and cascades to its sources, chunks and
	// vector entries.
	Delete(ctx context.Context, id string) error
}
