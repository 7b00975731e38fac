package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/inkwell/internal/chunker"
	"github.com/custodia-labs/inkwell/internal/core/domain"
	"github.com/custodia-labs/inkwell/internal/core/ports/driven"
	"github.com/custodia-labs/inkwell/internal/core/ports/driving"
	"github.com/custodia-labs/inkwell/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.Ingestor = (*IngestService)(nil)

// Pipeline defaults.
const (
	// DefaultEmbedAttempts is the total number of embedding attempts
	// (first try plus retries) before a source is marked error.
	DefaultEmbedAttempts = 3

	// DefaultEmbedBackoff is the initial retry delay; it doubles per
	// attempt.
	DefaultEmbedBackoff = 500 * time.Millisecond

	// DefaultWorkers bounds concurrent source ingestion in IngestAll.
	DefaultWorkers = 4
)

// IngestService runs the ingestion pipeline:
// intake -> normalise -> chunk -> embed -> store + index.
//
// Sources are processed all-or-nothing: chunks and vectors only become
// visible once the whole source embedded successfully. Independent
// sources may be processed in parallel; the vector index is the only
// shared mutable state, and no index lock is ever held across an
// embedding call (embedding completes before indexing starts).
type IngestService struct {
	notebookStore driven.NotebookStore
	sourceStore   driven.SourceStore
	chunkStore    driven.ChunkStore
	vectorIndex   driven.VectorIndex
	embedder      driven.EmbeddingService
	registry      driven.NormaliserRegistry
	chunker       *chunker.Chunker

	embedAttempts int
	embedBackoff  time.Duration
	workers       int
}

// IngestOption configures the ingest service.
type IngestOption func(*IngestService)

// WithEmbedAttempts sets the total embedding attempt count.
func WithEmbedAttempts(n int) IngestOption {
	return func(s *IngestService) {
		if n > 0 {
			s.embedAttempts = n
		}
	}
}

// WithEmbedBackoff sets the initial embedding retry delay.
func WithEmbedBackoff(d time.Duration) IngestOption {
	return func(s *IngestService) {
		if d > 0 {
			s.embedBackoff = d
		}
	}
}

// WithWorkers sets the IngestAll worker pool size.
func WithWorkers(n int) IngestOption {
	return func(s *IngestService) {
		if n > 0 {
			s.workers = n
		}
	}
}

// NewIngestService creates a new ingest service.
func NewIngestService(
	notebookStore driven.NotebookStore,
	sourceStore driven.SourceStore,
	chunkStore driven.ChunkStore,
	vectorIndex driven.VectorIndex,
	embedder driven.EmbeddingService,
	registry driven.NormaliserRegistry,
	chk *chunker.Chunker,
	opts ...IngestOption,
) *IngestService {
	s := &IngestService{
		notebookStore: notebookStore,
		sourceStore:   sourceStore,
		chunkStore:    chunkStore,
		vectorIndex:   vectorIndex,
		embedder:      embedder,
		registry:      registry,
		chunker:       chk,
		embedAttempts: DefaultEmbedAttempts,
		embedBackoff:  DefaultEmbedBackoff,
		workers:       DefaultWorkers,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ingest creates a source from the intake and runs the full pipeline.
// The returned source reflects the final status even when the pipeline
// failed; in that case the error is returned as well.
func (s *IngestService) Ingest(ctx context.Context, intake domain.RawIntake) (*domain.Source, error) {
	if intake.NotebookID == "" {
		return nil, fmt.Errorf("%w: notebook id required", domain.ErrInvalidInput)
	}
	if _, err := s.notebookStore.Get(ctx, intake.NotebookID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: notebook %s", domain.ErrScopeNotFound, intake.NotebookID)
		}
		return nil, fmt.Errorf("get notebook: %w", err)
	}

	now := time.Now()
	source := domain.Source{
		ID:         uuid.New().String(),
		NotebookID: intake.NotebookID,
		Title:      intake.Title,
		Origin:     intake.Origin,
		Status:     domain.StatusPending,
		Version:    1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.sourceStore.Save(ctx, source); err != nil {
		return nil, fmt.Errorf("save source: %w", err)
	}

	if err := s.process(ctx, &source, intake); err != nil {
		return &source, err
	}
	return &source, nil
}

// IngestAll processes independent intakes concurrently with a bounded
// worker pool. Per-intake failures land in the reports, not the error.
func (s *IngestService) IngestAll(ctx context.Context, intakes []domain.RawIntake) ([]driving.IngestReport, error) {
	if len(intakes) == 0 {
		return nil, nil
	}

	logger.Section("Batch ingestion (%d sources)", len(intakes))
	logger.Info("Using %d workers", s.workers)

	reports := make([]driving.IngestReport, len(intakes))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < s.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				source, err := s.Ingest(ctx, intakes[i])
				reports[i] = driving.IngestReport{Source: source, Err: err}
			}
		}()
	}

	for i := range intakes {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return reports, ctx.Err()
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	return reports, nil
}

// Reingest reprocesses a source under a new version, replacing its
// chunks and vectors. The old derived state is removed before the
// pipeline reruns; a failure leaves the source in error with no stale
// chunks indexed.
func (s *IngestService) Reingest(ctx context.Context, sourceID string, intake domain.RawIntake) (*domain.Source, error) {
	source, err := s.sourceStore.Get(ctx, sourceID)
	if err != nil {
		return nil, fmt.Errorf("get source: %w", err)
	}

	if err := s.vectorIndex.DeleteBySource(ctx, sourceID); err != nil {
		return nil, fmt.Errorf("delete vectors: %w", err)
	}
	if err := s.chunkStore.DeleteBySource(ctx, sourceID); err != nil {
		return nil, fmt.Errorf("delete chunks: %w", err)
	}

	source.Version++
	source.Status = domain.StatusPending
	source.ProcessingError = ""
	if intake.Title != "" {
		source.Title = intake.Title
	}
	source.Origin = intake.Origin
	intake.NotebookID = source.NotebookID

	if err := s.sourceStore.Save(ctx, *source); err != nil {
		return nil, fmt.Errorf("save source: %w", err)
	}

	if err := s.process(ctx, source, intake); err != nil {
		return source, err
	}
	return source, nil
}

// DeleteSource removes a source and cascades to its chunks and vector
// entries. Vectors go first so a search racing the delete can at worst
// see chunks that still hydrate, never dangling index hits.
func (s *IngestService) DeleteSource(ctx context.Context, sourceID string) error {
	if _, err := s.sourceStore.Get(ctx, sourceID); err != nil {
		return fmt.Errorf("get source: %w", err)
	}

	if err := s.vectorIndex.DeleteBySource(ctx, sourceID); err != nil {
		return fmt.Errorf("delete vectors: %w", err)
	}
	if err := s.chunkStore.DeleteBySource(ctx, sourceID); err != nil {
		return fmt.Errorf("delete chunks: %w", err)
	}
	if err := s.sourceStore.Delete(ctx, sourceID); err != nil {
		return fmt.Errorf("delete source: %w", err)
	}

	logger.Info("Deleted source %s and its derived data", sourceID)
	return nil
}

// process runs the pipeline stages for one source and owns its status
// transitions.
func (s *IngestService) process(ctx context.Context, source *domain.Source, intake domain.RawIntake) error {
	logger.Section("Ingesting %s", source.ID)
	logger.Debug("Origin %s, title %q", source.Origin, source.Title)

	source.Status = domain.StatusProcessing
	source.UpdatedAt = time.Now()
	if err := s.sourceStore.Save(ctx, *source); err != nil {
		return fmt.Errorf("save source: %w", err)
	}

	result, err := s.registry.Normalise(ctx, &intake)
	if err != nil {
		return s.markError(ctx, source, fmt.Errorf("normalise: %w", err))
	}
	logger.Debug("Normalised: %d chars", len(result.Text))

	source.Content = result.Text
	source.Metadata = result.Metadata
	if result.Title != "" {
		source.Title = result.Title
	}
	// Intake provenance wins over anything the normaliser inferred.
	if intake.URL != "" {
		source.Metadata.URL = intake.URL
	}
	if intake.Author != "" {
		source.Metadata.Author = intake.Author
	}
	source.Metadata.Size = int64(len(intake.Content))

	chunks := s.chunker.Chunk(source.ID, source.NotebookID, result.Text)
	if len(chunks) == 0 {
		return s.markError(ctx, source, fmt.Errorf("chunk: %w", domain.ErrEmptyContent))
	}
	logger.Debug("Chunked into %d chunks", len(chunks))

	// Embed before anything is stored or indexed: an embedding failure
	// must leave no partial chunks behind.
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}
	vectors, err := s.embedWithRetry(ctx, texts)
	if err != nil {
		return s.markError(ctx, source, err)
	}
	if len(vectors) != len(chunks) {
		return s.markError(ctx, source, fmt.Errorf("embed: got %d vectors for %d chunks: %w",
			len(vectors), len(chunks), domain.ErrEmbeddingUnavailable))
	}

	if err := s.chunkStore.SaveChunks(ctx, chunks); err != nil {
		return s.markError(ctx, source, fmt.Errorf("save chunks: %w", err))
	}

	for i, c := range chunks {
		if err := s.vectorIndex.Upsert(ctx, c.ID, c.SourceID, c.NotebookID, vectors[i]); err != nil {
			// Roll back so no partial vectors stay visible.
			_ = s.vectorIndex.DeleteBySource(ctx, source.ID)
			_ = s.chunkStore.DeleteBySource(ctx, source.ID)
			return s.markError(ctx, source, fmt.Errorf("index chunk %d: %w", i, err))
		}
	}

	source.Status = domain.StatusCompleted
	source.UpdatedAt = time.Now()
	if err := s.sourceStore.Save(ctx, *source); err != nil {
		return fmt.Errorf("save source: %w", err)
	}

	logger.Info("Source %s completed: %d chunks indexed", source.ID, len(chunks))
	return nil
}

// embedWithRetry calls the embedder with bounded exponential backoff.
// Only embedding unavailability is retried; context cancellation ends
// the attempts immediately.
func (s *IngestService) embedWithRetry(ctx context.Context, texts []string) ([][]float32, error) {
	backoff := s.embedBackoff
	var lastErr error

	for attempt := 1; attempt <= s.embedAttempts; attempt++ {
		vectors, err := s.embedder.EmbedBatch(ctx, texts)
		if err == nil {
			return vectors, nil
		}
		lastErr = err
		logger.Warn("Embedding attempt %d/%d failed: %v", attempt, s.embedAttempts, err)

		if ctx.Err() != nil || attempt == s.embedAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}

	return nil, fmt.Errorf("embed after %d attempts: %w: %v",
		s.embedAttempts, domain.ErrEmbeddingUnavailable, lastErr)
}

// markError records a pipeline failure on the source and returns the
// failure for the caller.
func (s *IngestService) markError(ctx context.Context, source *domain.Source, cause error) error {
	source.Status = domain.StatusError
	source.ProcessingError = cause.Error()
	source.UpdatedAt = time.Now()
	if err := s.sourceStore.Save(ctx, *source); err != nil {
		logger.Warn("Failed to record error status for source %s: %v", source.ID, err)
	}
	return cause
}
