package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/inkwell/internal/core/domain"
	"github.com/custodia-labs/inkwell/internal/core/ports/driven"
	"github.com/custodia-labs/inkwell/internal/core/ports/driving"
	"github.com/custodia-labs/inkwell/internal/logger"
)

// Ensure RetrieveService implements the interface.
var _ driving.Retriever = (*RetrieveService)(nil)

const (
	// DefaultTopK is the retrieval depth when the caller asks for none.
	DefaultTopK = 10

	// maxExcerptChars bounds the citation excerpt length.
	maxExcerptChars = 200
)

// RetrieveService answers similarity queries: embed the query text,
// search the vector index within the notebook scope, and hydrate the
// hits into citation-ready projections.
type RetrieveService struct {
	notebookStore driven.NotebookStore
	sourceStore   driven.SourceStore
	chunkStore    driven.ChunkStore
	vectorIndex   driven.VectorIndex
	embedder      driven.EmbeddingService
}

// NewRetrieveService creates a new retrieve service.
func NewRetrieveService(
	notebookStore driven.NotebookStore,
	sourceStore driven.SourceStore,
	chunkStore driven.ChunkStore,
	vectorIndex driven.VectorIndex,
	embedder driven.EmbeddingService,
) *RetrieveService {
	return &RetrieveService{
		notebookStore: notebookStore,
		sourceStore:   sourceStore,
		chunkStore:    chunkStore,
		vectorIndex:   vectorIndex,
		embedder:      embedder,
	}
}

// Retrieve returns citations for the query, ordered non-increasing by
// score. An empty query or a notebook with nothing indexed yields an
// empty result and no error; an unknown notebook is ErrScopeNotFound.
func (s *RetrieveService) Retrieve(ctx context.Context, query string, opts driving.RetrieveOptions) ([]domain.Citation, error) {
	if opts.NotebookID == "" {
		return nil, fmt.Errorf("%w: notebook id required", domain.ErrInvalidInput)
	}
	if _, err := s.notebookStore.Get(ctx, opts.NotebookID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: notebook %s", domain.ErrScopeNotFound, opts.NotebookID)
		}
		return nil, fmt.Errorf("get notebook: %w", err)
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.Citation{}, nil
	}

	topK := opts.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}

	logger.Section("Retrieving in notebook %s", opts.NotebookID)
	logger.Debug("Query %q (topK=%d)", query, topK)

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := s.vectorIndex.Search(ctx, vector, topK, driven.VectorFilter{
		NotebookID: opts.NotebookID,
		SourceIDs:  opts.SourceIDs,
	})
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}
	logger.Debug("Index returned %d hits", len(hits))

	citations := make([]domain.Citation, 0, len(hits))
	for _, hit := range hits {
		if opts.MinScore > 0 && hit.Score < opts.MinScore {
			continue
		}
		citation, err := s.hydrate(ctx, hit)
		if err != nil {
			// A hit whose chunk or source vanished mid-query is skipped,
			// not fatal: deletes may race reads.
			logger.Debug("Skipping hit %s: %v", hit.ChunkID, err)
			continue
		}
		citations = append(citations, *citation)
	}

	logger.Info("Retrieved %d citations", len(citations))
	return citations, nil
}

// hydrate turns an index hit into a citation by loading the chunk and
// its owning source.
func (s *RetrieveService) hydrate(ctx context.Context, hit driven.VectorHit) (*domain.Citation, error) {
	chunk, err := s.chunkStore.GetChunk(ctx, hit.ChunkID)
	if err != nil {
		return nil, fmt.Errorf("get chunk: %w", err)
	}
	source, err := s.sourceStore.Get(ctx, chunk.SourceID)
	if err != nil {
		return nil, fmt.Errorf("get source: %w", err)
	}

	return &domain.Citation{
		ChunkID:  chunk.ID,
		SourceID: source.ID,
		Title:    source.Title,
		Excerpt:  excerpt(chunk.Content, maxExcerptChars),
		Page:     chunk.Page,
		URL:      source.Metadata.URL,
		Score:    hit.Score,
	}, nil
}

// excerpt truncates content to at most max bytes, cutting at the last
// space when one is near enough to avoid splitting a word.
func excerpt(content string, max int) string {
	content = strings.TrimSpace(content)
	if len(content) <= max {
		return content
	}
	cut := content[:max]
	if idx := strings.LastIndexByte(cut, ' '); idx > max/2 {
		cut = cut[:idx]
	}
	return strings.TrimSpace(cut) + "..."
}
