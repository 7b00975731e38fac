package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/inkwell/internal/core/domain"
	"github.com/custodia-labs/inkwell/internal/core/ports/driven"
)

// Ensure ChunkStore implements the interface.
var _ driven.ChunkStore = (*ChunkStore)(nil)

// ChunkStore is an in-memory implementation of driven.ChunkStore.
// Chunks are keyed by source so a source's sequence is replaced as a
// unit, matching the all-or-nothing ingestion contract.
type ChunkStore struct {
	mu       sync.RWMutex
	bySource map[string][]domain.Chunk
}

// NewChunkStore creates a new in-memory chunk store.
func NewChunkStore() *ChunkStore {
	return &ChunkStore{
		bySource: make(map[string][]domain.Chunk),
	}
}

// SaveChunks stores the chunk sequence for a source.
func (s *ChunkStore) SaveChunks(_ context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sourceID := chunks[0].SourceID
	stored := make([]domain.Chunk, len(chunks))
	copy(stored, chunks)
	s.bySource[sourceID] = stored
	return nil
}

// GetChunk retrieves a specific chunk by ID.
func (s *ChunkStore) GetChunk(_ context.Context, id string) (*domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, chunks := range s.bySource {
		for _, chunk := range chunks {
			if chunk.ID == id {
				return &chunk, nil
			}
		}
	}
	return nil, domain.ErrNotFound
}

// ListBySource returns a source's chunks in position order.
func (s *ChunkStore) ListBySource(_ context.Context, sourceID string) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	chunks, ok := s.bySource[sourceID]
	if !ok {
		return nil, nil
	}
	result := make([]domain.Chunk, len(chunks))
	copy(result, chunks)
	sort.Slice(result, func(i, j int) bool {
		return result[i].Position < result[j].Position
	})
	return result, nil
}

// DeleteBySource removes all chunks belonging to a source.
func (s *ChunkStore) DeleteBySource(_ context.Context, sourceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.bySource, sourceID)
	return nil
}
