// Package memory provides an in-memory vector index with brute-force
// cosine similarity search. Suitable for notebook-sized corpora; the
// VectorIndex port allows swapping in an ANN backend without touching
// the core.
package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/custodia-labs/inkwell/internal/core/domain"
	"github.com/custodia-labs/inkwell/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// entry is one indexed vector. The vector slice is installed whole and
// never mutated afterwards, so readers holding a reference outside the
// lock always see a complete vector.
type entry struct {
	chunkID    string
	sourceID   string
	notebookID string
	vector     []float32
	seq        uint64
}

// Index is a concurrency-safe brute-force cosine index.
// Writers (upsert, delete) and readers (search) may interleave freely;
// a search started after a delete returns never sees deleted entries.
type Index struct {
	mu      sync.RWMutex
	dims    int
	entries map[string]*entry
	nextSeq uint64
}

// New creates an index for vectors of the given fixed dimension.
func New(dims int) *Index {
	return &Index{
		dims:    dims,
		entries: make(map[string]*entry),
	}
}

// Dimensions returns the fixed vector dimension of this index.
func (i *Index) Dimensions() int {
	return i.dims
}

// Upsert inserts or replaces the vector for a chunk. Replacing an
// existing chunk keeps its original insertion sequence so tie-breaking
// stays stable.
func (i *Index) Upsert(_ context.Context, chunkID, sourceID, notebookID string, vector []float32) error {
	if len(vector) != i.dims {
		return domain.ErrDimensionMismatch
	}

	// Copy before taking the lock; callers may reuse their slice.
	v := make([]float32, len(vector))
	copy(v, vector)

	i.mu.Lock()
	defer i.mu.Unlock()

	seq := i.nextSeq
	if existing, ok := i.entries[chunkID]; ok {
		seq = existing.seq
	} else {
		i.nextSeq++
	}

	i.entries[chunkID] = &entry{
		chunkID:    chunkID,
		sourceID:   sourceID,
		notebookID: notebookID,
		vector:     v,
		seq:        seq,
	}
	return nil
}

// DeleteBySource removes all entries belonging to a source.
func (i *Index) DeleteBySource(_ context.Context, sourceID string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	for id, e := range i.entries {
		if e.sourceID == sourceID {
			delete(i.entries, id)
		}
	}
	return nil
}

// DeleteByNotebook removes all entries belonging to a notebook.
func (i *Index) DeleteByNotebook(_ context.Context, notebookID string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	for id, e := range i.entries {
		if e.notebookID == notebookID {
			delete(i.entries, id)
		}
	}
	return nil
}

// Search returns up to k nearest entries within the filter scope by
// cosine similarity, strictly non-increasing by score, ties broken by
// insertion order (earlier insertion wins). Scoring runs outside the
// lock against the snapshot taken under it.
func (i *Index) Search(_ context.Context, query []float32, k int, filter driven.VectorFilter) ([]driven.VectorHit, error) {
	if len(query) != i.dims {
		return nil, domain.ErrDimensionMismatch
	}
	if k <= 0 {
		return nil, nil
	}

	candidates := i.snapshot(filter)
	if len(candidates) == 0 {
		return nil, nil
	}

	type scored struct {
		e     *entry
		score float64
	}
	results := make([]scored, 0, len(candidates))
	for _, e := range candidates {
		results = append(results, scored{e: e, score: cosineSimilarity(query, e.vector)})
	}

	sort.Slice(results, func(a, b int) bool {
		if results[a].score != results[b].score {
			return results[a].score > results[b].score
		}
		return results[a].e.seq < results[b].e.seq
	})

	if k > len(results) {
		k = len(results)
	}

	hits := make([]driven.VectorHit, k)
	for n := 0; n < k; n++ {
		hits[n] = driven.VectorHit{
			ChunkID:  results[n].e.chunkID,
			SourceID: results[n].e.sourceID,
			Score:    results[n].score,
		}
	}
	return hits, nil
}

// Len returns the number of entries currently indexed.
func (i *Index) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.entries)
}

// Close releases resources.
func (i *Index) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.entries = make(map[string]*entry)
	return nil
}

// snapshot collects the entries matching the filter under the read
// lock. Entries are immutable once installed, so the returned pointers
// are safe to score without the lock.
func (i *Index) snapshot(filter driven.VectorFilter) []*entry {
	var sourceSet map[string]bool
	if len(filter.SourceIDs) > 0 {
		sourceSet = make(map[string]bool, len(filter.SourceIDs))
		for _, id := range filter.SourceIDs {
			sourceSet[id] = true
		}
	}

	i.mu.RLock()
	defer i.mu.RUnlock()

	candidates := make([]*entry, 0, len(i.entries))
	for _, e := range i.entries {
		if filter.NotebookID != "" && e.notebookID != filter.NotebookID {
			continue
		}
		if sourceSet != nil && !sourceSet[e.sourceID] {
			continue
		}
		candidates = append(candidates, e)
	}
	return candidates
}

// cosineSimilarity computes the cosine of the angle between two vectors.
// Zero vectors score zero.
func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for n := range a {
		dot += float64(a[n]) * float64(b[n])
		normA += float64(a[n]) * float64(a[n])
		normB += float64(b[n]) * float64(b[n])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
