package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/inkwell/internal/core/domain"
	"github.com/custodia-labs/inkwell/internal/core/ports/driven"
)

func TestUpsert_DimensionMismatch(t *testing.T) {
	idx := New(3)
	err := idx.Upsert(context.Background(), "c1", "s1", "n1", []float32{1, 0})
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
	assert.Equal(t, 0, idx.Len())
}

func TestSearch_DimensionMismatch(t *testing.T) {
	idx := New(3)
	_, err := idx.Search(context.Background(), []float32{1, 0}, 1, driven.VectorFilter{})
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestSearch_SelfQueryWinsTop(t *testing.T) {
	ctx := context.Background()
	idx := New(3)

	require.NoError(t, idx.Upsert(ctx, "c1", "s1", "n1", []float32{1, 0, 0}))
	require.NoError(t, idx.Upsert(ctx, "c2", "s1", "n1", []float32{0, 1, 0}))
	require.NoError(t, idx.Upsert(ctx, "c3", "s1", "n1", []float32{0.9, 0.1, 0}))

	hits, err := idx.Search(ctx, []float32{1, 0, 0}, 3, driven.VectorFilter{NotebookID: "n1"})
	require.NoError(t, err)
	require.Len(t, hits, 3)

	assert.Equal(t, "c1", hits[0].ChunkID)
	assert.InDelta(t, 1.0, hits[0].Score, 1e-9)

	// Scores are non-increasing across the sequence.
	for i := 1; i < len(hits); i++ {
		assert.LessOrEqual(t, hits[i].Score, hits[i-1].Score)
	}
}

func TestSearch_TieBrokenByInsertionOrder(t *testing.T) {
	ctx := context.Background()
	idx := New(2)

	v := []float32{0.5, 0.5}
	require.NoError(t, idx.Upsert(ctx, "first", "s1", "n1", v))
	require.NoError(t, idx.Upsert(ctx, "second", "s2", "n1", v))

	hits, err := idx.Search(ctx, v, 1, driven.VectorFilter{NotebookID: "n1"})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "first", hits[0].ChunkID, "earlier insertion wins the tie")
}

func TestUpsert_IdempotentKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	idx := New(2)

	v := []float32{1, 0}
	require.NoError(t, idx.Upsert(ctx, "first", "s1", "n1", v))
	require.NoError(t, idx.Upsert(ctx, "second", "s2", "n1", v))
	// Re-upserting the first chunk must not demote it behind the second.
	require.NoError(t, idx.Upsert(ctx, "first", "s1", "n1", v))

	assert.Equal(t, 2, idx.Len())

	hits, err := idx.Search(ctx, v, 1, driven.VectorFilter{NotebookID: "n1"})
	require.NoError(t, err)
	assert.Equal(t, "first", hits[0].ChunkID)
}

func TestDeleteBySource(t *testing.T) {
	ctx := context.Background()
	idx := New(2)

	require.NoError(t, idx.Upsert(ctx, "c1", "s1", "n1", []float32{1, 0}))
	require.NoError(t, idx.Upsert(ctx, "c2", "s1", "n1", []float32{0, 1}))
	require.NoError(t, idx.Upsert(ctx, "c3", "s2", "n1", []float32{1, 1}))

	require.NoError(t, idx.DeleteBySource(ctx, "s1"))
	assert.Equal(t, 1, idx.Len())

	hits, err := idx.Search(ctx, []float32{1, 0}, 10, driven.VectorFilter{NotebookID: "n1"})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "c3", hits[0].ChunkID)
}

func TestSearch_ScopeFiltering(t *testing.T) {
	ctx := context.Background()
	idx := New(2)

	require.NoError(t, idx.Upsert(ctx, "c1", "s1", "nb-a", []float32{1, 0}))
	require.NoError(t, idx.Upsert(ctx, "c2", "s2", "nb-b", []float32{1, 0}))

	hits, err := idx.Search(ctx, []float32{1, 0}, 10, driven.VectorFilter{NotebookID: "nb-a"})
	require.NoError(t, err)
	require.Len(t, hits, 1, "results must never leak across notebooks")
	assert.Equal(t, "c1", hits[0].ChunkID)

	hits, err = idx.Search(ctx, []float32{1, 0}, 10, driven.VectorFilter{
		NotebookID: "nb-a",
		SourceIDs:  []string{"s-other"},
	})
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestSearch_EmptyIndex(t *testing.T) {
	idx := New(2)
	hits, err := idx.Search(context.Background(), []float32{1, 0}, 5, driven.VectorFilter{NotebookID: "n1"})
	require.NoError(t, err)
	assert.Empty(t, hits)
}

// Deletion isolation: searches racing with DeleteBySource may see the
// source's entries or not, but a search started after the delete has
// returned must never see them.
func TestDeleteBySource_ConcurrentSearches(t *testing.T) {
	ctx := context.Background()
	idx := New(2)

	require.NoError(t, idx.Upsert(ctx, "keep", "s-keep", "n1", []float32{1, 0}))
	for _, id := range []string{"d1", "d2", "d3"} {
		require.NoError(t, idx.Upsert(ctx, id, "s-del", "n1", []float32{0, 1}))
	}

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := 0; n < 100; n++ {
				hits, err := idx.Search(ctx, []float32{1, 1}, 10, driven.VectorFilter{NotebookID: "n1"})
				assert.NoError(t, err)
				_ = hits
			}
		}()
	}

	require.NoError(t, idx.DeleteBySource(ctx, "s-del"))

	// Delete has returned: deleted entries must be gone for new searches.
	hits, err := idx.Search(ctx, []float32{0, 1}, 10, driven.VectorFilter{NotebookID: "n1"})
	require.NoError(t, err)
	for _, h := range hits {
		assert.NotEqual(t, "s-del", h.SourceID)
	}

	wg.Wait()
}

func TestConcurrentUpserts(t *testing.T) {
	ctx := context.Background()
	idx := New(2)

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for n := 0; n < 50; n++ {
				id := string(rune('a'+worker)) + "-" + string(rune('0'+n%10))
				err := idx.Upsert(ctx, id, "s1", "n1", []float32{float32(worker), float32(n)})
				assert.NoError(t, err)
			}
		}(w)
	}
	wg.Wait()

	assert.Equal(t, 40, idx.Len(), "4 workers x 10 distinct ids")
}
