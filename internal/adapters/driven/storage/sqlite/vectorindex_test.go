package sqlite

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/inkwell/internal/core/domain"
	"github.com/custodia-labs/inkwell/internal/core/ports/driven"
	"github.com/custodia-labs/inkwell/internal/core/ports/driving"
	"github.com/custodia-labs/inkwell/internal/core/services"
)

// fixedEmbedder returns a constant vector; enough to drive the retrieve
// service against a hydrated index.
type fixedEmbedder struct {
	vector []float32
}

func (e *fixedEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	return e.vector, nil
}

func (e *fixedEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = e.vector
	}
	return out, nil
}

func (e *fixedEmbedder) Dimensions() int { return len(e.vector) }

func (e *fixedEmbedder) ModelName() string { return "fixed" }

func (e *fixedEmbedder) Ping(context.Context) error { return nil }

func (e *fixedEmbedder) Close() error { return nil }

// seedIndexedSource writes a notebook, a completed source and its chunks,
// then upserts their vectors through the persistent index.
func seedIndexedSource(t *testing.T, store *Store, dims int) {
	t.Helper()
	ctx := context.Background()

	createTestNotebook(t, store, "nb-1")
	require.NoError(t, store.SourceStore().Save(ctx, domain.Source{
		ID:         "s1",
		NotebookID: "nb-1",
		Title:      "Paper",
		Origin:     domain.OriginText,
		Status:     domain.StatusCompleted,
		Version:    1,
	}))
	require.NoError(t, store.ChunkStore().SaveChunks(ctx, []domain.Chunk{
		{ID: "c1", SourceID: "s1", NotebookID: "nb-1", Position: 0, Start: 0, End: 5, Content: "First"},
		{ID: "c2", SourceID: "s1", NotebookID: "nb-1", Position: 1, Start: 6, End: 12, Content: "Second"},
	}))

	index, err := store.VectorIndex(dims)
	require.NoError(t, err)
	require.NoError(t, index.Upsert(ctx, "c1", "s1", "nb-1", []float32{1, 0, 0, 0}))
	require.NoError(t, index.Upsert(ctx, "c2", "s1", "nb-1", []float32{0, 1, 0, 0}))
	require.NoError(t, index.Close())
}

func TestVectorIndex_SearchAfterReopen(t *testing.T) {
	ctx := context.Background()
	tempDir, err := os.MkdirTemp("", "inkwell-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	seedIndexedSource(t, store, 4)
	require.NoError(t, store.Close())

	// A fresh process must see what the previous one indexed.
	store, err = NewStore(tempDir)
	require.NoError(t, err)
	defer store.Close()

	index, err := store.VectorIndex(4)
	require.NoError(t, err)
	assert.Equal(t, 2, index.Len())

	hits, err := index.Search(ctx, []float32{1, 0, 0, 0}, 10, driven.VectorFilter{NotebookID: "nb-1"})
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "c1", hits[0].ChunkID)
	assert.Equal(t, "s1", hits[0].SourceID)
	assert.Greater(t, hits[0].Score, hits[1].Score)
}

func TestVectorIndex_RetrieveAfterReopen(t *testing.T) {
	ctx := context.Background()
	tempDir, err := os.MkdirTemp("", "inkwell-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	seedIndexedSource(t, store, 4)
	require.NoError(t, store.Close())

	store, err = NewStore(tempDir)
	require.NoError(t, err)
	defer store.Close()

	index, err := store.VectorIndex(4)
	require.NoError(t, err)

	retrieve := services.NewRetrieveService(
		store.NotebookStore(), store.SourceStore(), store.ChunkStore(),
		index, &fixedEmbedder{vector: []float32{1, 0, 0, 0}},
	)
	citations, err := retrieve.Retrieve(ctx, "first", driving.RetrieveOptions{NotebookID: "nb-1"})
	require.NoError(t, err)
	require.NotEmpty(t, citations, "a completed source must remain retrievable after restart")
	assert.Equal(t, "c1", citations[0].ChunkID)
	assert.Equal(t, "Paper", citations[0].Title)
}

func TestVectorIndex_DeleteBySourceSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	tempDir, err := os.MkdirTemp("", "inkwell-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	seedIndexedSource(t, store, 4)

	index, err := store.VectorIndex(4)
	require.NoError(t, err)
	require.NoError(t, index.DeleteBySource(ctx, "s1"))
	require.NoError(t, store.Close())

	store, err = NewStore(tempDir)
	require.NoError(t, err)
	defer store.Close()

	index, err = store.VectorIndex(4)
	require.NoError(t, err)
	assert.Equal(t, 0, index.Len())
}

func TestVectorIndex_DeleteByNotebookSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	tempDir, err := os.MkdirTemp("", "inkwell-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	seedIndexedSource(t, store, 4)

	index, err := store.VectorIndex(4)
	require.NoError(t, err)
	require.NoError(t, index.DeleteByNotebook(ctx, "nb-1"))
	require.NoError(t, store.Close())

	store, err = NewStore(tempDir)
	require.NoError(t, err)
	defer store.Close()

	index, err = store.VectorIndex(4)
	require.NoError(t, err)
	assert.Equal(t, 0, index.Len())
}

func TestVectorIndex_SkipsStaleDimensions(t *testing.T) {
	store := setupTestStore(t)
	seedIndexedSource(t, store, 4)

	// A changed embedding model must not poison the index; stale vectors
	// are skipped until their sources are re-ingested.
	index, err := store.VectorIndex(3)
	require.NoError(t, err)
	assert.Equal(t, 0, index.Len())
}

func TestVectorIndex_ChunkDeletionCascades(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	seedIndexedSource(t, store, 4)

	// Replacing a source's chunk sequence drops the old vector rows via
	// the foreign key, so a rebuilt index never sees orphans.
	require.NoError(t, store.ChunkStore().DeleteBySource(ctx, "s1"))

	index, err := store.VectorIndex(4)
	require.NoError(t, err)
	assert.Equal(t, 0, index.Len())
}

func TestEncodeDecodeVector(t *testing.T) {
	in := []float32{0.25, -1.5, 0, 3.75}
	out := decodeVector(encodeVector(in))
	assert.Equal(t, in, out)
}
