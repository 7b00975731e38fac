package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/inkwell/internal/core/domain"
	"github.com/custodia-labs/inkwell/internal/core/ports/driving"
)

func newRetrieveEnv(t *testing.T) (*testEnv, *RetrieveService) {
	t.Helper()
	env := newTestEnv(t)
	retriever := NewRetrieveService(
		env.notebooks, env.sources, env.chunks, env.index, env.embedder,
	)
	return env, retriever
}

// seedChunk stores a chunk plus its vector so retrieval can hydrate it.
// SaveChunks replaces a source's chunks as a unit, so existing chunks
// are carried over.
func seedChunk(t *testing.T, env *testEnv, chunk domain.Chunk, vector []float32) {
	t.Helper()
	ctx := context.Background()
	existing, err := env.chunks.ListBySource(ctx, chunk.SourceID)
	require.NoError(t, err)
	require.NoError(t, env.chunks.SaveChunks(ctx, append(existing, chunk)))
	require.NoError(t, env.index.Upsert(ctx, chunk.ID, chunk.SourceID, chunk.NotebookID, vector))
}

func TestRetrieve_OrdersByScore(t *testing.T) {
	ctx := context.Background()
	env, retriever := newRetrieveEnv(t)

	require.NoError(t, env.sources.Save(ctx, domain.Source{
		ID: "s1", NotebookID: "nb-1", Title: "Paper",
	}))

	// Query vector is fixed; c-near points the same way, c-far does not.
	env.embedder.vectors["what is this about"] = []float32{1, 0, 0, 0}
	seedChunk(t, env, domain.Chunk{
		ID: "c-near", SourceID: "s1", NotebookID: "nb-1", Content: "Close match content.",
	}, []float32{1, 0.1, 0, 0})
	seedChunk(t, env, domain.Chunk{
		ID: "c-far", SourceID: "s1", NotebookID: "nb-1", Content: "Unrelated content.",
	}, []float32{0, 1, 0, 0})

	citations, err := retriever.Retrieve(ctx, "what is this about", driving.RetrieveOptions{NotebookID: "nb-1"})
	require.NoError(t, err)
	require.Len(t, citations, 2)

	assert.Equal(t, "c-near", citations[0].ChunkID)
	assert.Equal(t, "c-far", citations[1].ChunkID)
	assert.GreaterOrEqual(t, citations[0].Score, citations[1].Score)
	assert.Equal(t, "Paper", citations[0].Title)
}

func TestRetrieve_UnknownNotebook(t *testing.T) {
	_, retriever := newRetrieveEnv(t)

	_, err := retriever.Retrieve(context.Background(), "anything", driving.RetrieveOptions{NotebookID: "nb-missing"})
	assert.ErrorIs(t, err, domain.ErrScopeNotFound)
}

func TestRetrieve_EmptyQuery(t *testing.T) {
	_, retriever := newRetrieveEnv(t)

	citations, err := retriever.Retrieve(context.Background(), "   ", driving.RetrieveOptions{NotebookID: "nb-1"})
	require.NoError(t, err)
	assert.Empty(t, citations)
}

func TestRetrieve_EmptyNotebook(t *testing.T) {
	_, retriever := newRetrieveEnv(t)

	citations, err := retriever.Retrieve(context.Background(), "anything", driving.RetrieveOptions{NotebookID: "nb-1"})
	require.NoError(t, err)
	assert.Empty(t, citations)
}

func TestRetrieve_ScopedToNotebook(t *testing.T) {
	ctx := context.Background()
	env, retriever := newRetrieveEnv(t)
	require.NoError(t, env.notebooks.Save(ctx, domain.Notebook{ID: "nb-2", Title: "Other"}))

	require.NoError(t, env.sources.Save(ctx, domain.Source{ID: "s1", NotebookID: "nb-1", Title: "Mine"}))
	require.NoError(t, env.sources.Save(ctx, domain.Source{ID: "s2", NotebookID: "nb-2", Title: "Theirs"}))

	env.embedder.vectors["query"] = []float32{1, 0, 0, 0}
	seedChunk(t, env, domain.Chunk{ID: "c1", SourceID: "s1", NotebookID: "nb-1", Content: "mine"}, []float32{1, 0, 0, 0})
	seedChunk(t, env, domain.Chunk{ID: "c2", SourceID: "s2", NotebookID: "nb-2", Content: "theirs"}, []float32{1, 0, 0, 0})

	citations, err := retriever.Retrieve(ctx, "query", driving.RetrieveOptions{NotebookID: "nb-1"})
	require.NoError(t, err)
	require.Len(t, citations, 1)
	assert.Equal(t, "c1", citations[0].ChunkID)
}

func TestRetrieve_SourceFilter(t *testing.T) {
	ctx := context.Background()
	env, retriever := newRetrieveEnv(t)

	require.NoError(t, env.sources.Save(ctx, domain.Source{ID: "s1", NotebookID: "nb-1"}))
	require.NoError(t, env.sources.Save(ctx, domain.Source{ID: "s2", NotebookID: "nb-1"}))

	env.embedder.vectors["query"] = []float32{1, 0, 0, 0}
	seedChunk(t, env, domain.Chunk{ID: "c1", SourceID: "s1", NotebookID: "nb-1", Content: "a"}, []float32{1, 0, 0, 0})
	seedChunk(t, env, domain.Chunk{ID: "c2", SourceID: "s2", NotebookID: "nb-1", Content: "b"}, []float32{1, 0, 0, 0})

	citations, err := retriever.Retrieve(ctx, "query", driving.RetrieveOptions{
		NotebookID: "nb-1",
		SourceIDs:  []string{"s2"},
	})
	require.NoError(t, err)
	require.Len(t, citations, 1)
	assert.Equal(t, "c2", citations[0].ChunkID)
}

func TestRetrieve_MinScoreThreshold(t *testing.T) {
	ctx := context.Background()
	env, retriever := newRetrieveEnv(t)
	require.NoError(t, env.sources.Save(ctx, domain.Source{ID: "s1", NotebookID: "nb-1"}))

	env.embedder.vectors["query"] = []float32{1, 0, 0, 0}
	seedChunk(t, env, domain.Chunk{ID: "c-hit", SourceID: "s1", NotebookID: "nb-1", Content: "hit"}, []float32{1, 0, 0, 0})
	seedChunk(t, env, domain.Chunk{ID: "c-miss", SourceID: "s1", NotebookID: "nb-1", Content: "miss"}, []float32{0, 0, 1, 0})

	citations, err := retriever.Retrieve(ctx, "query", driving.RetrieveOptions{
		NotebookID: "nb-1",
		MinScore:   0.5,
	})
	require.NoError(t, err)
	require.Len(t, citations, 1)
	assert.Equal(t, "c-hit", citations[0].ChunkID)
}

func TestRetrieve_TopKLimits(t *testing.T) {
	ctx := context.Background()
	env, retriever := newRetrieveEnv(t)
	require.NoError(t, env.sources.Save(ctx, domain.Source{ID: "s1", NotebookID: "nb-1"}))

	env.embedder.vectors["query"] = []float32{1, 0, 0, 0}
	for _, id := range []string{"c1", "c2", "c3"} {
		seedChunk(t, env, domain.Chunk{ID: id, SourceID: "s1", NotebookID: "nb-1", Content: id}, []float32{1, 0, 0, 0})
	}

	citations, err := retriever.Retrieve(ctx, "query", driving.RetrieveOptions{
		NotebookID: "nb-1",
		TopK:       2,
	})
	require.NoError(t, err)
	assert.Len(t, citations, 2)
}

func TestRetrieve_EmbeddingFailure(t *testing.T) {
	env, retriever := newRetrieveEnv(t)
	env.embedder.failures = 10

	_, err := retriever.Retrieve(context.Background(), "query", driving.RetrieveOptions{NotebookID: "nb-1"})
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestRetrieve_ExcerptBounded(t *testing.T) {
	ctx := context.Background()
	env, retriever := newRetrieveEnv(t)
	require.NoError(t, env.sources.Save(ctx, domain.Source{ID: "s1", NotebookID: "nb-1"}))

	long := ""
	for i := 0; i < 50; i++ {
		long += "verylongword "
	}
	env.embedder.vectors["query"] = []float32{1, 0, 0, 0}
	seedChunk(t, env, domain.Chunk{ID: "c1", SourceID: "s1", NotebookID: "nb-1", Content: long}, []float32{1, 0, 0, 0})

	citations, err := retriever.Retrieve(ctx, "query", driving.RetrieveOptions{NotebookID: "nb-1"})
	require.NoError(t, err)
	require.Len(t, citations, 1)
	assert.LessOrEqual(t, len(citations[0].Excerpt), maxExcerptChars+3)
}

func TestRetrieve_SkipsDanglingHits(t *testing.T) {
	ctx := context.Background()
	env, retriever := newRetrieveEnv(t)
	require.NoError(t, env.sources.Save(ctx, domain.Source{ID: "s1", NotebookID: "nb-1"}))

	env.embedder.vectors["query"] = []float32{1, 0, 0, 0}
	seedChunk(t, env, domain.Chunk{ID: "c1", SourceID: "s1", NotebookID: "nb-1", Content: "stays"}, []float32{1, 0, 0, 0})
	// Vector indexed without a stored chunk behind it.
	require.NoError(t, env.index.Upsert(ctx, "c-ghost", "s1", "nb-1", []float32{1, 0, 0, 0}))

	citations, err := retriever.Retrieve(ctx, "query", driving.RetrieveOptions{NotebookID: "nb-1"})
	require.NoError(t, err)
	require.Len(t, citations, 1)
	assert.Equal(t, "c1", citations[0].ChunkID)
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "short", excerpt("short", 10))
	assert.Equal(t, "exactly ten", excerpt("exactly ten", 11))

	out := excerpt("one two three four five six seven", 15)
	assert.True(t, len(out) <= 18)
	assert.Contains(t, out, "...")
}
