package sqlite

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/inkwell/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "inkwell-test-*")
	require.NoError(t, err)

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NotNil(t, store)

	t.Cleanup(func() {
		assert.NoError(t, store.Close())
		assert.NoError(t, os.RemoveAll(tempDir))
	})

	return store
}

// createTestNotebook creates a notebook to satisfy foreign key constraints.
func createTestNotebook(t *testing.T, store *Store, id string) {
	t.Helper()
	require.NoError(t, store.NotebookStore().Save(context.Background(), domain.Notebook{
		ID:    id,
		Title: "Notebook " + id,
	}))
}

// createTestSource creates a source to satisfy foreign key constraints.
func createTestSource(t *testing.T, store *Store, id, notebookID string) {
	t.Helper()
	require.NoError(t, store.SourceStore().Save(context.Background(), domain.Source{
		ID:         id,
		NotebookID: notebookID,
		Origin:     domain.OriginText,
		Status:     domain.StatusPending,
		Version:    1,
	}))
}

func TestStore_MigrationsIdempotent(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "inkwell-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Reopening must not re-run applied migrations.
	store, err = NewStore(tempDir)
	require.NoError(t, err)
	assert.NoError(t, store.Close())
}

func TestNotebookStore_CRUD(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	notebooks := store.NotebookStore()

	nb := domain.Notebook{ID: "nb-1", Title: "Research", Description: "reading"}
	require.NoError(t, notebooks.Save(ctx, nb))

	got, err := notebooks.Get(ctx, "nb-1")
	require.NoError(t, err)
	assert.Equal(t, "Research", got.Title)
	assert.Equal(t, "reading", got.Description)
	assert.False(t, got.CreatedAt.IsZero())

	nb.Title = "Renamed"
	require.NoError(t, notebooks.Save(ctx, nb))
	got, err = notebooks.Get(ctx, "nb-1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)

	all, err := notebooks.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, notebooks.Delete(ctx, "nb-1"))
	_, err = notebooks.Get(ctx, "nb-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSourceStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	createTestNotebook(t, store, "nb-1")
	sources := store.SourceStore()

	pages := 12
	source := domain.Source{
		ID:         "s1",
		NotebookID: "nb-1",
		Title:      "Paper",
		Origin:     domain.OriginPDF,
		Content:    "extracted text",
		Metadata:   domain.SourceMetadata{URL: "https://example.com", Pages: &pages, Size: 42},
		Status:     domain.StatusCompleted,
		Version:    2,
		CreatedAt:  time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, sources.Save(ctx, source))

	got, err := sources.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, domain.OriginPDF, got.Origin)
	assert.Equal(t, domain.StatusCompleted, got.Status)
	assert.Equal(t, 2, got.Version)
	require.NotNil(t, got.Metadata.Pages)
	assert.Equal(t, 12, *got.Metadata.Pages)
	assert.Equal(t, "https://example.com", got.Metadata.URL)
}

func TestSourceStore_ListByNotebook(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	createTestNotebook(t, store, "nb-a")
	createTestNotebook(t, store, "nb-b")
	createTestSource(t, store, "s1", "nb-a")
	createTestSource(t, store, "s2", "nb-a")
	createTestSource(t, store, "s3", "nb-b")

	sources, err := store.SourceStore().ListByNotebook(ctx, "nb-a")
	require.NoError(t, err)
	assert.Len(t, sources, 2)

	sources, err = store.SourceStore().ListByNotebook(ctx, "nb-missing")
	require.NoError(t, err)
	assert.Empty(t, sources)
}

func TestSourceStore_GetMissing(t *testing.T) {
	store := setupTestStore(t)
	_, err := store.SourceStore().Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestChunkStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	createTestNotebook(t, store, "nb-1")
	createTestSource(t, store, "s1", "nb-1")
	chunks := store.ChunkStore()

	page := 3
	ts := 12.5
	require.NoError(t, chunks.SaveChunks(ctx, []domain.Chunk{
		{ID: "c1", SourceID: "s1", NotebookID: "nb-1", Position: 0, Start: 0, End: 10, Content: "first", Page: &page},
		{ID: "c2", SourceID: "s1", NotebookID: "nb-1", Position: 1, Start: 10, End: 20, Content: "second", Timestamp: &ts},
	}))

	got, err := chunks.ListBySource(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].Content)
	require.NotNil(t, got[0].Page)
	assert.Equal(t, 3, *got[0].Page)
	assert.Nil(t, got[0].Timestamp)
	require.NotNil(t, got[1].Timestamp)
	assert.InDelta(t, 12.5, *got[1].Timestamp, 1e-9)

	one, err := chunks.GetChunk(ctx, "c2")
	require.NoError(t, err)
	assert.Equal(t, 1, one.Position)
	assert.Equal(t, 10, one.Start)
	assert.Equal(t, 20, one.End)

	_, err = chunks.GetChunk(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestChunkStore_SaveReplacesSequence(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	createTestNotebook(t, store, "nb-1")
	createTestSource(t, store, "s1", "nb-1")
	chunks := store.ChunkStore()

	require.NoError(t, chunks.SaveChunks(ctx, []domain.Chunk{
		{ID: "old-1", SourceID: "s1", NotebookID: "nb-1", Position: 0, End: 5, Content: "old"},
		{ID: "old-2", SourceID: "s1", NotebookID: "nb-1", Position: 1, Start: 5, End: 9, Content: "old"},
	}))
	require.NoError(t, chunks.SaveChunks(ctx, []domain.Chunk{
		{ID: "new-1", SourceID: "s1", NotebookID: "nb-1", Position: 0, End: 7, Content: "new"},
	}))

	got, err := chunks.ListBySource(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "new-1", got[0].ID)
}

func TestChunkStore_DeleteBySource(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	createTestNotebook(t, store, "nb-1")
	createTestSource(t, store, "s1", "nb-1")
	chunks := store.ChunkStore()

	require.NoError(t, chunks.SaveChunks(ctx, []domain.Chunk{
		{ID: "c1", SourceID: "s1", NotebookID: "nb-1", End: 5, Content: "x"},
	}))
	require.NoError(t, chunks.DeleteBySource(ctx, "s1"))

	got, err := chunks.ListBySource(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStore_DeleteNotebookCascades(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	createTestNotebook(t, store, "nb-1")
	createTestSource(t, store, "s1", "nb-1")
	require.NoError(t, store.ChunkStore().SaveChunks(ctx, []domain.Chunk{
		{ID: "c1", SourceID: "s1", NotebookID: "nb-1", End: 5, Content: "x"},
	}))

	require.NoError(t, store.NotebookStore().Delete(ctx, "nb-1"))

	_, err := store.SourceStore().Get(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	chunks, err := store.ChunkStore().ListBySource(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, chunks)
}
