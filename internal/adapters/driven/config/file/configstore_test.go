package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestConfig(t *testing.T) (*ConfigStore, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	return store, dir
}

func TestConfigStore_SetGetRoundTrip(t *testing.T) {
	store, _ := setupTestConfig(t)

	require.NoError(t, store.Set("embedding.model", "nomic-embed-text"))
	require.NoError(t, store.Set("retrieval.top_k", int64(5)))
	require.NoError(t, store.Set("retrieval.min_score", 0.35))

	assert.Equal(t, "nomic-embed-text", store.GetString("embedding.model"))
	assert.Equal(t, 5, store.GetInt("retrieval.top_k"))
	assert.InDelta(t, 0.35, store.GetFloat("retrieval.min_score"), 1e-9)
}

func TestConfigStore_PersistsAcrossReopen(t *testing.T) {
	store, dir := setupTestConfig(t)
	require.NoError(t, store.Set("generator.provider", "anthropic"))

	reopened, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, "anthropic", reopened.GetString("generator.provider"))
}

func TestConfigStore_LoadsNestedTables(t *testing.T) {
	dir := t.TempDir()
	content := "[embedding]\nprovider = \"ollama\"\ndimensions = 768\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, "ollama", store.GetString("embedding.provider"))
	assert.Equal(t, 768, store.GetInt("embedding.dimensions"))
}

func TestConfigStore_MissingKeys(t *testing.T) {
	store, _ := setupTestConfig(t)

	assert.Equal(t, "", store.GetString("nope"))
	assert.Equal(t, 0, store.GetInt("nope"))
	assert.Equal(t, 0.0, store.GetFloat("nope"))
	assert.False(t, store.GetBool("nope"))
}

func TestSettings_TypedView(t *testing.T) {
	store, _ := setupTestConfig(t)

	require.NoError(t, store.Set(KeyEmbeddingProvider, "openai"))
	require.NoError(t, store.Set(KeyEmbeddingDimensions, int64(1536)))
	require.NoError(t, store.Set(KeyChunkSize, int64(800)))
	require.NoError(t, store.Set(KeyGeneratorTimeout, int64(45)))

	settings := store.Settings()
	assert.Equal(t, "openai", settings.EmbeddingProvider)
	assert.Equal(t, 1536, settings.EmbeddingDimensions)
	assert.Equal(t, 800, settings.ChunkSize)
	assert.Equal(t, "45s", settings.GeneratorTimeout.String())
}
