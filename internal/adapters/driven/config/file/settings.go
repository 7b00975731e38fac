package file

import "time"

// Configuration keys.
const (
	KeyDataDir = "data.dir"

	KeyEmbeddingProvider   = "embedding.provider" // "openai" or "ollama"
	KeyEmbeddingModel      = "embedding.model"
	KeyEmbeddingBaseURL    = "embedding.base_url"
	KeyEmbeddingAPIKey     = "embedding.api_key"
	KeyEmbeddingDimensions = "embedding.dimensions"
	KeyEmbeddingRetries    = "embedding.retries"

	KeyGeneratorProvider = "generator.provider" // "openai" or "anthropic"
	KeyGeneratorModel    = "generator.model"
	KeyGeneratorBaseURL  = "generator.base_url"
	KeyGeneratorAPIKey   = "generator.api_key"
	KeyGeneratorTimeout  = "generator.timeout_seconds"

	KeyChunkSize         = "ingest.chunk_chars"
	KeyIngestWorkers     = "ingest.workers"
	KeyRetrievalTopK     = "retrieval.top_k"
	KeyRetrievalMinScore = "retrieval.min_score"
)

// Settings is the typed view of the configuration the CLI wires the
// services with. Zero values mean "use the component default".
type Settings struct {
	DataDir string

	EmbeddingProvider   string
	EmbeddingModel      string
	EmbeddingBaseURL    string
	EmbeddingAPIKey     string
	EmbeddingDimensions int
	EmbeddingRetries    int

	GeneratorProvider string
	GeneratorModel    string
	GeneratorBaseURL  string
	GeneratorAPIKey   string
	GeneratorTimeout  time.Duration

	ChunkSize         int
	IngestWorkers     int
	RetrievalTopK     int
	RetrievalMinScore float64
}

// Settings reads the typed settings out of the store.
func (s *ConfigStore) Settings() Settings {
	return Settings{
		DataDir: s.GetString(KeyDataDir),

		EmbeddingProvider:   s.GetString(KeyEmbeddingProvider),
		EmbeddingModel:      s.GetString(KeyEmbeddingModel),
		EmbeddingBaseURL:    s.GetString(KeyEmbeddingBaseURL),
		EmbeddingAPIKey:     s.GetString(KeyEmbeddingAPIKey),
		EmbeddingDimensions: s.GetInt(KeyEmbeddingDimensions),
		EmbeddingRetries:    s.GetInt(KeyEmbeddingRetries),

		GeneratorProvider: s.GetString(KeyGeneratorProvider),
		GeneratorModel:    s.GetString(KeyGeneratorModel),
		GeneratorBaseURL:  s.GetString(KeyGeneratorBaseURL),
		GeneratorAPIKey:   s.GetString(KeyGeneratorAPIKey),
		GeneratorTimeout:  time.Duration(s.GetInt(KeyGeneratorTimeout)) * time.Second,

		ChunkSize:         s.GetInt(KeyChunkSize),
		IngestWorkers:     s.GetInt(KeyIngestWorkers),
		RetrievalTopK:     s.GetInt(KeyRetrievalTopK),
		RetrievalMinScore: s.GetFloat(KeyRetrievalMinScore),
	}
}
