package driven

import (
	"context"

	"github.com/custodia-labs/inkwell/internal/core/domain"
)

// Generator is the opaque generation capability consumed by the answer
// assembler. This is an optional service - when nil, answers cannot be
// assembled but ingestion and retrieval still work.
//
// Implementations may include:
//   - OpenAI (GPT-4 family)
//   - Anthropic (Claude)
//   - Ollama (local models)
type Generator interface {
	// Generate produces text grounded in the supplied chunks, given the
	// conversation history. CitedChunkIDs in the result reports which
	// grounding chunks the generation actually drew on; implementations
	// must only report IDs that were supplied.
	Generate(ctx context.Context, history []domain.Message, grounding []GroundingChunk, opts GenerateOptions) (*GenerationResult, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GroundingChunk is one retrieved chunk handed to the generator as
// context material.
type GroundingChunk struct {
	// ChunkID identifies the chunk for citation reporting.
	ChunkID string

	// Title is the owning source's title.
	Title string

	// Content is the chunk text.
	Content string
}

// GenerateOptions configures generation behaviour.
type GenerateOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64
}

// GenerationResult is the generator's output.
type GenerationResult struct {
	// Text is the generated content.
	Text string

	// CitedChunkIDs lists the grounding chunks the text draws on,
	// in first-use order.
	CitedChunkIDs []string
}
