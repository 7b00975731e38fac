package driving

import (
	"context"

	"github.com/custodia-labs/inkwell/internal/core/domain"
)

// RetrieveOptions configures a retrieval query.
type RetrieveOptions struct {
	// NotebookID is the scope to search within (required).
	NotebookID string

	// SourceIDs optionally restricts retrieval to specific sources.
	SourceIDs []string

	// TopK is the maximum number of citations to return (default 10).
	TopK int

	// MinScore drops matches scoring below it. Zero means no threshold.
	MinScore float64
}

// Retriever is the query boundary: embed the query, search the index
// within scope, and return citation-ready chunk references.
type Retriever interface {
	// Retrieve returns citations ordered strictly non-increasing by
	// score. An unknown notebook is domain.ErrScopeNotFound; a notebook
	// with nothing indexed yields an empty slice and no error.
	Retrieve(ctx context.Context, query string, opts RetrieveOptions) ([]domain.Citation, error)
}

// Answerer assembles grounded answers from retrieved citations and the
// opaque generation capability.
type Answerer interface {
	// Answer generates a response grounded in the supplied citations.
	// The answer's sources are always a subset of the supplied
	// citations. Generation failure or timeout yields a degraded,
	// non-nil answer together with domain.ErrGenerationTimeout.
	Answer(ctx context.Context, history []domain.Message, citations []domain.Citation, opts AnswerOptions) (*domain.Answer, error)

	// Ask is the combined flow: retrieve for the final user message,
	// then answer grounded in the retrieved citations.
	Ask(ctx context.Context, history []domain.Message, retrieve RetrieveOptions, opts AnswerOptions) (*domain.Answer, error)
}

// AnswerOptions configures answer generation.
type AnswerOptions struct {
	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64

	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int
}
