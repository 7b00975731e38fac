package services

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/inkwell/internal/core/domain"
	"github.com/custodia-labs/inkwell/internal/core/ports/driven"
	"github.com/custodia-labs/inkwell/internal/core/ports/driving"
	"github.com/custodia-labs/inkwell/internal/logger"
)

// Ensure AnswerService implements the interface.
var _ driving.Answerer = (*AnswerService)(nil)

// DefaultGenerateTimeout bounds a single generation call.
const DefaultGenerateTimeout = 30 * time.Second

// degradedContent is the answer body when generation is unavailable.
const degradedContent = "An answer could not be generated from your sources right now. The retrieved material is still available; try again shortly."

// AnswerService assembles grounded answers: it hands the conversation
// and the retrieved chunks to the generator, then filters the reported
// citations down to the supplied grounding set. Generation failure
// never propagates as a bare error; callers get a degraded answer plus
// a typed error they can choose to surface.
type AnswerService struct {
	generator  driven.Generator
	retriever  driving.Retriever
	chunkStore driven.ChunkStore
	timeout    time.Duration
}

// AnswerOption configures the answer service.
type AnswerOption func(*AnswerService)

// WithGenerateTimeout sets the per-call generation deadline.
func WithGenerateTimeout(d time.Duration) AnswerOption {
	return func(s *AnswerService) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// NewAnswerService creates a new answer service. The chunk store is
// used to expand citation excerpts back into full chunk text for
// grounding; when a chunk has vanished the excerpt is used instead.
func NewAnswerService(
	generator driven.Generator,
	retriever driving.Retriever,
	chunkStore driven.ChunkStore,
	opts ...AnswerOption,
) *AnswerService {
	s := &AnswerService{
		generator:  generator,
		retriever:  retriever,
		chunkStore: chunkStore,
		timeout:    DefaultGenerateTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Answer generates a response grounded in the supplied citations.
func (s *AnswerService) Answer(ctx context.Context, history []domain.Message, citations []domain.Citation, opts driving.AnswerOptions) (*domain.Answer, error) {
	if s.generator == nil {
		return nil, fmt.Errorf("%w: no generator configured", domain.ErrInvalidInput)
	}
	if len(history) == 0 {
		return nil, fmt.Errorf("%w: empty conversation", domain.ErrInvalidInput)
	}

	logger.Section("Answering via %s", s.generator.ModelName())
	logger.Debug("Generating with %d grounding chunks", len(citations))

	grounding := s.buildGrounding(ctx, citations)

	genCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result, err := s.generator.Generate(genCtx, history, grounding, driven.GenerateOptions{
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
	})
	if err != nil {
		if ctx.Err() != nil {
			// Caller cancelled; nothing degraded about that.
			return nil, ctx.Err()
		}
		logger.Warn("Generation failed: %v", err)
		return &domain.Answer{
			Content:  degradedContent,
			Degraded: true,
		}, fmt.Errorf("%w: %v", domain.ErrGenerationTimeout, err)
	}

	return &domain.Answer{
		Content: result.Text,
		Sources: citedSubset(citations, result.CitedChunkIDs),
	}, nil
}

// Ask runs the combined flow: retrieve for the last user message, then
// answer grounded in what came back.
func (s *AnswerService) Ask(ctx context.Context, history []domain.Message, retrieve driving.RetrieveOptions, opts driving.AnswerOptions) (*domain.Answer, error) {
	query := lastUserMessage(history)
	if query == "" {
		return nil, fmt.Errorf("%w: no user message to answer", domain.ErrInvalidInput)
	}

	citations, err := s.retriever.Retrieve(ctx, query, retrieve)
	if err != nil {
		return nil, fmt.Errorf("retrieve: %w", err)
	}

	return s.Answer(ctx, history, citations, opts)
}

// buildGrounding expands citations into generator context material,
// preferring the full chunk text over the bounded excerpt.
func (s *AnswerService) buildGrounding(ctx context.Context, citations []domain.Citation) []driven.GroundingChunk {
	grounding := make([]driven.GroundingChunk, 0, len(citations))
	for _, c := range citations {
		content := c.Excerpt
		if s.chunkStore != nil {
			if chunk, err := s.chunkStore.GetChunk(ctx, c.ChunkID); err == nil {
				content = chunk.Content
			}
		}
		grounding = append(grounding, driven.GroundingChunk{
			ChunkID: c.ChunkID,
			Title:   c.Title,
			Content: content,
		})
	}
	return grounding
}

// citedSubset maps the generator's reported chunk IDs back onto the
// supplied citations. IDs that were never supplied are dropped: the
// answer's sources are always a subset of the grounding set.
func citedSubset(citations []domain.Citation, citedIDs []string) []domain.Citation {
	byID := make(map[string]domain.Citation, len(citations))
	for _, c := range citations {
		byID[c.ChunkID] = c
	}

	var sources []domain.Citation
	seen := make(map[string]bool, len(citedIDs))
	for _, id := range citedIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		if c, ok := byID[id]; ok {
			sources = append(sources, c)
		}
	}
	return sources
}

// lastUserMessage returns the content of the most recent user turn.
func lastUserMessage(history []domain.Message) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == "user" {
			return history[i].Content
		}
	}
	return ""
}
