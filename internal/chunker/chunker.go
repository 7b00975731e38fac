// Package chunker provides a deterministic sentence-aware text chunker.
package chunker

import (
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/inkwell/internal/core/domain"
)

// DefaultMaxChunkChars is the default chunk size in characters.
const DefaultMaxChunkChars = 1000

// sentenceEnd matches one or more sentence-terminal punctuation marks.
var sentenceEnd = regexp.MustCompile(`[.!?]+`)

// Chunker splits normalised text into bounded, offset-addressable
// chunks. Boundaries and offsets are a pure function of the text and
// the size limit, so re-ingesting identical text reproduces identical
// citations.
type Chunker struct {
	maxChunkChars int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithMaxChunkChars sets the chunk size limit in characters.
func WithMaxChunkChars(n int) Option {
	return func(c *Chunker) {
		if n > 0 {
			c.maxChunkChars = n
		}
	}
}

// New creates a new chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{maxChunkChars: DefaultMaxChunkChars}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Chunk splits text into the chunk sequence for a source.
//
// The algorithm accumulates sentences greedily: when appending the next
// sentence would push the buffer past the limit and the buffer is
// non-empty, the buffer is closed as a chunk and the sentence starts a
// new one. A single sentence longer than the limit is emitted whole,
// never split or truncated. Offsets advance by the raw untrimmed buffer
// length (separator-inclusive), while chunk content is the trimmed
// buffer; the raw arithmetic is what keeps offsets reproducible, so it
// must not be "fixed" to track trimmed lengths or exact source
// positions.
func (c *Chunker) Chunk(sourceID, notebookID, text string) []domain.Chunk {
	sentences := splitSentences(text)

	var chunks []domain.Chunk
	buffer := ""
	start := 0

	for _, sentence := range sentences {
		if len(buffer)+len(sentence) > c.maxChunkChars && len(buffer) > 0 {
			chunks = append(chunks, newChunk(sourceID, notebookID, len(chunks), start, buffer))
			start += len(buffer)
			buffer = sentence
		} else {
			buffer += sentence + ". "
		}
	}

	if strings.TrimSpace(buffer) != "" {
		chunks = append(chunks, newChunk(sourceID, notebookID, len(chunks), start, buffer))
	}

	return chunks
}

// splitSentences splits text on sentence-terminal punctuation runs,
// discarding whitespace-only fragments. Fragments keep their leading
// whitespace: the raw lengths feed the offset arithmetic.
func splitSentences(text string) []string {
	parts := sentenceEnd.Split(text, -1)
	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			sentences = append(sentences, p)
		}
	}
	return sentences
}

func newChunk(sourceID, notebookID string, position, start int, buffer string) domain.Chunk {
	return domain.Chunk{
		ID:         uuid.New().String(),
		SourceID:   sourceID,
		NotebookID: notebookID,
		Position:   position,
		Start:      start,
		End:        start + len(buffer),
		Content:    strings.TrimSpace(buffer),
	}
}
