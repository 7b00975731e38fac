package driven

import (
	"context"

	"github.com/custodia-labs/inkwell/internal/core/domain"
)

// Normaliser extracts plain text and provenance metadata from a raw
// intake payload. Each normaliser handles specific origin types.
type Normaliser interface {
	// SupportedOrigins returns the origin types this normaliser handles.
	SupportedOrigins() []domain.OriginType

	// Priority returns the selection priority (higher = preferred).
	// Specialised normalisers should return 50-89.
	// Fallback normalisers should return 1-9.
	Priority() int

	// Normalise extracts text from the raw payload. It has no side
	// effects; source status transitions belong to the caller.
	Normalise(ctx context.Context, raw *domain.RawIntake) (*NormaliseResult, error)
}

// NormaliseResult contains the output of normalisation.
// Chunking is a separate stage and operates on Text.
type NormaliseResult struct {
	// Text is the extracted plain text.
	Text string

	// Title is the extracted title, when the payload declares one.
	// Empty means keep the intake's declared title.
	Title string

	// Metadata is provenance extracted from the payload (page count,
	// duration). Fields remain absent when not determinable.
	Metadata domain.SourceMetadata
}

// NormaliserRegistry selects the appropriate normaliser for an intake.
// It maintains a priority-ordered list of normalisers and dispatches
// based on origin type.
type NormaliserRegistry interface {
	// Normalise transforms a raw intake using the best matching normaliser.
	// Returns domain.ErrUnsupportedFormat when no normaliser matches and
	// domain.ErrEmptyContent when the extracted text trims to nothing.
	Normalise(ctx context.Context, raw *domain.RawIntake) (*NormaliseResult, error)

	// Register adds a normaliser to the registry.
	Register(normaliser Normaliser)

	// SupportedOrigins returns all origin types that can be normalised.
	SupportedOrigins() []domain.OriginType
}
