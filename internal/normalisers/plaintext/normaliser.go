package plaintext

import (
	"context"

	"github.com/custodia-labs/inkwell/internal/core/domain"
	"github.com/custodia-labs/inkwell/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles plain text payloads. Content passes through
// verbatim.
type Normaliser struct{}

// New creates a new plain text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedOrigins returns the origin types this normaliser handles.
func (n *Normaliser) SupportedOrigins() []domain.OriginType {
	return []domain.OriginType{
		domain.OriginText,
		domain.OriginMarkdown,
		domain.OriginDocument,
	}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 5 // Fallback normaliser
}

// Normalise passes the raw bytes through as text.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawIntake) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	return &driven.NormaliseResult{
		Text: string(raw.Content),
		Metadata: domain.SourceMetadata{
			Size:   int64(len(raw.Content)),
			URL:    raw.URL,
			Author: raw.Author,
		},
	}, nil
}
