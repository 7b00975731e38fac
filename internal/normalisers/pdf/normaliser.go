package pdf

import (
	"bytes"
	"context"
	"io"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/inkwell/internal/core/domain"
	"github.com/custodia-labs/inkwell/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles PDF payloads with best-effort text extraction.
type Normaliser struct{}

// New creates a new PDF normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedOrigins returns the origin types this normaliser handles.
func (n *Normaliser) SupportedOrigins() []domain.OriginType {
	return []domain.OriginType{domain.OriginPDF}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50
}

// Normalise extracts plain text and the page count from the PDF.
// The page count is only recorded when the reader can determine it;
// it is never fabricated. Malformed PDFs are unsupported input, not a
// crash: the pdf library panics on some corrupt files, and that panic
// is converted to an error here.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawIntake) (result *driven.NormaliseResult, err error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = domain.ErrUnsupportedFormat
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(raw.Content), int64(len(raw.Content)))
	if err != nil {
		return nil, domain.ErrUnsupportedFormat
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return nil, domain.ErrUnsupportedFormat
	}

	text, err := io.ReadAll(plain)
	if err != nil {
		return nil, domain.ErrUnsupportedFormat
	}

	metadata := domain.SourceMetadata{
		Size:   int64(len(raw.Content)),
		Author: raw.Author,
	}
	if pages := reader.NumPage(); pages > 0 {
		metadata.Pages = &pages
	}

	return &driven.NormaliseResult{
		Text:     string(text),
		Metadata: metadata,
	}, nil
}
