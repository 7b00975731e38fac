package markdown

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/inkwell/internal/core/domain"
)

func TestSupportedOrigins(t *testing.T) {
	origins := New().SupportedOrigins()
	assert.Equal(t, []domain.OriginType{domain.OriginMarkdown}, origins)
}

func TestPriority(t *testing.T) {
	assert.Equal(t, 50, New().Priority())
}

func TestNormalise_StripsFormatting(t *testing.T) {
	raw := &domain.RawIntake{
		Origin: domain.OriginMarkdown,
		Content: []byte(`# My Notes

Some **bold** and *italic* text with a [link](https://example.com).

- item one
- item two

` + "```go\nfmt.Println(\"skip me\")\n```"),
	}

	result, err := New().Normalise(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, "My Notes", result.Title)
	assert.Contains(t, result.Text, "Some bold and italic text with a link.")
	assert.Contains(t, result.Text, "item one")
	assert.NotContains(t, result.Text, "**")
	assert.NotContains(t, result.Text, "[link]")
	assert.NotContains(t, result.Text, "skip me")
}

func TestNormalise_NoHeading(t *testing.T) {
	raw := &domain.RawIntake{
		Origin:  domain.OriginMarkdown,
		Content: []byte("just a paragraph"),
	}

	result, err := New().Normalise(context.Background(), raw)
	require.NoError(t, err)
	assert.Empty(t, result.Title)
	assert.Equal(t, "just a paragraph", result.Text)
}

func TestNormalise_NilIntake(t *testing.T) {
	result, err := New().Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, result)
}
