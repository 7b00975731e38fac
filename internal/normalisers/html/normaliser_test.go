package html

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/inkwell/internal/core/domain"
)

const page = `<!DOCTYPE html>
<html>
<head>
  <title>Example &amp; Friends</title>
  <style>body { color: red; }</style>
</head>
<body>
  <script>alert("nope");</script>
  <h1>Welcome</h1>
  <p>First paragraph with <b>bold</b> text.</p>
  <p>Second paragraph.</p>
</body>
</html>`

func TestSupportedOrigins(t *testing.T) {
	assert.Equal(t, []domain.OriginType{domain.OriginWebsite}, New().SupportedOrigins())
}

func TestNormalise_StripsMarkup(t *testing.T) {
	raw := &domain.RawIntake{
		Origin:  domain.OriginWebsite,
		URL:     "https://example.com/page",
		Content: []byte(page),
	}

	result, err := New().Normalise(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, "Example & Friends", result.Title)
	assert.Contains(t, result.Text, "Welcome")
	assert.Contains(t, result.Text, "First paragraph with bold text.")
	assert.Contains(t, result.Text, "Second paragraph.")
	assert.NotContains(t, result.Text, "alert")
	assert.NotContains(t, result.Text, "color: red")
	assert.NotContains(t, result.Text, "<p>")
	assert.Equal(t, "https://example.com/page", result.Metadata.URL)
}

func TestNormalise_NoTitle(t *testing.T) {
	raw := &domain.RawIntake{
		Origin:  domain.OriginWebsite,
		Content: []byte("<p>bare fragment</p>"),
	}

	result, err := New().Normalise(context.Background(), raw)
	require.NoError(t, err)
	assert.Empty(t, result.Title)
	assert.Equal(t, "bare fragment", result.Text)
}

func TestNormalise_NilIntake(t *testing.T) {
	result, err := New().Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, result)
}
