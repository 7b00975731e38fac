package transcript

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/inkwell/internal/core/domain"
)

const vtt = `WEBVTT

1
00:00:01.000 --> 00:00:04.500
Hello and welcome to the show.

2
00:00:04.500 --> 00:01:30.250
Today we talk about retrieval.`

func TestSupportedOrigins(t *testing.T) {
	origins := New().SupportedOrigins()
	assert.Contains(t, origins, domain.OriginVideo)
	assert.Contains(t, origins, domain.OriginAudio)
}

func TestNormalise_WebVTT(t *testing.T) {
	raw := &domain.RawIntake{
		Origin:  domain.OriginVideo,
		Content: []byte(vtt),
	}

	result, err := New().Normalise(context.Background(), raw)
	require.NoError(t, err)

	assert.Contains(t, result.Text, "Hello and welcome to the show.")
	assert.Contains(t, result.Text, "Today we talk about retrieval.")
	assert.NotContains(t, result.Text, "-->")
	assert.NotContains(t, result.Text, "WEBVTT")

	require.NotNil(t, result.Metadata.Duration)
	assert.InDelta(t, 90.25, *result.Metadata.Duration, 0.001)
}

func TestNormalise_PlainTranscript(t *testing.T) {
	raw := &domain.RawIntake{
		Origin:  domain.OriginAudio,
		Content: []byte("Speaker one says a thing. Speaker two replies."),
	}

	result, err := New().Normalise(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, "Speaker one says a thing. Speaker two replies.", result.Text)
	assert.Nil(t, result.Metadata.Duration, "no cue timings means no duration")
}

func TestNormalise_NilIntake(t *testing.T) {
	result, err := New().Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, result)
}
