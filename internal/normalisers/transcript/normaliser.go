package transcript

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/custodia-labs/inkwell/internal/core/domain"
	"github.com/custodia-labs/inkwell/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles video and audio origins. No media decoding happens
// here: these origins only accept pre-supplied transcripts, plain or in
// SRT/WebVTT form. Cue numbers and timestamp lines are stripped; the
// media duration is recorded when the last cue end time reveals it.
type Normaliser struct{}

// New creates a new transcript normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedOrigins returns the origin types this normaliser handles.
func (n *Normaliser) SupportedOrigins() []domain.OriginType {
	return []domain.OriginType{domain.OriginVideo, domain.OriginAudio}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50
}

// Pre-compiled regular expressions for cue parsing.
var (
	// 00:01:02.500 or 01:02,500 style timestamps, optionally paired with -->.
	cueTiming = regexp.MustCompile(`(?m)^\s*(?:(\d{1,2}):)?(\d{1,2}):(\d{2})[.,](\d{3})\s*-->\s*(?:(\d{1,2}):)?(\d{1,2}):(\d{2})[.,](\d{3}).*$`)
	cueNumber = regexp.MustCompile(`(?m)^\s*\d+\s*$`)
	vttHeader = regexp.MustCompile(`(?m)^WEBVTT.*$`)
)

// Normalise strips cue structure from the transcript and keeps the
// spoken text.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawIntake) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	content := string(raw.Content)

	metadata := domain.SourceMetadata{
		Size:   int64(len(raw.Content)),
		URL:    raw.URL,
		Author: raw.Author,
	}
	if d, ok := lastCueEnd(content); ok {
		metadata.Duration = &d
	}

	return &driven.NormaliseResult{
		Text:     stripCues(content),
		Metadata: metadata,
	}, nil
}

// lastCueEnd returns the end time of the final cue in seconds.
// Plain transcripts without cue timings report no duration.
func lastCueEnd(content string) (float64, bool) {
	matches := cueTiming.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return 0, false
	}

	m := matches[len(matches)-1]
	hours := 0
	if m[5] != "" {
		hours, _ = strconv.Atoi(m[5])
	}
	minutes, _ := strconv.Atoi(m[6])
	seconds, _ := strconv.Atoi(m[7])
	millis, _ := strconv.Atoi(m[8])

	return float64(hours*3600+minutes*60+seconds) + float64(millis)/1000, true
}

// stripCues removes WEBVTT headers, cue numbers and timing lines.
func stripCues(content string) string {
	content = vttHeader.ReplaceAllString(content, "")
	content = cueTiming.ReplaceAllString(content, "")
	content = cueNumber.ReplaceAllString(content, "")

	lines := strings.Split(content, "\n")
	var result []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			result = append(result, line)
		}
	}
	return strings.Join(result, "\n")
}
