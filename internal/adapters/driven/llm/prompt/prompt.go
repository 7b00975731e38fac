// Package prompt builds grounding prompts shared by the generator
// adapters and maps citation markers in generated text back to chunk
// IDs.
package prompt

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/custodia-labs/inkwell/internal/core/domain"
	"github.com/custodia-labs/inkwell/internal/core/ports/driven"
)

// citationMarker matches [1], [2], ... markers in generated text.
var citationMarker = regexp.MustCompile(`\[(\d+)\]`)

const systemPreamble = `You are a research assistant. Answer using ONLY the numbered source excerpts below.
Cite every claim with the excerpt number in square brackets, like [1] or [2].
If the excerpts do not contain the answer, say so plainly instead of guessing.`

// BuildSystem renders the system prompt: instructions followed by the
// numbered grounding excerpts. Excerpt numbers are 1-based and map
// positionally onto the grounding slice.
func BuildSystem(grounding []driven.GroundingChunk) string {
	var b strings.Builder
	b.WriteString(systemPreamble)
	b.WriteString("\n\nSources:\n")
	if len(grounding) == 0 {
		b.WriteString("(no sources available)\n")
		return b.String()
	}
	for i, g := range grounding {
		fmt.Fprintf(&b, "\n[%d] %s\n%s\n", i+1, g.Title, g.Content)
	}
	return b.String()
}

// Messages converts the conversation history into role/content pairs,
// dropping any caller-supplied system turns so the grounding system
// prompt stays authoritative.
func Messages(history []domain.Message) []domain.Message {
	out := make([]domain.Message, 0, len(history))
	for _, m := range history {
		if m.Role == "system" {
			continue
		}
		out = append(out, m)
	}
	return out
}

// ParseCitations extracts [n] markers from generated text and maps them
// to grounding chunk IDs, in first-use order, deduplicated. Markers
// outside the grounding range are ignored.
func ParseCitations(text string, grounding []driven.GroundingChunk) []string {
	matches := citationMarker.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	var ids []string
	seen := make(map[int]bool)
	for _, m := range matches {
		n, err := strconv.Atoi(m[1])
		if err != nil || n < 1 || n > len(grounding) || seen[n] {
			continue
		}
		seen[n] = true
		ids = append(ids, grounding[n-1].ChunkID)
	}
	return ids
}
