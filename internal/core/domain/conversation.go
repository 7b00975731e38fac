package domain

// Message is a single turn in a conversation with the answerer.
type Message struct {
	// Role is one of "system", "user", or "assistant".
	Role string

	// Content is the message text.
	Content string
}

// Answer is a generated response grounded in cited source material.
type Answer struct {
	// Content is the generated text.
	Content string

	// Sources are the citations the generation step actually used.
	// Always a subset of the citations supplied as grounding context.
	Sources []Citation

	// Degraded marks an answer that could not be grounded because the
	// generation capability failed or timed out. Degraded answers carry
	// no sources and must not be presented as grounded.
	Degraded bool
}
