package domain

// Chunk is the retrieval unit: a bounded, offset-addressable span of a
// source's normalised text. Chunks are created once by the chunker at
// ingestion time and are immutable thereafter.
//
// For a source's chunk sequence taken in Position order the offsets are
// contiguous and non-overlapping: each chunk's Start equals the previous
// chunk's End, the first Start is 0, and 0 <= Start < End. Offsets are
// measured over the raw accumulation buffers (separator-inclusive), not
// the trimmed Content, so they reproduce exactly on re-ingestion of the
// same text.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// SourceID links to the owning Source.
	SourceID string

	// NotebookID links to the owning Notebook, denormalised for scope
	// filtering without a source lookup.
	NotebookID string

	// Position is the ordinal position within the source.
	Position int

	// Start is the inclusive start offset into the source's normalised text.
	Start int

	// End is the exclusive end offset.
	End int

	// Content is the trimmed text of this chunk.
	Content string

	// Page is the page number for paginated formats, when known.
	Page *int

	// Timestamp is the media offset in seconds for transcript origins,
	// when known.
	Timestamp *float64

	// Section is an optional structural label (heading, cue name).
	Section string
}
