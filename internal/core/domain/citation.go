package domain

// Citation is a read-only projection of a chunk attached to answers as
// evidence. Citations are derived at query time and never persisted.
type Citation struct {
	// ChunkID is the cited chunk.
	ChunkID string

	// SourceID is the chunk's owning source.
	SourceID string

	// Title is the source title.
	Title string

	// Excerpt is a bounded snippet of the chunk content.
	Excerpt string

	// Page is the page number, when the chunk carries one.
	Page *int

	// URL is the source location for website origins.
	URL string

	// Score is the similarity score the chunk was retrieved with.
	Score float64
}

// ScoredChunk pairs a chunk reference with its similarity score.
// Sequences of ScoredChunk are ordered strictly non-increasing by score.
type ScoredChunk struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// SourceID is the chunk's owning source.
	SourceID string

	// Score is the similarity score.
	Score float64
}
