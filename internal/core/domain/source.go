package domain

import "time"

// OriginType identifies where a source's content came from and how it
// must be normalised.
type OriginType string

// Known origin types.
const (
	OriginText     OriginType = "text"
	OriginMarkdown OriginType = "markdown"
	OriginDocument OriginType = "document"
	OriginPDF      OriginType = "pdf"
	OriginWebsite  OriginType = "website"
	OriginVideo    OriginType = "video"
	OriginAudio    OriginType = "audio"
)

// ProcessingStatus tracks a source through the ingestion pipeline.
type ProcessingStatus string

// Source lifecycle states.
const (
	StatusPending    ProcessingStatus = "pending"
	StatusProcessing ProcessingStatus = "processing"
	StatusCompleted  ProcessingStatus = "completed"
	StatusError      ProcessingStatus = "error"
)

// SourceMetadata carries provenance information extracted at intake or
// during normalisation. Counts are pointers because "unknown" must stay
// distinguishable from zero; an unknown count is absent, never a
// fabricated default.
type SourceMetadata struct {
	// URL is the original location for website origins.
	URL string

	// Author is the document author when declared.
	Author string

	// Size is the raw payload size in bytes.
	Size int64

	// Pages is the page count for paginated formats, when determinable.
	Pages *int

	// Duration is the media length in seconds for transcript origins,
	// when determinable from the transcript itself.
	Duration *float64

	// Language is the declared content language, when known.
	Language string
}

// Source represents one ingested document within a notebook.
// It is created at intake, mutated only by the ingestion pipeline
// (status transitions and derived chunks), and never by retrieval.
type Source struct {
	// ID is the unique identifier for the source.
	ID string

	// NotebookID links to the owning Notebook.
	NotebookID string

	// Title is the human-readable title.
	Title string

	// Origin identifies the intake format.
	Origin OriginType

	// Content is the full normalised plain text. Chunk offsets address
	// this text.
	Content string

	// Metadata is the provenance metadata.
	Metadata SourceMetadata

	// Status is the current processing status.
	Status ProcessingStatus

	// ProcessingError records why ingestion failed when Status is error.
	ProcessingError string

	// Version increments on re-ingestion. Chunks are immutable within
	// a version; re-ingestion produces a new version, not an edit.
	Version int

	// CreatedAt is when the source was created.
	CreatedAt time.Time

	// UpdatedAt is when the source was last updated.
	UpdatedAt time.Time
}

// RawIntake is the opaque payload handed to the intake boundary before
// normalisation. For website origins the content is the already-fetched
// page; for video/audio origins it is a pre-supplied transcript.
// Fetching and media decoding are external collaborators.
type RawIntake struct {
	// NotebookID is the scope the source will belong to.
	NotebookID string

	// Title is the declared title (file name, page title).
	Title string

	// Origin is the declared origin type.
	Origin OriginType

	// Content is the raw bytes.
	Content []byte

	// URL is the original location for website origins.
	URL string

	// Author is the declared author, when known.
	Author string
}
