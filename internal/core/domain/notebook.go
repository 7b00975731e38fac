package domain

import "time"

// Notebook is the retrieval scope: every source, chunk and vector entry
// belongs to exactly one notebook, and queries never cross notebooks.
type Notebook struct {
	// ID is the unique identifier for the notebook.
	ID string

	// Title is the human-readable title.
	Title string

	// Description is an optional free-text description.
	Description string

	// CreatedAt is when the notebook was created.
	CreatedAt time.Time

	// UpdatedAt is when the notebook was last updated.
	UpdatedAt time.Time
}
