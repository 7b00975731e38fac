// Package domain defines the core business entities for inkwell.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Notebook: The retrieval scope sources belong to
//   - Source: An ingested document with provenance and status
//   - Chunk: An offset-addressable retrieval unit within a source
//   - Citation: A chunk projection attached to answers as evidence
//   - RawIntake: Opaque bytes handed to the intake boundary
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
