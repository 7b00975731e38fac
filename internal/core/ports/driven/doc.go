// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - Normaliser: Extracts plain text from a raw intake payload
//   - NormaliserRegistry: Selects the appropriate normaliser
//   - EmbeddingService: Maps chunk text to fixed-dimension vectors
//   - VectorIndex: Stores chunk vectors and answers k-NN queries
//   - NotebookStore, SourceStore, ChunkStore: Persistence
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - Generator: The opaque generation capability. Without it, retrieval
//     still works but answers cannot be assembled.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
