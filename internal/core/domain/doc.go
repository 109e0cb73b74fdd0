// Package domain defines the core business entities for kbsearch.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Chunk: A bounded substring of a document, the unit of embedding
//   - EmbeddingRecord: The persisted (document, chunk, vector) tuple
//   - SearchResult: A scored hit returned by similarity search
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
