package domain

import "time"

// Chunk is a contiguous piece of a document's text, the unit of
// embedding and retrieval. Chunks are immutable once created;
// re-ingesting a document replaces its chunks rather than mutating them.
type Chunk struct {
	// DocumentID is the opaque identifier of the owning document.
	// It is assigned by the caller (the knowledge-base application).
	DocumentID string

	// Index is the 0-based position of this chunk within the document.
	// Order matters: consecutive chunks overlap by the configured amount.
	Index int

	// Text is the raw chunk text.
	Text string
}

// EmbeddingRecord is the durable tuple persisted for each chunk.
// A chunk without a record is pending and must not appear in results.
type EmbeddingRecord struct {
	// ID is the unique record identifier.
	ID string

	// DocumentID links the record to its owning document.
	// All records for a document are deleted together.
	DocumentID string

	// ChunkIndex is unique within a DocumentID.
	ChunkIndex int

	// ChunkText is the text the vector was computed from.
	ChunkText string

	// Vector is the fixed-length embedding of ChunkText.
	Vector []float32

	// CreatedAt is when the record was persisted.
	CreatedAt time.Time
}

// StoreStats summarises the contents of a vector store.
type StoreStats struct {
	// Documents is the number of distinct document IDs with records.
	Documents int

	// Chunks is the total number of embedding records.
	Chunks int
}
