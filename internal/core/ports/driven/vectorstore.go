package driven

import (
	"context"

	"github.com/lessonworks/kbsearch/internal/core/domain"
)

// VectorStore persists embedding records and supports the bulk
// retrieval the brute-force similarity scan needs.
//
// Stores must validate vector dimensionality at the write boundary:
// a record whose vector length differs from the store's configured
// dimension is rejected with domain.ErrDimensionMismatch rather than
// discovered at query time.
type VectorStore interface {
	// Insert persists a single record and returns its ID.
	Insert(ctx context.Context, record domain.EmbeddingRecord) (string, error)

	// Replace atomically deletes all records for a document and inserts
	// the given ones. Either every record is written or none are; a
	// document is never left with a mix of old and new chunks.
	Replace(ctx context.Context, documentID string, records []domain.EmbeddingRecord) error

	// ListAll returns every stored record, in insertion order.
	ListAll(ctx context.Context) ([]domain.EmbeddingRecord, error)

	// DeleteForDocument removes all records owned by a document.
	// Deleting a document with no records is not an error.
	DeleteForDocument(ctx context.Context, documentID string) error

	// Stats reports document and chunk counts.
	Stats(ctx context.Context) (domain.StoreStats, error)

	// Close releases resources.
	Close() error
}
