package driving

import "context"

// Indexer ingests documents into the knowledge base and removes them.
// Called by the application whenever an article is created, edited, or
// deleted.
type Indexer interface {
	// Ingest chunks the text, embeds each chunk, and replaces any
	// previous records for the document. Re-ingesting the same document
	// is idempotent: old chunks are superseded, never duplicated.
	Ingest(ctx context.Context, documentID, text string) error

	// Invalidate removes a document's chunks and vectors.
	Invalidate(ctx context.Context, documentID string) error
}
