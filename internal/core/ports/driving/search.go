package driving

import (
	"context"

	"github.com/lessonworks/kbsearch/internal/core/domain"
)

// Searcher runs similarity queries against the knowledge base.
type Searcher interface {
	// SearchChunks returns raw per-chunk hits ordered by descending
	// similarity, truncated to TopK. A long document may contribute
	// several results.
	SearchChunks(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error)

	// SearchDocuments behaves like SearchChunks but keeps only the
	// highest-similarity chunk per document, so one document cannot
	// monopolise the top-K. This is what chat context assembly wants.
	SearchDocuments(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error)
}
