package domain

// Default search parameters.
const (
	// DefaultTopK is the number of results returned when the caller
	// does not specify a limit.
	DefaultTopK = 5

	// DefaultMinSimilarity is the cosine similarity threshold below
	// which results are discarded.
	DefaultMinSimilarity = 0.7
)

// SearchOptions configures a similarity search.
type SearchOptions struct {
	// TopK is the maximum number of results (default 5).
	TopK int

	// MinSimilarity excludes results scoring below this threshold
	// (default 0.7). Set to a negative value to disable filtering.
	MinSimilarity float64
}

// WithDefaults returns a copy with zero values replaced by defaults.
func (o SearchOptions) WithDefaults() SearchOptions {
	if o.TopK <= 0 {
		o.TopK = DefaultTopK
	}
	if o.MinSimilarity == 0 {
		o.MinSimilarity = DefaultMinSimilarity
	}
	return o
}

// SearchResult is a single scored hit from similarity search.
type SearchResult struct {
	// DocumentID identifies the document the matching chunk belongs to.
	DocumentID string

	// ChunkIndex is the matching chunk's position within the document.
	ChunkIndex int

	// ChunkText is the matching chunk's text.
	ChunkText string

	// Similarity is the cosine similarity to the query, in [-1, 1].
	Similarity float64
}
