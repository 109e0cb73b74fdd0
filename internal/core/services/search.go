package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/lessonworks/kbsearch/internal/cache"
	"github.com/lessonworks/kbsearch/internal/core/domain"
	"github.com/lessonworks/kbsearch/internal/core/ports/driven"
	"github.com/lessonworks/kbsearch/internal/core/ports/driving"
	"github.com/lessonworks/kbsearch/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.Searcher = (*SearchService)(nil)

// SearchService runs brute-force cosine similarity search over every
// stored record. A full scan is deliberate: a single-tenant knowledge
// base holds hundreds to low thousands of chunks, well inside what a
// linear pass handles.
type SearchService struct {
	embedder *Embedder
	store    driven.VectorStore
	cache    *cache.Cache
}

// NewSearchService creates a new search service. The cache is optional.
func NewSearchService(embedder *Embedder, store driven.VectorStore, c *cache.Cache) *SearchService {
	return &SearchService{
		embedder: embedder,
		store:    store,
		cache:    c,
	}
}

// SearchChunks returns raw per-chunk hits, highest similarity first.
func (s *SearchService) SearchChunks(
	ctx context.Context, query string, opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	return s.search(ctx, query, opts, false)
}

// SearchDocuments returns the single best chunk per document, highest
// similarity first, so one long document cannot fill the whole top-K.
func (s *SearchService) SearchDocuments(
	ctx context.Context, query string, opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	return s.search(ctx, query, opts, true)
}

func (s *SearchService) search(
	ctx context.Context, query string, opts domain.SearchOptions, dedupe bool,
) ([]domain.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}
	opts = opts.WithDefaults()

	logger.Section("Search Execution")
	logger.Debug("Query: %q, topK=%d, minSimilarity=%.2f, dedupe=%t",
		query, opts.TopK, opts.MinSimilarity, dedupe)

	key := resultsKey(query, opts, dedupe)
	if s.cache != nil {
		if results, ok := s.cache.Results(key); ok {
			logger.Debug("Result cache hit (%d results)", len(results))
			return results, nil
		}
	}

	queryVector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	logger.Debug("Query embedding: %d dims", len(queryVector))

	records, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	if len(records) == 0 {
		logger.Debug("Store is empty")
		return []domain.SearchResult{}, nil
	}
	logger.Debug("Scoring %d records", len(records))

	scored := make([]domain.SearchResult, 0, len(records))
	for i := range records {
		similarity, err := domain.CosineSimilarity(queryVector, records[i].Vector)
		if err != nil {
			// A mismatched record is a data-integrity failure, not
			// something to skip quietly.
			logger.Error("Record %s (document %s, chunk %d): %v",
				records[i].ID, records[i].DocumentID, records[i].ChunkIndex, err)
			return nil, fmt.Errorf("record %s: %w", records[i].ID, err)
		}
		if similarity < opts.MinSimilarity {
			continue
		}
		scored = append(scored, domain.SearchResult{
			DocumentID: records[i].DocumentID,
			ChunkIndex: records[i].ChunkIndex,
			ChunkText:  records[i].ChunkText,
			Similarity: similarity,
		})
	}

	// Stable sort keeps results deterministic when similarities tie.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Similarity > scored[j].Similarity
	})

	if dedupe {
		scored = bestPerDocument(scored)
	}

	if len(scored) > opts.TopK {
		scored = scored[:opts.TopK]
	}

	if s.cache != nil {
		s.cache.SetResults(key, scored)
	}

	logger.Info("Search returned %d results", len(scored))
	return scored, nil
}

// bestPerDocument keeps only the first (highest-similarity) hit per
// document. Input must already be sorted by descending similarity.
func bestPerDocument(results []domain.SearchResult) []domain.SearchResult {
	seen := make(map[string]bool, len(results))
	deduped := make([]domain.SearchResult, 0, len(results))
	for _, r := range results {
		if seen[r.DocumentID] {
			continue
		}
		seen[r.DocumentID] = true
		deduped = append(deduped, r)
	}
	return deduped
}

// resultsKey builds the cache key for a query and its options.
func resultsKey(query string, opts domain.SearchOptions, dedupe bool) string {
	return fmt.Sprintf("%s|k=%d|min=%.4f|dedupe=%t", query, opts.TopK, opts.MinSimilarity, dedupe)
}

// BuildContext assembles ranked results into a single context string
// for a language model prompt. Chunks are separated by blank lines and
// appended while the output stays within maxChars; a result that would
// overflow the budget is skipped rather than truncated mid-chunk.
func BuildContext(results []domain.SearchResult, maxChars int) string {
	if maxChars <= 0 || len(results) == 0 {
		return ""
	}

	var b strings.Builder
	for _, r := range results {
		extra := len(r.ChunkText)
		if b.Len() > 0 {
			extra += 2
		}
		if b.Len()+extra > maxChars {
			break
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(r.ChunkText)
	}
	return b.String()
}
