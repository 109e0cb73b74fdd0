package cli

import (
	"context"
	"time"

	"github.com/lessonworks/kbsearch/internal/adapters/driven/storage/memory"
	"github.com/lessonworks/kbsearch/internal/cache"
	"github.com/lessonworks/kbsearch/internal/core/domain"
	"github.com/lessonworks/kbsearch/internal/core/services"
)

// mockIndexer records calls instead of touching a store.
type mockIndexer struct {
	ingested    map[string]string
	invalidated []string
	err         error
}

func newMockIndexer() *mockIndexer {
	return &mockIndexer{ingested: make(map[string]string)}
}

func (m *mockIndexer) Ingest(_ context.Context, documentID, text string) error {
	if m.err != nil {
		return m.err
	}
	m.ingested[documentID] = text
	return nil
}

func (m *mockIndexer) Invalidate(_ context.Context, documentID string) error {
	if m.err != nil {
		return m.err
	}
	m.invalidated = append(m.invalidated, documentID)
	return nil
}

// mockSearcher returns canned results.
type mockSearcher struct {
	results []domain.SearchResult
	err     error
}

func (m *mockSearcher) SearchChunks(_ context.Context, _ string, _ domain.SearchOptions) ([]domain.SearchResult, error) {
	return m.results, m.err
}

func (m *mockSearcher) SearchDocuments(_ context.Context, _ string, _ domain.SearchOptions) ([]domain.SearchResult, error) {
	return m.results, m.err
}

// mockCLIProvider is a minimal embedding provider for status wiring.
type mockCLIProvider struct {
	pingErr error
}

func (m *mockCLIProvider) Embed(_ context.Context, _ string) ([]float32, error) {
	return []float32{1, 0}, nil
}

func (m *mockCLIProvider) Dimensions() int              { return 2 }
func (m *mockCLIProvider) ModelName() string            { return "mock-embed" }
func (m *mockCLIProvider) Ping(_ context.Context) error { return m.pingErr }
func (m *mockCLIProvider) Close() error                 { return nil }

func newEmbedderWithPingError(err error) *services.Embedder {
	return services.NewEmbedder(&mockCLIProvider{pingErr: err}, cache.New(8, time.Minute))
}

// setupTestServices installs mock services and returns a cleanup that
// restores the previous wiring.
func setupTestServices() func() {
	oldIndex, oldSearch := indexService, searchService
	oldEmbed, oldStore := embedService, vectorStore

	indexService = newMockIndexer()
	searchService = &mockSearcher{
		results: []domain.SearchResult{
			{DocumentID: "course-101", ChunkIndex: 0, ChunkText: "Variables hold values.", Similarity: 0.91},
			{DocumentID: "course-202", ChunkIndex: 3, ChunkText: "Loops repeat work.", Similarity: 0.84},
		},
	}
	embedService = services.NewEmbedder(&mockCLIProvider{}, cache.New(8, time.Minute))
	vectorStore = memory.NewVectorStore(2)

	return func() {
		indexService, searchService = oldIndex, oldSearch
		embedService, vectorStore = oldEmbed, oldStore
	}
}
