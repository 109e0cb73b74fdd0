package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lessonworks/kbsearch/internal/cache"
	"github.com/lessonworks/kbsearch/internal/chunker"
	"github.com/lessonworks/kbsearch/internal/core/domain"
	"github.com/lessonworks/kbsearch/internal/core/ports/driven"
	"github.com/lessonworks/kbsearch/internal/core/ports/driving"
	"github.com/lessonworks/kbsearch/internal/logger"
)

// Ensure IndexService implements the interface.
var _ driving.Indexer = (*IndexService)(nil)

// IndexService ingests documents: split into chunks, embed each chunk,
// and replace the document's stored records.
type IndexService struct {
	splitter *chunker.Splitter
	embedder *Embedder
	store    driven.VectorStore
	cache    *cache.Cache

	// Re-ingestion of a document is a critical section: two concurrent
	// delete-then-insert sequences for the same ID could interleave
	// into a mix of old and new chunks.
	mu       sync.Mutex
	docLocks map[string]*sync.Mutex
}

// NewIndexService creates a new index service. The cache is optional.
func NewIndexService(
	splitter *chunker.Splitter,
	embedder *Embedder,
	store driven.VectorStore,
	c *cache.Cache,
) *IndexService {
	return &IndexService{
		splitter: splitter,
		embedder: embedder,
		store:    store,
		cache:    c,
		docLocks: make(map[string]*sync.Mutex),
	}
}

// Ingest chunks and embeds text, then atomically replaces any previous
// records for the document. Ingesting the same text twice leaves
// exactly the same record set as ingesting it once.
func (s *IndexService) Ingest(ctx context.Context, documentID, text string) error {
	if strings.TrimSpace(documentID) == "" {
		return fmt.Errorf("%w: empty document ID", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: empty document text", domain.ErrInvalidInput)
	}

	lock := s.lockFor(documentID)
	lock.Lock()
	defer lock.Unlock()

	logger.Section("Ingestion")
	logger.Info("Ingesting document %s (%d chars)", documentID, len(text))

	chunks := s.splitText(text)
	logger.Debug("Split into %d chunks (size %d, overlap %d)",
		len(chunks), s.splitter.ChunkSize(), s.splitter.Overlap())

	vectors, err := s.embedder.EmbedBatch(ctx, chunks)
	if err != nil {
		return fmt.Errorf("embed chunks: %w", err)
	}

	now := time.Now()
	records := make([]domain.EmbeddingRecord, len(chunks))
	for i := range chunks {
		records[i] = domain.EmbeddingRecord{
			ID:         uuid.New().String(),
			DocumentID: documentID,
			ChunkIndex: i,
			ChunkText:  chunks[i],
			Vector:     vectors[i],
			CreatedAt:  now,
		}
	}

	if err := s.store.Replace(ctx, documentID, records); err != nil {
		return fmt.Errorf("store records: %w", err)
	}

	// Any ranked result list may now be stale.
	if s.cache != nil {
		s.cache.InvalidateResults()
	}

	logger.Info("Ingested document %s: %d records", documentID, len(records))
	return nil
}

// Invalidate removes a document's records and drops cached results.
func (s *IndexService) Invalidate(ctx context.Context, documentID string) error {
	if strings.TrimSpace(documentID) == "" {
		return fmt.Errorf("%w: empty document ID", domain.ErrInvalidInput)
	}

	lock := s.lockFor(documentID)
	lock.Lock()
	defer lock.Unlock()

	if err := s.store.DeleteForDocument(ctx, documentID); err != nil {
		return fmt.Errorf("delete records: %w", err)
	}

	if s.cache != nil {
		s.cache.InvalidateResults()
	}

	logger.Info("Invalidated document %s", documentID)
	return nil
}

// splitText chunks the text, consulting the chunk-list cache first.
func (s *IndexService) splitText(text string) []string {
	if s.cache != nil {
		if chunks, ok := s.cache.Chunks(text); ok {
			logger.Debug("Chunk cache hit (%d chunks)", len(chunks))
			return chunks
		}
	}

	chunks := s.splitter.Split(text)

	if s.cache != nil {
		s.cache.SetChunks(text, chunks)
	}
	return chunks
}

// lockFor returns the mutex serialising operations on a document.
func (s *IndexService) lockFor(documentID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.docLocks[documentID]
	if !ok {
		lock = &sync.Mutex{}
		s.docLocks[documentID] = lock
	}
	return lock
}
