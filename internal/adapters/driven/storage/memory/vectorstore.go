// Package memory provides an in-memory VectorStore for tests and
// ephemeral runs. Nothing survives a process restart.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/lessonworks/kbsearch/internal/core/domain"
	"github.com/lessonworks/kbsearch/internal/core/ports/driven"
)

// Ensure VectorStore implements the interface.
var _ driven.VectorStore = (*VectorStore)(nil)

// VectorStore is an in-memory implementation of driven.VectorStore.
// Records are kept in insertion order to match the SQLite store's
// ListAll ordering.
type VectorStore struct {
	mu         sync.RWMutex
	dimensions int
	records    []domain.EmbeddingRecord
}

// NewVectorStore creates an in-memory store. When dimensions is
// positive, writes with a different vector length are rejected.
func NewVectorStore(dimensions int) *VectorStore {
	return &VectorStore{dimensions: dimensions}
}

// Insert persists a single record.
func (s *VectorStore) Insert(_ context.Context, record domain.EmbeddingRecord) (string, error) {
	if err := s.validate(record); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	s.records = append(s.records, record)
	return record.ID, nil
}

// Replace atomically swaps all records for a document.
func (s *VectorStore) Replace(_ context.Context, documentID string, records []domain.EmbeddingRecord) error {
	// Validate everything before touching state so a bad record cannot
	// leave the document half-replaced.
	for i := range records {
		if records[i].DocumentID != documentID {
			return fmt.Errorf("%w: record %d belongs to document %q, not %q",
				domain.ErrInvalidInput, i, records[i].DocumentID, documentID)
		}
		if err := s.validate(records[i]); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.records[:0]
	for _, r := range s.records {
		if r.DocumentID != documentID {
			kept = append(kept, r)
		}
	}
	s.records = kept

	for _, r := range records {
		if r.ID == "" {
			r.ID = uuid.New().String()
		}
		s.records = append(s.records, r)
	}
	return nil
}

// ListAll returns every record in insertion order.
func (s *VectorStore) ListAll(_ context.Context) ([]domain.EmbeddingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.EmbeddingRecord, len(s.records))
	copy(out, s.records)
	return out, nil
}

// DeleteForDocument removes all records owned by a document.
func (s *VectorStore) DeleteForDocument(_ context.Context, documentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.records[:0]
	for _, r := range s.records {
		if r.DocumentID != documentID {
			kept = append(kept, r)
		}
	}
	s.records = kept
	return nil
}

// Stats reports document and chunk counts.
func (s *VectorStore) Stats(_ context.Context) (domain.StoreStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make(map[string]bool)
	for _, r := range s.records {
		docs[r.DocumentID] = true
	}
	return domain.StoreStats{
		Documents: len(docs),
		Chunks:    len(s.records),
	}, nil
}

// Close releases resources.
func (s *VectorStore) Close() error {
	return nil
}

// validate rejects vectors whose length does not match the configured
// dimension.
func (s *VectorStore) validate(record domain.EmbeddingRecord) error {
	if len(record.Vector) == 0 {
		return fmt.Errorf("%w: record %s has no vector", domain.ErrInvalidInput, record.ID)
	}
	if s.dimensions > 0 && len(record.Vector) != s.dimensions {
		return fmt.Errorf("%w: vector length %d, store dimension %d",
			domain.ErrDimensionMismatch, len(record.Vector), s.dimensions)
	}
	return nil
}
