package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/lessonworks/kbsearch/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/lessonworks/kbsearch/internal/core/domain"
	"github.com/lessonworks/kbsearch/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Store persists embedding records in a SQLite database. Vectors are
// serialised as JSON float arrays and their dimensionality is checked
// at the write boundary, so a malformed vector is rejected at ingest
// time instead of surfacing during a query scan.
type Store struct {
	db         *sql.DB
	path       string
	dimensions int
}

// NewStore opens (or creates) the store at dataDir. If dataDir is
// empty, defaults to ~/.kbsearch/data. When dimensions is positive,
// writes with a different vector length are rejected.
func NewStore(dataDir string, dimensions int) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".kbsearch", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "embeddings.db")

	// WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:         db,
		path:       dbPath,
		dimensions: dimensions,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Insert persists a single record and returns its ID.
func (s *Store) Insert(ctx context.Context, record domain.EmbeddingRecord) (string, error) {
	vectorJSON, err := s.encodeVector(record)
	if err != nil {
		return "", err
	}

	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO embeddings (id, document_id, chunk_index, chunk_text, vector, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, record.ID, record.DocumentID, record.ChunkIndex, record.ChunkText,
		vectorJSON, record.CreatedAt)
	if err != nil {
		return "", fmt.Errorf("%w: inserting record: %v", domain.ErrStorageFailure, err)
	}

	return record.ID, nil
}

// Replace atomically swaps all records for a document inside a single
// transaction: the document is never observed with a mix of old and
// new chunks, and a failed insert rolls the delete back too.
func (s *Store) Replace(ctx context.Context, documentID string, records []domain.EmbeddingRecord) error {
	// Validate before opening the transaction.
	encoded := make([]string, len(records))
	for i := range records {
		if records[i].DocumentID != documentID {
			return fmt.Errorf("%w: record %d belongs to document %q, not %q",
				domain.ErrInvalidInput, i, records[i].DocumentID, documentID)
		}
		vectorJSON, err := s.encodeVector(records[i])
		if err != nil {
			return err
		}
		encoded[i] = vectorJSON
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin transaction: %v", domain.ErrStorageFailure, err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM embeddings WHERE document_id = ?`, documentID); err != nil {
		return fmt.Errorf("%w: deleting old records: %v", domain.ErrStorageFailure, err)
	}

	now := time.Now().UTC()
	for i := range records {
		record := records[i]
		if record.ID == "" {
			record.ID = uuid.New().String()
		}
		if record.CreatedAt.IsZero() {
			record.CreatedAt = now
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO embeddings (id, document_id, chunk_index, chunk_text, vector, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, record.ID, record.DocumentID, record.ChunkIndex, record.ChunkText,
			encoded[i], record.CreatedAt); err != nil {
			return fmt.Errorf("%w: inserting chunk %d: %v", domain.ErrStorageFailure, record.ChunkIndex, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", domain.ErrStorageFailure, err)
	}
	return nil
}

// ListAll returns every record in insertion order (rowid).
func (s *Store) ListAll(ctx context.Context) ([]domain.EmbeddingRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, document_id, chunk_index, chunk_text, vector, created_at
		FROM embeddings ORDER BY rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: listing records: %v", domain.ErrStorageFailure, err)
	}
	defer rows.Close()

	var records []domain.EmbeddingRecord
	for rows.Next() {
		var record domain.EmbeddingRecord
		var vectorJSON string
		var createdAt sql.NullTime
		if err := rows.Scan(&record.ID, &record.DocumentID, &record.ChunkIndex,
			&record.ChunkText, &vectorJSON, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: scanning record: %v", domain.ErrStorageFailure, err)
		}

		vector, err := decodeVector(vectorJSON)
		if err != nil {
			return nil, fmt.Errorf("record %s: %w", record.ID, err)
		}
		record.Vector = vector
		if createdAt.Valid {
			record.CreatedAt = createdAt.Time
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating records: %v", domain.ErrStorageFailure, err)
	}

	return records, nil
}

// DeleteForDocument removes all records owned by a document.
func (s *Store) DeleteForDocument(ctx context.Context, documentID string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM embeddings WHERE document_id = ?`, documentID); err != nil {
		return fmt.Errorf("%w: deleting records: %v", domain.ErrStorageFailure, err)
	}
	return nil
}

// Stats reports document and chunk counts.
func (s *Store) Stats(ctx context.Context) (domain.StoreStats, error) {
	var stats domain.StoreStats
	row := s.db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT document_id), COUNT(*) FROM embeddings`)
	if err := row.Scan(&stats.Documents, &stats.Chunks); err != nil {
		return domain.StoreStats{}, fmt.Errorf("%w: reading stats: %v", domain.ErrStorageFailure, err)
	}
	return stats, nil
}

// encodeVector validates dimensionality and serialises the vector as a
// JSON float array.
func (s *Store) encodeVector(record domain.EmbeddingRecord) (string, error) {
	if len(record.Vector) == 0 {
		return "", fmt.Errorf("%w: record for document %s chunk %d has no vector",
			domain.ErrInvalidInput, record.DocumentID, record.ChunkIndex)
	}
	if s.dimensions > 0 && len(record.Vector) != s.dimensions {
		return "", fmt.Errorf("%w: vector length %d, store dimension %d",
			domain.ErrDimensionMismatch, len(record.Vector), s.dimensions)
	}

	data, err := json.Marshal(record.Vector)
	if err != nil {
		return "", fmt.Errorf("marshalling vector: %w", err)
	}
	return string(data), nil
}

// decodeVector parses a stored JSON float array. The result must have
// the exact dimensionality that was stored.
func decodeVector(vectorJSON string) ([]float32, error) {
	var vector []float32
	if err := json.Unmarshal([]byte(vectorJSON), &vector); err != nil {
		return nil, fmt.Errorf("%w: unmarshalling vector: %v", domain.ErrStorageFailure, err)
	}
	if len(vector) == 0 {
		return nil, errors.New("stored vector is empty")
	}
	return vector, nil
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(
			"INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}
