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

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/inkwell/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/inkwell/internal/core/domain"
	"github.com/custodia-labs/inkwell/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to the
// notebook, source and chunk store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.inkwell/data/inkwell.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".inkwell", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "inkwell.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
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

// NotebookStore returns a NotebookStore interface backed by this store.
func (s *Store) NotebookStore() driven.NotebookStore {
	return &notebookStore{store: s}
}

// SourceStore returns a SourceStore interface backed by this store.
func (s *Store) SourceStore() driven.SourceStore {
	return &sourceStore{store: s}
}

// ChunkStore returns a ChunkStore interface backed by this store.
func (s *Store) ChunkStore() driven.ChunkStore {
	return &chunkStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Notebook Store ====================

// notebookStore implements driven.NotebookStore.
type notebookStore struct {
	store *Store
}

var _ driven.NotebookStore = (*notebookStore)(nil)

// Save stores or updates a notebook.
func (s *notebookStore) Save(ctx context.Context, nb domain.Notebook) error {
	now := time.Now().UTC()
	if nb.CreatedAt.IsZero() {
		nb.CreatedAt = now
	}
	if nb.UpdatedAt.IsZero() {
		nb.UpdatedAt = now
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO notebooks (id, title, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			updated_at = excluded.updated_at
	`, nb.ID, nb.Title, nb.Description, nb.CreatedAt, nb.UpdatedAt)

	if err != nil {
		return fmt.Errorf("saving notebook: %w", err)
	}
	return nil
}

// Get retrieves a notebook by ID.
func (s *notebookStore) Get(ctx context.Context, id string) (*domain.Notebook, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, title, description, created_at, updated_at
		FROM notebooks WHERE id = ?
	`, id)

	var nb domain.Notebook
	if err := row.Scan(&nb.ID, &nb.Title, &nb.Description, &nb.CreatedAt, &nb.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning notebook: %w", err)
	}
	return &nb, nil
}

// Delete removes a notebook.
func (s *notebookStore) Delete(ctx context.Context, id string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM notebooks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting notebook: %w", err)
	}
	return nil
}

// List returns all notebooks.
func (s *notebookStore) List(ctx context.Context) ([]domain.Notebook, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, title, description, created_at, updated_at
		FROM notebooks ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("querying notebooks: %w", err)
	}
	defer rows.Close()

	var notebooks []domain.Notebook //nolint:prealloc // size unknown from query
	for rows.Next() {
		var nb domain.Notebook
		if err := rows.Scan(&nb.ID, &nb.Title, &nb.Description, &nb.CreatedAt, &nb.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning notebook: %w", err)
		}
		notebooks = append(notebooks, nb)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating notebooks: %w", err)
	}

	return notebooks, nil
}

// ==================== Source Store ====================

// sourceStore implements driven.SourceStore.
type sourceStore struct {
	store *Store
}

var _ driven.SourceStore = (*sourceStore)(nil)

// Save stores or updates a source.
func (s *sourceStore) Save(ctx context.Context, source domain.Source) error {
	metadataJSON, err := json.Marshal(source.Metadata)
	if err != nil {
		return fmt.Errorf("marshalling metadata: %w", err)
	}

	now := time.Now().UTC()
	if source.CreatedAt.IsZero() {
		source.CreatedAt = now
	}
	source.UpdatedAt = now

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO sources
			(id, notebook_id, title, origin, content, metadata, status, processing_error, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			notebook_id = excluded.notebook_id,
			title = excluded.title,
			origin = excluded.origin,
			content = excluded.content,
			metadata = excluded.metadata,
			status = excluded.status,
			processing_error = excluded.processing_error,
			version = excluded.version,
			updated_at = excluded.updated_at
	`, source.ID, source.NotebookID, source.Title, string(source.Origin),
		source.Content, string(metadataJSON), string(source.Status),
		source.ProcessingError, source.Version, source.CreatedAt, source.UpdatedAt)

	if err != nil {
		return fmt.Errorf("saving source: %w", err)
	}
	return nil
}

// Get retrieves a source by ID.
func (s *sourceStore) Get(ctx context.Context, id string) (*domain.Source, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, notebook_id, title, origin, content, metadata, status, processing_error, version, created_at, updated_at
		FROM sources WHERE id = ?
	`, id)

	source, err := scanSource(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return source, nil
}

// Delete removes a source.
func (s *sourceStore) Delete(ctx context.Context, id string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM sources WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting source: %w", err)
	}
	return nil
}

// ListByNotebook returns all sources within a notebook.
func (s *sourceStore) ListByNotebook(ctx context.Context, notebookID string) ([]domain.Source, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, notebook_id, title, origin, content, metadata, status, processing_error, version, created_at, updated_at
		FROM sources WHERE notebook_id = ? ORDER BY created_at
	`, notebookID)
	if err != nil {
		return nil, fmt.Errorf("querying sources: %w", err)
	}
	defer rows.Close()

	var sources []domain.Source //nolint:prealloc // size unknown from query
	for rows.Next() {
		source, err := scanSource(rows.Scan)
		if err != nil {
			return nil, err
		}
		sources = append(sources, *source)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sources: %w", err)
	}

	return sources, nil
}

// scanSource scans one source row via the given scan function.
func scanSource(scan func(...any) error) (*domain.Source, error) {
	var source domain.Source
	var origin, status, metadataJSON string

	if err := scan(&source.ID, &source.NotebookID, &source.Title, &origin,
		&source.Content, &metadataJSON, &status, &source.ProcessingError,
		&source.Version, &source.CreatedAt, &source.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("scanning source: %w", err)
	}

	source.Origin = domain.OriginType(origin)
	source.Status = domain.ProcessingStatus(status)

	if metadataJSON != "" {
		if err := json.Unmarshal([]byte(metadataJSON), &source.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshaling metadata: %w", err)
		}
	}

	return &source, nil
}

// ==================== Chunk Store ====================

// chunkStore implements driven.ChunkStore.
type chunkStore struct {
	store *Store
}

var _ driven.ChunkStore = (*chunkStore)(nil)

// SaveChunks stores the chunk sequence for a source in one transaction.
func (s *chunkStore) SaveChunks(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	// A source's chunk sequence is replaced as a unit.
	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks WHERE source_id = ?", chunks[0].SourceID); err != nil {
		return fmt.Errorf("clearing chunks: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks
			(id, source_id, notebook_id, position, start_offset, end_offset, content, page, media_offset, section)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, chunk := range chunks {
		if _, err := stmt.ExecContext(ctx, chunk.ID, chunk.SourceID, chunk.NotebookID,
			chunk.Position, chunk.Start, chunk.End, chunk.Content,
			nullInt(chunk.Page), nullFloat(chunk.Timestamp), chunk.Section); err != nil {
			return fmt.Errorf("saving chunk: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetChunk retrieves a specific chunk by ID.
func (s *chunkStore) GetChunk(ctx context.Context, id string) (*domain.Chunk, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, source_id, notebook_id, position, start_offset, end_offset, content, page, media_offset, section
		FROM chunks WHERE id = ?
	`, id)

	chunk, err := scanChunk(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return chunk, nil
}

// ListBySource returns a source's chunks in position order.
func (s *chunkStore) ListBySource(ctx context.Context, sourceID string) ([]domain.Chunk, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, source_id, notebook_id, position, start_offset, end_offset, content, page, media_offset, section
		FROM chunks WHERE source_id = ?
		ORDER BY position
	`, sourceID)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var chunks []domain.Chunk //nolint:prealloc // size unknown from query
	for rows.Next() {
		chunk, err := scanChunk(rows.Scan)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, *chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	return chunks, nil
}

// DeleteBySource removes all chunks belonging to a source.
func (s *chunkStore) DeleteBySource(ctx context.Context, sourceID string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM chunks WHERE source_id = ?", sourceID)
	if err != nil {
		return fmt.Errorf("deleting chunks: %w", err)
	}
	return nil
}

// scanChunk scans one chunk row via the given scan function.
func scanChunk(scan func(...any) error) (*domain.Chunk, error) {
	var chunk domain.Chunk
	var page sql.NullInt64
	var mediaOffset sql.NullFloat64

	if err := scan(&chunk.ID, &chunk.SourceID, &chunk.NotebookID,
		&chunk.Position, &chunk.Start, &chunk.End, &chunk.Content,
		&page, &mediaOffset, &chunk.Section); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("scanning chunk: %w", err)
	}

	if page.Valid {
		p := int(page.Int64)
		chunk.Page = &p
	}
	if mediaOffset.Valid {
		t := mediaOffset.Float64
		chunk.Timestamp = &t
	}

	return &chunk, nil
}

// ==================== Helper Functions ====================

func nullInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
