package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/custodia-labs/inkwell/internal/adapters/driven/index/memory"
	"github.com/custodia-labs/inkwell/internal/core/ports/driven"
	"github.com/custodia-labs/inkwell/internal/logger"
)

// Ensure vectorIndex implements the interface.
var _ driven.VectorIndex = (*vectorIndex)(nil)

// vectorIndex persists chunk vectors in SQLite and serves searches from
// an in-memory cosine index hydrated at open. Writes go through to both
// so the index survives process restarts.
type vectorIndex struct {
	db  *sql.DB
	mem *memory.Index
}

// VectorIndex returns the persistent vector index for the given fixed
// dimension, hydrated from the vectors table. Stored vectors of a
// different dimension (a changed embedding model) are skipped with a
// warning; re-ingesting their sources makes them retrievable again.
func (s *Store) VectorIndex(dims int) (driven.VectorIndex, error) {
	idx := &vectorIndex{db: s.db, mem: memory.New(dims)}
	if err := idx.hydrate(context.Background(), dims); err != nil {
		return nil, fmt.Errorf("hydrate vector index: %w", err)
	}
	return idx, nil
}

// hydrate loads stored vectors in rowid order so insertion-order
// tie-breaking is stable across restarts.
func (v *vectorIndex) hydrate(ctx context.Context, dims int) error {
	rows, err := v.db.QueryContext(ctx, `
		SELECT chunk_id, source_id, notebook_id, embedding
		FROM vectors
		ORDER BY rowid
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	skipped := 0
	for rows.Next() {
		var chunkID, sourceID, notebookID string
		var blob []byte
		if err := rows.Scan(&chunkID, &sourceID, &notebookID, &blob); err != nil {
			return err
		}

		vec := decodeVector(blob)
		if len(vec) != dims {
			skipped++
			continue
		}
		if err := v.mem.Upsert(ctx, chunkID, sourceID, notebookID, vec); err != nil {
			return err
		}
	}
	if skipped > 0 {
		logger.Warn("Skipped %d stored vectors with stale dimensions; re-ingest their sources", skipped)
	}
	return rows.Err()
}

// Upsert writes the vector to memory first so dimension validation
// happens before anything is persisted. A failed database write leaves
// the caller's per-source rollback to restore consistency.
func (v *vectorIndex) Upsert(ctx context.Context, chunkID, sourceID, notebookID string, vector []float32) error {
	if err := v.mem.Upsert(ctx, chunkID, sourceID, notebookID, vector); err != nil {
		return err
	}

	_, err := v.db.ExecContext(ctx, `
		INSERT INTO vectors (chunk_id, source_id, notebook_id, embedding)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(chunk_id) DO UPDATE SET
			source_id = excluded.source_id,
			notebook_id = excluded.notebook_id,
			embedding = excluded.embedding
	`, chunkID, sourceID, notebookID, encodeVector(vector))
	if err != nil {
		return fmt.Errorf("persist vector: %w", err)
	}
	return nil
}

// DeleteBySource removes all entries belonging to a source.
func (v *vectorIndex) DeleteBySource(ctx context.Context, sourceID string) error {
	if _, err := v.db.ExecContext(ctx, `DELETE FROM vectors WHERE source_id = ?`, sourceID); err != nil {
		return fmt.Errorf("delete vectors: %w", err)
	}
	return v.mem.DeleteBySource(ctx, sourceID)
}

// DeleteByNotebook removes all entries belonging to a notebook.
func (v *vectorIndex) DeleteByNotebook(ctx context.Context, notebookID string) error {
	if _, err := v.db.ExecContext(ctx, `DELETE FROM vectors WHERE notebook_id = ?`, notebookID); err != nil {
		return fmt.Errorf("delete vectors: %w", err)
	}
	return v.mem.DeleteByNotebook(ctx, notebookID)
}

// Search delegates to the in-memory index.
func (v *vectorIndex) Search(ctx context.Context, query []float32, k int, filter driven.VectorFilter) ([]driven.VectorHit, error) {
	return v.mem.Search(ctx, query, k, filter)
}

// Len returns the number of entries currently indexed.
func (v *vectorIndex) Len() int {
	return v.mem.Len()
}

// Close releases the in-memory index; the database is owned by the Store.
func (v *vectorIndex) Close() error {
	return v.mem.Close()
}

// encodeVector packs a vector as little-endian float32 bits.
func encodeVector(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// decodeVector is the inverse of encodeVector.
func decodeVector(b []byte) []float32 {
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v
}
