package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/inkwell/internal/core/domain"
	"github.com/custodia-labs/inkwell/internal/core/ports/driven"
	"github.com/custodia-labs/inkwell/internal/core/ports/driving"
	"github.com/custodia-labs/inkwell/internal/logger"
)

// Ensure NotebookManager implements the interface.
var _ driving.NotebookService = (*NotebookManager)(nil)

// NotebookManager manages notebook scopes and owns the cascade when one
// is deleted: sources, chunks and vector entries all go with it.
type NotebookManager struct {
	notebookStore driven.NotebookStore
	sourceStore   driven.SourceStore
	chunkStore    driven.ChunkStore
	vectorIndex   driven.VectorIndex
}

// NewNotebookManager creates a new notebook manager.
func NewNotebookManager(
	notebookStore driven.NotebookStore,
	sourceStore driven.SourceStore,
	chunkStore driven.ChunkStore,
	vectorIndex driven.VectorIndex,
) *NotebookManager {
	return &NotebookManager{
		notebookStore: notebookStore,
		sourceStore:   sourceStore,
		chunkStore:    chunkStore,
		vectorIndex:   vectorIndex,
	}
}

// Create creates a new notebook.
func (m *NotebookManager) Create(ctx context.Context, title, description string) (*domain.Notebook, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: notebook title required", domain.ErrInvalidInput)
	}

	now := time.Now()
	nb := domain.Notebook{
		ID:          uuid.New().String(),
		Title:       title,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := m.notebookStore.Save(ctx, nb); err != nil {
		return nil, fmt.Errorf("save notebook: %w", err)
	}

	logger.Info("Created notebook %s (%q)", nb.ID, nb.Title)
	return &nb, nil
}

// Get retrieves a notebook by ID.
func (m *NotebookManager) Get(ctx context.Context, id string) (*domain.Notebook, error) {
	return m.notebookStore.Get(ctx, id)
}

// List returns all notebooks.
func (m *NotebookManager) List(ctx context.Context) ([]domain.Notebook, error) {
	return m.notebookStore.List(ctx)
}

// ListSources returns all sources within a notebook.
func (m *NotebookManager) ListSources(ctx context.Context, notebookID string) ([]domain.Source, error) {
	if _, err := m.notebookStore.Get(ctx, notebookID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: notebook %s", domain.ErrScopeNotFound, notebookID)
		}
		return nil, fmt.Errorf("get notebook: %w", err)
	}
	return m.sourceStore.ListByNotebook(ctx, notebookID)
}

// Delete removes a notebook and everything derived from it. Vector
// entries go first so queries racing the delete never see hits that no
// longer hydrate.
func (m *NotebookManager) Delete(ctx context.Context, id string) error {
	if _, err := m.notebookStore.Get(ctx, id); err != nil {
		return fmt.Errorf("get notebook: %w", err)
	}

	if err := m.vectorIndex.DeleteByNotebook(ctx, id); err != nil {
		return fmt.Errorf("delete vectors: %w", err)
	}

	sources, err := m.sourceStore.ListByNotebook(ctx, id)
	if err != nil {
		return fmt.Errorf("list sources: %w", err)
	}
	for _, src := range sources {
		if err := m.chunkStore.DeleteBySource(ctx, src.ID); err != nil {
			return fmt.Errorf("delete chunks for source %s: %w", src.ID, err)
		}
		if err := m.sourceStore.Delete(ctx, src.ID); err != nil {
			return fmt.Errorf("delete source %s: %w", src.ID, err)
		}
	}

	if err := m.notebookStore.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete notebook: %w", err)
	}

	logger.Info("Deleted notebook %s and %d sources", id, len(sources))
	return nil
}
