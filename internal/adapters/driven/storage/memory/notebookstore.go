// Package memory provides in-memory implementations of the persistence
// ports. Used in tests and for ephemeral sessions; the sqlite package
// provides the durable equivalents.
package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/inkwell/internal/core/domain"
	"github.com/custodia-labs/inkwell/internal/core/ports/driven"
)

// Ensure NotebookStore implements the interface.
var _ driven.NotebookStore = (*NotebookStore)(nil)

// NotebookStore is an in-memory implementation of driven.NotebookStore.
type NotebookStore struct {
	mu        sync.RWMutex
	notebooks map[string]domain.Notebook
}

// NewNotebookStore creates a new in-memory notebook store.
func NewNotebookStore() *NotebookStore {
	return &NotebookStore{
		notebooks: make(map[string]domain.Notebook),
	}
}

// Save stores or updates a notebook.
func (s *NotebookStore) Save(_ context.Context, notebook domain.Notebook) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notebooks[notebook.ID] = notebook
	return nil
}

// Get retrieves a notebook by ID.
func (s *NotebookStore) Get(_ context.Context, id string) (*domain.Notebook, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	notebook, ok := s.notebooks[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &notebook, nil
}

// Delete removes a notebook.
func (s *NotebookStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.notebooks, id)
	return nil
}

// List returns all notebooks.
func (s *NotebookStore) List(_ context.Context) ([]domain.Notebook, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Notebook, 0, len(s.notebooks))
	for _, notebook := range s.notebooks {
		result = append(result, notebook)
	}
	return result, nil
}
