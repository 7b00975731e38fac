package cli

import (
	"context"
	"errors"

	"github.com/custodia-labs/inkwell/internal/core/domain"
	"github.com/custodia-labs/inkwell/internal/core/ports/driving"
)

// mockRetriever returns one canned citation.
type mockRetriever struct{}

func (m *mockRetriever) Retrieve(_ context.Context, _ string, _ driving.RetrieveOptions) ([]domain.Citation, error) {
	return []domain.Citation{
		{ChunkID: "c1", SourceID: "s1", Title: "Test Source", Excerpt: "a relevant excerpt", Score: 0.92},
	}, nil
}

// mockRetrieverError always fails.
type mockRetrieverError struct{}

func (m *mockRetrieverError) Retrieve(_ context.Context, _ string, _ driving.RetrieveOptions) ([]domain.Citation, error) {
	return nil, errors.New("index offline")
}

// mockNotebookService returns canned notebooks and sources.
type mockNotebookService struct{}

func (m *mockNotebookService) Create(_ context.Context, title, description string) (*domain.Notebook, error) {
	return &domain.Notebook{ID: "nb-new", Title: title, Description: description}, nil
}

func (m *mockNotebookService) Get(_ context.Context, id string) (*domain.Notebook, error) {
	return &domain.Notebook{ID: id, Title: "Mock Notebook"}, nil
}

func (m *mockNotebookService) List(_ context.Context) ([]domain.Notebook, error) {
	return []domain.Notebook{{ID: "nb-1", Title: "Research", Description: "notes"}}, nil
}

func (m *mockNotebookService) ListSources(_ context.Context, notebookID string) ([]domain.Source, error) {
	return []domain.Source{
		{ID: "s1", NotebookID: notebookID, Title: "Paper", Origin: domain.OriginPDF, Status: domain.StatusCompleted, Version: 1},
	}, nil
}

func (m *mockNotebookService) Delete(_ context.Context, _ string) error {
	return nil
}

// mockIngestor records nothing and succeeds.
type mockIngestor struct{}

func (m *mockIngestor) Ingest(_ context.Context, intake domain.RawIntake) (*domain.Source, error) {
	return &domain.Source{ID: "s-new", NotebookID: intake.NotebookID, Status: domain.StatusCompleted, Version: 1}, nil
}

func (m *mockIngestor) IngestAll(_ context.Context, intakes []domain.RawIntake) ([]driving.IngestReport, error) {
	reports := make([]driving.IngestReport, len(intakes))
	return reports, nil
}

func (m *mockIngestor) Reingest(_ context.Context, sourceID string, _ domain.RawIntake) (*domain.Source, error) {
	return &domain.Source{ID: sourceID, Status: domain.StatusCompleted, Version: 2}, nil
}

func (m *mockIngestor) DeleteSource(_ context.Context, _ string) error {
	return nil
}

// mockAnswerer returns a grounded canned answer.
type mockAnswerer struct{}

func (m *mockAnswerer) Answer(_ context.Context, _ []domain.Message, citations []domain.Citation, _ driving.AnswerOptions) (*domain.Answer, error) {
	return &domain.Answer{Content: "A grounded answer.", Sources: citations}, nil
}

func (m *mockAnswerer) Ask(ctx context.Context, history []domain.Message, _ driving.RetrieveOptions, opts driving.AnswerOptions) (*domain.Answer, error) {
	citations := []domain.Citation{{ChunkID: "c1", Title: "Test Source", Score: 0.92}}
	return m.Answer(ctx, history, citations, opts)
}

// setupTestServices wires all mocks and returns a cleanup that restores
// the previous wiring.
func setupTestServices() func() {
	oldIngest := ingestService
	oldNotebook := notebookService
	oldRetrieve := retrieveService
	oldAnswer := answerService

	SetServices(Services{
		Ingestor:  &mockIngestor{},
		Notebooks: &mockNotebookService{},
		Retriever: &mockRetriever{},
		Answerer:  &mockAnswerer{},
	})

	return func() {
		ingestService = oldIngest
		notebookService = oldNotebook
		retrieveService = oldRetrieve
		answerService = oldAnswer
	}
}
