// Command inkwell is the entry point for the inkwell CLI. It loads the
// TOML configuration, assembles the storage, embedding and generation
// adapters behind the core services, and hands them to the command tree.
package main

import (
	"fmt"
	"os"

	"github.com/custodia-labs/inkwell/internal/adapters/driven/config/file"
	"github.com/custodia-labs/inkwell/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/inkwell/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/inkwell/internal/adapters/driven/llm/anthropic"
	openaillm "github.com/custodia-labs/inkwell/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/inkwell/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/inkwell/internal/adapters/driving/cli"
	"github.com/custodia-labs/inkwell/internal/chunker"
	"github.com/custodia-labs/inkwell/internal/core/ports/driven"
	"github.com/custodia-labs/inkwell/internal/core/services"
	"github.com/custodia-labs/inkwell/internal/normalisers"
	"github.com/custodia-labs/inkwell/internal/normalisers/docx"
	"github.com/custodia-labs/inkwell/internal/normalisers/html"
	"github.com/custodia-labs/inkwell/internal/normalisers/markdown"
	pdfnorm "github.com/custodia-labs/inkwell/internal/normalisers/pdf"
	"github.com/custodia-labs/inkwell/internal/normalisers/plaintext"
	"github.com/custodia-labs/inkwell/internal/normalisers/transcript"
)

// version is stamped at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	settings := cfg.Settings()

	store, err := sqlite.NewStore(settings.DataDir)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	embedder, err := buildEmbedder(settings)
	if err != nil {
		return err
	}

	// The index is hydrated from the vectors table so retrieval works
	// across process runs, not just in the process that ingested.
	index, err := store.VectorIndex(embedder.Dimensions())
	if err != nil {
		return err
	}

	registry := normalisers.NewRegistry()
	registry.Register(plaintext.New())
	registry.Register(markdown.New())
	registry.Register(html.New())
	registry.Register(docx.New())
	registry.Register(pdfnorm.New())
	registry.Register(transcript.New())

	var chunkOpts []chunker.Option
	if settings.ChunkSize > 0 {
		chunkOpts = append(chunkOpts, chunker.WithMaxChunkChars(settings.ChunkSize))
	}
	chk := chunker.New(chunkOpts...)

	var ingestOpts []services.IngestOption
	if settings.EmbeddingRetries > 0 {
		ingestOpts = append(ingestOpts, services.WithEmbedAttempts(settings.EmbeddingRetries))
	}
	if settings.IngestWorkers > 0 {
		ingestOpts = append(ingestOpts, services.WithWorkers(settings.IngestWorkers))
	}

	ingest := services.NewIngestService(
		store.NotebookStore(), store.SourceStore(), store.ChunkStore(),
		index, embedder, registry, chk, ingestOpts...,
	)
	notebooks := services.NewNotebookManager(
		store.NotebookStore(), store.SourceStore(), store.ChunkStore(), index,
	)
	retrieve := services.NewRetrieveService(
		store.NotebookStore(), store.SourceStore(), store.ChunkStore(),
		index, embedder,
	)

	svcs := cli.Services{
		Ingestor:  ingest,
		Notebooks: notebooks,
		Retriever: retrieve,
	}

	// The answerer is optional; without a generator provider the rest of
	// the CLI still works and ask reports it is not configured.
	generator, err := buildGenerator(settings)
	if err != nil {
		return err
	}
	if generator != nil {
		var answerOpts []services.AnswerOption
		if settings.GeneratorTimeout > 0 {
			answerOpts = append(answerOpts, services.WithGenerateTimeout(settings.GeneratorTimeout))
		}
		svcs.Answerer = services.NewAnswerService(generator, retrieve, store.ChunkStore(), answerOpts...)
	}

	cli.SetServices(svcs)
	cli.SetRetrievalDefaults(settings.RetrievalTopK, settings.RetrievalMinScore)
	cli.SetVersion(version)
	return cli.Execute()
}

// buildEmbedder picks the embedding provider from the configuration.
// Ollama is the default so a fresh install works without an API key.
func buildEmbedder(s file.Settings) (driven.EmbeddingService, error) {
	switch s.EmbeddingProvider {
	case "openai":
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     s.EmbeddingAPIKey,
			BaseURL:    s.EmbeddingBaseURL,
			Model:      s.EmbeddingModel,
			Dimensions: s.EmbeddingDimensions,
		})
	case "ollama", "":
		return ollama.NewEmbeddingService(ollama.Config{
			BaseURL:    s.EmbeddingBaseURL,
			Model:      s.EmbeddingModel,
			Dimensions: s.EmbeddingDimensions,
		}), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", s.EmbeddingProvider)
	}
}

// buildGenerator picks the generation provider, or returns nil when
// none is configured.
func buildGenerator(s file.Settings) (driven.Generator, error) {
	switch s.GeneratorProvider {
	case "openai":
		return openaillm.NewGenerator(openaillm.Config{
			APIKey:  s.GeneratorAPIKey,
			BaseURL: s.GeneratorBaseURL,
			Model:   s.GeneratorModel,
			Timeout: s.GeneratorTimeout,
		})
	case "anthropic":
		return anthropic.NewGenerator(anthropic.Config{
			APIKey:  s.GeneratorAPIKey,
			BaseURL: s.GeneratorBaseURL,
			Model:   s.GeneratorModel,
			Timeout: s.GeneratorTimeout,
		})
	case "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown generator provider %q", s.GeneratorProvider)
	}
}
