package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/inkwell/internal/core/domain"
)

var (
	sourceNotebook string
	sourceOrigin   string
	sourceTitle    string
	sourceURL      string
)

// originByExtension maps file extensions to origin types for source add.
var originByExtension = map[string]domain.OriginType{
	".txt":  domain.OriginText,
	".md":   domain.OriginMarkdown,
	".docx": domain.OriginDocument,
	".pdf":  domain.OriginPDF,
	".html": domain.OriginWebsite,
	".htm":  domain.OriginWebsite,
	".srt":  domain.OriginVideo,
	".vtt":  domain.OriginVideo,
}

var sourceCmd = &cobra.Command{
	Use:   "source",
	Short: "Manage sources within a notebook",
}

var sourceAddCmd = &cobra.Command{
	Use:   "add [file]",
	Short: "Ingest a file into a notebook",
	Long: `Reads the file, extracts its text, chunks and embeds it, and indexes
the result for retrieval. The origin type is inferred from the file
extension unless --origin is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runSourceAdd,
}

var sourceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sources in a notebook",
	Args:  cobra.NoArgs,
	RunE:  runSourceList,
}

var sourceRemoveCmd = &cobra.Command{
	Use:   "rm [id]",
	Short: "Delete a source and its indexed chunks",
	Args:  cobra.ExactArgs(1),
	RunE:  runSourceRemove,
}

var sourceReingestCmd = &cobra.Command{
	Use:   "reingest [id] [file]",
	Short: "Reprocess a source from a file under a new version",
	Args:  cobra.ExactArgs(2),
	RunE:  runSourceReingest,
}

func init() {
	sourceAddCmd.Flags().StringVarP(&sourceNotebook, "notebook", "N", "", "notebook ID (required)")
	sourceAddCmd.Flags().StringVar(&sourceOrigin, "origin", "", "origin type (text, markdown, document, pdf, website, video, audio)")
	sourceAddCmd.Flags().StringVar(&sourceTitle, "title", "", "source title (defaults to file name)")
	sourceAddCmd.Flags().StringVar(&sourceURL, "url", "", "original URL for website sources")
	_ = sourceAddCmd.MarkFlagRequired("notebook")

	sourceListCmd.Flags().StringVarP(&sourceNotebook, "notebook", "N", "", "notebook ID (required)")
	_ = sourceListCmd.MarkFlagRequired("notebook")

	sourceReingestCmd.Flags().StringVar(&sourceOrigin, "origin", "", "origin type override")
	sourceReingestCmd.Flags().StringVar(&sourceTitle, "title", "", "new source title")

	sourceCmd.AddCommand(sourceAddCmd)
	sourceCmd.AddCommand(sourceListCmd)
	sourceCmd.AddCommand(sourceRemoveCmd)
	sourceCmd.AddCommand(sourceReingestCmd)
	rootCmd.AddCommand(sourceCmd)
}

// intakeFromFile builds a raw intake from a file on disk.
func intakeFromFile(path, notebookID string) (domain.RawIntake, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return domain.RawIntake{}, fmt.Errorf("read file: %w", err)
	}

	origin := domain.OriginType(sourceOrigin)
	if origin == "" {
		ext := strings.ToLower(filepath.Ext(path))
		var ok bool
		origin, ok = originByExtension[ext]
		if !ok {
			return domain.RawIntake{}, fmt.Errorf("cannot infer origin from %q, use --origin", ext)
		}
	}

	title := sourceTitle
	if title == "" {
		title = filepath.Base(path)
	}

	return domain.RawIntake{
		NotebookID: notebookID,
		Title:      title,
		Origin:     origin,
		Content:    content,
		URL:        sourceURL,
	}, nil
}

func runSourceAdd(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	intake, err := intakeFromFile(args[0], sourceNotebook)
	if err != nil {
		return err
	}

	source, err := ingestService.Ingest(context.Background(), intake)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	cmd.Printf("Ingested %s as source %s (%s)\n", args[0], source.ID, source.Status)
	return nil
}

func runSourceList(cmd *cobra.Command, _ []string) error {
	if notebookService == nil {
		return errors.New("notebook service not configured")
	}

	sources, err := notebookService.ListSources(context.Background(), sourceNotebook)
	if err != nil {
		return fmt.Errorf("list sources: %w", err)
	}

	if len(sources) == 0 {
		cmd.Println("No sources in this notebook.")
		return nil
	}

	for _, src := range sources {
		cmd.Printf("  %s  [%s]  %s (v%d, %s)\n", src.ID, src.Origin, src.Title, src.Version, src.Status)
		if src.Status == domain.StatusError && src.ProcessingError != "" {
			cmd.Printf("      error: %s\n", src.ProcessingError)
		}
	}
	return nil
}

func runSourceRemove(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	if err := ingestService.DeleteSource(context.Background(), args[0]); err != nil {
		return fmt.Errorf("delete source: %w", err)
	}

	cmd.Printf("Deleted source %s\n", args[0])
	return nil
}

func runSourceReingest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	intake, err := intakeFromFile(args[1], "")
	if err != nil {
		return err
	}

	source, err := ingestService.Reingest(context.Background(), args[0], intake)
	if err != nil {
		return fmt.Errorf("reingest failed: %w", err)
	}

	cmd.Printf("Reingested source %s (v%d, %s)\n", source.ID, source.Version, source.Status)
	return nil
}
