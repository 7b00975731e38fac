package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/inkwell/internal/core/domain"
	"github.com/custodia-labs/inkwell/internal/core/ports/driving"
)

var (
	queryNotebook string
	queryLimit    int
	queryMinScore float64
	querySources  []string
	queryJSON     bool
)

var queryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Retrieve relevant chunks from a notebook",
	Long: `Embeds the query and returns the most similar chunks from the
notebook's sources, with scores and citation details.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().StringVarP(&queryNotebook, "notebook", "N", "", "notebook ID (required)")
	queryCmd.Flags().IntVarP(&queryLimit, "limit", "n", 10, "maximum number of results")
	queryCmd.Flags().Float64Var(&queryMinScore, "min-score", 0, "drop results scoring below this")
	queryCmd.Flags().StringSliceVar(&querySources, "source", nil, "restrict to specific source IDs")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output results as JSON")
	_ = queryCmd.MarkFlagRequired("notebook")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	if retrieveService == nil {
		return errors.New("retrieve service not configured")
	}

	citations, err := retrieveService.Retrieve(context.Background(), args[0], driving.RetrieveOptions{
		NotebookID: queryNotebook,
		SourceIDs:  querySources,
		TopK:       queryLimit,
		MinScore:   queryMinScore,
	})
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if queryJSON {
		return outputCitationsJSON(cmd, citations)
	}
	return outputCitationsTable(cmd, citations)
}

func outputCitationsJSON(cmd *cobra.Command, citations []domain.Citation) error {
	data, err := json.MarshalIndent(citations, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputCitationsTable(cmd *cobra.Command, citations []domain.Citation) error {
	if len(citations) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i, c := range citations {
		cmd.Printf("  [%d] %s (%.2f)\n", i+1, c.Title, c.Score)
		if c.Page != nil {
			cmd.Printf("      Page %d\n", *c.Page)
		}
		if c.URL != "" {
			cmd.Printf("      %s\n", c.URL)
		}
		cmd.Printf("      %s\n", c.Excerpt)
		cmd.Println()
	}
	return nil
}
