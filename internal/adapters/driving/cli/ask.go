package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/inkwell/internal/core/domain"
	"github.com/custodia-labs/inkwell/internal/core/ports/driving"
)

var (
	askNotebook    string
	askLimit       int
	askMinScore    float64
	askSources     []string
	askMaxTokens   int
	askTemperature float64
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question answered from a notebook's sources",
	Long: `Retrieves the most relevant chunks for the question and generates an
answer grounded in them. Citations point back to the chunks the answer
actually drew on.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askNotebook, "notebook", "N", "", "notebook ID (required)")
	askCmd.Flags().IntVarP(&askLimit, "limit", "n", 10, "maximum number of grounding chunks")
	askCmd.Flags().Float64Var(&askMinScore, "min-score", 0, "drop grounding chunks scoring below this")
	askCmd.Flags().StringSliceVar(&askSources, "source", nil, "restrict to specific source IDs")
	askCmd.Flags().IntVar(&askMaxTokens, "max-tokens", 0, "maximum tokens to generate")
	askCmd.Flags().Float64Var(&askTemperature, "temperature", 0, "generation temperature")
	_ = askCmd.MarkFlagRequired("notebook")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if answerService == nil {
		return errors.New("answer service not configured; set a generator provider in the config")
	}

	history := []domain.Message{{Role: "user", Content: args[0]}}
	answer, err := answerService.Ask(context.Background(), history, driving.RetrieveOptions{
		NotebookID: askNotebook,
		SourceIDs:  askSources,
		TopK:       askLimit,
		MinScore:   askMinScore,
	}, driving.AnswerOptions{
		MaxTokens:   askMaxTokens,
		Temperature: askTemperature,
	})
	if err != nil {
		// A degraded answer still prints; the grounding just failed.
		if answer != nil && answer.Degraded {
			cmd.Println(answer.Content)
			return fmt.Errorf("answer is not grounded: %w", err)
		}
		return fmt.Errorf("ask failed: %w", err)
	}

	cmd.Println(answer.Content)

	if len(answer.Sources) > 0 {
		cmd.Println()
		cmd.Println("Sources:")
		for i, c := range answer.Sources {
			cmd.Printf("  [%d] %s", i+1, c.Title)
			if c.Page != nil {
				cmd.Printf(" (page %d)", *c.Page)
			}
			cmd.Println()
		}
	}
	return nil
}
