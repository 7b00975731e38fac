// Package cli provides the cobra command tree for inkwell.
// Services are injected by the composition root before Execute runs;
// each command nil-checks the service it needs so partial wiring
// degrades into a clear error instead of a panic.
package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/inkwell/internal/core/ports/driving"
	"github.com/custodia-labs/inkwell/internal/logger"
)

// version is set by the composition root at startup.
var version = "dev"

// Injected services.
var (
	ingestService   driving.Ingestor
	notebookService driving.NotebookService
	retrieveService driving.Retriever
	answerService   driving.Answerer
)

var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:   "inkwell",
	Short: "Notebook-scoped document ingestion and grounded answering",
	Long: `Inkwell ingests documents into notebooks, indexes them for semantic
retrieval, and answers questions grounded in the ingested material with
citations back to the exact chunks used.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
}

// Services bundles everything the commands need.
type Services struct {
	Ingestor  driving.Ingestor
	Notebooks driving.NotebookService
	Retriever driving.Retriever
	Answerer  driving.Answerer
}

// SetServices injects the driving services into the command tree.
func SetServices(s Services) {
	ingestService = s.Ingestor
	notebookService = s.Notebooks
	retrieveService = s.Retriever
	answerService = s.Answerer
}

// SetRetrievalDefaults overrides the built-in defaults of the query and
// ask retrieval flags with configured values. Zero values keep the
// built-ins; an explicit flag on the command line still wins.
func SetRetrievalDefaults(topK int, minScore float64) {
	if topK > 0 {
		queryLimit = topK
		queryCmd.Flags().Lookup("limit").DefValue = strconv.Itoa(topK)
		askLimit = topK
		askCmd.Flags().Lookup("limit").DefValue = strconv.Itoa(topK)
	}
	if minScore > 0 {
		def := strconv.FormatFloat(minScore, 'g', -1, 64)
		queryMinScore = minScore
		queryCmd.Flags().Lookup("min-score").DefValue = def
		askMinScore = minScore
		askCmd.Flags().Lookup("min-score").DefValue = def
	}
}

// SetVersion sets the version string reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
