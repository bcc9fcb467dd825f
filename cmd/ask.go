package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/auradb/aura/internal/retrieval"
)

var askConnection string

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Show the retrieved context and enhanced prompt for a question",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func init() {
	askCmd.Flags().StringVar(&askConnection, "connection", "", "connection UUID to scope history to")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	logger := newLogger()

	connID := uuid.Nil
	if askConnection != "" {
		var err error
		if connID, err = uuid.Parse(askConnection); err != nil {
			return fmt.Errorf("parsing --connection: %w", err)
		}
	}

	eng, err := setupEngine(ctx, logger)
	if err != nil {
		return err
	}
	defer eng.close()

	question := strings.Join(args, " ")

	rc := eng.retriever.RetrieveContext(ctx, question, connID)
	if rc == nil {
		fmt.Println("No relevant context found; the prompt is the question unchanged.")
		fmt.Println()
		fmt.Println(question)
		return nil
	}

	fmt.Printf("Selected %d of %d candidates (avg similarity %.3f, threshold %.2f)\n\n",
		rc.Info.Selected, rc.Info.TotalCandidates, rc.Info.AvgSimilarity, rc.Info.Threshold)
	for i, ex := range rc.Examples {
		fmt.Printf("%d. [%.3f] %s\n", i+1, ex.Similarity, ex.Record.Question)
	}
	fmt.Println()
	fmt.Println(retrieval.BuildEnhancedPrompt(question, rc))
	return nil
}
