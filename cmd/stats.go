package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show history store statistics and active retrieval settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStats()
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats() error {
	ctx := context.Background()
	logger := newLogger()

	eng, err := setupEngine(ctx, logger)
	if err != nil {
		return err
	}
	defer eng.close()

	window := time.Duration(eng.cfg.RecencyWindowDays) * 24 * time.Hour
	st, err := eng.store.Stats(ctx, window)
	if err != nil {
		return fmt.Errorf("reading stats: %w", err)
	}

	fmt.Println("History store:")
	fmt.Printf("  Total interactions:  %d\n", st.TotalRecords)
	fmt.Printf("  Within %d days:      %d\n", eng.cfg.RecencyWindowDays, st.RecentRecords)
	fmt.Println()
	fmt.Println("Retrieval settings:")
	fmt.Printf("  Similarity threshold: %.2f\n", eng.cfg.SimilarityThreshold)
	fmt.Printf("  Max context queries:  %d\n", eng.cfg.MaxContextQueries)
	fmt.Printf("  History fetch limit:  %d\n", eng.cfg.HistoryFetchLimit)
	return nil
}
