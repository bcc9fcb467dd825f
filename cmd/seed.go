package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/auradb/aura/internal/history"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load a demo interaction history for local evaluation",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSeed()
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

// seedRecords is a small but varied history: enough overlap for ranking
// to be visible, plus a Cypher entry and a summary-only entry.
var seedRecords = []history.Record{
	{
		Question:       "Show me all customers",
		GeneratedQuery: "SELECT * FROM customers",
		Summary:        "Returned 42 customers",
		QueryKind:      history.KindSQL,
		HadResults:     true,
		ExecutionTime:  35 * time.Millisecond,
	},
	{
		Question:       "Count total orders this month",
		GeneratedQuery: "SELECT COUNT(*) FROM orders WHERE created_at >= date_trunc('month', now())",
		Summary:        "1,204 orders",
		QueryKind:      history.KindSQL,
		HadResults:     true,
		ExecutionTime:  58 * time.Millisecond,
	},
	{
		Question:       "Top 5 products by revenue",
		GeneratedQuery: "SELECT p.name, SUM(oi.price * oi.quantity) AS revenue FROM products p JOIN order_items oi ON oi.product_id = p.id GROUP BY p.name ORDER BY revenue DESC LIMIT 5",
		Summary:        "Top product: Aurora Lamp",
		QueryKind:      history.KindSQL,
		HadResults:     true,
		ExecutionTime:  112 * time.Millisecond,
	},
	{
		Question:       "What is the average order value",
		GeneratedQuery: "SELECT AVG(total) FROM orders",
		Summary:        "$87.40",
		QueryKind:      history.KindSQL,
		HadResults:     true,
		ExecutionTime:  41 * time.Millisecond,
	},
	{
		Question:       "Which customers placed orders last week",
		GeneratedQuery: "MATCH (c:Customer)-[:PLACED]->(o:Order) WHERE o.created_at >= datetime() - duration('P7D') RETURN c.name",
		Summary:        "17 customers",
		QueryKind:      history.KindCypher,
		HadResults:     true,
		ExecutionTime:  96 * time.Millisecond,
	},
	{
		Question:   "Show revenue by region",
		Summary:    "West region leads at 38%",
		QueryKind:  history.KindSQL,
		HadResults: true,
	},
}

func runSeed() error {
	ctx := context.Background()
	logger := newLogger()

	eng, err := setupEngine(ctx, logger)
	if err != nil {
		return err
	}
	defer eng.close()

	for _, rec := range seedRecords {
		saved, err := eng.store.Save(ctx, rec)
		if err != nil {
			return fmt.Errorf("seeding %q: %w", rec.Question, err)
		}
		fmt.Printf("seeded %s  %s\n", saved.ID, rec.Question)
	}

	fmt.Printf("\n%d demo interactions loaded. Try: aura ask \"show me all customers\"\n", len(seedRecords))
	return nil
}
