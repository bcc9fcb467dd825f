package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/auradb/aura/internal/config"
	"github.com/auradb/aura/internal/database"
	"github.com/auradb/aura/internal/history"
	"github.com/auradb/aura/internal/log"
	"github.com/auradb/aura/internal/retrieval"
)

// engine bundles the wired components shared by the commands.
type engine struct {
	cfg       *config.Config
	pool      *pgxpool.Pool
	store     *history.Store
	retriever *retrieval.Retriever
	close     func()
}

// setupEngine loads configuration, connects to PostgreSQL (running any
// pending migrations), and wires the history store and retriever.
func setupEngine(ctx context.Context, logger log.Logger) (*engine, error) {
	// Load validates before returning; a non-nil cfg is ready to use.
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	pool, closePool, err := database.NewPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	store, err := history.NewStore(pool, logger)
	if err != nil {
		closePool()
		return nil, fmt.Errorf("creating history store: %w", err)
	}

	retriever := retrieval.New(store, retrievalOptions(cfg), logger)

	return &engine{
		cfg:       cfg,
		pool:      pool,
		store:     store,
		retriever: retriever,
		close:     closePool,
	}, nil
}

// retrievalOptions maps the configuration knobs onto retriever options.
func retrievalOptions(cfg *config.Config) retrieval.Options {
	return retrieval.Options{
		Threshold:     cfg.SimilarityThreshold,
		MaxExamples:   cfg.MaxContextQueries,
		RecencyWindow: time.Duration(cfg.RecencyWindowDays) * 24 * time.Hour,
		FetchLimit:    cfg.HistoryFetchLimit,
	}
}
