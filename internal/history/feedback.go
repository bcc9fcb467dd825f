package history

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	// feedbackTimeout bounds a single feedback write.
	feedbackTimeout = 3 * time.Second

	// maxInflightFeedback caps concurrent feedback writers. Submissions
	// beyond the cap are dropped, never queued — feedback must not
	// build back-pressure into the query path.
	maxInflightFeedback = 16
)

// Recorder persists outcome feedback for future retrieval tuning.
// Writes are fire-and-forget: failures are logged and swallowed, and
// Record never blocks the caller.
type Recorder struct {
	pool   *pgxpool.Pool
	logger *slog.Logger

	wg  sync.WaitGroup
	sem chan struct{}
}

// NewRecorder creates a feedback Recorder.
func NewRecorder(pool *pgxpool.Pool, logger *slog.Logger) (*Recorder, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{
		pool:   pool,
		logger: logger,
		sem:    make(chan struct{}, maxInflightFeedback),
	}, nil
}

// Record submits feedback about a generated query. It returns immediately;
// the write happens on a background goroutine with its own timeout so a
// slow store cannot stall the caller. When too many writes are already in
// flight the submission is dropped with a warning.
func (r *Recorder) Record(question, query string, success bool, note string) {
	select {
	case r.sem <- struct{}{}:
	default:
		r.logger.Warn("feedback dropped, too many writes in flight")
		return
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer func() { <-r.sem }()

		// Independent context: the caller's request may already be done.
		ctx, cancel := context.WithTimeout(context.Background(), feedbackTimeout)
		defer cancel()

		_, err := r.pool.Exec(ctx,
			`INSERT INTO feedback (id, question, generated_query, success, note)
			 VALUES ($1, $2, $3, $4, $5)`,
			uuid.New(), question, query, success, note,
		)
		if err != nil {
			r.logger.Warn("feedback write failed", "error", err)
			return
		}
		r.logger.Debug("feedback recorded", "success", success)
	}()
}

// Close waits for in-flight feedback writes to finish. Call on shutdown.
func (r *Recorder) Close() {
	r.wg.Wait()
}
