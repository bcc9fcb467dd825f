package retrieval

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/auradb/aura/internal/history"
)

// HistoryFetcher is the slice of the history store the retriever consumes.
// *history.Store satisfies it; tests substitute a mock.
type HistoryFetcher interface {
	FetchRecent(ctx context.Context, since time.Time, connectionID uuid.UUID, limit int) ([]history.Record, error)
}

// Options tunes the retriever. The zero value is usable: each field falls
// back to its documented default.
type Options struct {
	// Threshold is the minimum similarity for a candidate to be kept
	// (default 0.3).
	Threshold float64

	// MaxExamples caps the selected set (default 5).
	MaxExamples int

	// RecencyWindow is the age cutoff for candidates (default 30 days).
	RecencyWindow time.Duration

	// FetchLimit is the candidate pool size requested from the store,
	// larger than MaxExamples so ranking sees a wider pool (default 50).
	FetchLimit int
}

func (o Options) withDefaults() Options {
	if o.Threshold == 0 {
		o.Threshold = 0.3
	}
	if o.MaxExamples == 0 {
		o.MaxExamples = 5
	}
	if o.RecencyWindow == 0 {
		o.RecencyWindow = 30 * 24 * time.Hour
	}
	if o.FetchLimit == 0 {
		o.FetchLimit = 50
	}
	return o
}

// ScoredExample is a history record paired with its similarity to the
// current question.
type ScoredExample struct {
	Record     history.Record
	Similarity float64
}

// Info describes how a retrieval went, for logging and response metadata.
type Info struct {
	TotalCandidates int
	Selected        int
	AvgSimilarity   float64
	Threshold       float64
}

// Context is the size-limited set of relevant past interactions for one
// question. It is built fresh per request and never mutated afterwards.
type Context struct {
	Examples []ScoredExample
	Patterns Patterns
	Info     Info
}

// Retriever ranks recent history against incoming questions.
//
// Retriever is stateless apart from read-only configuration and is safe
// for concurrent use.
type Retriever struct {
	history HistoryFetcher
	opts    Options
	logger  *slog.Logger
}

// New creates a Retriever over the given history source.
func New(h HistoryFetcher, opts Options, logger *slog.Logger) *Retriever {
	if logger == nil {
		logger = slog.Default()
	}
	return &Retriever{
		history: h,
		opts:    opts.withDefaults(),
		logger:  logger,
	}
}

// Options returns the effective (defaulted) options.
func (r *Retriever) Options() Options {
	return r.opts
}

// RetrieveContext finds past interactions relevant to question, scoped to
// connectionID when non-nil (uuid.Nil searches the shared pool).
//
// It returns nil when no relevant context exists — empty history, nothing
// above the threshold, an unreachable store, or a cancelled request. No
// failure propagates: augmentation is a pure enhancement, never a
// blocking dependency.
func (r *Retriever) RetrieveContext(ctx context.Context, question string, connectionID uuid.UUID) *Context {
	if question == "" {
		return nil
	}

	since := time.Now().Add(-r.opts.RecencyWindow)

	candidates, err := r.history.FetchRecent(ctx, since, connectionID, r.opts.FetchLimit)
	if err != nil {
		r.logger.Warn("history fetch failed, proceeding without context", "error", err)
		return nil
	}
	if len(candidates) == 0 {
		r.logger.Debug("no history candidates in recency window")
		return nil
	}

	var selected []ScoredExample
	for _, cand := range candidates {
		score := Score(question, cand.Question)
		if score >= r.opts.Threshold {
			selected = append(selected, ScoredExample{Record: cand, Similarity: score})
		}
	}
	if len(selected) == 0 {
		r.logger.Debug("no candidates above threshold",
			"candidates", len(candidates), "threshold", r.opts.Threshold)
		return nil
	}

	// Score descending; equal scores break toward the more recent record.
	sort.SliceStable(selected, func(i, j int) bool {
		if selected[i].Similarity != selected[j].Similarity {
			return selected[i].Similarity > selected[j].Similarity
		}
		return selected[i].Record.CreatedAt.After(selected[j].Record.CreatedAt)
	})
	if len(selected) > r.opts.MaxExamples {
		selected = selected[:r.opts.MaxExamples]
	}

	var sum float64
	for _, ex := range selected {
		sum += ex.Similarity
	}

	rc := &Context{
		Examples: selected,
		Patterns: ExtractPatterns(selected),
		Info: Info{
			TotalCandidates: len(candidates),
			Selected:        len(selected),
			AvgSimilarity:   sum / float64(len(selected)),
			Threshold:       r.opts.Threshold,
		},
	}

	r.logger.Debug("retrieved context",
		"candidates", rc.Info.TotalCandidates,
		"selected", rc.Info.Selected,
		"avg_similarity", rc.Info.AvgSimilarity,
	)
	return rc
}
