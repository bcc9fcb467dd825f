// Package server exposes the retrieval engine over a small JSON API:
// context retrieval, prompt enhancement, interaction writes, feedback,
// stats, and a health probe. Query generation itself stays external.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/auradb/aura/internal/history"
	"github.com/auradb/aura/internal/retrieval"
)

// ContextRetriever is the slice of the retriever the server consumes.
type ContextRetriever interface {
	RetrieveContext(ctx context.Context, question string, connectionID uuid.UUID) *retrieval.Context
	Options() retrieval.Options
}

// InteractionStore is the slice of the history store the server consumes.
type InteractionStore interface {
	Save(ctx context.Context, rec history.Record) (history.Record, error)
	Stats(ctx context.Context, window time.Duration) (history.Stats, error)
	Ping(ctx context.Context) error
}

// FeedbackRecorder accepts fire-and-forget outcome feedback.
type FeedbackRecorder interface {
	Record(question, query string, success bool, note string)
}

// Config contains what NewServer needs. Logger defaults to slog.Default;
// everything else is required except Feedback, which may be nil to
// disable the feedback route.
type Config struct {
	Logger       *slog.Logger
	Retriever    ContextRetriever
	Store        InteractionStore
	Feedback     FeedbackRecorder
	RateLimitRPS float64
}

// Server is the HTTP front of the retrieval engine.
type Server struct {
	mux       *http.ServeMux
	logger    *slog.Logger
	retriever ContextRetriever
	store     InteractionStore
	feedback  FeedbackRecorder
	handler   http.Handler
}

// NewServer creates a Server with all routes configured.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Retriever == nil {
		return nil, errors.New("retriever is required")
	}
	if cfg.Store == nil {
		return nil, errors.New("store is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	s := &Server{
		mux:       http.NewServeMux(),
		logger:    cfg.Logger,
		retriever: cfg.Retriever,
		store:     cfg.Store,
		feedback:  cfg.Feedback,
	}

	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.HandleFunc("POST /api/retrieve", s.handleRetrieve)
	s.mux.HandleFunc("POST /api/enhance", s.handleEnhance)
	s.mux.HandleFunc("POST /api/interactions", s.handleSaveInteraction)
	s.mux.HandleFunc("GET /api/stats", s.handleStats)
	if s.feedback != nil {
		s.mux.HandleFunc("POST /api/feedback", s.handleFeedback)
	}

	// Recovery outermost so it also catches middleware panics, then
	// logging, then rate limiting ahead of the routes.
	s.handler = recoveryMiddleware(cfg.Logger)(
		loggingMiddleware(cfg.Logger)(
			rateLimitMiddleware(cfg.RateLimitRPS, cfg.Logger)(s.mux)))

	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}
