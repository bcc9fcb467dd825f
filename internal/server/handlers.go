package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/auradb/aura/internal/history"
	"github.com/auradb/aura/internal/retrieval"
)

// maxBodyBytes bounds request bodies; questions and queries are short.
const maxBodyBytes = 64 << 10

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("writing response failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}

// decodeJSON reads and decodes a bounded request body, rejecting unknown
// fields so typos fail loudly.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func parseConnectionID(raw string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(raw)
}

type retrieveRequest struct {
	Question     string `json:"question"`
	ConnectionID string `json:"connection_id,omitempty"`
}

type exampleJSON struct {
	Question       string    `json:"question"`
	GeneratedQuery string    `json:"generated_query,omitempty"`
	Summary        string    `json:"summary,omitempty"`
	QueryKind      string    `json:"query_kind,omitempty"`
	Similarity     float64   `json:"similarity"`
	CreatedAt      time.Time `json:"created_at"`
}

type patternsJSON struct {
	CommonEntities   []string `json:"common_entities,omitempty"`
	CommonOperations []string `json:"common_operations,omitempty"`
}

type contextJSON struct {
	Examples        []exampleJSON `json:"examples"`
	Patterns        patternsJSON  `json:"patterns"`
	TotalCandidates int           `json:"total_candidates"`
	AvgSimilarity   float64       `json:"avg_similarity"`
	Threshold       float64       `json:"threshold"`
}

type retrieveResponse struct {
	// Context is null when no relevant history exists.
	Context *contextJSON `json:"context"`
}

func toContextJSON(rc *retrieval.Context) *contextJSON {
	if rc == nil {
		return nil
	}
	out := &contextJSON{
		Examples: make([]exampleJSON, 0, len(rc.Examples)),
		Patterns: patternsJSON{
			CommonEntities:   rc.Patterns.CommonEntities,
			CommonOperations: rc.Patterns.CommonOperations,
		},
		TotalCandidates: rc.Info.TotalCandidates,
		AvgSimilarity:   rc.Info.AvgSimilarity,
		Threshold:       rc.Info.Threshold,
	}
	for _, ex := range rc.Examples {
		out.Examples = append(out.Examples, exampleJSON{
			Question:       ex.Record.Question,
			GeneratedQuery: ex.Record.GeneratedQuery,
			Summary:        ex.Record.Summary,
			QueryKind:      string(ex.Record.QueryKind),
			Similarity:     ex.Similarity,
			CreatedAt:      ex.Record.CreatedAt,
		})
	}
	return out
}

func (s *Server) handleRetrieve(w http.ResponseWriter, r *http.Request) {
	var req retrieveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Question == "" {
		s.writeError(w, http.StatusBadRequest, "question is required")
		return
	}
	connID, err := parseConnectionID(req.ConnectionID)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid connection_id")
		return
	}

	rc := s.retriever.RetrieveContext(r.Context(), req.Question, connID)
	s.writeJSON(w, http.StatusOK, retrieveResponse{Context: toContextJSON(rc)})
}

type enhanceResponse struct {
	Prompt string `json:"prompt"`

	// Enhanced is false when the prompt is the question unchanged.
	Enhanced bool `json:"enhanced"`
}

func (s *Server) handleEnhance(w http.ResponseWriter, r *http.Request) {
	var req retrieveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Question == "" {
		s.writeError(w, http.StatusBadRequest, "question is required")
		return
	}
	connID, err := parseConnectionID(req.ConnectionID)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid connection_id")
		return
	}

	rc := s.retriever.RetrieveContext(r.Context(), req.Question, connID)
	prompt := retrieval.BuildEnhancedPrompt(req.Question, rc)
	s.writeJSON(w, http.StatusOK, enhanceResponse{
		Prompt:   prompt,
		Enhanced: rc != nil && len(rc.Examples) > 0,
	})
}

type saveInteractionRequest struct {
	Question       string `json:"question"`
	GeneratedQuery string `json:"generated_query,omitempty"`
	Summary        string `json:"summary,omitempty"`
	QueryKind      string `json:"query_kind,omitempty"`
	HadResults     bool   `json:"had_results,omitempty"`
	ExecutionMS    int64  `json:"execution_ms,omitempty"`
	ConnectionID   string `json:"connection_id,omitempty"`
}

type saveInteractionResponse struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Server) handleSaveInteraction(w http.ResponseWriter, r *http.Request) {
	var req saveInteractionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	connID, err := parseConnectionID(req.ConnectionID)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid connection_id")
		return
	}

	saved, err := s.store.Save(r.Context(), history.Record{
		ConnectionID:   connID,
		Question:       req.Question,
		GeneratedQuery: req.GeneratedQuery,
		Summary:        req.Summary,
		QueryKind:      history.Kind(req.QueryKind),
		HadResults:     req.HadResults,
		ExecutionTime:  time.Duration(req.ExecutionMS) * time.Millisecond,
	})
	if err != nil {
		if errors.Is(err, history.ErrInvalidRecord) {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("saving interaction failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "saving interaction failed")
		return
	}

	s.writeJSON(w, http.StatusCreated, saveInteractionResponse{
		ID:        saved.ID,
		CreatedAt: saved.CreatedAt,
	})
}

type feedbackRequest struct {
	Question       string `json:"question"`
	GeneratedQuery string `json:"generated_query,omitempty"`
	Success        bool   `json:"success"`
	Note           string `json:"note,omitempty"`
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Question == "" {
		s.writeError(w, http.StatusBadRequest, "question is required")
		return
	}

	s.feedback.Record(req.Question, req.GeneratedQuery, req.Success, req.Note)
	w.WriteHeader(http.StatusAccepted)
}

type statsResponse struct {
	TotalRecords  int64   `json:"total_records"`
	RecentRecords int64   `json:"recent_records"`
	WindowDays    int     `json:"window_days"`
	Threshold     float64 `json:"similarity_threshold"`
	MaxExamples   int     `json:"max_context_queries"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	opts := s.retriever.Options()

	st, err := s.store.Stats(r.Context(), opts.RecencyWindow)
	if err != nil {
		s.logger.Error("reading stats failed", "error", err)
		s.writeError(w, http.StatusServiceUnavailable, "history store unavailable")
		return
	}

	s.writeJSON(w, http.StatusOK, statsResponse{
		TotalRecords:  st.TotalRecords,
		RecentRecords: st.RecentRecords,
		WindowDays:    int(st.Window.Hours() / 24),
		Threshold:     opts.Threshold,
		MaxExamples:   opts.MaxExamples,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		s.writeError(w, http.StatusServiceUnavailable, "history store unreachable")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
