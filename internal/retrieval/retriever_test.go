package retrieval

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/auradb/aura/internal/history"
	"github.com/auradb/aura/internal/log"
)

type fakeFetcher struct {
	records []history.Record
	err     error

	gotSince        time.Time
	gotConnectionID uuid.UUID
	gotLimit        int
}

func (f *fakeFetcher) FetchRecent(_ context.Context, since time.Time, connectionID uuid.UUID, limit int) ([]history.Record, error) {
	f.gotSince = since
	f.gotConnectionID = connectionID
	f.gotLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

func record(question, query string, age time.Duration) history.Record {
	return history.Record{
		ID:             uuid.New(),
		Question:       question,
		GeneratedQuery: query,
		CreatedAt:      time.Now().Add(-age),
	}
}

func TestRetrieveContext_EmptyQuestion(t *testing.T) {
	f := &fakeFetcher{records: []history.Record{record("show customers", "SELECT * FROM customers", time.Hour)}}
	r := New(f, Options{}, log.NewNop())

	if rc := r.RetrieveContext(context.Background(), "", uuid.Nil); rc != nil {
		t.Errorf("RetrieveContext with empty question = %+v, want nil", rc)
	}
	if f.gotLimit != 0 {
		t.Error("fetcher was called for an empty question")
	}
}

func TestRetrieveContext_FetchError(t *testing.T) {
	f := &fakeFetcher{err: errors.New("connection refused")}
	r := New(f, Options{}, log.NewNop())

	if rc := r.RetrieveContext(context.Background(), "show customers", uuid.Nil); rc != nil {
		t.Errorf("RetrieveContext on fetch error = %+v, want nil", rc)
	}
}

func TestRetrieveContext_NoCandidates(t *testing.T) {
	f := &fakeFetcher{}
	r := New(f, Options{}, log.NewNop())

	if rc := r.RetrieveContext(context.Background(), "show customers", uuid.Nil); rc != nil {
		t.Errorf("RetrieveContext with empty history = %+v, want nil", rc)
	}
}

func TestRetrieveContext_NoneAboveThreshold(t *testing.T) {
	f := &fakeFetcher{records: []history.Record{
		record("what is today's weather", "SELECT 1", time.Hour),
	}}
	r := New(f, Options{}, log.NewNop())

	if rc := r.RetrieveContext(context.Background(), "count total orders", uuid.Nil); rc != nil {
		t.Errorf("RetrieveContext with only unrelated history = %+v, want nil", rc)
	}
}

func TestRetrieveContext_SelectsAndRanks(t *testing.T) {
	f := &fakeFetcher{records: []history.Record{
		record("what is today's weather", "SELECT 1", time.Hour),
		record("show me all the customer names", "SELECT name FROM customers", 2*time.Hour),
		record("show all customers", "SELECT * FROM customers", time.Hour),
	}}
	r := New(f, Options{}, log.NewNop())

	rc := r.RetrieveContext(context.Background(), "show all customers", uuid.Nil)
	if rc == nil {
		t.Fatal("RetrieveContext returned nil, want context")
	}

	if rc.Info.TotalCandidates != 3 {
		t.Errorf("TotalCandidates = %d, want 3", rc.Info.TotalCandidates)
	}
	if rc.Info.Selected != len(rc.Examples) {
		t.Errorf("Info.Selected = %d, Examples = %d", rc.Info.Selected, len(rc.Examples))
	}
	if len(rc.Examples) != 2 {
		t.Fatalf("selected %d examples, want 2 (weather filtered out)", len(rc.Examples))
	}

	// Exact match first, then the near match.
	if rc.Examples[0].Record.Question != "show all customers" {
		t.Errorf("top example question = %q, want exact match first", rc.Examples[0].Record.Question)
	}
	if rc.Examples[0].Similarity != 1.0 {
		t.Errorf("exact match similarity = %g, want 1.0", rc.Examples[0].Similarity)
	}
	for i := 1; i < len(rc.Examples); i++ {
		if rc.Examples[i].Similarity > rc.Examples[i-1].Similarity {
			t.Errorf("examples not sorted: [%d]=%g > [%d]=%g",
				i, rc.Examples[i].Similarity, i-1, rc.Examples[i-1].Similarity)
		}
	}

	var sum float64
	for _, ex := range rc.Examples {
		sum += ex.Similarity
	}
	if want := sum / float64(len(rc.Examples)); rc.Info.AvgSimilarity != want {
		t.Errorf("AvgSimilarity = %g, want %g", rc.Info.AvgSimilarity, want)
	}
}

func TestRetrieveContext_CapsAtMaxExamples(t *testing.T) {
	var records []history.Record
	for i := 0; i < 50; i++ {
		records = append(records, record(
			"show all customers",
			fmt.Sprintf("SELECT * FROM customers -- v%d", i),
			time.Duration(i)*time.Minute,
		))
	}
	f := &fakeFetcher{records: records}
	r := New(f, Options{}, log.NewNop())

	rc := r.RetrieveContext(context.Background(), "show all customers", uuid.Nil)
	if rc == nil {
		t.Fatal("RetrieveContext returned nil, want context")
	}
	if len(rc.Examples) != 5 {
		t.Errorf("selected %d examples, want default cap of 5", len(rc.Examples))
	}
	if rc.Info.TotalCandidates != 50 {
		t.Errorf("TotalCandidates = %d, want 50", rc.Info.TotalCandidates)
	}
}

func TestRetrieveContext_TieBreaksByRecency(t *testing.T) {
	older := record("show all customers", "SELECT * FROM customers -- old", 48*time.Hour)
	newer := record("show all customers", "SELECT * FROM customers -- new", time.Hour)
	f := &fakeFetcher{records: []history.Record{older, newer}}
	r := New(f, Options{MaxExamples: 1}, log.NewNop())

	rc := r.RetrieveContext(context.Background(), "show all customers", uuid.Nil)
	if rc == nil {
		t.Fatal("RetrieveContext returned nil, want context")
	}
	if rc.Examples[0].Record.ID != newer.ID {
		t.Error("equal-score tie did not select the more recent record")
	}
}

func TestRetrieveContext_PassesScopeToFetcher(t *testing.T) {
	connID := uuid.New()
	f := &fakeFetcher{}
	r := New(f, Options{RecencyWindow: 7 * 24 * time.Hour, FetchLimit: 25}, log.NewNop())

	before := time.Now().Add(-7 * 24 * time.Hour)
	r.RetrieveContext(context.Background(), "show customers", connID)

	if f.gotConnectionID != connID {
		t.Errorf("fetcher got connection %s, want %s", f.gotConnectionID, connID)
	}
	if f.gotLimit != 25 {
		t.Errorf("fetcher got limit %d, want 25", f.gotLimit)
	}
	if f.gotSince.Before(before.Add(-time.Minute)) || f.gotSince.After(time.Now()) {
		t.Errorf("since = %v, want about 7 days ago", f.gotSince)
	}
}

func TestOptions_Defaults(t *testing.T) {
	r := New(&fakeFetcher{}, Options{}, nil)
	opts := r.Options()

	if opts.Threshold != 0.3 {
		t.Errorf("Threshold = %g, want 0.3", opts.Threshold)
	}
	if opts.MaxExamples != 5 {
		t.Errorf("MaxExamples = %d, want 5", opts.MaxExamples)
	}
	if opts.RecencyWindow != 30*24*time.Hour {
		t.Errorf("RecencyWindow = %v, want 720h", opts.RecencyWindow)
	}
	if opts.FetchLimit != 50 {
		t.Errorf("FetchLimit = %d, want 50", opts.FetchLimit)
	}
}
