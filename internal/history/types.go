// Package history persists past question/query interactions and exposes the
// recency-filtered reads the retrieval engine ranks against.
package history

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrUnavailable indicates the backing store could not be reached or
	// timed out. Callers treat this as "no history", never as fatal.
	ErrUnavailable = errors.New("history store unavailable")

	// ErrInvalidRecord indicates a record failed validation before write.
	ErrInvalidRecord = errors.New("invalid interaction record")
)

// Kind identifies the query language of a stored interaction.
type Kind string

const (
	// KindSQL marks interactions answered with a SQL query.
	KindSQL Kind = "sql"

	// KindCypher marks interactions answered with a Cypher query.
	KindCypher Kind = "cypher"
)

// Valid reports whether k is a known query kind.
func (k Kind) Valid() bool {
	return k == KindSQL || k == KindCypher
}

// Record is a persisted past interaction: the user's question, the query
// generated for it, and the result summary. Records are immutable once
// written.
type Record struct {
	ID uuid.UUID

	// ConnectionID scopes the record to a database connection.
	// uuid.Nil means unscoped (shared history pool).
	ConnectionID uuid.UUID

	Question       string
	GeneratedQuery string // may be empty
	Summary        string // may be empty
	QueryKind      Kind
	HadResults     bool
	ExecutionTime  time.Duration
	CreatedAt      time.Time
}

// Eligible reports whether the record may serve as retrieval source
// material. Records lacking both a generated query and a summary are
// incomplete or failed interactions and are excluded.
func (r Record) Eligible() bool {
	return r.Question != "" && (r.GeneratedQuery != "" || r.Summary != "")
}

// Stats summarizes the state of the history store.
type Stats struct {
	TotalRecords  int64
	RecentRecords int64
	Window        time.Duration
}
