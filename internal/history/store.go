package history

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// FetchTimeout bounds a single history read. The retrieval path degrades
// to no-context on expiry rather than blocking the caller.
const FetchTimeout = 3 * time.Second

// recordCols is the standard SELECT column list for scanRecords.
const recordCols = `id, connection_id, question, generated_query, summary,
	query_kind, had_results, execution_ms, created_at`

// Store manages interaction records backed by PostgreSQL.
//
// Store is safe for concurrent use by multiple goroutines.
type Store struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewStore creates a history Store.
func NewStore(pool *pgxpool.Pool, logger *slog.Logger) (*Store, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{pool: pool, logger: logger}, nil
}

// Save persists a completed interaction and returns it with the assigned
// ID and creation timestamp. The write path validates up front; retrieval
// eligibility is re-checked on read so partial records never rank.
func (s *Store) Save(ctx context.Context, rec Record) (Record, error) {
	if rec.Question == "" {
		return Record{}, fmt.Errorf("%w: question is required", ErrInvalidRecord)
	}
	if rec.QueryKind == "" {
		rec.QueryKind = KindSQL
	}
	if !rec.QueryKind.Valid() {
		return Record{}, fmt.Errorf("%w: unknown query kind %q", ErrInvalidRecord, rec.QueryKind)
	}

	rec.ID = uuid.New()

	var connID *uuid.UUID
	if rec.ConnectionID != uuid.Nil {
		connID = &rec.ConnectionID
	}

	err := s.pool.QueryRow(ctx,
		`INSERT INTO interactions
		   (id, connection_id, question, generated_query, summary, query_kind, had_results, execution_ms)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING created_at`,
		rec.ID, connID, rec.Question, rec.GeneratedQuery, rec.Summary,
		string(rec.QueryKind), rec.HadResults, rec.ExecutionTime.Milliseconds(),
	).Scan(&rec.CreatedAt)
	if err != nil {
		return Record{}, fmt.Errorf("inserting interaction: %w", err)
	}

	s.logger.Debug("saved interaction", "id", rec.ID, "kind", rec.QueryKind)
	return rec, nil
}

// FetchRecent returns eligible interaction records created at or after
// since, newest first, capped at limit. When connectionID is non-nil the
// result is scoped to that connection; uuid.Nil returns the shared pool.
//
// A store that cannot be reached within FetchTimeout returns an error
// wrapping ErrUnavailable. Individual malformed rows are skipped, not
// fatal to the batch.
func (s *Store) FetchRecent(ctx context.Context, since time.Time, connectionID uuid.UUID, limit int) ([]Record, error) {
	if limit <= 0 {
		return []Record{}, nil
	}

	queryCtx, cancel := context.WithTimeout(ctx, FetchTimeout)
	defer cancel()

	// Eligibility filter lives in SQL so the candidate pool is not
	// wasted on incomplete interactions.
	var (
		rows pgx.Rows
		err  error
	)
	if connectionID != uuid.Nil {
		rows, err = s.pool.Query(queryCtx,
			`SELECT `+recordCols+`
			 FROM interactions
			 WHERE created_at >= $1
			   AND connection_id = $2
			   AND (generated_query <> '' OR summary <> '')
			 ORDER BY created_at DESC
			 LIMIT $3`,
			since, connectionID, limit,
		)
	} else {
		rows, err = s.pool.Query(queryCtx,
			`SELECT `+recordCols+`
			 FROM interactions
			 WHERE created_at >= $1
			   AND (generated_query <> '' OR summary <> '')
			 ORDER BY created_at DESC
			 LIMIT $2`,
			since, limit,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer rows.Close()

	records, err := s.scanRecords(rows)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return records, nil
}

// Stats returns counts over the whole store and over the given recency
// window, for the stats command and endpoint.
func (s *Store) Stats(ctx context.Context, window time.Duration) (Stats, error) {
	queryCtx, cancel := context.WithTimeout(ctx, FetchTimeout)
	defer cancel()

	st := Stats{Window: window}

	if err := s.pool.QueryRow(queryCtx,
		`SELECT COUNT(*) FROM interactions`,
	).Scan(&st.TotalRecords); err != nil {
		return Stats{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if err := s.pool.QueryRow(queryCtx,
		`SELECT COUNT(*) FROM interactions WHERE created_at >= $1`,
		time.Now().Add(-window),
	).Scan(&st.RecentRecords); err != nil {
		return Stats{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return st, nil
}

// scanRecords reads Records from pgx.Rows (standard column set).
// Rows that fail to scan or validate are logged and skipped.
func (s *Store) scanRecords(rows pgx.Rows) ([]Record, error) {
	var records []Record
	for rows.Next() {
		var (
			rec    Record
			connID *uuid.UUID
			kind   string
			execMS int64
		)
		if err := rows.Scan(
			&rec.ID, &connID, &rec.Question, &rec.GeneratedQuery, &rec.Summary,
			&kind, &rec.HadResults, &execMS, &rec.CreatedAt,
		); err != nil {
			s.logger.Warn("skipping malformed interaction row", "error", err)
			continue
		}
		if connID != nil {
			rec.ConnectionID = *connID
		}
		rec.QueryKind = Kind(kind)
		rec.ExecutionTime = time.Duration(execMS) * time.Millisecond

		if !rec.Eligible() {
			s.logger.Warn("skipping ineligible interaction row", "id", rec.ID)
			continue
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating interactions: %w", err)
	}
	return records, nil
}

// Ping verifies store connectivity, for health checks.
func (s *Store) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, FetchTimeout)
	defer cancel()
	if err := s.pool.Ping(pingCtx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: ping timeout", ErrUnavailable)
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}
