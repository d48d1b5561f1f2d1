package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"craftwell-hq/vega/pkg/dsl/eval"
)

const schema = `
CREATE TABLE IF NOT EXISTS evaluations (
	id TEXT PRIMARY KEY,
	route TEXT NOT NULL,
	ok INTEGER NOT NULL,
	result INTEGER NOT NULL,
	error TEXT NOT NULL DEFAULT '',
	resolved_variables TEXT NOT NULL DEFAULT '{}',
	evaluated_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_evaluations_route ON evaluations(route);
CREATE INDEX IF NOT EXISTS idx_evaluations_evaluated_at ON evaluations(evaluated_at);
`

// Store is the SQLite-backed evaluation audit trail. It also implements the
// gate engine's Recorder interface, so it can be installed directly:
//
//	engine.SetRecorder(auditStore)
type Store struct {
	db     *sql.DB
	logger *slog.Logger

	mu     sync.RWMutex
	closed bool
}

// NewStore opens (creating if needed) an audit database at path.
func NewStore(path string, logger *slog.Logger) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("audit db path cannot be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create audit schema: %w", err)
	}

	return &Store{
		db:     db,
		logger: logger.With("component", "gate.audit"),
	}, nil
}

// Record persists one evaluation record, assigning ID and timestamp when
// absent.
func (s *Store) Record(ctx context.Context, record *Record) error {
	if record == nil {
		return fmt.Errorf("record cannot be nil")
	}
	if record.Route == "" {
		return fmt.Errorf("record route cannot be empty")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}

	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.EvaluatedAt.IsZero() {
		record.EvaluatedAt = time.Now()
	}

	resolved := record.ResolvedVariables
	if resolved == nil {
		resolved = map[string]any{}
	}
	resolvedJSON, err := json.Marshal(resolved)
	if err != nil {
		return fmt.Errorf("failed to marshal resolved variables: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO evaluations (id, route, ok, result, error, resolved_variables, evaluated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.Route,
		boolToInt(record.OK),
		boolToInt(record.Result),
		record.Error,
		string(resolvedJSON),
		record.EvaluatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit record: %w", err)
	}
	return nil
}

// RecordEvaluation implements the gate engine's Recorder interface. Insert
// failures are logged, never surfaced: auditing must not affect decisions.
func (s *Store) RecordEvaluation(ctx context.Context, route string, result eval.Result) {
	record := &Record{
		Route:             route,
		OK:                result.OK,
		Result:            result.Result,
		Error:             result.Error,
		ResolvedVariables: result.ResolvedVariables,
	}
	if err := s.Record(ctx, record); err != nil {
		s.logger.Error("failed to record evaluation", "route", route, "error", err)
	}
}

// Query returns matching records, newest first.
func (s *Store) Query(ctx context.Context, q *Query) ([]*Record, error) {
	if q == nil {
		q = &Query{}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	sqlQuery := `
		SELECT id, route, ok, result, error, resolved_variables, evaluated_at
		FROM evaluations WHERE 1=1`
	var args []any
	if q.Route != "" {
		sqlQuery += " AND route = ?"
		args = append(args, q.Route)
	}
	if q.Since != nil {
		sqlQuery += " AND evaluated_at >= ?"
		args = append(args, q.Since.Unix())
	}
	if q.Until != nil {
		sqlQuery += " AND evaluated_at < ?"
		args = append(args, q.Until.Unix())
	}
	sqlQuery += " ORDER BY evaluated_at DESC, id"
	if q.Limit > 0 {
		sqlQuery += " LIMIT ?"
		args = append(args, q.Limit)
	}

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit records: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		var (
			record       Record
			ok           int
			result       int
			resolvedJSON string
			evaluatedAt  int64
		)
		if err := rows.Scan(&record.ID, &record.Route, &ok, &result, &record.Error, &resolvedJSON, &evaluatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit row: %w", err)
		}
		record.OK = ok != 0
		record.Result = result != 0
		record.EvaluatedAt = time.Unix(evaluatedAt, 0)
		if err := json.Unmarshal([]byte(resolvedJSON), &record.ResolvedVariables); err != nil {
			return nil, fmt.Errorf("failed to unmarshal resolved variables: %w", err)
		}
		records = append(records, &record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit rows: %w", err)
	}
	return records, nil
}

// Count returns how many records match the query's route and time bounds.
func (s *Store) Count(ctx context.Context, q *Query) (int64, error) {
	if q == nil {
		q = &Query{}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, ErrClosed
	}

	sqlQuery := "SELECT COUNT(*) FROM evaluations WHERE 1=1"
	var args []any
	if q.Route != "" {
		sqlQuery += " AND route = ?"
		args = append(args, q.Route)
	}
	if q.Since != nil {
		sqlQuery += " AND evaluated_at >= ?"
		args = append(args, q.Since.Unix())
	}
	if q.Until != nil {
		sqlQuery += " AND evaluated_at < ?"
		args = append(args, q.Until.Unix())
	}

	var count int64
	if err := s.db.QueryRowContext(ctx, sqlQuery, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count audit records: %w", err)
	}
	return count, nil
}

// DeleteBefore removes records evaluated before the cutoff and returns how
// many were deleted.
func (s *Store) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, ErrClosed
	}

	result, err := s.db.ExecContext(ctx, "DELETE FROM evaluations WHERE evaluated_at < ?", cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to delete audit records: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return deleted, nil
}

// Close releases the database handle. Close is idempotent.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
