package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"craftwell-hq/vega/pkg/dsl/jsonlogic"
)

// SQLiteStore implements Store on a SQLite database file. It is suitable
// for single-instance deployments; WAL mode keeps readers unblocked during
// writes.
type SQLiteStore struct {
	db *sql.DB

	saveStmt      *sql.Stmt
	getStmt       *sql.Stmt
	getByNameStmt *sql.Stmt
	listStmt      *sql.Stmt
	deleteStmt    *sql.Stmt
}

// NewSQLiteStore opens (creating if needed) a conditions database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("db path cannot be empty")
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	if err := s.prepareStatements(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare statements: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS conditions (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		dsl TEXT NOT NULL,
		json_logic TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_conditions_name ON conditions(name);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) prepareStatements() error {
	var err error

	s.saveStmt, err = s.db.Prepare(`
		INSERT INTO conditions (id, name, dsl, json_logic, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			dsl = excluded.dsl,
			json_logic = excluded.json_logic,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare save statement: %w", err)
	}

	s.getStmt, err = s.db.Prepare(`
		SELECT id, name, dsl, json_logic, created_at, updated_at
		FROM conditions WHERE id = ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare get statement: %w", err)
	}

	s.getByNameStmt, err = s.db.Prepare(`
		SELECT id, name, dsl, json_logic, created_at, updated_at
		FROM conditions WHERE name = ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare get-by-name statement: %w", err)
	}

	s.listStmt, err = s.db.Prepare(`
		SELECT id, name, dsl, json_logic, created_at, updated_at
		FROM conditions ORDER BY created_at, id
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare list statement: %w", err)
	}

	s.deleteStmt, err = s.db.Prepare(`DELETE FROM conditions WHERE id = ?`)
	if err != nil {
		return fmt.Errorf("failed to prepare delete statement: %w", err)
	}

	return nil
}

// Save inserts or updates a condition record.
func (s *SQLiteStore) Save(ctx context.Context, record *ConditionRecord) error {
	if record == nil {
		return fmt.Errorf("record cannot be nil")
	}
	if record.Name == "" {
		return fmt.Errorf("record name cannot be empty")
	}

	// Reject a new record reusing an existing name before hitting the
	// unique index, so callers get the sentinel error.
	existing, err := s.GetByName(ctx, record.Name)
	if err != nil && err != ErrNotFound {
		return err
	}
	if existing != nil && existing.ID != record.ID {
		return fmt.Errorf("name %q: %w", record.Name, ErrDuplicateName)
	}

	now := time.Now()
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	logicJSON, err := jsonlogic.Encode(record.JSONLogic)
	if err != nil {
		return fmt.Errorf("failed to encode json logic: %w", err)
	}

	_, err = s.saveStmt.ExecContext(ctx,
		record.ID,
		record.Name,
		record.DSL,
		string(logicJSON),
		record.CreatedAt.Unix(),
		record.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to save condition: %w", err)
	}
	return nil
}

// Get retrieves a condition by ID.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*ConditionRecord, error) {
	return s.scanOne(s.getStmt.QueryRowContext(ctx, id))
}

// GetByName retrieves a condition by its unique name.
func (s *SQLiteStore) GetByName(ctx context.Context, name string) (*ConditionRecord, error) {
	return s.scanOne(s.getByNameStmt.QueryRowContext(ctx, name))
}

func (s *SQLiteStore) scanOne(row *sql.Row) (*ConditionRecord, error) {
	var (
		record    ConditionRecord
		logicJSON string
		createdAt int64
		updatedAt int64
	)
	err := row.Scan(&record.ID, &record.Name, &record.DSL, &logicJSON, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load condition: %w", err)
	}

	record.JSONLogic, err = jsonlogic.Decode([]byte(logicJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to decode json logic: %w", err)
	}
	record.CreatedAt = time.Unix(createdAt, 0)
	record.UpdatedAt = time.Unix(updatedAt, 0)
	return &record, nil
}

// List returns all conditions in creation order.
func (s *SQLiteStore) List(ctx context.Context) ([]*ConditionRecord, error) {
	rows, err := s.listStmt.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list conditions: %w", err)
	}
	defer rows.Close()

	var records []*ConditionRecord
	for rows.Next() {
		var (
			record    ConditionRecord
			logicJSON string
			createdAt int64
			updatedAt int64
		)
		if err := rows.Scan(&record.ID, &record.Name, &record.DSL, &logicJSON, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		record.JSONLogic, err = jsonlogic.Decode([]byte(logicJSON))
		if err != nil {
			return nil, fmt.Errorf("failed to decode json logic: %w", err)
		}
		record.CreatedAt = time.Unix(createdAt, 0)
		record.UpdatedAt = time.Unix(updatedAt, 0)
		records = append(records, &record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return records, nil
}

// Delete removes a condition by ID. Deleting a missing ID returns
// ErrNotFound.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	result, err := s.deleteStmt.ExecContext(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete condition: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	for _, stmt := range []*sql.Stmt{s.saveStmt, s.getStmt, s.getByNameStmt, s.listStmt, s.deleteStmt} {
		if stmt != nil {
			stmt.Close()
		}
	}
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
