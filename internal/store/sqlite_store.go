package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store on a single SQLite database file.
type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at path and its tables.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}

	db, err := sql.Open("sqlite", sqliteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// SQLite allows one writer at a time. Server jobs finish concurrently, so
	// writes queue on a single connection instead of failing with SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to sqlite database: %w", err)
	}

	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLiteStore{path: path, db: db}, nil
}

// sqliteDSN adds the connection pragmas: wait up to 5s on a locked database
// and use WAL so readers do not block the writer.
func sqliteDSN(path string) string {
	return "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

func createTables(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			finished_at INTEGER NOT NULL,
			payload BLOB NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS run_history (
			run_id TEXT NOT NULL,
			generation INTEGER NOT NULL,
			best_fitness REAL NOT NULL,
			PRIMARY KEY (run_id, generation)
		)`,
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create sqlite tables: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return nil, errors.New("sqlite store is closed")
	}
	return s.db, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// SaveRun implements Store.
func (s *SQLiteStore) SaveRun(record *RunRecord) error {
	if record == nil {
		return fmt.Errorf("run record cannot be nil")
	}
	if record.ID == "" {
		return fmt.Errorf("run ID cannot be empty")
	}
	db, err := s.getDB()
	if err != nil {
		return err
	}

	if err := upsertRun(context.Background(), db, record); err != nil {
		return err
	}

	slog.Debug("Run saved", "run_id", record.ID, "path", s.path)
	return nil
}

// SaveRunWithHistory stores a run and its history in one transaction, so a
// run is never visible without its history.
func (s *SQLiteStore) SaveRunWithHistory(record *RunRecord, history []float64) error {
	if record == nil {
		return fmt.Errorf("run record cannot be nil")
	}
	if record.ID == "" {
		return fmt.Errorf("run ID cannot be empty")
	}
	db, err := s.getDB()
	if err != nil {
		return err
	}

	ctx := context.Background()
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := replaceHistory(ctx, tx, record.ID, history); err != nil {
		return err
	}
	if err := upsertRun(ctx, tx, record); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}

	slog.Debug("Run saved", "run_id", record.ID, "generations", len(history), "path", s.path)
	return nil
}

// execer is satisfied by *sql.DB and *sql.Tx
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func upsertRun(ctx context.Context, db execer, record *RunRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to serialize run: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO runs (id, finished_at, payload)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			finished_at = excluded.finished_at,
			payload = excluded.payload
	`, record.ID, record.Timestamp.UnixNano(), payload)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

func replaceHistory(ctx context.Context, db execer, runID string, history []float64) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM run_history WHERE run_id = ?`, runID); err != nil {
		return fmt.Errorf("failed to clear run history: %w", err)
	}
	for i, fitness := range history {
		if _, err := db.ExecContext(ctx,
			`INSERT INTO run_history (run_id, generation, best_fitness) VALUES (?, ?, ?)`,
			runID, i+1, fitness,
		); err != nil {
			return fmt.Errorf("failed to save history generation %d: %w", i+1, err)
		}
	}
	return nil
}

// LoadRun implements Store.
func (s *SQLiteStore) LoadRun(runID string) (*RunRecord, error) {
	if runID == "" {
		return nil, fmt.Errorf("run ID cannot be empty")
	}
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	var payload []byte
	err = db.QueryRowContext(context.Background(), `SELECT payload FROM runs WHERE id = ?`, runID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{RunID: runID}
	} else if err != nil {
		return nil, fmt.Errorf("failed to load run: %w", err)
	}

	var record RunRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, fmt.Errorf("decode run %s: %w", runID, err)
	}
	return &record, nil
}

// ListRuns implements Store.
func (s *SQLiteStore) ListRuns() ([]RunInfo, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(context.Background(), `SELECT id, payload FROM runs ORDER BY finished_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	infos := []RunInfo{}
	for rows.Next() {
		var id string
		var payload []byte
		if err := rows.Scan(&id, &payload); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		var record RunRecord
		if err := json.Unmarshal(payload, &record); err != nil {
			slog.Warn("Failed to decode run for listing", "run_id", id, "error", err)
			continue
		}
		infos = append(infos, record.ToInfo())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}
	return infos, nil
}

// DeleteRun implements Store.
func (s *SQLiteStore) DeleteRun(runID string) error {
	if runID == "" {
		return fmt.Errorf("run ID cannot be empty")
	}
	db, err := s.getDB()
	if err != nil {
		return err
	}

	ctx := context.Background()
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, runID)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return &NotFoundError{RunID: runID}
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM run_history WHERE run_id = ?`, runID); err != nil {
		return fmt.Errorf("failed to delete run history: %w", err)
	}
	return tx.Commit()
}

// SaveHistory implements Store.
func (s *SQLiteStore) SaveHistory(runID string, history []float64) error {
	if runID == "" {
		return fmt.Errorf("run ID cannot be empty")
	}
	db, err := s.getDB()
	if err != nil {
		return err
	}

	ctx := context.Background()
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := replaceHistory(ctx, tx, runID, history); err != nil {
		return err
	}
	return tx.Commit()
}

// LoadHistory implements Store.
func (s *SQLiteStore) LoadHistory(runID string) ([]float64, error) {
	if runID == "" {
		return nil, fmt.Errorf("run ID cannot be empty")
	}
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	var exists int
	err = db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs WHERE id = ?`, runID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to look up run: %w", err)
	}
	if exists == 0 {
		return nil, &NotFoundError{RunID: runID}
	}

	rows, err := db.QueryContext(ctx,
		`SELECT best_fitness FROM run_history WHERE run_id = ? ORDER BY generation`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	defer rows.Close()

	history := []float64{}
	for rows.Next() {
		var fitness float64
		if err := rows.Scan(&fitness); err != nil {
			return nil, fmt.Errorf("failed to scan history: %w", err)
		}
		history = append(history, fitness)
	}
	return history, rows.Err()
}
