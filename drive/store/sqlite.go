package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}

	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

func (s *SQLiteStore) SaveTrack(ctx context.Context, name string, payload []byte) error {
	return s.saveNamed(ctx, "tracks", name, payload)
}

func (s *SQLiteStore) GetTrack(ctx context.Context, name string) ([]byte, bool, error) {
	return s.getNamed(ctx, "tracks", name)
}

func (s *SQLiteStore) ListTracks(ctx context.Context) ([]string, error) {
	return s.listNamed(ctx, "tracks")
}

func (s *SQLiteStore) SaveNetwork(ctx context.Context, name string, payload []byte) error {
	return s.saveNamed(ctx, "networks", name, payload)
}

func (s *SQLiteStore) GetNetwork(ctx context.Context, name string) ([]byte, bool, error) {
	return s.getNamed(ctx, "networks", name)
}

func (s *SQLiteStore) ListNetworks(ctx context.Context) ([]string, error) {
	return s.listNamed(ctx, "networks")
}

func (s *SQLiteStore) SaveRun(ctx context.Context, run RunSummary) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	payload, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("encode run %s: %w", run.ID, err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO runs (id, outcome, payload)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			outcome = excluded.outcome,
			payload = excluded.payload
	`, run.ID, run.Outcome, payload)
	return err
}

func (s *SQLiteStore) GetRun(ctx context.Context, id string) (RunSummary, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return RunSummary{}, false, err
	}

	var payload []byte
	err = db.QueryRowContext(ctx, `SELECT payload FROM runs WHERE id = ?`, id).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RunSummary{}, false, nil
		}
		return RunSummary{}, false, err
	}

	var run RunSummary
	if err := json.Unmarshal(payload, &run); err != nil {
		return RunSummary{}, false, fmt.Errorf("decode run %s: %w", id, err)
	}
	return run, true, nil
}

// saveNamed upserts a payload into one of the name keyed tables. table is
// never user input.
func (s *SQLiteStore) saveNamed(ctx context.Context, table, name string, payload []byte) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO `+table+` (name, payload)
		VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET
			payload = excluded.payload
	`, name, payload)
	return err
}

func (s *SQLiteStore) getNamed(ctx context.Context, table, name string) ([]byte, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, false, err
	}

	var payload []byte
	err = db.QueryRowContext(ctx, `SELECT payload FROM `+table+` WHERE name = ?`, name).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return payload, true, nil
}

func (s *SQLiteStore) listNamed(ctx context.Context, table string) ([]string, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT name FROM `+table+` ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

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

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, ErrNotInitialized
	}
	return s.db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS tracks (
			name TEXT PRIMARY KEY,
			payload BLOB NOT NULL
		);
		CREATE TABLE IF NOT EXISTS networks (
			name TEXT PRIMARY KEY,
			payload BLOB NOT NULL
		);
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			outcome TEXT NOT NULL,
			payload BLOB NOT NULL
		);
	`)
	return err
}
