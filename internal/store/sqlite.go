package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"ventures/internal/game"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS current_venture (
		slot       INTEGER PRIMARY KEY CHECK (slot = 1),
		state      TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS events (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		day        INTEGER NOT NULL,
		message    TEXT NOT NULL,
		severity   TEXT NOT NULL,
		created_at INTEGER NOT NULL
	)`,
}

// SQLiteStore persists the venture in a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path and runs migrations.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" && path != ":memory:" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// one writer; also keeps ":memory:" on a single connection
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	s := &SQLiteStore{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate(ctx context.Context) error {
	for _, stmt := range sqliteSchema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) Load(ctx context.Context) (game.Venture, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT state FROM current_venture WHERE slot = 1`).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return game.Venture{}, game.ErrNoVenture
	}
	if err != nil {
		return game.Venture{}, err
	}
	var v game.Venture
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return game.Venture{}, fmt.Errorf("decode venture: %w", err)
	}
	return v, nil
}

func (s *SQLiteStore) Save(ctx context.Context, v game.Venture, events []game.EventRecord) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO current_venture (slot, state, updated_at) VALUES (1, ?, ?)
		ON CONFLICT (slot) DO UPDATE SET state = excluded.state, updated_at = excluded.updated_at
	`, string(raw), time.Now().Unix())
	if err != nil {
		return err
	}
	for _, e := range events {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO events (day, message, severity, created_at) VALUES (?, ?, ?, ?)`,
			e.Day, e.Message, string(e.Severity), e.At.UnixNano(),
		); err != nil {
			return fmt.Errorf("append events: %w", err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) Events(ctx context.Context, limit int) ([]game.EventRecord, error) {
	query := `SELECT day, message, severity, created_at FROM events ORDER BY id`
	args := []any{}
	if limit > 0 {
		query = `SELECT day, message, severity, created_at FROM (
			SELECT id, day, message, severity, created_at FROM events ORDER BY id DESC LIMIT ?
		) ORDER BY id`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []game.EventRecord{}
	for rows.Next() {
		var (
			e        game.EventRecord
			severity string
			at       int64
		)
		if err := rows.Scan(&e.Day, &e.Message, &severity, &at); err != nil {
			return nil, err
		}
		e.Severity = game.Severity(severity)
		e.At = time.Unix(0, at).UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, `DELETE FROM current_venture`); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM events`); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
