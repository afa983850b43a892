package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ventures/internal/game"
)

var postgresSchema = []string{
	`CREATE SCHEMA IF NOT EXISTS ventures`,
	`CREATE TABLE IF NOT EXISTS ventures.current (
		slot       SMALLINT PRIMARY KEY DEFAULT 1 CHECK (slot = 1),
		state      JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS ventures.events (
		id         BIGSERIAL PRIMARY KEY,
		day        INTEGER NOT NULL,
		message    TEXT NOT NULL,
		severity   TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
}

type PostgresStore struct {
	db *pgxpool.Pool
}

// Connect opens a pgx pool and checks it with a ping.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MinConns = 1
	cfg.MaxConnLifetime = 30 * time.Minute
	cfg.MaxConnIdleTime = 10 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return pool, nil
}

// OpenPostgres connects and makes sure the ventures schema exists.
func OpenPostgres(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := Connect(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	s := NewPostgresStore(pool)
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	for _, stmt := range postgresSchema {
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context) (game.Venture, error) {
	var raw []byte
	err := s.db.QueryRow(ctx, `SELECT state FROM ventures.current WHERE slot = 1`).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return game.Venture{}, game.ErrNoVenture
	}
	if err != nil {
		return game.Venture{}, err
	}
	var v game.Venture
	if err := json.Unmarshal(raw, &v); err != nil {
		return game.Venture{}, fmt.Errorf("decode venture: %w", err)
	}
	return v, nil
}

func (s *PostgresStore) Save(ctx context.Context, v game.Venture, events []game.EventRecord) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO ventures.current (slot, state, updated_at)
		VALUES (1, $1, now())
		ON CONFLICT (slot) DO UPDATE SET state = EXCLUDED.state, updated_at = now()
	`, raw)
	if err != nil {
		return err
	}
	if len(events) > 0 {
		rows := make([][]any, 0, len(events))
		for _, e := range events {
			rows = append(rows, []any{e.Day, e.Message, string(e.Severity), e.At})
		}
		if _, err := tx.CopyFrom(ctx,
			pgx.Identifier{"ventures", "events"},
			[]string{"day", "message", "severity", "created_at"},
			pgx.CopyFromRows(rows),
		); err != nil {
			return fmt.Errorf("append events: %w", err)
		}
	}
	return tx.Commit(ctx)
}

func (s *PostgresStore) Events(ctx context.Context, limit int) ([]game.EventRecord, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if limit > 0 {
		rows, err = s.db.Query(ctx, `
			SELECT day, message, severity, created_at
			FROM (
				SELECT id, day, message, severity, created_at
				FROM ventures.events
				ORDER BY id DESC
				LIMIT $1
			) recent
			ORDER BY id
		`, limit)
	} else {
		rows, err = s.db.Query(ctx, `
			SELECT day, message, severity, created_at
			FROM ventures.events
			ORDER BY id
		`)
	}
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (game.EventRecord, error) {
		var (
			e        game.EventRecord
			severity string
		)
		err := row.Scan(&e.Day, &e.Message, &severity, &e.At)
		e.Severity = game.Severity(severity)
		return e, err
	})
}

func (s *PostgresStore) Clear(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)
	if _, err := tx.Exec(ctx, `DELETE FROM ventures.current`); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM ventures.events`); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *PostgresStore) Close() error {
	s.db.Close()
	return nil
}
