// Package store holds the persistence backends for the single live venture and its
// event journal.
package store

import (
	"context"
	"fmt"
	"log/slog"

	"ventures/internal/config"
	"ventures/internal/game"
)

// Store is a game.Store that owns a connection or file handle.
type Store interface {
	game.Store
	Close() error
}

// Open builds the backend named by cfg.Driver.
func Open(ctx context.Context, cfg config.StoreConfig, logger *slog.Logger) (Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var (
		s   Store
		err error
	)
	switch cfg.Driver {
	case config.StoreMemory:
		s = NewMemoryStore()
	case config.StoreFile, "":
		s, err = NewFileStore(cfg.DataDir)
	case config.StoreSQLite:
		s, err = OpenSQLite(ctx, cfg.SQLitePath)
	case config.StorePostgres:
		s, err = OpenPostgres(ctx, cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	logger.Debug("store opened", "driver", cfg.Driver)
	return s, nil
}

// tail returns the last limit records, or all of them when limit <= 0.
func tail(records []game.EventRecord, limit int) []game.EventRecord {
	if limit > 0 && len(records) > limit {
		records = records[len(records)-limit:]
	}
	out := make([]game.EventRecord, len(records))
	copy(out, records)
	return out
}
