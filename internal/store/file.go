package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"ventures/internal/game"
)

const (
	ventureFile = "venture.json"
	journalFile = "events.json"
)

// FileStore keeps the venture snapshot and the event journal as two JSON files in dir.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("file store: directory is required")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("file store: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (f *FileStore) Dir() string { return f.dir }

func (f *FileStore) Load(_ context.Context) (game.Venture, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	raw, err := os.ReadFile(filepath.Join(f.dir, ventureFile))
	if err != nil {
		if os.IsNotExist(err) {
			return game.Venture{}, game.ErrNoVenture
		}
		return game.Venture{}, err
	}
	if len(raw) == 0 {
		return game.Venture{}, game.ErrNoVenture
	}
	var v game.Venture
	if err := json.Unmarshal(raw, &v); err != nil {
		return game.Venture{}, fmt.Errorf("decode %s: %w", ventureFile, err)
	}
	return v, nil
}

// Save writes the snapshot first; a failed journal append leaves the new state in place.
func (f *FileStore) Save(_ context.Context, v game.Venture, events []game.EventRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := writeJSON(filepath.Join(f.dir, ventureFile), v); err != nil {
		return err
	}
	if len(events) == 0 {
		return nil
	}
	journal, err := f.loadJournal()
	if err != nil {
		return err
	}
	return writeJSON(filepath.Join(f.dir, journalFile), append(journal, events...))
}

func (f *FileStore) Events(_ context.Context, limit int) ([]game.EventRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	journal, err := f.loadJournal()
	if err != nil {
		return nil, err
	}
	return tail(journal, limit), nil
}

func (f *FileStore) Clear(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, name := range []string{ventureFile, journalFile} {
		if err := os.Remove(filepath.Join(f.dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}

func (f *FileStore) Close() error { return nil }

func (f *FileStore) loadJournal() ([]game.EventRecord, error) {
	raw, err := os.ReadFile(filepath.Join(f.dir, journalFile))
	if err != nil {
		if os.IsNotExist(err) {
			return []game.EventRecord{}, nil
		}
		return nil, err
	}
	if len(raw) == 0 {
		return []game.EventRecord{}, nil
	}
	var out []game.EventRecord
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", journalFile, err)
	}
	return out, nil
}

// writeJSON replaces path through a temp file so a crash never leaves half a document.
func writeJSON(path string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
