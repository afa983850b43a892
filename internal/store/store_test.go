package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ventures/internal/config"
	"ventures/internal/game"
)

func sampleVenture(t *testing.T) game.Venture {
	t.Helper()
	e := game.Engine{Rand: game.NewRandSource(3)}
	v, err := game.NewVenture("Store Co", game.StartupFinTech, game.PathBankLoan)
	require.NoError(t, err)
	v, _, err = e.StartHiring(v, "Designer", 6000)
	require.NoError(t, err)
	for i := 0; i < 12; i++ {
		v, _ = e.AdvanceDay(v)
	}
	return v
}

func records(day int, msgs ...string) []game.EventRecord {
	out := make([]game.EventRecord, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, game.EventRecord{Day: day, Message: m, Severity: game.SeverityInfo, At: time.Now().UTC()})
	}
	return out
}

func messages(recs []game.EventRecord) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Message)
	}
	return out
}

// exerciseStore is the behavior every backend shares.
func exerciseStore(t *testing.T, s Store) {
	ctx := context.Background()

	_, err := s.Load(ctx)
	require.ErrorIs(t, err, game.ErrNoVenture)

	v := sampleVenture(t)
	require.NoError(t, s.Save(ctx, v, records(1, "founded")))
	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, v, got)

	v.Cash -= 100
	v.Day++
	require.NoError(t, s.Save(ctx, v, records(v.Day, "second", "third")))
	require.NoError(t, s.Save(ctx, v, nil))
	got, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, v.Cash, got.Cash)

	all, err := s.Events(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"founded", "second", "third"}, messages(all))
	assert.Equal(t, game.SeverityInfo, all[0].Severity)

	recent, err := s.Events(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"second", "third"}, messages(recent))
	assert.Equal(t, v.Day, recent[1].Day)

	require.NoError(t, s.Clear(ctx))
	_, err = s.Load(ctx)
	require.ErrorIs(t, err, game.ErrNoVenture)
	all, err = s.Events(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	v := sampleVenture(t)
	require.NoError(t, s.Save(ctx, v, nil))

	v.Features[0].Status = game.FeatureLive
	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, game.FeatureLive, got.Features[0].Status)

	got.Team = append(got.Team, game.Employee{ID: "x"})
	again, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, again.Team, len(v.Team))
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(filepath.Join(t.TempDir(), "vt"))
	require.NoError(t, err)
	exerciseStore(t, s)
}

func TestFileStorePersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	first, err := NewFileStore(dir)
	require.NoError(t, err)
	v := sampleVenture(t)
	require.NoError(t, first.Save(ctx, v, records(v.Day, "saved")))

	second, err := NewFileStore(dir)
	require.NoError(t, err)
	got, err := second.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, v, got)

	info, err := os.Stat(filepath.Join(dir, ventureFile))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileStoreCorruptSnapshot(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ventureFile), []byte("{"), 0o600))
	s, err := NewFileStore(dir)
	require.NoError(t, err)
	_, err = s.Load(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, game.ErrNoVenture)
}

func TestSQLiteStore(t *testing.T) {
	s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "ventures.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	exerciseStore(t, s)
}

func TestPostgresStore(t *testing.T) {
	url := os.Getenv("VENTURES_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("VENTURES_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	s, err := OpenPostgres(ctx, url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Clear(ctx))
	exerciseStore(t, s)
}

func TestOpenSelectsDriver(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := Open(ctx, config.StoreConfig{Driver: config.StoreMemory}, nil)
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = Open(ctx, config.StoreConfig{Driver: config.StoreFile, DataDir: dir}, nil)
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)

	s, err = Open(ctx, config.StoreConfig{Driver: config.StoreSQLite, SQLitePath: filepath.Join(dir, "v.db")}, nil)
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	require.NoError(t, s.Close())

	_, err = Open(ctx, config.StoreConfig{Driver: "etcd"}, nil)
	require.Error(t, err)
}
