package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ventures/internal/api"
	"ventures/internal/config"
	"ventures/internal/game"
	"ventures/internal/store"
)

func newRemote(t *testing.T) *Client {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := game.NewService(store.NewMemoryStore(), game.Engine{Rand: game.NewRandSource(1)}, logger)
	srv := httptest.NewServer(api.New(config.APIConfig{Token: "tok"}, logger, svc).Handler())
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", "tok")
}

func TestClientRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := newRemote(t)

	_, err := c.Dashboard(ctx)
	require.ErrorIs(t, err, game.ErrNoVenture)

	res, err := c.NewVenture(ctx, "Remote Co", game.StartupAIML, game.PathAccelerator)
	require.NoError(t, err)
	assert.Equal(t, 93.0, res.Venture.Equity)

	res, err = c.StartHiring(ctx, "Marketer", 5000)
	require.NoError(t, err)
	require.Len(t, res.Venture.HiringQueue, 1)

	res, err = c.AdvanceDays(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, res.Venture.Team, 1)

	_, err = c.DevelopFeature(ctx, "api")
	require.ErrorIs(t, err, game.ErrInvalidTransition)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 409, apiErr.Status)

	_, err = c.RunCampaign(ctx, "paid")
	require.ErrorIs(t, err, game.ErrChannelLocked)

	events, err := c.Events(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, events, 3)

	cat, err := c.Catalog(ctx)
	require.NoError(t, err)
	assert.Len(t, cat.StartingPaths, 5)

	require.NoError(t, c.Wipe(ctx))
	_, err = c.Dashboard(ctx)
	require.ErrorIs(t, err, game.ErrNoVenture)
}

func TestClientBadToken(t *testing.T) {
	c := newRemote(t)
	c.Token = "wrong"
	_, err := c.Catalog(context.Background())
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 401, apiErr.Status)
	assert.Nil(t, apiErr.Unwrap())
}

func TestUpdateProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, SetRemote(path, "http://api.test", "abc"))

	cfg, err := config.LoadCLI(path)
	require.NoError(t, err)
	assert.True(t, cfg.UseRemote())
	assert.Equal(t, "abc", cfg.APIToken)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	require.NoError(t, UpdateProfile(path, func(c *config.CLIConfig) { c.Store.Driver = "sqlite" }))
	require.NoError(t, ClearRemote(path))
	cfg, err = config.LoadCLI(path)
	require.NoError(t, err)
	assert.False(t, cfg.UseRemote())
	assert.Equal(t, "sqlite", cfg.Store.Driver)
}
