package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/duelbot/dexduels/pkg/config"
	"github.com/duelbot/dexduels/pkg/types"
)

func paperConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg, err := config.LoadFromEnv()
	require.NoError(t, err)
	require.Equal(t, "paper", cfg.ExecutionMode)
	require.Equal(t, "memory", cfg.StorageMode)
	return cfg
}

func TestSetupVenuesPaperMode(t *testing.T) {
	cfg := paperConfig(t)
	registry, err := SetupVenues(cfg, zap.NewNop())
	require.NoError(t, err)

	venues := registry.Venues()
	require.Len(t, venues, len(cfg.VenueNames))
	for i, v := range venues {
		assert.Equal(t, cfg.VenueNames[i], v.Name())
	}
	assert.Len(t, registry.Duels(), 1)

	// The skew separates the two paper books enough to cross.
	pair := types.Pair{Base: cfg.BaseSymbol, Quote: cfg.QuoteSymbols[0]}
	a, err := venues[0].GetQuotes(context.Background(), pair, 1)
	require.NoError(t, err)
	b, err := venues[1].GetQuotes(context.Background(), pair, 1)
	require.NoError(t, err)
	assert.Greater(t, b.Bid, a.Ask, "paper venues should disagree enough to duel")
}

func TestSetupStoreMemoryMode(t *testing.T) {
	cfg := paperConfig(t)
	store, err := SetupStore(cfg, zap.NewNop())
	require.NoError(t, err)
	defer store.Close()

	orders, err := store.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestNewPaperApp(t *testing.T) {
	cfg := paperConfig(t)
	application, err := New(cfg, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, application)

	assert.NotNil(t, application.Registry())
	assert.NotNil(t, application.Store())
}
