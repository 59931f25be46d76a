package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/duelbot/dexduels/internal/duel"
	"github.com/duelbot/dexduels/internal/engine"
	"github.com/duelbot/dexduels/internal/execution"
	"github.com/duelbot/dexduels/internal/storage"
	"github.com/duelbot/dexduels/internal/venue"
	"github.com/duelbot/dexduels/pkg/cache"
	"github.com/duelbot/dexduels/pkg/config"
	"github.com/duelbot/dexduels/pkg/healthprobe"
	"github.com/duelbot/dexduels/pkg/httpserver"
	"github.com/duelbot/dexduels/pkg/types"
	"github.com/duelbot/dexduels/pkg/wallet"
)

// New creates a new application instance.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	ctx, cancel := context.WithCancel(context.Background())

	healthChecker := healthprobe.New()

	store, err := setupStore(cfg, logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup store: %w", err)
	}

	registry, err := SetupVenues(cfg, logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup venues: %w", err)
	}

	duelEngine := setupEngine(cfg, logger, registry, store)

	httpServer := httpserver.New(&httpserver.Config{
		Port:          cfg.HTTPPort,
		Logger:        logger,
		HealthChecker: healthChecker,
		Store:         store,
	})

	return &App{
		cfg:           cfg,
		logger:        logger,
		healthChecker: healthChecker,
		httpServer:    httpServer,
		registry:      registry,
		store:         store,
		engine:        duelEngine,
		ctx:           ctx,
		cancel:        cancel,
	}, nil
}

// SetupStore builds the configured order store. Exported for operator
// commands that need store access without a full App.
func SetupStore(cfg *config.Config, logger *zap.Logger) (storage.Store, error) {
	return setupStore(cfg, logger)
}

func setupStore(cfg *config.Config, logger *zap.Logger) (storage.Store, error) {
	if cfg.StorageMode == "postgres" {
		pgStore, err := storage.NewPostgresStore(&storage.PostgresConfig{
			Host:     cfg.PostgresHost,
			Port:     cfg.PostgresPort,
			User:     cfg.PostgresUser,
			Password: cfg.PostgresPass,
			Database: cfg.PostgresDB,
			SSLMode:  cfg.PostgresSSL,
			Logger:   logger,
		})
		if err != nil {
			return nil, fmt.Errorf("create postgres store: %w", err)
		}
		return pgStore, nil
	}

	return storage.NewMemoryStore(logger), nil
}

// SetupVenues builds the configured venue set: simulated venues in paper
// mode, router-backed venues in live mode. Exported for operator commands.
func SetupVenues(cfg *config.Config, logger *zap.Logger) (*venue.Registry, error) {
	if cfg.ExecutionMode == "paper" {
		return setupPaperVenues(cfg, logger)
	}
	return setupLiveVenues(cfg, logger)
}

func setupPaperVenues(cfg *config.Config, logger *zap.Logger) (*venue.Registry, error) {
	prices := map[string]float64{cfg.BaseSymbol: cfg.PaperBasePrice}
	for _, sym := range cfg.TokenSymbols() {
		if sym != cfg.BaseSymbol {
			prices[sym] = 1.0
		}
	}

	venues := make([]venue.Venue, 0, len(cfg.VenueNames))
	for i, name := range cfg.VenueNames {
		// A per-venue skew makes the simulated venues disagree, so paper
		// mode occasionally has something to trade.
		venues = append(venues, venue.NewPaper(&venue.PaperConfig{
			Name:      name,
			Prices:    prices,
			SpreadBPS: 20,
			SkewBPS:   float64(i) * cfg.PaperSkewBPS,
			Logger:    logger,
		}))
	}

	return venue.NewRegistry(venues...)
}

func setupLiveVenues(cfg *config.Config, logger *zap.Logger) (*venue.Registry, error) {
	signer, err := wallet.NewSigner(cfg.WalletPrivateKey, cfg.ChainID, logger)
	if err != nil {
		return nil, fmt.Errorf("create signer: %w", err)
	}

	routeCache, err := cache.NewRistrettoCache(&cache.RistrettoConfig{
		NumCounters: 10000,
		MaxCost:     1000,
		BufferItems: 64,
		Logger:      logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create route cache: %w", err)
	}

	venues := make([]venue.Venue, 0, len(cfg.VenueNames))
	for _, name := range cfg.VenueNames {
		v, err := venue.NewUniswapV2(&venue.UniswapV2Config{
			Name:       name,
			RouterAddr: cfg.Routers[name],
			RPCURL:     cfg.RPCURL,
			Tokens:     cfg.Tokens,
			Connectors: cfg.ConnectorSymbols,
			Signer:     signer,
			RouteCache: routeCache,
			Logger:     logger,
		})
		if err != nil {
			return nil, fmt.Errorf("create venue %s: %w", name, err)
		}
		venues = append(venues, v)
	}

	return venue.NewRegistry(venues...)
}

func setupEngine(cfg *config.Config, logger *zap.Logger, registry *venue.Registry, store storage.Store) *engine.Engine {
	pairs := make([]types.Pair, 0, len(cfg.QuoteSymbols))
	for _, p := range cfg.Pairs() {
		pairs = append(pairs, types.Pair{Base: p[0], Quote: p[1]})
	}

	scanner := duel.NewScanner(duel.Config{
		Pairs:     pairs,
		Numeraire: cfg.NumeraireSymbol,
		BaseQty:   cfg.BaseQty,
		Threshold: cfg.TriggerProfitUSD,
		Logger:    logger,
	}, registry)

	coordinator := execution.New(&execution.Config{
		Registry:   registry,
		Store:      store,
		HedgeDelay: cfg.HedgeDelay,
		Logger:     logger,
	})

	recovery := execution.NewRecovery(registry, store, logger)

	return engine.New(&engine.Config{
		Scanner:     scanner,
		Coordinator: coordinator,
		Recovery:    recovery,
		Interval:    cfg.ScanInterval,
		Logger:      logger,
	})
}
