package app

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/duelbot/dexduels/internal/engine"
	"github.com/duelbot/dexduels/internal/storage"
	"github.com/duelbot/dexduels/internal/venue"
	"github.com/duelbot/dexduels/pkg/config"
	"github.com/duelbot/dexduels/pkg/healthprobe"
	"github.com/duelbot/dexduels/pkg/httpserver"
)

// App is the main application orchestrator.
type App struct {
	cfg           *config.Config
	logger        *zap.Logger
	healthChecker *healthprobe.HealthChecker
	httpServer    *httpserver.Server
	registry      *venue.Registry
	store         storage.Store
	engine        *engine.Engine
	ctx           context.Context
	cancel        context.CancelFunc
	wg            sync.WaitGroup
}

// Registry exposes the configured venues, used by operator commands.
func (a *App) Registry() *venue.Registry {
	return a.registry
}

// Store exposes the order store, used by operator commands.
func (a *App) Store() storage.Store {
	return a.store
}
